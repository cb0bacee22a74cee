package httpapi

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestProtectedPathsRejectMissingToken(t *testing.T) {
	c := newTestAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/v1/reports"},
		{http.MethodPost, "/v1/share"},
		{http.MethodGet, "/v1/share/shared-with-me"},
		{http.MethodGet, "/v1/vitals"},
	}
	for _, p := range paths {
		resp := c.do(p.method, p.path, nil, nil)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, resp.StatusCode)
		}
		if resp.Header.Get("WWW-Authenticate") == "" {
			t.Fatalf("%s %s: expected WWW-Authenticate header", p.method, p.path)
		}
		resp.Body.Close()
	}
}

func TestAuthFailuresAreUniform(t *testing.T) {
	c := newTestAPI(t)

	headers := []map[string]string{
		nil,
		{"Authorization": "Basic abc"},
		{"Authorization": "Bearer "},
		{"Authorization": "Bearer not-a-token"},
		{"Authorization": "Bearer a.b.c"},
	}
	var firstBody string
	for i, h := range headers {
		resp := c.get("/v1/reports", nil, h)
		if resp.StatusCode != http.StatusUnauthorized {
			t.Fatalf("case %d: expected 401, got %d", i, resp.StatusCode)
		}
		var payload map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			t.Fatalf("case %d: decode body: %v", i, err)
		}
		resp.Body.Close()
		msg, _ := payload["error"].(string)
		if msg == "" {
			t.Fatalf("case %d: expected error message", i)
		}
		if firstBody == "" {
			firstBody = msg
			continue
		}
		if msg != firstBody {
			t.Fatalf("case %d: failure reason leaks: %q vs %q", i, msg, firstBody)
		}
	}
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	c := newTestAPI(t)
	c.register("alice", "a@x.com", "secret1")
	token := c.login("a@x.com", "secret1")

	resp := c.get("/v1/reports", nil, bearerHeader(token+"x"))
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("tampered token: expected 401, got %d", resp.StatusCode)
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc", "abc", false},
		{"bearer abc", "abc", false},
		{"  Bearer   abc  ", "abc", false},
		{"", "", true},
		{"Bearer ", "", true},
		{"Basic abc", "", true},
	}
	for _, tc := range cases {
		got, err := extractBearerToken(tc.header)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tc.header)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Fatalf("%q: got %q err=%v", tc.header, got, err)
		}
	}
}
