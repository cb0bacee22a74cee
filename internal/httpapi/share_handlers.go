package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"healthwallet.org/internal/sharing"
)

type shareRequest struct {
	ReportID     string `json:"report_id"`
	GranteeEmail string `json:"grantee_email"`
	AccessType   string `json:"access_type"`
}

func (a *API) handleShareCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createShare(w, r)
	case http.MethodGet:
		a.listMyGrants(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleShareResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/share/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if path == "shared-with-me" {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, http.MethodGet)
			return
		}
		a.listSharedWithMe(w, r)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodDelete {
		methodNotAllowed(w, r, http.MethodDelete)
		return
	}
	a.revokeShare(w, r, path)
}

func (a *API) createShare(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req shareRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.ReportID) == "" {
		writeError(w, r, http.StatusBadRequest, "report_id is required")
		return
	}
	if strings.TrimSpace(req.GranteeEmail) == "" {
		writeError(w, r, http.StatusBadRequest, "grantee_email is required")
		return
	}

	grant, err := a.shares.Share(r.Context(), identity.UserID, req.ReportID, req.GranteeEmail, req.AccessType)
	if err != nil {
		handleSharingError(w, r, err)
		return
	}

	a.audit(r.Context(), "share.grant", map[string]any{
		"grant_id":  grant.ID,
		"report_id": grant.ReportID,
		"grantee":   grant.GranteeUserID,
	})
	w.Header().Set("Location", "/v1/share/"+grant.ID)
	writeJSON(w, http.StatusCreated, grant)
}

func (a *API) listMyGrants(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	grants, err := a.shares.ListGrantsForOwner(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": grants})
}

func (a *API) revokeShare(w http.ResponseWriter, r *http.Request, grantID string) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	if err := a.shares.Revoke(r.Context(), identity.UserID, grantID); err != nil {
		handleSharingError(w, r, err)
		return
	}
	a.audit(r.Context(), "share.revoke", map[string]any{"grant_id": grantID})
	w.WriteHeader(http.StatusNoContent)
}

func handleSharingError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sharing.ErrUnsupportedAccess):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, sharing.ErrAlreadyShared):
		writeError(w, r, http.StatusConflict, "report already shared with this user")
	case errors.Is(err, sharing.ErrReportNotFound),
		errors.Is(err, sharing.ErrNotOwner),
		errors.Is(err, sharing.ErrGranteeNotFound),
		errors.Is(err, sharing.ErrGrantNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
