package httpapi

import (
	"net/http"
	"strings"

	"healthwallet.org/internal/records"
)

type createVitalRequest struct {
	VitalType string `json:"vital_type"`
	Value     string `json:"value"`
	Date      string `json:"date"`
}

type updateVitalRequest struct {
	Value string `json:"value"`
	Date  string `json:"date"`
}

func (a *API) handleVitalsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createVital(w, r)
	case http.MethodGet:
		a.listVitals(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleVitalResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/vitals/"), "/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	switch r.Method {
	case http.MethodPut:
		a.updateVital(w, r, path)
	case http.MethodDelete:
		a.deleteVital(w, r, path)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodDelete)
	}
}

func (a *API) createVital(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req createVitalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	vital, err := a.records.AddVital(r.Context(), identity.UserID, req.VitalType, req.Value, req.Date)
	if err != nil {
		handleRecordsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vital)
}

func (a *API) listVitals(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	filter := records.VitalFilter{
		Type:  strings.TrimSpace(q.Get("type")),
		Start: strings.TrimSpace(q.Get("start_date")),
		End:   strings.TrimSpace(q.Get("end_date")),
	}
	vitals, err := a.records.ListVitals(r.Context(), identity.UserID, filter)
	if err != nil {
		handleRecordsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": vitals})
}

func (a *API) updateVital(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req updateVitalRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	vital, err := a.records.UpdateVital(r.Context(), identity.UserID, id, req.Value, req.Date)
	if err != nil {
		handleRecordsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vital)
}

func (a *API) deleteVital(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	if err := a.records.DeleteVital(r.Context(), identity.UserID, id); err != nil {
		handleRecordsError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
