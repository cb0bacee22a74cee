package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"healthwallet.org/internal/records"
	"healthwallet.org/internal/sharing"
)

type createReportRequest struct {
	OriginalName string `json:"original_name"`
	ReportType   string `json:"report_type"`
	Date         string `json:"report_date"`
	Vitals       string `json:"vitals"`
}

func (a *API) handleReportsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createReport(w, r)
	case http.MethodGet:
		a.listReports(w, r)
	default:
		methodNotAllowed(w, r, http.MethodPost, http.MethodGet)
	}
}

func (a *API) handleReportResource(w http.ResponseWriter, r *http.Request) {
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/reports/"), "/")
	if path == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if path == "shared" {
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
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	a.getReport(w, r, path)
}

func (a *API) createReport(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	var req createReportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	report, err := a.records.CreateReport(r.Context(), identity.UserID, req.OriginalName, req.ReportType, req.Date, req.Vitals)
	if err != nil {
		handleRecordsError(w, r, err)
		return
	}

	a.audit(r.Context(), "report.create", map[string]any{
		"report_id":   report.ID,
		"report_type": report.ReportType,
	})
	w.Header().Set("Location", "/v1/reports/"+report.ID)
	writeJSON(w, http.StatusCreated, report)
}

func (a *API) listReports(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	reports, err := a.records.ListReports(r.Context(), identity.UserID)
	if err != nil {
		handleRecordsError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": reports})
}

// getReport serves a single report to its owner or to a user holding a
// share grant. Everyone else sees the same 404 a missing report gives.
func (a *API) getReport(w http.ResponseWriter, r *http.Request, id string) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	report, err := a.records.GetReport(r.Context(), id)
	if err != nil {
		handleRecordsError(w, r, err)
		return
	}

	allowed, err := a.shares.CanRead(r.Context(), identity.UserID, sharing.Report{
		ID:          report.ID,
		OwnerUserID: report.OwnerUserID,
	})
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	if !allowed {
		a.audit(r.Context(), "report.read.denied", map[string]any{"report_id": id})
		writeError(w, r, http.StatusNotFound, "report not found")
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) listSharedWithMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := a.identity(w, r)
	if !ok {
		return
	}
	shared, err := a.shares.ListSharedWith(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": shared})
}

func handleRecordsError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, records.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, records.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
