package httpapi

import (
	"context"

	"healthwallet.org/internal/auth"
	"healthwallet.org/internal/records"
	"healthwallet.org/internal/sharing"
)

// StoreDirectory adapts the report and user stores to the lookup
// interface the in-memory grant store needs. The Postgres grant store
// does these joins in SQL and never uses it.
type StoreDirectory struct {
	Reports records.ReportStore
	Users   auth.Store
}

func (d StoreDirectory) ReportByID(ctx context.Context, id string) (sharing.Report, bool) {
	report, err := d.Reports.FindReport(ctx, id)
	if err != nil {
		return sharing.Report{}, false
	}
	return sharing.Report{
		ID:           report.ID,
		OwnerUserID:  report.OwnerUserID,
		Filename:     report.Filename,
		OriginalName: report.OriginalName,
		ReportType:   report.ReportType,
		Date:         report.Date,
	}, true
}

func (d StoreDirectory) UserByEmail(ctx context.Context, email string) (sharing.UserRef, bool) {
	user, err := d.Users.FindByEmail(ctx, email)
	if err != nil {
		return sharing.UserRef{}, false
	}
	return sharing.UserRef{ID: user.ID, Username: user.Username, Email: user.Email}, true
}

func (d StoreDirectory) UserByID(ctx context.Context, id string) (sharing.UserRef, bool) {
	user, err := d.Users.FindByID(ctx, id)
	if err != nil {
		return sharing.UserRef{}, false
	}
	return sharing.UserRef{ID: user.ID, Username: user.Username, Email: user.Email}, true
}
