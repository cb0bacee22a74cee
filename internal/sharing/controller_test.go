package sharing

import (
	"context"
	"errors"
	"testing"
)

type fakeDirectory struct {
	reports map[string]Report
	users   map[string]UserRef
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		reports: make(map[string]Report),
		users:   make(map[string]UserRef),
	}
}

func (d *fakeDirectory) addUser(u UserRef)  { d.users[u.ID] = u }
func (d *fakeDirectory) addReport(r Report) { d.reports[r.ID] = r }

func (d *fakeDirectory) ReportByID(_ context.Context, id string) (Report, bool) {
	r, ok := d.reports[id]
	return r, ok
}

func (d *fakeDirectory) UserByEmail(_ context.Context, email string) (UserRef, bool) {
	for _, u := range d.users {
		if u.Email == email {
			return u, true
		}
	}
	return UserRef{}, false
}

func (d *fakeDirectory) UserByID(_ context.Context, id string) (UserRef, bool) {
	u, ok := d.users[id]
	return u, ok
}

func newTestController(t *testing.T) (*Controller, *fakeDirectory) {
	t.Helper()
	dir := newFakeDirectory()
	ctrl, err := NewController(NewInMemory(dir))
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	dir.addUser(UserRef{ID: "owner-1", Username: "alice", Email: "a@x.com"})
	dir.addUser(UserRef{ID: "grantee-1", Username: "bob", Email: "b@x.com"})
	dir.addReport(Report{ID: "rep-1", OwnerUserID: "owner-1", OriginalName: "blood.pdf", ReportType: "blood_test", Date: "2026-01-15"})
	return ctrl, dir
}

func TestCanReadOwnerWithoutGrantLookup(t *testing.T) {
	// a store that errors on every call proves ownership short-circuits
	ctrl, err := NewController(&failingStore{})
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	ok, err := ctrl.CanRead(context.Background(), "owner-1", Report{ID: "rep-1", OwnerUserID: "owner-1"})
	if err != nil || !ok {
		t.Fatalf("owner read: ok=%v err=%v", ok, err)
	}
}

type failingStore struct{}

func (failingStore) GrantExists(context.Context, string, string) (bool, error) {
	return false, errors.New("store should not be consulted")
}
func (failingStore) CreateGrant(context.Context, string, string, string, AccessType) (ShareGrant, error) {
	return ShareGrant{}, errors.New("unexpected")
}
func (failingStore) DeleteGrantOwnedBy(context.Context, string, string) error {
	return errors.New("unexpected")
}
func (failingStore) GrantsForOwner(context.Context, string) ([]OwnerGrant, error) {
	return nil, errors.New("unexpected")
}
func (failingStore) GrantsForGrantee(context.Context, string) ([]SharedReport, error) {
	return nil, errors.New("unexpected")
}

func TestShareGrantsReadAccess(t *testing.T) {
	ctrl, dir := newTestController(t)
	ctx := context.Background()
	report := dir.reports["rep-1"]

	ok, err := ctrl.CanRead(ctx, "grantee-1", report)
	if err != nil || ok {
		t.Fatalf("read before share: ok=%v err=%v", ok, err)
	}

	grant, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", "")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if grant.Access != AccessRead {
		t.Fatalf("expected read access, got %s", grant.Access)
	}
	if grant.GranteeUserID != "grantee-1" {
		t.Fatalf("grantee not resolved by email: %+v", grant)
	}

	ok, err = ctrl.CanRead(ctx, "grantee-1", report)
	if err != nil || !ok {
		t.Fatalf("read after share: ok=%v err=%v", ok, err)
	}
}

func TestShareFailureOrdering(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	// unknown report wins over everything else
	if _, err := ctrl.Share(ctx, "owner-1", "missing", "ghost@x.com", ""); !errors.Is(err, ErrReportNotFound) {
		t.Fatalf("expected ErrReportNotFound, got %v", err)
	}
	// non-owner beats unknown grantee
	if _, err := ctrl.Share(ctx, "grantee-1", "rep-1", "ghost@x.com", ""); !errors.Is(err, ErrNotOwner) {
		t.Fatalf("expected ErrNotOwner, got %v", err)
	}
	// unknown grantee beats duplicate
	if _, err := ctrl.Share(ctx, "owner-1", "rep-1", "ghost@x.com", ""); !errors.Is(err, ErrGranteeNotFound) {
		t.Fatalf("expected ErrGranteeNotFound, got %v", err)
	}
	if _, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", ""); err != nil {
		t.Fatalf("Share: %v", err)
	}
	if _, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", ""); !errors.Is(err, ErrAlreadyShared) {
		t.Fatalf("expected ErrAlreadyShared, got %v", err)
	}
}

func TestShareRejectsUnknownAccessType(t *testing.T) {
	ctrl, _ := newTestController(t)
	if _, err := ctrl.Share(context.Background(), "owner-1", "rep-1", "b@x.com", "write"); !errors.Is(err, ErrUnsupportedAccess) {
		t.Fatalf("expected ErrUnsupportedAccess, got %v", err)
	}
}

func TestShareNormalizesGranteeEmail(t *testing.T) {
	ctrl, _ := newTestController(t)
	grant, err := ctrl.Share(context.Background(), "owner-1", "rep-1", "  B@X.com ", "read")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if grant.GranteeUserID != "grantee-1" {
		t.Fatalf("email not normalized before lookup: %+v", grant)
	}
}

func TestRevokeRemovesAccess(t *testing.T) {
	ctrl, dir := newTestController(t)
	ctx := context.Background()
	report := dir.reports["rep-1"]

	grant, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", "")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if err := ctrl.Revoke(ctx, "owner-1", grant.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}

	ok, err := ctrl.CanRead(ctx, "grantee-1", report)
	if err != nil || ok {
		t.Fatalf("read after revoke: ok=%v err=%v", ok, err)
	}

	// second revoke of the same grant looks like it never existed
	if err := ctrl.Revoke(ctx, "owner-1", grant.ID); !errors.Is(err, ErrGrantNotFound) {
		t.Fatalf("expected ErrGrantNotFound, got %v", err)
	}
}

func TestRevokeByNonOwnerLooksLikeMissingGrant(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	grant, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", "")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	err = ctrl.Revoke(ctx, "grantee-1", grant.ID)
	if !errors.Is(err, ErrGrantNotFound) {
		t.Fatalf("expected ErrGrantNotFound, got %v", err)
	}
	// grant survives the failed revoke
	ok, err := ctrl.CanRead(ctx, "grantee-1", Report{ID: "rep-1", OwnerUserID: "owner-1"})
	if err != nil || !ok {
		t.Fatalf("grant should survive: ok=%v err=%v", ok, err)
	}
}

func TestReShareAfterRevoke(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	first, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", "")
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if err := ctrl.Revoke(ctx, "owner-1", first.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	second, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", "")
	if err != nil {
		t.Fatalf("re-share after revoke: %v", err)
	}
	if second.ID == first.ID {
		t.Fatal("re-share must mint a fresh grant id")
	}
}

func TestListGrantsJoinViews(t *testing.T) {
	ctrl, _ := newTestController(t)
	ctx := context.Background()

	if _, err := ctrl.Share(ctx, "owner-1", "rep-1", "b@x.com", ""); err != nil {
		t.Fatalf("Share: %v", err)
	}

	owned, err := ctrl.ListGrantsForOwner(ctx, "owner-1")
	if err != nil {
		t.Fatalf("ListGrantsForOwner: %v", err)
	}
	if len(owned) != 1 || owned[0].GranteeEmail != "b@x.com" || owned[0].ReportName != "blood.pdf" {
		t.Fatalf("unexpected owner view: %+v", owned)
	}

	shared, err := ctrl.ListSharedWith(ctx, "grantee-1")
	if err != nil {
		t.Fatalf("ListSharedWith: %v", err)
	}
	if len(shared) != 1 || shared[0].OwnerUsername != "alice" || shared[0].ReportType != "blood_test" {
		t.Fatalf("unexpected grantee view: %+v", shared)
	}

	empty, err := ctrl.ListSharedWith(ctx, "owner-1")
	if err != nil || len(empty) != 0 {
		t.Fatalf("owner has nothing shared with them: %+v err=%v", empty, err)
	}
}
