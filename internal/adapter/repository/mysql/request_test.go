package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "approval-engine/internal/domain/request"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The domain model avoids MySQL-only column types, so the real schema
// migrates cleanly onto in-memory sqlite for tests.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.ApprovalRequest{}); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}
	return db
}

func makeRequest(number string) *domain.ApprovalRequest {
	return &domain.ApprovalRequest{
		RequestNumber: number,
		RequestType:   domain.TypeVenueBooking,
		Title:         "Book main auditorium",
		Priority:      domain.PriorityMedium,
		Requester:     domain.Requester{UserID: "u-100", Name: "Priya Nair", Email: "priya@example.edu"},
		ApprovalWorkflow: []domain.ApprovalLevel{
			{Level: 1, ApproverRole: "Department Head", Status: domain.LevelPending},
			{Level: 2, ApproverRole: "Director", Status: domain.LevelPending},
		},
		CurrentApprovalLevel: 1,
		OverallStatus:        domain.StatusPending,
		SubmittedAt:          time.Now().UTC(),
		Version:              1,
	}
}

func TestCreateAndGetByRequestNumber(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	r := makeRequest("APR-202603-00001")
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if r.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByRequestNumber(ctx, "APR-202603-00001")
	if err != nil {
		t.Fatalf("GetByRequestNumber: %v", err)
	}
	if got.RequestNumber != r.RequestNumber || got.Title != r.Title {
		t.Errorf("unexpected request: %+v", got)
	}
	if len(got.ApprovalWorkflow) != 2 || got.ApprovalWorkflow[1].ApproverRole != "Director" {
		t.Errorf("workflow did not round-trip: %+v", got.ApprovalWorkflow)
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
}

func TestGetByRequestNumber_NotFound(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)

	_, err := repo.GetByRequestNumber(context.Background(), "APR-209901-99999")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompareAndSwap_BumpsVersion(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	r := makeRequest("APR-202603-00002")
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	cur, err := repo.GetByRequestNumber(ctx, r.RequestNumber)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	next, err := cur.Approve(domain.ApproveAction{ApproverID: "u-1", ApproverName: "Head"}, time.Now().UTC())
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := repo.CompareAndSwap(ctx, &next); err != nil {
		t.Fatalf("CompareAndSwap: %v", err)
	}
	if next.Version != 2 {
		t.Errorf("in-memory version not bumped, got %d", next.Version)
	}

	got, err := repo.GetByRequestNumber(ctx, r.RequestNumber)
	if err != nil {
		t.Fatalf("re-get: %v", err)
	}
	if got.Version != 2 {
		t.Errorf("stored version = %d, want 2", got.Version)
	}
	if got.CurrentApprovalLevel != 2 || got.OverallStatus != domain.StatusUnderReview {
		t.Errorf("transition not persisted: level=%d status=%s", got.CurrentApprovalLevel, got.OverallStatus)
	}
	if got.ApprovalWorkflow[0].Status != domain.LevelApproved {
		t.Errorf("level 1 status = %s, want Approved", got.ApprovalWorkflow[0].Status)
	}
}

func TestCompareAndSwap_StaleVersionConflicts(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	r := makeRequest("APR-202603-00003")
	if err := repo.Create(ctx, r); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Two readers load the same version.
	a, _ := repo.GetByRequestNumber(ctx, r.RequestNumber)
	b, _ := repo.GetByRequestNumber(ctx, r.RequestNumber)

	nextA, err := a.Approve(domain.ApproveAction{ApproverID: "u-1"}, time.Now().UTC())
	if err != nil {
		t.Fatalf("approve a: %v", err)
	}
	if err := repo.CompareAndSwap(ctx, &nextA); err != nil {
		t.Fatalf("first CAS should win: %v", err)
	}

	nextB, err := b.Approve(domain.ApproveAction{ApproverID: "u-2"}, time.Now().UTC())
	if err != nil {
		t.Fatalf("approve b: %v", err)
	}
	if err := repo.CompareAndSwap(ctx, &nextB); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("second CAS: want ErrConflict, got %v", err)
	}

	// The loser re-reads and sees a single consistent advance.
	got, _ := repo.GetByRequestNumber(ctx, r.RequestNumber)
	if got.CurrentApprovalLevel != 2 {
		t.Fatalf("currentApprovalLevel = %d, want 2 (no double advance)", got.CurrentApprovalLevel)
	}
	if got.ApprovalWorkflow[0].ApproverID != "u-1" {
		t.Fatalf("winner's metadata lost: %+v", got.ApprovalWorkflow[0])
	}
}

func TestList_Filters(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	seed := func(number string, typ domain.RequestType, status domain.Status, userID string, age time.Duration) {
		r := makeRequest(number)
		r.RequestType = typ
		r.OverallStatus = status
		r.Requester.UserID = userID
		r.SubmittedAt = time.Now().UTC().Add(-age)
		if err := repo.Create(ctx, r); err != nil {
			t.Fatalf("seed %s: %v", number, err)
		}
	}
	seed("APR-202603-10001", domain.TypeVenueBooking, domain.StatusPending, "u-100", 3*time.Hour)
	seed("APR-202603-10002", domain.TypeBudgetApproval, domain.StatusPending, "u-200", 2*time.Hour)
	seed("APR-202603-10003", domain.TypeVenueBooking, domain.StatusApproved, "u-100", time.Hour)

	byStatus, err := repo.List(ctx, domain.Filter{Status: domain.StatusPending})
	if err != nil {
		t.Fatalf("List by status: %v", err)
	}
	if len(byStatus) != 2 {
		t.Fatalf("pending count = %d, want 2", len(byStatus))
	}
	// newest first
	if byStatus[0].RequestNumber != "APR-202603-10002" {
		t.Errorf("order wrong: %s first", byStatus[0].RequestNumber)
	}

	byType, err := repo.List(ctx, domain.Filter{RequestType: domain.TypeBudgetApproval})
	if err != nil {
		t.Fatalf("List by type: %v", err)
	}
	if len(byType) != 1 || byType[0].RequestNumber != "APR-202603-10002" {
		t.Fatalf("type filter wrong: %+v", byType)
	}

	byRequester, err := repo.List(ctx, domain.Filter{RequesterID: "u-100"})
	if err != nil {
		t.Fatalf("List by requester: %v", err)
	}
	if len(byRequester) != 2 {
		t.Fatalf("requester count = %d, want 2", len(byRequester))
	}
}

func TestCreate_DuplicateNumberRejected(t *testing.T) {
	db := openTestDB(t)
	repo := NewRequestRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, makeRequest("APR-202603-20001")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, makeRequest("APR-202603-20001")); err == nil {
		t.Fatalf("expected unique index violation on request_number")
	}
}
