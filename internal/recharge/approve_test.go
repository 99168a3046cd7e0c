package recharge

import (
	"context"
	"errors"
	"testing"

	"github.com/quickloot/backend/internal/models"
)

// fakeApprovalStore tracks every call so tests can assert the flow credits
// exactly once with exactly the requested amount.
type fakeApprovalStore struct {
	request *models.RechargeRequest
	lockErr error
	markErr error

	balance     int64
	markCalls   int
	creditCalls int
	credited    []int64
	creditedIDs []int
	reviewer    string
}

func (f *fakeApprovalStore) LockPending(ctx context.Context, id int) (*models.RechargeRequest, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	return f.request, nil
}

func (f *fakeApprovalStore) MarkApproved(ctx context.Context, id int, reviewer, note string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.markCalls++
	f.reviewer = reviewer
	f.request.Status = StatusApproved
	return nil
}

func (f *fakeApprovalStore) CreditWallet(ctx context.Context, userID int, amount int64, requestID int, memo string) (int64, error) {
	f.creditCalls++
	f.credited = append(f.credited, amount)
	f.creditedIDs = append(f.creditedIDs, requestID)
	// A user whose registration never created a wallet starts from zero,
	// the store creates the row on first credit
	f.balance += amount
	return f.balance, nil
}

func pendingRequest() *models.RechargeRequest {
	return &models.RechargeRequest{ID: 7, UserID: 3, Amount: 2500, UTRNumber: "UTR123456", Status: StatusPending}
}

func TestApproveCreditsExactAmountOnce(t *testing.T) {
	store := &fakeApprovalStore{request: pendingRequest()}

	newBalance, err := Approve(context.Background(), store, 7, "admin", "verified transfer")
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if store.creditCalls != 1 {
		t.Fatalf("Credit calls=%d want exactly 1", store.creditCalls)
	}
	if store.credited[0] != 2500 {
		t.Errorf("Credited amount=%d want 2500", store.credited[0])
	}
	if store.creditedIDs[0] != 7 {
		t.Errorf("Credit reference=%d want request id 7", store.creditedIDs[0])
	}
	if newBalance != 2500 {
		t.Errorf("New balance=%d want 2500 (wallet starts empty)", newBalance)
	}
	if store.markCalls != 1 || store.reviewer != "admin" {
		t.Errorf("Status flip calls=%d reviewer=%q", store.markCalls, store.reviewer)
	}
}

// The second approval of the same request finds it no longer PENDING and
// must credit nothing.
func TestApproveSecondTimeConflictsWithoutCredit(t *testing.T) {
	store := &fakeApprovalStore{request: pendingRequest()}

	if _, err := Approve(context.Background(), store, 7, "admin", ""); err != nil {
		t.Fatalf("First approve failed: %v", err)
	}
	_, err := Approve(context.Background(), store, 7, "other-admin", "")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("Expected ErrAlreadyReviewed, got %v", err)
	}
	if store.creditCalls != 1 {
		t.Errorf("Credit calls=%d after double approve, want 1", store.creditCalls)
	}
	if store.markCalls != 1 {
		t.Errorf("Status flips=%d after double approve, want 1", store.markCalls)
	}
}

func TestApproveRejectedRequestConflicts(t *testing.T) {
	req := pendingRequest()
	req.Status = StatusRejected
	store := &fakeApprovalStore{request: req}

	_, err := Approve(context.Background(), store, 7, "admin", "")
	if !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("Expected ErrAlreadyReviewed, got %v", err)
	}
	if store.creditCalls != 0 {
		t.Errorf("Rejected request was credited %d time(s)", store.creditCalls)
	}
}

func TestApproveMissingRequest(t *testing.T) {
	store := &fakeApprovalStore{lockErr: ErrNotFound}

	_, err := Approve(context.Background(), store, 99, "admin", "")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	if store.creditCalls != 0 || store.markCalls != 0 {
		t.Errorf("Missing request still moved: mark=%d credit=%d", store.markCalls, store.creditCalls)
	}
}

// A failed status flip stops the flow before any money moves
func TestApproveMarkFailureStopsBeforeCredit(t *testing.T) {
	store := &fakeApprovalStore{request: pendingRequest(), markErr: errors.New("deadlock detected")}

	_, err := Approve(context.Background(), store, 7, "admin", "")
	if err == nil {
		t.Fatal("Expected mark error")
	}
	if store.creditCalls != 0 {
		t.Errorf("Credit calls=%d after mark failure, want 0", store.creditCalls)
	}
}
