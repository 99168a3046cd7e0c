package purchase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickloot/backend/internal/ledger"
	"github.com/quickloot/backend/internal/models"
	"github.com/quickloot/backend/internal/render"
)

type fakeBalances struct {
	balance int64
	err     error
	calls   int
}

func (f *fakeBalances) Balance(ctx context.Context, userID int) (int64, error) {
	f.calls++
	return f.balance, f.err
}

type fakeRenderer struct {
	err   error
	calls int
	last  render.Ticket
}

func (f *fakeRenderer) Render(t render.Ticket) ([]byte, error) {
	f.calls++
	f.last = t
	if f.err != nil {
		return nil, f.err
	}
	return []byte("png-bytes"), nil
}

type fakeBlobs struct {
	err   error
	calls int
	keys  []string
}

func (f *fakeBlobs) Put(ctx context.Context, key string, data []byte) error {
	f.calls++
	f.keys = append(f.keys, key)
	return f.err
}

type fakeLedger struct {
	err        error
	calls      int
	records    []ledger.Record
	priorTotal int64
	balance    int64
}

func (f *fakeLedger) Record(ctx context.Context, rec ledger.Record) (*ledger.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	f.records = append(f.records, rec)
	return &ledger.Receipt{
		PurchaseID: len(f.records),
		NewBalance: f.balance - rec.Price,
		GameTotal:  f.priorTotal + rec.Price,
	}, nil
}

func kingQueen() *models.Game {
	return &models.Game{
		GameKey:    "king-queen",
		Name:       "King & Queen",
		Category:   "monthly",
		CodePrefix: "KQ",
		Price:      1100,
	}
}

func newWorkflow(bal *fakeBalances, rnd *fakeRenderer, blobs *fakeBlobs, led *fakeLedger) *Workflow {
	return &Workflow{
		Balances: bal,
		Renderer: rnd,
		Blobs:    blobs,
		Ledger:   led,
		Now: func() time.Time {
			return time.Date(2024, 5, 10, 14, 3, 22, 0, time.UTC)
		},
	}
}

func sampleRequest() Request {
	return Request{
		Buyer:      Buyer{UserID: 1, UID: "u1", Email: "u1@example.com"},
		Game:       kingQueen(),
		TicketCode: 661112,
		Numbers:    []int{4, 17, 42, 88, 100},
	}
}

// Balance below price halts at CheckBalance: no render, no upload, no record.
func TestExecuteRejectsInsufficientBalance(t *testing.T) {
	bal := &fakeBalances{balance: 1099}
	rnd := &fakeRenderer{}
	blobs := &fakeBlobs{}
	led := &fakeLedger{}

	out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), sampleRequest())
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}
	if out.Status != StatusRejected {
		t.Errorf("Status=%s want %s", out.Status, StatusRejected)
	}
	if rnd.calls != 0 || blobs.calls != 0 || led.calls != 0 {
		t.Errorf("Rejected purchase touched later steps: render=%d upload=%d record=%d",
			rnd.calls, blobs.calls, led.calls)
	}
}

func TestExecuteSuccess(t *testing.T) {
	bal := &fakeBalances{balance: 2000}
	rnd := &fakeRenderer{}
	blobs := &fakeBlobs{}
	led := &fakeLedger{priorTotal: 5500, balance: 2000}

	out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), sampleRequest())
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if out.Status != StatusPurchased {
		t.Fatalf("Status=%s want %s", out.Status, StatusPurchased)
	}
	if out.Receipt.NewBalance != 900 {
		t.Errorf("NewBalance=%d want 900", out.Receipt.NewBalance)
	}
	if out.Receipt.GameTotal != 6600 {
		t.Errorf("GameTotal=%d want 6600 (prior 5500 + 1100)", out.Receipt.GameTotal)
	}

	// Upload key derives from buyer uid and a second-granularity timestamp
	if out.ImageKey != "u1/u1_14-03-22.png" {
		t.Errorf("ImageKey=%q", out.ImageKey)
	}
	if len(blobs.keys) != 1 || blobs.keys[0] != out.ImageKey {
		t.Errorf("Blob keys=%v", blobs.keys)
	}

	// Recorded row carries the rendered image path and the buyer identity
	if len(led.records) != 1 {
		t.Fatalf("Expected one ledger record, got %d", len(led.records))
	}
	rec := led.records[0]
	if rec.GameKey != "king-queen" || rec.TicketCode != 661112 || rec.BuyerUID != "u1" || rec.ImagePath != out.ImageKey {
		t.Errorf("Unexpected record: %+v", rec)
	}

	// Renderer saw the draw date one month after purchase
	if !rnd.last.DrawDate.Equal(time.Date(2024, 6, 10, 14, 3, 22, 0, time.UTC)) {
		t.Errorf("DrawDate=%v", rnd.last.DrawDate)
	}
}

func TestExecuteRenderFailureStopsBeforeUpload(t *testing.T) {
	bal := &fakeBalances{balance: 2000}
	rnd := &fakeRenderer{err: errors.New("layout not mounted")}
	blobs := &fakeBlobs{}
	led := &fakeLedger{}

	out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("Expected render error")
	}
	if out.Status != StatusFailed {
		t.Errorf("Status=%s want %s", out.Status, StatusFailed)
	}
	if blobs.calls != 0 || led.calls != 0 {
		t.Errorf("Failed render still reached upload=%d record=%d", blobs.calls, led.calls)
	}
}

func TestExecuteUploadFailureStopsBeforeRecord(t *testing.T) {
	bal := &fakeBalances{balance: 2000}
	rnd := &fakeRenderer{}
	blobs := &fakeBlobs{err: errors.New("store unavailable")}
	led := &fakeLedger{}

	out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), sampleRequest())
	if err == nil {
		t.Fatal("Expected upload error")
	}
	if out.Status != StatusFailed || led.calls != 0 {
		t.Errorf("Status=%s record calls=%d", out.Status, led.calls)
	}
}

// A concurrent buyer winning the same code surfaces as ErrTicketSold after
// upload; the image stays but no money moved.
func TestExecuteDuplicateCode(t *testing.T) {
	bal := &fakeBalances{balance: 2000}
	rnd := &fakeRenderer{}
	blobs := &fakeBlobs{}
	led := &fakeLedger{err: ledger.ErrTicketSold}

	out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), sampleRequest())
	if !errors.Is(err, ledger.ErrTicketSold) {
		t.Fatalf("Expected ErrTicketSold, got %v", err)
	}
	if out.Status != StatusFailed {
		t.Errorf("Status=%s want %s", out.Status, StatusFailed)
	}
	if out.ImageKey == "" {
		t.Errorf("Uploaded image key should be reported for diagnostics")
	}
}

// The authoritative debit can still refuse if the balance moved after the
// pre-check; that is a rejection, not a failure.
func TestExecuteDebitRaceRejects(t *testing.T) {
	bal := &fakeBalances{balance: 2000}
	rnd := &fakeRenderer{}
	blobs := &fakeBlobs{}
	led := &fakeLedger{err: ledger.ErrInsufficientFunds}

	out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), sampleRequest())
	if !errors.Is(err, ErrInsufficientBalance) {
		t.Fatalf("Expected ErrInsufficientBalance, got %v", err)
	}
	if out.Status != StatusRejected {
		t.Errorf("Status=%s want %s", out.Status, StatusRejected)
	}
}

// Sweep of balance/price pairs below the price: all reject, none proceed.
func TestExecuteRefusesAllUnderfundedPairs(t *testing.T) {
	prices := []int64{509, 1100}
	for _, price := range prices {
		for _, balance := range []int64{0, 1, price / 2, price - 1} {
			bal := &fakeBalances{balance: balance}
			rnd := &fakeRenderer{}
			blobs := &fakeBlobs{}
			led := &fakeLedger{}

			req := sampleRequest()
			req.Game.Price = price
			out, err := newWorkflow(bal, rnd, blobs, led).Execute(context.Background(), req)
			if !errors.Is(err, ErrInsufficientBalance) || out.Status != StatusRejected {
				t.Errorf("balance=%d price=%d: status=%s err=%v", balance, price, out.Status, err)
			}
			if rnd.calls+blobs.calls+led.calls != 0 {
				t.Errorf("balance=%d price=%d: later steps ran", balance, price)
			}
		}
	}
}
