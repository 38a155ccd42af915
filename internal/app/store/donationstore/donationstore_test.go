package donationstore_test

import (
	"errors"
	"testing"

	"github.com/globalclassrooms/classhub/internal/app/store/donationstore"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func TestCreateStartsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := donationstore.New(db)
	d, err := store.Create(ctx, models.Donation{
		DonorName:     "Dana Donor",
		DonorEmail:    "Dana@Example.COM",
		Amount:        50,
		PaymentMethod: "card",
		Purpose:       "trees",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.PaymentStatus != models.PaymentPending {
		t.Errorf("status = %q, want pending", d.PaymentStatus)
	}
	if d.DonorEmail != "dana@example.com" {
		t.Errorf("email not normalized: %q", d.DonorEmail)
	}
}

func TestTransitionLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := donationstore.New(db)
	d, err := store.Create(ctx, models.Donation{DonorName: "Dana", DonorEmail: "d@example.com", Amount: 10, PaymentMethod: "paypal", Purpose: "general"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// pending cannot be refunded
	if err := store.Transition(ctx, d.ID, models.PaymentRefunded, ""); !errors.Is(err, donationstore.ErrBadTransition) {
		t.Errorf("pending->refunded err = %v, want ErrBadTransition", err)
	}

	if err := store.Transition(ctx, d.ID, models.PaymentCompleted, "pay_123"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	got, err := store.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.PaymentID != "pay_123" {
		t.Errorf("payment id = %q, want pay_123", got.PaymentID)
	}
	if got.ProcessedAt == nil {
		t.Error("processed_at not set on completion")
	}

	// double webhook
	if err := store.Transition(ctx, d.ID, models.PaymentCompleted, "pay_123"); !errors.Is(err, donationstore.ErrBadTransition) {
		t.Errorf("repeat completion err = %v, want ErrBadTransition", err)
	}

	if err := store.Transition(ctx, d.ID, models.PaymentRefunded, ""); err != nil {
		t.Fatalf("refund: %v", err)
	}
}

func TestListCompletedHidesPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := donationstore.New(db)
	if _, err := store.Create(ctx, models.Donation{DonorName: "A", DonorEmail: "a@example.com", Amount: 5, PaymentMethod: "card", Purpose: "general"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	d, err := store.Create(ctx, models.Donation{DonorName: "B", DonorEmail: "b@example.com", Amount: 25, PaymentMethod: "card", Purpose: "trees"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.Transition(ctx, d.ID, models.PaymentCompleted, "pay_1"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	list, total, err := store.ListCompleted(ctx, paging.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("ListCompleted: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("completed total = %d len = %d, want 1/1", total, len(list))
	}
	if list[0].ID != d.ID {
		t.Error("wrong donation listed")
	}
}

func TestCompletedStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := donationstore.New(db)
	for _, amount := range []float64{10, 30} {
		d, err := store.Create(ctx, models.Donation{DonorName: "D", DonorEmail: "d@example.com", Amount: amount, PaymentMethod: "card", Purpose: "general"})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		if err := store.Transition(ctx, d.ID, models.PaymentCompleted, ""); err != nil {
			t.Fatalf("complete: %v", err)
		}
	}

	stats, err := store.CompletedStats(ctx)
	if err != nil {
		t.Fatalf("CompletedStats: %v", err)
	}
	if stats.TotalAmount != 40 || stats.Count != 2 || stats.Average != 20 {
		t.Errorf("stats = %+v, want total 40, count 2, average 20", stats)
	}
}

func TestCompletedStatsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := donationstore.New(db)
	stats, err := store.CompletedStats(ctx)
	if err != nil {
		t.Fatalf("CompletedStats: %v", err)
	}
	if stats.Count != 0 || stats.TotalAmount != 0 {
		t.Errorf("stats = %+v, want zero value", stats)
	}
}
