package certificatestore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/globalclassrooms/classhub/internal/app/store/certificatestore"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func TestIssueAndVerify(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := certificatestore.New(db)
	recipient := primitive.NewObjectID()
	issuer := primitive.NewObjectID()

	cert, err := store.Issue(ctx, models.Certificate{
		RecipientID:     recipient,
		CertificateType: models.CertProjectCompletion,
		Title:           "River Cleanup Completion",
		Description:     "For completing the river cleanup project.",
		IssuedBy:        issuer,
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if cert.VerificationCode == "" {
		t.Fatal("no verification code assigned")
	}
	if cert.BackgroundColor == "" {
		t.Error("no default background color")
	}

	got, err := store.GetByCode(ctx, cert.VerificationCode)
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got.ID != cert.ID {
		t.Error("verification resolved the wrong certificate")
	}

	if _, err := store.GetByCode(ctx, "not-a-real-code"); !errors.Is(err, certificatestore.ErrNotFound) {
		t.Errorf("bogus code err = %v, want ErrNotFound", err)
	}
}

func TestListByRecipient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := certificatestore.New(db)
	recipient := primitive.NewObjectID()
	issuer := primitive.NewObjectID()

	for _, title := range []string{"Honor Roll", "Collaboration Award"} {
		if _, err := store.Issue(ctx, models.Certificate{
			RecipientID:     recipient,
			CertificateType: models.CertHonor,
			Title:           title,
			IssuedBy:        issuer,
		}); err != nil {
			t.Fatalf("Issue: %v", err)
		}
	}
	if _, err := store.Issue(ctx, models.Certificate{
		RecipientID:     primitive.NewObjectID(),
		CertificateType: models.CertHonor,
		Title:           "Someone Else's",
		IssuedBy:        issuer,
	}); err != nil {
		t.Fatalf("Issue: %v", err)
	}

	_, total, err := store.ListByRecipient(ctx, recipient, paging.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("ListByRecipient: %v", err)
	}
	if total != 2 {
		t.Errorf("recipient total = %d, want 2", total)
	}

	_, total, err = store.ListByIssuer(ctx, issuer, paging.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("ListByIssuer: %v", err)
	}
	if total != 3 {
		t.Errorf("issuer total = %d, want 3", total)
	}
}

func TestRevoke(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := certificatestore.New(db)
	cert, err := store.Issue(ctx, models.Certificate{
		RecipientID:     primitive.NewObjectID(),
		CertificateType: models.CertLeadership,
		Title:           "Leadership Award",
		IssuedBy:        primitive.NewObjectID(),
	})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	if err := store.Revoke(ctx, cert.ID); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := store.GetByID(ctx, cert.ID); !errors.Is(err, certificatestore.ErrNotFound) {
		t.Errorf("revoked lookup err = %v, want ErrNotFound", err)
	}
	if err := store.Revoke(ctx, cert.ID); !errors.Is(err, certificatestore.ErrNotFound) {
		t.Errorf("double revoke err = %v, want ErrNotFound", err)
	}
}
