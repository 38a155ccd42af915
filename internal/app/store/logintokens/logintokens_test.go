package logintokens_test

import (
	"errors"
	"testing"

	"github.com/globalclassrooms/classhub/internal/app/store/logintokens"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

const wallet = "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B"

func TestNonceRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := logintokens.New(db)

	n, err := store.CreateNonce(ctx, wallet, models.NoncePurposeSignIn)
	if err != nil {
		t.Fatalf("CreateNonce: %v", err)
	}
	if len(n.Nonce) != 32 {
		t.Errorf("nonce length = %d, want 32 hex chars", len(n.Nonce))
	}

	got, err := store.ConsumeNonce(ctx, wallet)
	if err != nil {
		t.Fatalf("ConsumeNonce: %v", err)
	}
	if got.Nonce != n.Nonce {
		t.Errorf("consumed nonce %q, want %q", got.Nonce, n.Nonce)
	}

	// single use
	if _, err := store.ConsumeNonce(ctx, wallet); !errors.Is(err, logintokens.ErrNonceNotFound) {
		t.Errorf("second consume err = %v, want ErrNonceNotFound", err)
	}
}

func TestNonceIsCaseInsensitiveOnAddress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := logintokens.New(db)

	if _, err := store.CreateNonce(ctx, wallet, models.NoncePurposeRegister); err != nil {
		t.Fatalf("CreateNonce: %v", err)
	}
	if _, err := store.ConsumeNonce(ctx, "0xab5801a7d398351b8be11c439e05c5b3259aec9b"); err != nil {
		t.Errorf("ConsumeNonce with lowercased address: %v", err)
	}
}

func TestCreateNonceReplacesOutstanding(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := logintokens.New(db)

	first, err := store.CreateNonce(ctx, wallet, models.NoncePurposeSignIn)
	if err != nil {
		t.Fatalf("CreateNonce: %v", err)
	}
	second, err := store.CreateNonce(ctx, wallet, models.NoncePurposeSignIn)
	if err != nil {
		t.Fatalf("second CreateNonce: %v", err)
	}
	if first.Nonce == second.Nonce {
		t.Fatal("expected a fresh nonce on reissue")
	}

	got, err := store.ConsumeNonce(ctx, wallet)
	if err != nil {
		t.Fatalf("ConsumeNonce: %v", err)
	}
	if got.Nonce != second.Nonce {
		t.Errorf("consumed nonce %q, want the replacement %q", got.Nonce, second.Nonce)
	}
}

func TestCodeRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := logintokens.New(db)

	code, err := store.CreateCode(ctx, "Student@Example.com")
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code %q is not 6 digits", code)
	}

	if err := store.VerifyCode(ctx, "student@example.com", code); err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}

	// single use
	if err := store.VerifyCode(ctx, "student@example.com", code); !errors.Is(err, logintokens.ErrCodeNotFound) {
		t.Errorf("second verify err = %v, want ErrCodeNotFound", err)
	}
}

func TestCodeWrongGuessesBurnTheCode(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := logintokens.New(db)

	code, err := store.CreateCode(ctx, "student@example.com")
	if err != nil {
		t.Fatalf("CreateCode: %v", err)
	}

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < logintokens.MaxCodeAttempts; i++ {
		if err := store.VerifyCode(ctx, "student@example.com", wrong); !errors.Is(err, logintokens.ErrCodeMismatch) {
			t.Fatalf("attempt %d err = %v, want ErrCodeMismatch", i+1, err)
		}
	}

	// even the right code is refused once the attempt budget is spent
	err = store.VerifyCode(ctx, "student@example.com", code)
	if !errors.Is(err, logintokens.ErrTooManyAttempts) && !errors.Is(err, logintokens.ErrCodeNotFound) {
		t.Errorf("post-burn verify err = %v, want ErrTooManyAttempts or ErrCodeNotFound", err)
	}
}

func TestVerifyCodeUnknownEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := logintokens.New(db)

	if err := store.VerifyCode(ctx, "nobody@example.com", "123456"); !errors.Is(err, logintokens.ErrCodeNotFound) {
		t.Errorf("err = %v, want ErrCodeNotFound", err)
	}
}
