package userstore_test

import (
	"errors"
	"testing"

	"github.com/globalclassrooms/classhub/internal/app/store/userstore"
	"github.com/globalclassrooms/classhub/internal/app/system/indexes"
	"github.com/globalclassrooms/classhub/internal/app/system/paging"
	"github.com/globalclassrooms/classhub/internal/domain/models"
	"github.com/globalclassrooms/classhub/internal/testutil"
)

func TestCreateAndLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)

	u, err := store.Create(ctx, models.User{
		Email:        "Ada@Example.COM",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Role:         models.RoleTeacher,
		SignupMethod: models.SignupEmail,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Email != "ada@example.com" {
		t.Errorf("email not normalized: %q", u.Email)
	}
	if u.Username != "ada@example.com" {
		t.Errorf("default username = %q, want email", u.Username)
	}
	if !u.IsActive {
		t.Error("new user should be active")
	}

	got, err := store.GetByEmail(ctx, "ADA@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != u.ID {
		t.Errorf("lookup returned wrong user")
	}
}

func TestCreateDuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll: %v", err)
	}

	store := userstore.New(db)
	if _, err := store.Create(ctx, models.User{Email: "dup@example.com", FirstName: "A", LastName: "B"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	_, err := store.Create(ctx, models.User{Email: "DUP@example.com", FirstName: "C", LastName: "D"})
	if !errors.Is(err, userstore.ErrDuplicateUser) {
		t.Errorf("err = %v, want ErrDuplicateUser", err)
	}
}

func TestWalletLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u, err := store.Create(ctx, models.User{
		WalletAddress: "0xAb5801a7D398351b8bE11C439e05C5B3259aeC9B",
		SignupMethod:  models.SignupWallet,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if u.Username != u.WalletAddress {
		t.Errorf("wallet signup username = %q, want wallet address", u.Username)
	}

	got, err := store.GetByWallet(ctx, "0xAB5801A7D398351B8BE11C439E05C5B3259AEC9B")
	if err != nil {
		t.Fatalf("GetByWallet: %v", err)
	}
	if got.ID != u.ID {
		t.Error("wallet lookup returned wrong user")
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u, err := store.Create(ctx, models.User{Email: "p@example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.SetPassword(ctx, u.ID, "correct horse battery"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	got, err := store.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if err := store.CheckPassword(got, "correct horse battery"); err != nil {
		t.Errorf("CheckPassword with right password: %v", err)
	}
	if err := store.CheckPassword(got, "wrong"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("CheckPassword with wrong password err = %v, want ErrBadCredentials", err)
	}
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	store := &userstore.Store{}
	u := &models.User{}
	if err := store.CheckPassword(u, "anything"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("err = %v, want ErrBadCredentials for passwordless account", err)
	}
}

func TestListWithSearch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	names := [][2]string{{"Ada", "Lovelace"}, {"Alan", "Turing"}, {"Grace", "Hopper"}}
	for i, n := range names {
		_, err := store.Create(ctx, models.User{
			Email:     string(rune('a'+i)) + "@example.com",
			FirstName: n[0],
			LastName:  n[1],
			Role:      models.RoleStudent,
		})
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	users, total, err := store.List(ctx, userstore.ListFilter{Query: "a"}, paging.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Errorf("total = %d, want 2 (Ada, Alan)", total)
	}
	if len(users) != 2 {
		t.Errorf("results = %d, want 2", len(users))
	}

	users, total, err = store.List(ctx, userstore.ListFilter{Role: models.RoleTeacher}, paging.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("List by role: %v", err)
	}
	if total != 0 || len(users) != 0 {
		t.Errorf("teacher filter matched %d users, want 0", total)
	}
}

func TestSetActiveHidesFromList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	store := userstore.New(db)
	u, err := store.Create(ctx, models.User{Email: "gone@example.com", FirstName: "Gone", LastName: "Soon"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := store.SetActive(ctx, u.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}

	_, total, err := store.List(ctx, userstore.ListFilter{}, paging.Page{Number: 1, Size: 20})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Errorf("deactivated user still listed, total = %d", total)
	}
}
