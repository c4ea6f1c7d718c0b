package services_test

import (
	"testing"

	"golang.org/x/crypto/bcrypt"

	"extranet/internal/repos"
	"extranet/internal/services"
)

func TestProfileService_UpdateIdentity(t *testing.T) {
	db := memdb(t)
	svc := services.NewProfileService(repos.NewUserRepo(db), t.TempDir())

	// taking another user's email is refused
	if err := svc.UpdateIdentity("u-claire", "Claire", "henri@extranet.test"); err != services.ErrEmailTaken {
		t.Fatalf("want ErrEmailTaken, got %v", err)
	}

	// re-submitting one's own email is a no-op, not a conflict
	if err := svc.UpdateIdentity("u-claire", "Claire M.", "claire@extranet.test"); err != nil {
		t.Fatal(err)
	}

	u, err := repos.NewUserRepo(db).ByID("u-claire")
	if err != nil {
		t.Fatal(err)
	}
	if u.Name != "Claire M." {
		t.Fatalf("name not updated: %+v", u)
	}
}

func TestProfileService_ChangePassword(t *testing.T) {
	db := memdb(t)
	users := repos.NewUserRepo(db)
	svc := services.NewProfileService(users, t.TempDir())

	if err := svc.ChangePassword("u-claire", "NewPass123", "Different"); err != services.ErrPasswordMismatch {
		t.Fatalf("want ErrPasswordMismatch, got %v", err)
	}
	if err := svc.ChangePassword("u-claire", "short", "short"); err != services.ErrPasswordTooShort {
		t.Fatalf("want ErrPasswordTooShort, got %v", err)
	}

	if err := svc.ChangePassword("u-claire", "NewPass123", "NewPass123"); err != nil {
		t.Fatal(err)
	}
	u, err := users.ByID("u-claire")
	if err != nil {
		t.Fatal(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte("NewPass123")) != nil {
		t.Fatal("new password does not validate")
	}
}
