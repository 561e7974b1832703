package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tonotes/model"
	"tonotes/testutils"
	"tonotes/usecase"
)

func seedAccount(t *testing.T, store *testutils.MemStore, identity model.Identity) {
	t.Helper()
	ctx := context.Background()
	if err := store.CreateUser(ctx, &model.User{ID: identity.UserID, Email: identity.Email}); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	notes := newNotesService(store)
	tags := usecase.NewTagsService(store)

	note, err := notes.CreateNote(ctx, identity, usecase.CreateNoteInput{Title: "one"})
	if err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if _, err := notes.CreateNote(ctx, identity, usecase.CreateNoteInput{Title: "two"}); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}
	if _, err := tags.CreateTag(ctx, identity, "tag", note.ID); err != nil {
		t.Fatalf("CreateTag failed: %v", err)
	}
}

func TestDeletionStatus(t *testing.T) {
	store := testutils.NewMemStore()
	seedAccount(t, store, alice)
	seedAccount(t, store, bob)

	svc := usecase.NewAccountService(store, testutils.NewStubIdentity())
	summary, err := svc.DeletionStatus(context.Background(), alice)
	if err != nil {
		t.Fatalf("DeletionStatus failed: %v", err)
	}
	if summary.Notes != 2 || summary.Tags != 1 || summary.TotalItems != 3 {
		t.Errorf("unexpected summary %+v", summary)
	}
}

func TestDeleteAccount(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemStore()
	seedAccount(t, store, alice)
	seedAccount(t, store, bob)

	identity := testutils.NewStubIdentity()
	svc := usecase.NewAccountService(store, identity)

	if err := svc.DeleteAccount(ctx, alice); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	if n, _ := store.CountNotes(ctx, alice.UserID); n != 0 {
		t.Errorf("expected alice's notes gone, have %d", n)
	}
	if n, _ := store.CountTags(ctx, alice.UserID); n != 0 {
		t.Errorf("expected alice's tags gone, have %d", n)
	}
	if _, err := store.GetUserByID(ctx, alice.UserID); err == nil {
		t.Error("expected alice's user row to be gone")
	}
	if n, _ := store.CountNotes(ctx, bob.UserID); n != 2 {
		t.Errorf("bob's notes were touched, have %d", n)
	}
	if len(identity.Revoked) != 1 || identity.Revoked[0] != alice.UserID {
		t.Errorf("expected alice's sessions revoked, got %v", identity.Revoked)
	}
}

func TestDeleteAccountRollsBack(t *testing.T) {
	ctx := context.Background()
	store := testutils.NewMemStore()
	seedAccount(t, store, alice)
	store.FailOn["DeleteUserData"] = errors.New("connection reset")

	identity := testutils.NewStubIdentity()
	svc := usecase.NewAccountService(store, identity)

	if err := svc.DeleteAccount(ctx, alice); err == nil {
		t.Fatal("expected an error")
	}
	if n, _ := store.CountNotes(ctx, alice.UserID); n != 2 {
		t.Errorf("expected data untouched, have %d notes", n)
	}
	if len(identity.Revoked) != 0 {
		t.Error("sessions must not be revoked when the deletion failed")
	}
}
