package usecase

import (
	"context"
	"log"

	"tonotes/model"
)

type AccountService struct {
	Store    Store
	Identity IdentityProvider
}

func NewAccountService(store Store, identity IdentityProvider) *AccountService {
	return &AccountService{Store: store, Identity: identity}
}

// DeletionStatus counts the rows an account deletion would remove.
func (svc *AccountService) DeletionStatus(ctx context.Context, identity model.Identity) (*model.DataSummary, error) {
	notes, err := svc.Store.CountNotes(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	tags, err := svc.Store.CountTags(ctx, identity.UserID)
	if err != nil {
		return nil, err
	}
	return &model.DataSummary{
		Notes:      notes,
		Tags:       tags,
		TotalItems: notes + tags,
	}, nil
}

// DeleteAccount removes every row owned by the caller in one unit of work, then ends
// all of the caller's sessions.
func (svc *AccountService) DeleteAccount(ctx context.Context, identity model.Identity) error {
	err := svc.Store.RunInTx(ctx, func(ctx context.Context, tx Store) error {
		return tx.DeleteUserData(ctx, identity.UserID)
	})
	if err != nil {
		return err
	}

	if err := svc.Identity.SignOutEverywhere(ctx, identity.UserID); err != nil {
		// The data is gone; leftover sessions fail at GetUser once the user row is missing.
		log.Printf("Failed to revoke sessions for deleted user %s: %v", identity.UserID, err)
	}
	return nil
}
