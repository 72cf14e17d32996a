package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"toystore/internal/domain"
	identitysvc "toystore/internal/service/identity"
)

type registrar interface {
	Register(ctx context.Context, in identitysvc.RegisterInput) (*domain.User, error)
}

var demoUsers = []identitysvc.RegisterInput{
	{
		FirstName:        "Demo",
		LastName:         "Parent",
		Email:            "parent@toystore.local",
		Phone:            "0601234567",
		Address:          "Demo Street 1",
		FavoriteToyTypes: []int{1, 2},
		Username:         "demoparent",
		Password:         "demo123",
		ConfirmPassword:  "demo123",
	},
	{
		FirstName:        "Demo",
		LastName:         "Grandparent",
		Email:            "grandparent@toystore.local",
		Phone:            "0607654321",
		Address:          "Demo Street 2",
		FavoriteToyTypes: []int{3},
		Username:         "demogrand",
		Password:         "demo456",
		ConfirmPassword:  "demo456",
	},
}

// Apply registers the demo accounts for manual testing. Accounts that already
// exist are left alone, so it is safe to run repeatedly.
func Apply(ctx context.Context, users registrar, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	for _, in := range demoUsers {
		u, err := users.Register(ctx, in)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyExists) {
				logger.Printf("seed: user %s already present", in.Username)
				continue
			}
			return fmt.Errorf("register %s: %w", in.Username, err)
		}
		logger.Printf("seed: registered user id=%d username=%s", u.ID, u.Username)
	}
	return nil
}
