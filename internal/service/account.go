package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ma1k10/Airplanes-Repository/internal/model"
	"github.com/Ma1k10/Airplanes-Repository/internal/repository"
	"github.com/Ma1k10/Airplanes-Repository/internal/utils"
)

// Accounts creates user accounts.  Passenger accounts are created together
// with their profile so a passenger can book right after signing up.
type Accounts struct {
	store      Store
	bcryptCost int
}

func NewAccounts(store Store, bcryptCost int) *Accounts {
	return &Accounts{store: store, bcryptCost: bcryptCost}
}

// Signup creates a PASSENGER account and its linked profile in one
// transaction.
func (a *Accounts) Signup(ctx context.Context, in SignupInput) (model.User, model.Passenger, error) {
	in, err := ValidateSignup(in)
	if err != nil {
		return model.User{}, model.Passenger{}, err
	}
	hash, err := utils.HashPassword(in.Password, a.bcryptCost)
	if err != nil {
		return model.User{}, model.Passenger{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{Email: in.Email, PasswordHash: hash, Role: model.RolePassenger}
	p := in.Passenger.passenger()
	err = a.store.InTx(ctx, func(tx repository.Tx) error {
		if err := insertUser(ctx, tx, &u); err != nil {
			return err
		}
		p.UserID = &u.ID
		return createPassenger(ctx, tx, &p)
	})
	if err != nil {
		return model.User{}, model.Passenger{}, err
	}
	return u, p, nil
}

// CreateAccount creates an account without a passenger profile.  It is
// used for staff accounts.
func (a *Accounts) CreateAccount(ctx context.Context, in AccountInput) (model.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if err := check(in); err != nil {
		return model.User{}, err
	}
	hash, err := utils.HashPassword(in.Password, a.bcryptCost)
	if err != nil {
		return model.User{}, fmt.Errorf("hash password: %w", err)
	}
	u := model.User{Email: in.Email, PasswordHash: hash, Role: in.Role}
	err = a.store.InTx(ctx, func(tx repository.Tx) error {
		return insertUser(ctx, tx, &u)
	})
	if err != nil {
		return model.User{}, err
	}
	return u, nil
}

func insertUser(ctx context.Context, tx repository.Tx, u *model.User) error {
	taken, err := tx.UserEmailTaken(ctx, u.Email)
	if err != nil {
		return err
	}
	if taken {
		return fmt.Errorf("%s: %w", u.Email, repository.ErrEmailExists)
	}
	return tx.InsertUser(ctx, u)
}
