package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"storefront/auth"
	"storefront/database"
	"storefront/models"
	"storefront/util"
)

// RegisterInput is the body of the user and admin registration routes.
type RegisterInput struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address"`
	Password string `json:"password" binding:"required"`
}

// AccountService manages the users and admins collections. Both hold the
// same document shape; role picks the collection.
type AccountService struct {
	store   database.Store
	users   database.Collection
	admins  database.Collection
	carts   database.Collection
	timeout time.Duration
	logger  *zap.Logger
}

// NewAccountService bounds every store call by timeout.
func NewAccountService(store database.Store, timeout time.Duration) *AccountService {
	return &AccountService{
		store:   store,
		users:   store.Collection(database.Users),
		admins:  store.Collection(database.Admins),
		carts:   store.Collection(database.Carts),
		timeout: timeout,
		logger:  util.GetLogger(),
	}
}

func (s *AccountService) collection(role string) (database.Collection, error) {
	switch role {
	case models.RoleUser:
		return s.users, nil
	case models.RoleAdmin:
		return s.admins, nil
	}
	return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
}

// Register stores a new account after an existence check. The check and the
// insert are separate calls, so two concurrent registrations of one email can
// both succeed.
func (s *AccountService) Register(ctx context.Context, role string, in RegisterInput) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coll, err := s.collection(role)
	if err != nil {
		return nil, err
	}

	n, err := coll.Count(ctx, bson.M{"email": in.Email})
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmailTaken, in.Email)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	acct := &models.Account{
		ID:       uuid.New().String(),
		Username: in.Username,
		Email:    in.Email,
		Address:  in.Address,
		Password: hash,
		IsAdmin:  role == models.RoleAdmin,
	}
	if err := coll.Insert(ctx, acct); err != nil {
		return nil, fmt.Errorf("insert %s: %w", role, err)
	}

	s.logger.Info("Account registered", zap.String("role", role), zap.String("id", acct.ID))
	return acct, nil
}

// List pages through the accounts of role.
func (s *AccountService) List(ctx context.Context, role string, page Page) (*Listing[models.Account], error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coll, err := s.collection(role)
	if err != nil {
		return nil, err
	}
	return listPage[models.Account](ctx, coll, bson.M{}, page)
}

// Get finds an account by email or returns ErrAccountNotFound.
func (s *AccountService) Get(ctx context.Context, role, email string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coll, err := s.collection(role)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, coll, email)
}

func (s *AccountService) find(ctx context.Context, coll database.Collection, email string) (*models.Account, error) {
	var acct models.Account
	err := coll.FindOne(ctx, bson.M{"email": email}, &acct)
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// UpdateAddress replaces the address and returns the updated account.
func (s *AccountService) UpdateAddress(ctx context.Context, role, email, address string) (*models.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coll, err := s.collection(role)
	if err != nil {
		return nil, err
	}

	matched, err := coll.Update(ctx, bson.M{"email": email}, bson.M{"address": address}, false)
	if err != nil {
		return nil, fmt.Errorf("update address: %w", err)
	}
	if matched == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, email)
	}
	return s.find(ctx, coll, email)
}

// Delete removes an account. A deleted user's cart goes with it; their
// orders stay for the record.
func (s *AccountService) Delete(ctx context.Context, role, email string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	coll, err := s.collection(role)
	if err != nil {
		return err
	}
	acct, err := s.find(ctx, coll, email)
	if err != nil {
		return err
	}

	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if _, err := coll.Delete(ctx, bson.M{"email": email}); err != nil {
			return fmt.Errorf("delete %s: %w", role, err)
		}
		if role == models.RoleUser {
			if _, err := s.carts.Delete(ctx, bson.M{"user_id": acct.ID}); err != nil {
				return fmt.Errorf("delete cart: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Account deleted", zap.String("role", role), zap.String("id", acct.ID))
	return nil
}
