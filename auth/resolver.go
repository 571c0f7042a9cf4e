package auth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"storefront/database"
	"storefront/models"
	"storefront/util"
)

var (
	ErrUnauthorized   = errors.New("could not validate credentials")
	ErrForbidden      = errors.New("forbidden! you are not authorized to access this API")
	ErrBadCredentials = errors.New("incorrect email or password")
)

// Resolver turns access tokens into stored principals. Nothing is cached:
// every call re-reads the credential collections.
type Resolver struct {
	tokens *TokenService
	users  database.Collection
	admins database.Collection
	logger *zap.Logger
}

func NewResolver(tokens *TokenService, store database.Store) *Resolver {
	return &Resolver{
		tokens: tokens,
		users:  store.Collection(database.Users),
		admins: store.Collection(database.Admins),
		logger: util.GetLogger(),
	}
}

func (r *Resolver) credentials(role string) database.Collection {
	switch role {
	case models.RoleUser:
		return r.users
	case models.RoleAdmin:
		return r.admins
	}
	return nil
}

// ResolvePrincipal validates token and loads the account it names from the
// collection matching its role.
func (r *Resolver) ResolvePrincipal(ctx context.Context, token string) (models.Principal, error) {
	claims, err := r.tokens.Validate(token)
	if err != nil {
		util.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, ErrUnauthorized
	}
	if claims.Email == "" || claims.Role == "" {
		util.AuthFailuresTotal.WithLabelValues("missing_claims").Inc()
		return nil, ErrUnauthorized
	}

	coll := r.credentials(claims.Role)
	if coll == nil {
		util.AuthFailuresTotal.WithLabelValues("unknown_role").Inc()
		return nil, ErrUnauthorized
	}

	var acct models.Account
	err = coll.FindOne(ctx, bson.M{"email": claims.Email}, &acct)
	if errors.Is(err, database.ErrNotFound) {
		util.AuthFailuresTotal.WithLabelValues("unknown_principal").Inc()
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("load %s %q: %w", claims.Role, claims.Email, err)
	}
	return models.NewPrincipal(claims.Role, acct), nil
}

// RequireAdmin passes admins through. Authenticated non-admins get
// ErrForbidden, never ErrUnauthorized.
func (r *Resolver) RequireAdmin(p models.Principal) (models.Principal, error) {
	if p == nil || !p.IsAdmin() {
		util.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
		return nil, ErrForbidden
	}
	return p, nil
}

// Authenticate checks email and password against users first, then admins,
// and issues a token carrying the matching role.
func (r *Resolver) Authenticate(ctx context.Context, email, password string) (string, error) {
	for _, role := range []string{models.RoleUser, models.RoleAdmin} {
		var acct models.Account
		err := r.credentials(role).FindOne(ctx, bson.M{"email": email}, &acct)
		if errors.Is(err, database.ErrNotFound) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("load %s %q: %w", role, email, err)
		}
		if !CheckPassword(acct.Password, password) {
			continue
		}

		token, _, err := r.tokens.Issue(acct.Email, role, 0)
		if err != nil {
			return "", err
		}
		util.TokensIssuedTotal.WithLabelValues(role).Inc()
		r.logger.Debug("Access token issued", zap.String("email", acct.Email), zap.String("role", role))
		return token, nil
	}

	util.AuthFailuresTotal.WithLabelValues("bad_credentials").Inc()
	return "", ErrBadCredentials
}
