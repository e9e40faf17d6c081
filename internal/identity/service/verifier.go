package service

import (
	"context"
	"errors"
	"log/slog"

	"biblio/internal/identity/credentials"
	"biblio/internal/identity/models"
	"biblio/internal/identity/store/user"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

// CredentialVerifier checks a submitted username/password pair against stored
// identities. A single concrete strategy is all the application needs; the
// interface exists so handler tests can substitute outcomes.
type CredentialVerifier interface {
	Verify(ctx context.Context, username, password string) (models.User, error)
}

// ErrBadCredentials is returned for unknown usernames and wrong passwords
// alike, so responses cannot be used to enumerate accounts.
var ErrBadCredentials = dErrors.New(dErrors.CodeUnauthorized, "Invalid username or password")

type verifier struct {
	users  user.Store
	hasher *credentials.Hasher
	logger *slog.Logger
}

// NewVerifier builds the store-backed verification strategy.
func NewVerifier(users user.Store, hasher *credentials.Hasher, logger *slog.Logger) CredentialVerifier {
	return &verifier{users: users, hasher: hasher, logger: logger}
}

func (v *verifier) Verify(ctx context.Context, username, password string) (models.User, error) {
	u, err := v.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.User{}, ErrBadCredentials
		}
		return models.User{}, dErrors.Wrap(err, dErrors.CodeInternal, "credential lookup failed")
	}

	if err := v.hasher.Verify(password, u.PasswordHash, u.Salt); err != nil {
		if !errors.Is(err, credentials.ErrMismatch) {
			// Internal derivation failure. Defined behavior is a non-match,
			// but it is logged apart from ordinary wrong-password noise.
			v.logger.ErrorContext(ctx, "password comparison failed internally",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return models.User{}, ErrBadCredentials
	}
	return u, nil
}
