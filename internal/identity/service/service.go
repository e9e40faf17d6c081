// Package service orchestrates registration, login, and session resolution.
// Transport concerns (cookies, redirects, form parsing) stay in the handler;
// storage details stay behind the store interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mssola/useragent"

	"biblio/internal/identity/credentials"
	"biblio/internal/identity/models"
	sessionstore "biblio/internal/identity/store/session"
	userstore "biblio/internal/identity/store/user"
	"biblio/internal/platform/metrics"
	dErrors "biblio/pkg/domain-errors"
	"biblio/pkg/forms"
	"biblio/pkg/platform/audit"
	"biblio/pkg/platform/sentinel"
	"biblio/pkg/requestcontext"
)

type Service struct {
	users      userstore.Store
	sessions   sessionstore.Store
	verifier   CredentialVerifier
	hasher     *credentials.Hasher
	audit      *audit.Recorder
	logger     *slog.Logger
	metrics    *metrics.Metrics
	sessionTTL time.Duration
}

func New(
	users userstore.Store,
	sessions sessionstore.Store,
	hasher *credentials.Hasher,
	recorder *audit.Recorder,
	logger *slog.Logger,
	m *metrics.Metrics,
	sessionTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		verifier:   NewVerifier(users, hasher, logger),
		hasher:     hasher,
		audit:      recorder,
		logger:     logger,
		metrics:    m,
		sessionTTL: sessionTTL,
	}
}

// Register validates and persists a new identity. A non-empty forms.Errors
// return means nothing was persisted and the form should be re-rendered with
// those messages. The plaintext is transformed into a salted hash before the
// record is built; the store never sees it.
func (s *Service) Register(ctx context.Context, username, password string) (forms.Errors, error) {
	var errs forms.Errors
	username = errs.Required("username", username, "username must be not empty")
	if strings.TrimSpace(password) == "" {
		errs.Add("password", "password must be not empty")
	}
	if errs.HasErrors() {
		return errs, nil
	}

	// Pre-check gives the friendly message; the unique index has the final
	// word when two registrations race.
	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		errs.Add("username", "Username already used")
		return errs, nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "username lookup failed")
	}

	hash, salt, err := s.hasher.Hash(password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "credential derivation failed")
	}

	newUser := models.User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.users.Create(ctx, newUser); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			errs.Add("username", "Username already used")
			return errs, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "user creation failed")
	}

	s.metrics.RegistrationsTotal.Inc()
	s.audit.Record(ctx, audit.ActionUserRegistered, username)
	s.logger.InfoContext(ctx, "user registered",
		"username", username,
		"request_id", requestcontext.RequestID(ctx),
	)
	return nil, nil
}

// Login verifies the credentials and, on success, attaches the identity to a
// fresh session persisted before the caller issues its redirect. The returned
// session carries the token for the cookie. Failure is ErrBadCredentials for
// both unknown users and wrong passwords.
func (s *Service) Login(ctx context.Context, username, password string) (models.Session, error) {
	u, err := s.verifier.Verify(ctx, strings.TrimSpace(username), password)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			s.metrics.LoginFailed()
			s.audit.Record(ctx, audit.ActionLoginFailed, strings.TrimSpace(username))
			s.logger.WarnContext(ctx, "login failed",
				"request_id", requestcontext.RequestID(ctx),
			)
		}
		return models.Session{}, err
	}

	// A fresh token on every login; the anonymous token from before the login
	// is never promoted, which also rules out session fixation.
	now := requestcontext.Now(ctx)
	sess := models.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		Device:    deviceName(requestcontext.UserAgent(ctx)),
		IP:        requestcontext.ClientIP(ctx),
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	if err := s.sessions.Save(ctx, sess, s.sessionTTL); err != nil {
		return models.Session{}, dErrors.Wrap(err, dErrors.CodeInternal, "session save failed")
	}

	s.metrics.LoginSucceeded()
	s.audit.Record(ctx, audit.ActionLoginSucceeded, u.Username)
	s.logger.InfoContext(ctx, "login succeeded",
		"username", u.Username,
		"request_id", requestcontext.RequestID(ctx),
	)
	return sess, nil
}

// Resolve maps a session token to its principal for the authentication gate.
// Missing, expired, or dangling sessions (the referenced identity no longer
// exists) resolve to unauthenticated, never to an error; only infrastructure
// failures are returned.
func (s *Service) Resolve(ctx context.Context, token string) (requestcontext.Principal, bool, error) {
	if token == "" {
		return requestcontext.Principal{}, false, nil
	}
	sess, err := s.sessions.Find(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return requestcontext.Principal{}, false, nil
		}
		return requestcontext.Principal{}, false, fmt.Errorf("resolve session: %w", err)
	}
	if !sess.Authenticated() {
		return requestcontext.Principal{}, false, nil
	}
	u, err := s.users.FindByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			// Identity deleted out from under the session: silently demote.
			return requestcontext.Principal{}, false, nil
		}
		return requestcontext.Principal{}, false, fmt.Errorf("resolve session user: %w", err)
	}
	return requestcontext.Principal{
		UserID:       u.ID,
		Username:     u.Username,
		SessionToken: sess.Token,
	}, true, nil
}

// Logout invalidates the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "session delete failed")
	}
	s.audit.Record(ctx, audit.ActionLogout, "")
	return nil
}

// deviceName condenses a User-Agent header into the short label shown on the
// session record.
func deviceName(rawUA string) string {
	if rawUA == "" {
		return "unknown"
	}
	ua := useragent.New(rawUA)
	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser != "" && os != "":
		return browser + " on " + os
	case browser != "":
		return browser
	case os != "":
		return os
	default:
		return "unknown"
	}
}
