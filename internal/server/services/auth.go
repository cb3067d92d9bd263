// Package services contains server-side business logic. This file implements
// AuthService, which sequences rate limiting, credential verification,
// account creation, and session issuance for the sign-in and sign-up flows.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/dmitrijs2005/authgate/internal/dbx"
	"github.com/dmitrijs2005/authgate/internal/logging"
	"github.com/dmitrijs2005/authgate/internal/server/auth"
	"github.com/dmitrijs2005/authgate/internal/server/config"
	"github.com/dmitrijs2005/authgate/internal/server/models"
	"github.com/dmitrijs2005/authgate/internal/server/ratelimit"
	"github.com/dmitrijs2005/authgate/internal/server/repositories/repomanager"
)

const maxUsernameLength = 100

// storeTimeout bounds every wait on a backing store so a slow dependency
// cannot exhaust request-handling capacity.
const storeTimeout = 5 * time.Second

// AuthService provides the authentication operations of the gateway:
//   - SignUp: throttle, uniqueness check, hash, create account, mint token
//   - SignIn: throttle, verify credentials, mint token
//   - Authenticate: verify a session token and resolve its account
//
// Sign-out needs no service method: the session is stateless, so revocation
// is the transport clearing the client cookie. A token stolen before
// sign-out stays cryptographically valid until it expires.
type AuthService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	limiter         *ratelimit.Limiter
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
	bcryptCost      int

	// dummyHash equalizes the unknown-username path with the wrong-password
	// path: both run one bcrypt comparison at the configured cost.
	dummyHash string
}

// NewAuthService constructs an AuthService using repositories, the rate
// limiter, and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, limiter *ratelimit.Limiter, logger logging.Logger, cfg *config.Config) (*AuthService, error) {
	dummy, err := auth.NewDummyHash(cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error preparing dummy hash: %w", err)
	}
	return &AuthService{
		db:              db,
		repomanager:     m,
		limiter:         limiter,
		logger:          logger.With("module", "auth_service"),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		bcryptCost:      cfg.BcryptCost,
		dummyHash:       dummy,
	}, nil
}

// SignIn verifies the username/password pair and, on success, returns the
// account together with a freshly minted session token.
//
// Order matters: input validation happens before the rate check so malformed
// traffic cannot drain the quota, and the rate check happens before any
// account-layer work so a throttled caller consumes no further resources.
// A consumed attempt is never rolled back, whatever happens afterwards.
func (s *AuthService) SignIn(ctx context.Context, identityKey, username, password string) (*models.Account, string, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, "", err
	}

	if err := s.checkRate(ctx, ratelimit.PurposeSignIn, identityKey); err != nil {
		return nil, "", err
	}

	repoCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByUsername(repoCtx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// Burn one bcrypt comparison so this path takes as long as a
			// wrong password on an existing account.
			auth.VerifyPassword(s.dummyHash, password)
			return nil, "", common.ErrorInvalidCredentials
		}
		s.logger.Error(ctx, "account store lookup failed", "error", err.Error())
		return nil, "", common.ErrorUnavailable
	}

	if !auth.VerifyPassword(account.PasswordHash, password) {
		return nil, "", common.ErrorInvalidCredentials
	}

	token, err := auth.GenerateToken(account.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	return account, token, nil
}

// SignUp creates a new account and returns it with a session token. The
// uniqueness check and the insert run inside one transaction; the unique
// constraint on the accounts table is the backstop against a concurrent
// insert racing between the two.
func (s *AuthService) SignUp(ctx context.Context, identityKey, username, password string) (*models.Account, string, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, "", err
	}

	if err := s.checkRate(ctx, ratelimit.PurposeSignUp, identityKey); err != nil {
		return nil, "", err
	}

	repoCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var created *models.Account
	err := dbx.WithTx(repoCtx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Accounts(tx)

		_, err := repo.GetByUsername(ctx, username)
		if err == nil {
			return common.ErrorAlreadyExists
		}
		if !errors.Is(err, common.ErrorNotFound) {
			return fmt.Errorf("uniqueness check: %w", err)
		}

		hash, err := auth.HashPassword(password, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("password hashing: %w", err)
		}

		created, err = repo.Create(ctx, &models.Account{Username: username, PasswordHash: hash})
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, "", common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "account creation failed", "error", err.Error())
		return nil, "", common.ErrorUnavailable
	}

	s.logger.Info(ctx, "account created", "account_id", created.ID)

	token, err := auth.GenerateToken(created.ID, s.jwtSecret, s.sessionValidity)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return nil, "", common.ErrorInternal
	}

	return created, token, nil
}

// Authenticate verifies a session token and resolves the embedded account.
// Any failure cause (bad signature, malformed payload, expiry, or an
// account that no longer exists) collapses to common.ErrorUnauthorized;
// the cause is only logged.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Account, error) {
	accountID, err := auth.GetAccountIDFromToken(token, s.jwtSecret)
	if err != nil {
		s.logger.Info(ctx, "session token rejected", "cause", err.Error())
		return nil, common.ErrorUnauthorized
	}

	repoCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	repo := s.repomanager.Accounts(s.db)
	account, err := repo.GetByID(repoCtx, accountID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Info(ctx, "session token rejected", "cause", "dangling account reference", "account_id", accountID)
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "account store lookup failed", "error", err.Error())
		return nil, common.ErrorUnavailable
	}

	return account, nil
}

// checkRate consumes one attempt from the purpose's quota. A counter-store
// failure denies (fail-closed): an unreachable store must never switch the
// throttle off.
func (s *AuthService) checkRate(ctx context.Context, purpose ratelimit.Purpose, identityKey string) error {
	rateCtx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	decision, err := s.limiter.Check(rateCtx, purpose, identityKey)
	if err != nil {
		s.logger.Error(ctx, "rate-limit check failed, denying", "purpose", string(purpose), "error", err.Error())
		return common.ErrorThrottled
	}
	if !decision.Allowed {
		s.logger.Info(ctx, "attempt throttled", "purpose", string(purpose), "identity_key", identityKey)
		return common.ErrorThrottled
	}
	return nil
}

// validateCredentials rejects malformed input before any quota is consumed.
func validateCredentials(username, password string) error {
	if username == "" || !utf8.ValidString(username) {
		return fmt.Errorf("%w: username must be a non-empty UTF-8 string", common.ErrorValidation)
	}
	if utf8.RuneCountInString(username) > maxUsernameLength {
		return fmt.Errorf("%w: username must be at most %d characters", common.ErrorValidation, maxUsernameLength)
	}
	if password == "" {
		return fmt.Errorf("%w: password must not be empty", common.ErrorValidation)
	}
	return nil
}
