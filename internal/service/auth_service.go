package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-desk/internal/auth"
	"github.com/spec-kit/maintenance-desk/internal/config"
	"github.com/spec-kit/maintenance-desk/internal/domain"
	"github.com/spec-kit/maintenance-desk/internal/repository"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

// AuthService coordinates the passcode login flow: a code is issued against a
// known identifier, then exchanged once for a session token.
type AuthService struct {
	people     repository.PersonRepository
	passcodes  auth.PasscodeStore
	tokenMgr   *auth.TokenManager
	logger     *zap.Logger
	ttl        time.Duration
	bcryptCost int
	fixedCode  string
	testMode   bool
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, people repository.PersonRepository, passcodes auth.PasscodeStore, logger *zap.Logger) *AuthService {
	return &AuthService{
		people:     people,
		passcodes:  passcodes,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		logger:     logger,
		ttl:        cfg.PasscodeTTL(),
		bcryptCost: cfg.BcryptCost,
		fixedCode:  cfg.PasscodeFixed,
		testMode:   cfg.PasscodeTestMode,
	}
}

// CodeIssue is the outcome of a code request. Code is populated only in test
// mode, where no real delivery channel exists.
type CodeIssue struct {
	Issued bool
	Code   string
}

// VerifiedLogin carries the authenticated person and their session token.
type VerifiedLogin struct {
	Person    *domain.Person
	Token     string
	ExpiresAt time.Time
}

// RequestCode issues a short-lived single-use passcode for a known email or
// phone identifier. A repeated request supersedes the previous code.
func (s *AuthService) RequestCode(ctx context.Context, identifier string) (*CodeIssue, error) {
	person, err := s.people.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, err
	}

	code := s.fixedCode
	if code == "" {
		code, err = auth.GeneratePasscode()
		if err != nil {
			return nil, err
		}
	}

	hash, err := auth.HashPasscode(code, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if err := s.passcodes.Save(ctx, identifier, hash, s.ttl); err != nil {
		return nil, err
	}

	s.logger.Info("passcode issued", zap.String("person_id", person.ID))

	issue := &CodeIssue{Issued: true}
	if s.testMode {
		issue.Code = code
	}
	return issue, nil
}

// VerifyCode consumes the pending passcode for the identifier and, when it
// matches, issues a session token. The code is invalidated on the first
// verification attempt, successful or not.
func (s *AuthService) VerifyCode(ctx context.Context, identifier, code string) (*VerifiedLogin, error) {
	hash, err := s.passcodes.Consume(ctx, identifier)
	if err != nil {
		if err == auth.ErrNoPendingCode {
			return nil, apperrors.NewInvalidCode()
		}
		return nil, err
	}
	if err := auth.ComparePasscode(hash, code); err != nil {
		return nil, apperrors.NewInvalidCode()
	}

	person, err := s.people.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("account", nil)
		}
		return nil, err
	}

	token, exp, err := s.tokenMgr.GenerateToken(person.ID, person.Role)
	if err != nil {
		return nil, err
	}
	return &VerifiedLogin{Person: person, Token: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
