package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/maintenance-desk/internal/auth"
	"github.com/spec-kit/maintenance-desk/internal/config"
	"github.com/spec-kit/maintenance-desk/internal/domain"
	apperrors "github.com/spec-kit/maintenance-desk/pkg/util"
)

type stubPersonRepo struct {
	people map[string]*domain.Person // keyed by email and phone
}

func (s *stubPersonRepo) GetByIdentifier(_ context.Context, identifier string) (*domain.Person, error) {
	if person, ok := s.people[strings.TrimSpace(identifier)]; ok {
		return person, nil
	}
	return nil, pgx.ErrNoRows
}

func (s *stubPersonRepo) GetByID(_ context.Context, id string) (*domain.Person, error) {
	for _, person := range s.people {
		if person.ID == id {
			return person, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (s *stubPersonRepo) Create(context.Context, *domain.Person) error { return nil }
func (s *stubPersonRepo) Update(context.Context, *domain.Person) error { return nil }
func (s *stubPersonRepo) Delete(context.Context, string) error         { return nil }
func (s *stubPersonRepo) List(context.Context) ([]domain.Person, error) {
	return nil, nil
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 60,
		PasscodeTTLSeconds:    300,
		PasscodeTestMode:      true,
		BcryptCost:            bcrypt.MinCost,
	}
}

func newAuthFixture() (*AuthService, *stubPersonRepo) {
	repo := &stubPersonRepo{people: map[string]*domain.Person{}}
	tenant := &domain.Person{ID: "p-1", Name: "Alice Martin", Role: domain.RoleTenant,
		Email: "alice@example.com", Phone: "+33612345678"}
	repo.people[tenant.Email] = tenant
	repo.people[tenant.Phone] = tenant

	svc := NewAuthService(testAuthConfig(), repo, auth.NewMemoryPasscodeStore(), zap.NewNop())
	return svc, repo
}

func TestRequestCodeUnknownIdentifierIsNotFound(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.RequestCode(context.Background(), "nobody@example.com")
	if !apperrors.IsCode(err, "NOT_FOUND") {
		t.Fatalf("err = %v, want NOT_FOUND", err)
	}
}

func TestRequestThenVerifyCode(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	issue, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if !issue.Issued || issue.Code == "" {
		t.Fatalf("test mode should expose the code, got %+v", issue)
	}

	login, err := svc.VerifyCode(ctx, "alice@example.com", issue.Code)
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if login.Person.ID != "p-1" {
		t.Errorf("person = %+v", login.Person)
	}
	if login.Token == "" {
		t.Error("no session token issued")
	}

	claims, err := svc.TokenManager().ParseToken(login.Token)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.Role != domain.RoleTenant {
		t.Errorf("token role = %q", claims.Role)
	}
}

func TestVerifyCodeIsSingleUse(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	issue, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if _, err := svc.VerifyCode(ctx, "alice@example.com", issue.Code); err != nil {
		t.Fatalf("first VerifyCode: %v", err)
	}
	if _, err := svc.VerifyCode(ctx, "alice@example.com", issue.Code); !apperrors.IsCode(err, "INVALID_CODE") {
		t.Errorf("replayed code err = %v, want INVALID_CODE", err)
	}
}

func TestVerifyCodeWrongCodeInvalidatesPending(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	issue, err := svc.RequestCode(ctx, "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if _, err := svc.VerifyCode(ctx, "alice@example.com", "000000"); !apperrors.IsCode(err, "INVALID_CODE") {
		t.Fatalf("wrong code err = %v, want INVALID_CODE", err)
	}
	// The consume-on-attempt discipline means even the right code is dead now.
	if _, err := svc.VerifyCode(ctx, "alice@example.com", issue.Code); !apperrors.IsCode(err, "INVALID_CODE") {
		t.Errorf("err = %v, want INVALID_CODE", err)
	}
}

func TestVerifyCodeWithoutRequestIsInvalid(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.VerifyCode(context.Background(), "alice@example.com", "123456")
	if !apperrors.IsCode(err, "INVALID_CODE") {
		t.Errorf("err = %v, want INVALID_CODE", err)
	}
}

func TestRequestCodePhoneIdentifier(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	issue, err := svc.RequestCode(ctx, "+33612345678")
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	login, err := svc.VerifyCode(ctx, "+33612345678", issue.Code)
	if err != nil {
		t.Fatalf("VerifyCode: %v", err)
	}
	if login.Person.Name != "Alice Martin" {
		t.Errorf("person = %+v", login.Person)
	}
}

func TestFixedPasscodeMode(t *testing.T) {
	cfg := testAuthConfig()
	cfg.PasscodeFixed = "123456"

	repo := &stubPersonRepo{people: map[string]*domain.Person{
		"alice@example.com": {ID: "p-1", Name: "Alice", Role: domain.RoleTenant, Email: "alice@example.com"},
	}}
	svc := NewAuthService(cfg, repo, auth.NewMemoryPasscodeStore(), zap.NewNop())

	issue, err := svc.RequestCode(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("RequestCode: %v", err)
	}
	if issue.Code != "123456" {
		t.Errorf("code = %q, want fixed dev code", issue.Code)
	}
}
