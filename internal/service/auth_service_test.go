package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// --- fakes ---

type fakeUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	seq     int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    map[string]*domain.User{},
		byEmail: map[string]*domain.User{},
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	f.seq++
	user.ID = fmt.Sprintf("user-%d", f.seq)
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) SetResetCode(_ context.Context, id, code string, expiresAt time.Time) error {
	user, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.ResetCode = &code
	user.ResetCodeExpiresAt = &expiresAt
	return nil
}

func (f *fakeUserRepo) ResetPassword(_ context.Context, id, passwordHash string) error {
	user, ok := f.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	user.PasswordHash = passwordHash
	user.ResetCode = nil
	user.ResetCodeExpiresAt = nil
	return nil
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newAuthService(t *testing.T, repo *fakeUserRepo, mailer *fakeMailer) *AuthService {
	t.Helper()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			ResetCodeTTLMinutes:   60,
			BcryptCost:            bcrypt.MinCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{UserRepo: repo, Mailer: mailer})
}

func domainErr(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de
}

// --- tests ---

func TestRegister_TokenIdentityAndHashedPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	user, token, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, domain.RoleUser, claims.Role)

	stored, err := repo.GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.NotEqual(t, "secret1", stored.PasswordHash)
	require.NotEmpty(t, stored.PasswordHash)
}

func TestRegister_NormalizesEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	user, _, _, err := svc.Register(context.Background(), "A", "  A@X.Com ", "secret1", "")
	require.NoError(t, err)
	require.Equal(t, "a@x.com", user.Email)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	_, _, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)

	// Same address with different case and whitespace.
	_, _, _, err = svc.Register(context.Background(), "B", " A@x.COM", "secret2", "")
	require.Error(t, err)
	require.Equal(t, "CONFLICT", domainErr(t, err).Code)
}

func TestRegister_Validation(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	cases := []struct {
		name     string
		userName string
		email    string
		password string
		role     domain.Role
	}{
		{"empty name", "", "a@x.com", "secret1", ""},
		{"bad email", "A", "not-an-email", "secret1", ""},
		{"short password", "A", "a@x.com", "12345", ""},
		{"unknown role", "A", "a@x.com", "secret1", "superuser"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.Register(context.Background(), tc.userName, tc.email, tc.password, tc.role)
			require.Error(t, err)
			require.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
		})
	}
}

func TestLogin_SameIdentityAsRegistration(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	registered, regToken, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)

	_, loginToken, _, err := svc.Login(context.Background(), "a@x.com", "secret1")
	require.NoError(t, err)

	regClaims, err := svc.TokenManager().ParseToken(regToken)
	require.NoError(t, err)
	loginClaims, err := svc.TokenManager().ParseToken(loginToken)
	require.NoError(t, err)
	require.Equal(t, registered.ID, regClaims.UserID)
	require.Equal(t, regClaims.UserID, loginClaims.UserID)
}

func TestLogin_GenericFailureForUnknownUserAndWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	_, _, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)

	_, _, _, wrongPwErr := svc.Login(context.Background(), "a@x.com", "wrong")
	require.Error(t, wrongPwErr)
	_, _, _, unknownErr := svc.Login(context.Background(), "nobody@x.com", "secret1")
	require.Error(t, unknownErr)

	// The two failures must be indistinguishable to the caller.
	wrongDE := domainErr(t, wrongPwErr)
	unknownDE := domainErr(t, unknownErr)
	require.Equal(t, wrongDE.Code, unknownDE.Code)
	require.Equal(t, wrongDE.Message, unknownDE.Message)
	require.Equal(t, wrongDE.HTTPStatus, unknownDE.HTTPStatus)
}

func TestRequestPasswordReset_StoresCodeAndSendsMail(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newAuthService(t, repo, mailer)

	user, _, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "a@x.com"))

	stored := repo.byID[user.ID]
	require.NotNil(t, stored.ResetCode)
	require.Len(t, *stored.ResetCode, 6)
	require.NotNil(t, stored.ResetCodeExpiresAt)
	require.WithinDuration(t, time.Now().Add(time.Hour), *stored.ResetCodeExpiresAt, time.Minute)

	require.Len(t, mailer.sent, 1)
	require.Equal(t, "a@x.com", mailer.sent[0].To)
	require.Contains(t, mailer.sent[0].Body, *stored.ResetCode)
}

func TestRequestPasswordReset_UnknownEmail(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo(), &fakeMailer{})

	err := svc.RequestPasswordReset(context.Background(), "nobody@x.com")
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", domainErr(t, err).Code)
}

func TestRequestPasswordReset_MailFailureSurfacesAsInternal(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{err: errors.New("smtp down")})

	_, _, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)

	err = svc.RequestPasswordReset(context.Background(), "a@x.com")
	require.Error(t, err)
	require.Equal(t, "INTERNAL_ERROR", domainErr(t, err).Code)
}

func TestConfirmPasswordReset_CodeIsSingleUse(t *testing.T) {
	repo := newFakeUserRepo()
	mailer := &fakeMailer{}
	svc := newAuthService(t, repo, mailer)

	user, _, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "a@x.com"))

	code := *repo.byID[user.ID].ResetCode

	require.NoError(t, svc.ConfirmPasswordReset(context.Background(), "a@x.com", code, "newsecret"))

	// Old password no longer works, new one does.
	_, _, _, err = svc.Login(context.Background(), "a@x.com", "secret1")
	require.Error(t, err)
	_, _, _, err = svc.Login(context.Background(), "a@x.com", "newsecret")
	require.NoError(t, err)

	// Replaying the consumed code must fail.
	err = svc.ConfirmPasswordReset(context.Background(), "a@x.com", code, "another1")
	require.Error(t, err)
	require.Equal(t, "INVALID_RESET_CODE", domainErr(t, err).Code)
}

func TestConfirmPasswordReset_WrongOrExpiredCode(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, &fakeMailer{})

	user, _, _, err := svc.Register(context.Background(), "A", "a@x.com", "secret1", "")
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "a@x.com"))

	err = svc.ConfirmPasswordReset(context.Background(), "a@x.com", "ffffff", "newsecret")
	require.Error(t, err)
	require.Equal(t, "INVALID_RESET_CODE", domainErr(t, err).Code)

	// Force the stored code past its expiry.
	expired := time.Now().Add(-time.Minute)
	repo.byID[user.ID].ResetCodeExpiresAt = &expired

	err = svc.ConfirmPasswordReset(context.Background(), "a@x.com", *repo.byID[user.ID].ResetCode, "newsecret")
	require.Error(t, err)
	require.Equal(t, "INVALID_RESET_CODE", domainErr(t, err).Code)
}

func TestConfirmPasswordReset_ShortPassword(t *testing.T) {
	svc := newAuthService(t, newFakeUserRepo(), &fakeMailer{})

	err := svc.ConfirmPasswordReset(context.Background(), "a@x.com", "abc123", "12345")
	require.Error(t, err)
	require.Equal(t, "VALIDATION_FAILED", domainErr(t, err).Code)
}
