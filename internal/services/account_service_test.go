package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fleetmaster/internal/config"
	"fleetmaster/internal/models"
)

type accountFixture struct {
	svc       *AccountService
	users     *memUsers
	customers *memCustomers
	resets    *memResets
	mailer    *mockMailer
	now       time.Time
}

func newAccountFixture(t *testing.T, limiter ResetLimiter) *accountFixture {
	t.Helper()
	cfg := &config.Config{
		JWTSecret:           "test-secret",
		JWTIssuer:           "fleetmaster",
		JWTAudience:         "fleetmaster-clients",
		JWTExpiresInSeconds: 3600,
		AdminUserName:       "admin",
		AdminEmail:          "admin@fleetmaster.local",
	}
	f := &accountFixture{
		customers: newMemCustomers(),
		resets:    &memResets{},
		mailer:    &mockMailer{},
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.users = newMemUsers(f.customers)
	f.resets.users = f.users
	f.svc = NewAccountService(f.users, f.customers, f.resets, f.mailer, limiter, cfg)
	f.svc.hashCost = bcrypt.MinCost
	f.svc.now = func() time.Time { return f.now }
	return f
}

func (f *accountFixture) register(t *testing.T) *models.RegisterResponse {
	t.Helper()
	resp, err := f.svc.Register(context.Background(), models.RegisterRequest{
		UserName: "jane", Email: "jane@example.com", Password: "secret",
	})
	require.NoError(t, err)
	return resp
}

func TestRegisterCreatesLinkedCustomer(t *testing.T) {
	f := newAccountFixture(t, nil)
	resp := f.register(t)

	customer, err := f.customers.GetByID(context.Background(), resp.CustomerID)
	require.NoError(t, err)
	assert.Equal(t, "jane", customer.FullName)
	assert.Equal(t, "unknown", customer.Phone)
	assert.Equal(t, resp.UserID, customer.IdentityUserID)

	user := f.users.users[resp.UserID]
	assert.Equal(t, []string{models.RoleUser}, user.Roles)
	assert.NotEqual(t, "secret", user.PasswordHash)
}

func TestRegisterConflicts(t *testing.T) {
	f := newAccountFixture(t, nil)
	f.register(t)

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{UserName: "JANE", Email: "other@example.com", Password: "secret"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Username is already taken", conflict.Message)

	_, err = f.svc.Register(context.Background(), models.RegisterRequest{UserName: "john", Email: "Jane@Example.com", Password: "secret"})
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Email is already in use", conflict.Message)
}

func TestRegisterRaceMapsUniqueViolation(t *testing.T) {
	f := newAccountFixture(t, nil)
	f.users.createErr = &pq.Error{Code: pqUniqueViolation, Constraint: "users_email_key"}

	_, err := f.svc.Register(context.Background(), models.RegisterRequest{UserName: "jane", Email: "jane@example.com", Password: "secret"})
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "Email is already in use", conflict.Message)
}

func TestLoginIssuesToken(t *testing.T) {
	f := newAccountFixture(t, nil)
	resp := f.register(t)

	for _, identifier := range []string{"jane", "jane@example.com"} {
		signed, err := f.svc.Login(context.Background(), models.LoginRequest{LoginIdentifier: identifier, Password: "secret"})
		require.NoError(t, err)

		claims := jwt.MapClaims{}
		_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (any, error) {
			return []byte("test-secret"), nil
		}, jwt.WithTimeFunc(func() time.Time { return f.now }), jwt.WithAudience("fleetmaster-clients"))
		require.NoError(t, err)
		assert.Equal(t, resp.UserID, claims["sub"])
		assert.Equal(t, "jane", claims["name"])
		assert.EqualValues(t, resp.CustomerID, claims["customer_id"])
		assert.Equal(t, []any{models.RoleUser}, claims["roles"])
	}
}

func TestLoginFailures(t *testing.T) {
	f := newAccountFixture(t, nil)
	f.register(t)

	_, err := f.svc.Login(context.Background(), models.LoginRequest{LoginIdentifier: "nobody", Password: "secret"})
	require.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found", err.Error())

	_, err = f.svc.Login(context.Background(), models.LoginRequest{LoginIdentifier: "jane", Password: "wrong"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid credentials", verr.Message)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)
	resp := f.register(t)

	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "", models.ChangePasswordRequest{}), ErrUnauthorized)
	assert.ErrorIs(t, f.svc.ChangePassword(ctx, "missing", models.ChangePasswordRequest{}), ErrNotFound)

	err := f.svc.ChangePassword(ctx, resp.UserID, models.ChangePasswordRequest{OldPassword: "bad", NewPassword: "next", ConfirmPassword: "next"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	require.NoError(t, f.svc.ChangePassword(ctx, resp.UserID, models.ChangePasswordRequest{OldPassword: "secret", NewPassword: "next", ConfirmPassword: "next"}))
	_, err = f.svc.Login(ctx, models.LoginRequest{LoginIdentifier: "jane", Password: "next"})
	assert.NoError(t, err)
}

var sixDigits = regexp.MustCompile(`<strong>(\d{6})</strong>`)

func TestPasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)
	f.register(t)

	var body string
	f.mailer.On("Send", "jane@example.com", "Password Reset Code", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { body = args.String(2) }).
		Return(nil)

	msg, err := f.svc.RequestPasswordReset(ctx, models.RequestPasswordResetRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, MsgResetSent, msg)
	f.mailer.AssertExpectations(t)

	m := sixDigits.FindStringSubmatch(body)
	require.Len(t, m, 2)
	code := m[1]
	require.Len(t, f.resets.tokens, 1)
	assert.Equal(t, f.now.Add(10*time.Minute), f.resets.tokens[0].ExpiresAt)

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	err = f.svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "jane@example.com", ResetCode: wrong, NewPassword: "fresh", ConfirmPassword: "fresh"})
	var invalidCode *ValidationError
	require.ErrorAs(t, err, &invalidCode)
	assert.Equal(t, "Invalid reset code", invalidCode.Message)

	require.NoError(t, f.svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "jane@example.com", ResetCode: code, NewPassword: "fresh", ConfirmPassword: "fresh"}))
	assert.True(t, f.resets.tokens[0].Used)

	_, err = f.svc.Login(ctx, models.LoginRequest{LoginIdentifier: "jane", Password: "fresh"})
	assert.NoError(t, err)

	// A used code cannot be replayed.
	err = f.svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "jane@example.com", ResetCode: code, NewPassword: "again", ConfirmPassword: "again"})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func (f *accountFixture) issueCode(t *testing.T) string {
	t.Helper()
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	_, err := f.svc.RequestPasswordReset(context.Background(), models.RequestPasswordResetRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	return f.resets.tokens[0].Code
}

func TestResetFailureLeavesPasswordAndCode(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)
	f.register(t)
	code := f.issueCode(t)
	f.resets.redeemErr = errors.New("connection reset")

	err := f.svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "jane@example.com", ResetCode: code, NewPassword: "fresh", ConfirmPassword: "fresh"})
	require.ErrorIs(t, err, ErrInternal)

	_, err = f.svc.Login(ctx, models.LoginRequest{LoginIdentifier: "jane", Password: "fresh"})
	assert.Error(t, err)
	_, err = f.svc.Login(ctx, models.LoginRequest{LoginIdentifier: "jane", Password: "secret"})
	assert.NoError(t, err)
	assert.False(t, f.resets.tokens[0].Used)
}

func TestResetLosingConcurrentRedeemKeepsWinnerPassword(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)
	f.register(t)
	code := f.issueCode(t)

	// A rival request claims the code with its own password after this
	// request has already looked the code up.
	f.resets.beforeRedeem = func() {
		f.resets.beforeRedeem = nil
		hash, err := bcrypt.GenerateFromPassword([]byte("winner"), bcrypt.MinCost)
		require.NoError(t, err)
		tok := f.resets.tokens[0]
		require.NoError(t, f.resets.Redeem(ctx, tok.ID, userIDOf(t, f), string(hash), f.now))
	}

	err := f.svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "jane@example.com", ResetCode: code, NewPassword: "loser", ConfirmPassword: "loser"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Invalid reset code", verr.Message)

	_, err = f.svc.Login(ctx, models.LoginRequest{LoginIdentifier: "jane", Password: "loser"})
	assert.Error(t, err)
	_, err = f.svc.Login(ctx, models.LoginRequest{LoginIdentifier: "jane", Password: "winner"})
	assert.NoError(t, err)
}

func userIDOf(t *testing.T, f *accountFixture) string {
	t.Helper()
	u, err := f.users.GetByUserName(context.Background(), "jane")
	require.NoError(t, err)
	return u.ID
}

func TestNewResetRequestSupersedesOldCode(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)
	f.register(t)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.RequestPasswordReset(ctx, models.RequestPasswordResetRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	first := f.resets.tokens[0].ID
	_, err = f.svc.RequestPasswordReset(ctx, models.RequestPasswordResetRequest{Email: "jane@example.com"})
	require.NoError(t, err)

	require.Len(t, f.resets.tokens, 1)
	assert.NotEqual(t, first, f.resets.tokens[0].ID)
}

func TestResetCodeExpires(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)
	f.register(t)
	f.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.RequestPasswordReset(ctx, models.RequestPasswordResetRequest{Email: "jane@example.com"})
	require.NoError(t, err)
	code := f.resets.tokens[0].Code

	f.now = f.now.Add(11 * time.Minute)
	err = f.svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "jane@example.com", ResetCode: code, NewPassword: "fresh", ConfirmPassword: "fresh"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Reset code expired", verr.Message)
}

func TestResetRequestForUnknownEmail(t *testing.T) {
	f := newAccountFixture(t, nil)

	msg, err := f.svc.RequestPasswordReset(context.Background(), models.RequestPasswordResetRequest{Email: "ghost@example.com"})
	require.NoError(t, err)
	assert.Equal(t, MsgResetMaybeSent, msg)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.resets.tokens)
}

func TestResetRequestRateLimited(t *testing.T) {
	f := newAccountFixture(t, fixedLimiter{allow: false})
	f.register(t)

	_, err := f.svc.RequestPasswordReset(context.Background(), models.RequestPasswordResetRequest{Email: "jane@example.com"})
	assert.ErrorIs(t, err, ErrRateLimited)
	f.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture(t, nil)

	require.NoError(t, f.svc.EnsureAdmin(ctx))
	assert.Empty(t, f.users.users)

	f.svc.cfg.AdminPassword = "admin-pass"
	require.NoError(t, f.svc.EnsureAdmin(ctx))
	require.NoError(t, f.svc.EnsureAdmin(ctx))
	require.Len(t, f.users.users, 1)

	admin, err := f.users.GetByUserName(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, admin.HasRole(models.RoleAdmin))
	customer, err := f.customers.GetByIdentityUserID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "Administrator", customer.FullName)
}

func TestNewResetCodeIsSixDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := newResetCode()
		require.NoError(t, err)
		assert.Regexp(t, `^\d{6}$`, code)
	}
}
