package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"fleetmaster/internal/config"
	"fleetmaster/internal/interfaces"
	"fleetmaster/internal/logger"
	"fleetmaster/internal/models"
	"fleetmaster/internal/repository"
)

const (
	ResetCodeTTL = 10 * time.Minute

	MsgRegistered      = "User registered successfully"
	MsgPasswordChanged = "Password changed successfully"
	MsgResetMaybeSent  = "If email exists, reset code has been sent"
	MsgResetSent       = "Reset code sent to email"
	MsgPasswordReset   = "Password reset successfully"
)

type AccountService struct {
	users     repository.UserRepository
	customers interfaces.CustomerRepository
	resets    repository.PasswordResetRepository
	mailer    EmailSender
	limiter   ResetLimiter
	tokens    *TokenIssuer
	cfg       *config.Config
	hashCost  int
	now       func() time.Time
	log       *slog.Logger
}

func NewAccountService(
	users repository.UserRepository,
	customers interfaces.CustomerRepository,
	resets repository.PasswordResetRepository,
	mailer EmailSender,
	limiter ResetLimiter,
	cfg *config.Config,
) *AccountService {
	if limiter == nil {
		limiter = NoopResetLimiter()
	}
	return &AccountService{
		users:     users,
		customers: customers,
		resets:    resets,
		mailer:    mailer,
		limiter:   limiter,
		tokens:    NewTokenIssuer(cfg),
		cfg:       cfg,
		hashCost:  bcrypt.DefaultCost,
		now:       func() time.Time { return time.Now().UTC() },
		log:       logger.WithService("account"),
	}
}

func (s *AccountService) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	if _, err := s.users.GetByUserName(ctx, req.UserName); err == nil {
		return nil, &ConflictError{Message: "Username is already taken"}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, internal(err)
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, &ConflictError{Message: "Email is already in use"}
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, internal(err)
	}

	phone := req.PhoneNumber
	if phone == "" {
		phone = "unknown"
	}
	user, customer, err := s.createUser(ctx, req.UserName, req.Email, req.PhoneNumber, req.Password,
		[]string{models.RoleUser}, req.UserName, phone)
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "user registered", "user_id", user.ID, "customer_id", customer.ID)
	return &models.RegisterResponse{
		UserID:     user.ID,
		CustomerID: customer.ID,
		UserName:   user.UserName,
		Email:      user.Email,
	}, nil
}

func (s *AccountService) createUser(ctx context.Context, userName, email, phone, password string, roles []string, fullName, customerPhone string) (*models.User, *models.Customer, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, nil, internal(err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		UserName:     userName,
		Email:        email,
		PhoneNumber:  phone,
		PasswordHash: string(hash),
		Roles:        roles,
		CreatedAt:    s.now(),
	}
	customer := &models.Customer{FullName: fullName, Phone: customerPhone, Email: email}

	if err := s.users.CreateWithCustomer(ctx, user, customer); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			switch pqErr.Constraint {
			case "users_user_name_key":
				return nil, nil, &ConflictError{Message: "Username is already taken"}
			case "users_email_key":
				return nil, nil, &ConflictError{Message: "Email is already in use"}
			}
		}
		s.log.ErrorContext(ctx, "failed to create user", "error", err)
		return nil, nil, classifyWriteError("User", err)
	}
	return user, customer, nil
}

// Login accepts a username or an email address and returns a signed token.
func (s *AccountService) Login(ctx context.Context, req models.LoginRequest) (string, error) {
	user, err := s.users.GetByUserName(ctx, req.LoginIdentifier)
	if errors.Is(err, repository.ErrUserNotFound) {
		user, err = s.users.GetByEmail(ctx, req.LoginIdentifier)
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.WarnContext(ctx, "login for unknown identifier", "identifier", req.LoginIdentifier)
			return "", notFound("User")
		}
		return "", internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		s.log.WarnContext(ctx, "invalid password", "user_name", user.UserName)
		return "", invalid("Invalid credentials")
	}

	var customerID *int
	customer, err := s.customers.GetByIdentityUserID(ctx, user.ID)
	switch {
	case err == nil:
		customerID = &customer.ID
	case !isNoRows(err):
		return "", internal(err)
	}

	token, err := s.tokens.Issue(user, customerID, s.now())
	if err != nil {
		return "", internal(err)
	}
	s.log.InfoContext(ctx, "user logged in", "user_name", user.UserName)
	return token, nil
}

func (s *AccountService) ChangePassword(ctx context.Context, userID string, req models.ChangePasswordRequest) error {
	if userID == "" {
		return ErrUnauthorized
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound("User")
		}
		return internal(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)) != nil {
		return invalid("Incorrect password")
	}
	if err := s.setPassword(ctx, user.ID, req.NewPassword); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "password changed", "user_name", user.UserName)
	return nil
}

func (s *AccountService) setPassword(ctx context.Context, userID, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return internal(err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, string(hash)); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound("User")
		}
		return internal(err)
	}
	return nil
}

// RequestPasswordReset mails a fresh 6-digit code. Unknown addresses get the
// same success shape so callers cannot probe for accounts.
func (s *AccountService) RequestPasswordReset(ctx context.Context, req models.RequestPasswordResetRequest) (string, error) {
	if _, err := s.users.GetByEmail(ctx, req.Email); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.log.InfoContext(ctx, "reset requested for unknown email", "email", req.Email)
			return MsgResetMaybeSent, nil
		}
		return "", internal(err)
	}

	allowed, err := s.limiter.Allow(ctx, req.Email)
	if err != nil {
		s.log.WarnContext(ctx, "reset rate limiter unavailable", "error", err)
		allowed = true
	}
	if !allowed {
		return "", ErrRateLimited
	}

	code, err := newResetCode()
	if err != nil {
		return "", internal(err)
	}
	now := s.now()
	token := &models.PasswordResetToken{
		ID:        uuid.NewString(),
		Email:     req.Email,
		Code:      code,
		ExpiresAt: now.Add(ResetCodeTTL),
		CreatedAt: now,
	}
	if err := s.resets.Replace(ctx, token); err != nil {
		s.log.ErrorContext(ctx, "failed to store reset code", "error", err)
		return "", internal(err)
	}

	if err := s.mailer.Send(req.Email, "Password Reset Code", resetEmailBody(code)); err != nil {
		s.log.ErrorContext(ctx, "failed to send reset code", "email", req.Email, "error", err)
		return "", internal(err)
	}
	s.log.InfoContext(ctx, "reset code sent", "email", req.Email)
	return MsgResetSent, nil
}

func (s *AccountService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	token, err := s.resets.GetUnused(ctx, req.Email, req.ResetCode)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			s.log.WarnContext(ctx, "invalid reset code", "email", req.Email)
			return invalid("Invalid reset code")
		}
		return internal(err)
	}
	now := s.now()
	if token.Expired(now) {
		return invalid("Reset code expired")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound("User")
		}
		return internal(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.hashCost)
	if err != nil {
		return internal(err)
	}
	// The code is claimed and the password written atomically, so a failed or
	// losing redeem never changes the password.
	if err := s.resets.Redeem(ctx, token.ID, user.ID, string(hash), now); err != nil {
		switch {
		case errors.Is(err, repository.ErrResetTokenNotFound):
			s.log.WarnContext(ctx, "reset code already redeemed", "email", req.Email)
			return invalid("Invalid reset code")
		case errors.Is(err, repository.ErrUserNotFound):
			return notFound("User")
		}
		s.log.ErrorContext(ctx, "failed to redeem reset code", "error", err)
		return internal(err)
	}
	s.log.InfoContext(ctx, "password reset", "user_name", user.UserName)
	return nil
}

// EnsureAdmin creates the configured administrator on first start.
// It does nothing when no admin password is configured.
func (s *AccountService) EnsureAdmin(ctx context.Context) error {
	if s.cfg.AdminPassword == "" {
		return nil
	}
	_, err := s.users.GetByUserName(ctx, s.cfg.AdminUserName)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	user, _, err := s.createUser(ctx, s.cfg.AdminUserName, s.cfg.AdminEmail, "", s.cfg.AdminPassword,
		[]string{models.RoleAdmin, models.RoleUser}, "Administrator", "unknown")
	if err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	s.log.InfoContext(ctx, "admin user seeded", "user_name", user.UserName)
	return nil
}

func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func resetEmailBody(code string) string {
	return fmt.Sprintf(`<html>
<body>
<h2>Password Reset Code</h2>
<p>Your password reset code is: <strong>%s</strong></p>
<p>This code is valid for 10 minutes.</p>
</body>
</html>`, code)
}
