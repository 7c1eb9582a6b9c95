package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
)

// AuthResult is returned by register and login.
type AuthResult struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        *models.User `json:"user"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required,len=6,numeric"`
	NewPassword string `json:"new_password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type AuthService struct {
	users     models.UserRepo
	interests models.InterestRepo
	codes     models.ResetCodeRepo
	tokens    *helpers.TokenIssuer
	mailer    Mailer
	logger    *slog.Logger
	now       func() time.Time
}

func NewAuthService(users models.UserRepo, interests models.InterestRepo, codes models.ResetCodeRepo, tokens *helpers.TokenIssuer, mailer Mailer, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:     users,
		interests: interests,
		codes:     codes,
		tokens:    tokens,
		mailer:    mailer,
		logger:    logger,
		now:       time.Now,
	}
}

func (as *AuthService) Register(ctx context.Context, req *models.RegisterRequest) (*AuthResult, error) {
	if !helpers.IsPasswordStrong(req.Password) {
		return nil, apperr.Validation("password must be 8-72 characters and include upper and lower case letters, a number and a special character")
	}

	now := as.now().UTC()
	user := &models.User{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(req.Name),
		Email:      helpers.NormalizeEmail(req.Email),
		Age:        req.Age,
		Gender:     req.Gender,
		Bio:        req.Bio,
		City:       req.City,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Height:     req.Height,
		Occupation: req.Occupation,
		Education:  req.Education,
		Preferences: models.UserPreferences{
			MinAge:      18,
			MaxAge:      100,
			MaxDistance: 50,
		},
		CreatedAt:  now,
		LastActive: &now,
	}
	if req.Preferences != nil {
		user.Preferences = *req.Preferences
	}
	if err := models.Validate.Struct(user); err != nil {
		return nil, apperr.Invalid(err)
	}
	if err := validatePreferences(user.Preferences); err != nil {
		return nil, err
	}

	if _, err := as.users.GetUserByEmail(ctx, user.Email); err == nil {
		return nil, apperr.Conflict("email already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}

	hash, err := helpers.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash

	created, err := as.users.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if len(req.Interests) > 0 {
		as.attachInterests(ctx, created.ID, req.Interests)
	}

	if as.mailer != nil {
		if err := as.mailer.SendWelcome(ctx, created.Email, created.Name); err != nil {
			as.logger.Warn("failed to send welcome email", "user_id", created.ID, "error", err)
		}
	}

	return as.issue(created)
}

// attachInterests links the named interests that exist in the catalogue.
func (as *AuthService) attachInterests(ctx context.Context, userID string, names []string) {
	ids := make([]string, 0, len(names))
	for _, name := range names {
		interest, err := as.interests.FindInterestByName(ctx, strings.TrimSpace(name))
		if err != nil {
			continue
		}
		ids = append(ids, interest.ID)
	}
	if len(ids) == 0 {
		return
	}
	if err := as.interests.SetUserInterests(ctx, userID, ids); err != nil {
		as.logger.Warn("failed to attach interests", "user_id", userID, "error", err)
	}
}

func (as *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, apperr.Validation("invalid email format")
	}
	user, err := as.users.GetUserByEmail(ctx, helpers.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Unauthorized("incorrect email or password")
		}
		return nil, err
	}
	if !helpers.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthorized("incorrect email or password")
	}
	if user.IsBanned {
		return nil, apperr.Forbidden("account has been banned")
	}

	now := as.now().UTC()
	if err := as.users.TouchLastActive(ctx, user.ID, now); err != nil {
		as.logger.Warn("failed to update last active", "user_id", user.ID, "error", err)
	} else {
		user.LastActive = &now
	}
	return as.issue(user)
}

func (as *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := as.tokens.Issue(user.ID, helpers.RoleUser, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		User:        user,
	}, nil
}

// ForgotPassword emails a reset code when the address belongs to an
// account. Unknown addresses succeed silently.
func (as *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = helpers.NormalizeEmail(email)
	user, err := as.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			as.logger.Info("password reset requested for unknown email")
			return nil
		}
		return err
	}

	code, err := helpers.GenerateResetCode()
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(code)
	if err != nil {
		return err
	}

	now := as.now().UTC()
	if err := as.codes.SaveResetCode(ctx, &models.ResetCode{
		Email:     email,
		CodeHash:  hash,
		CreatedAt: now,
		ExpiresAt: now.Add(models.ResetCodeTTL),
	}); err != nil {
		return err
	}

	if as.mailer == nil {
		as.logger.Warn("mail is not configured, reset code not sent", "user_id", user.ID)
		return nil
	}
	if err := as.mailer.SendPasswordReset(ctx, email, user.Name, code, int(models.ResetCodeTTL.Minutes())); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (as *AuthService) ResetPassword(ctx context.Context, req *ResetPasswordRequest) error {
	email := helpers.NormalizeEmail(req.Email)
	rc, err := as.codes.GetResetCode(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return apperr.Validation("invalid or expired reset code")
		}
		return err
	}
	if rc.Expired(as.now()) || rc.Attempts >= models.MaxResetAttempts {
		_ = as.codes.DeleteResetCode(ctx, email)
		return apperr.Validation("invalid or expired reset code")
	}
	if !helpers.CheckPassword(rc.CodeHash, req.Code) {
		if err := as.codes.IncrementResetAttempts(ctx, email); err != nil {
			as.logger.Warn("failed to count reset attempt", "error", err)
		}
		return apperr.Validation("invalid or expired reset code")
	}
	if !helpers.IsPasswordStrong(req.NewPassword) {
		return apperr.Validation("password must be 8-72 characters and include upper and lower case letters, a number and a special character")
	}

	user, err := as.users.GetUserByEmail(ctx, email)
	if err != nil {
		return err
	}
	hash, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := as.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return err
	}
	return as.codes.DeleteResetCode(ctx, email)
}

func (as *AuthService) ChangePassword(ctx context.Context, userID string, req *ChangePasswordRequest) error {
	user, err := as.users.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !helpers.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperr.Unauthorized("current password is incorrect")
	}
	if !helpers.IsPasswordStrong(req.NewPassword) {
		return apperr.Validation("password must be 8-72 characters and include upper and lower case letters, a number and a special character")
	}
	if req.NewPassword == req.CurrentPassword {
		return apperr.Validation("new password must differ from the current password")
	}
	hash, err := helpers.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	return as.users.UpdatePassword(ctx, userID, hash)
}

func (as *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	return as.users.DeleteUser(ctx, userID)
}

func validatePreferences(p models.UserPreferences) error {
	if p.MinAge > 0 && p.MaxAge > 0 && p.MinAge > p.MaxAge {
		return apperr.Validation("min_age cannot be greater than max_age")
	}
	return nil
}
