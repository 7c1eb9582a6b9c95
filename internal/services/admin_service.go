package services

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
)

const (
	DefaultAdminPageSize = 50
	MaxAdminPageSize     = 200
	DefaultGrowthDays    = 30
)

type AdminToken struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
}

// AdminCredentials is the single operator account configured at startup.
type AdminCredentials struct {
	Email        string
	PasswordHash string
}

type AdminService struct {
	admin   models.AdminRepo
	users   models.UserRepo
	matches models.MatchRepo
	tokens  *helpers.TokenIssuer
	creds   AdminCredentials
	now     func() time.Time
}

func NewAdminService(admin models.AdminRepo, users models.UserRepo, matches models.MatchRepo, tokens *helpers.TokenIssuer, creds AdminCredentials) *AdminService {
	return &AdminService{
		admin:   admin,
		users:   users,
		matches: matches,
		tokens:  tokens,
		creds:   creds,
		now:     time.Now,
	}
}

func (as *AdminService) Login(ctx context.Context, email, password string) (*AdminToken, error) {
	if !strings.EqualFold(strings.TrimSpace(email), as.creds.Email) || !helpers.CheckPassword(as.creds.PasswordHash, password) {
		return nil, apperr.Unauthorized("incorrect email or password")
	}
	token, expiresAt, err := as.tokens.Issue(as.creds.Email, helpers.RoleAdmin, as.creds.Email)
	if err != nil {
		return nil, err
	}
	return &AdminToken{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   expiresAt,
		Email:       as.creds.Email,
		Role:        helpers.RoleAdmin,
	}, nil
}

func (as *AdminService) Stats(ctx context.Context) (*models.Stats, error) {
	now := as.now().UTC()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return as.admin.Stats(ctx, dayStart, now.AddDate(0, 0, -7))
}

func ClampAdminPage(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultAdminPageSize
	}
	if limit > MaxAdminPageSize {
		limit = MaxAdminPageSize
	}
	return skip, limit
}

func (as *AdminService) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, int, error) {
	skip, limit = ClampAdminPage(skip, limit)
	return as.admin.ListUsers(ctx, skip, limit)
}

func (as *AdminService) DeleteUser(ctx context.Context, id string) error {
	return as.users.DeleteUser(ctx, id)
}

func (as *AdminService) VerifyUser(ctx context.Context, id string, verified bool) (*models.User, error) {
	return as.admin.SetVerified(ctx, id, verified)
}

// BanUser sets or lifts a ban. Banned users cannot log in and are hidden
// from discovery.
func (as *AdminService) BanUser(ctx context.Context, id string, banned bool) (*models.User, error) {
	return as.admin.SetBanned(ctx, id, banned, as.now().UTC())
}

func (as *AdminService) ListMatches(ctx context.Context, skip, limit int) ([]*models.AdminMatch, int, error) {
	skip, limit = ClampAdminPage(skip, limit)
	return as.admin.ListMatches(ctx, skip, limit)
}

func (as *AdminService) DeleteMatch(ctx context.Context, id string) error {
	return as.matches.DeleteMatch(ctx, id)
}

// UsersGrowth counts sign ups per day over the last days days.
func (as *AdminService) UsersGrowth(ctx context.Context, days int) ([]models.GrowthPoint, error) {
	if days <= 0 {
		days = DefaultGrowthDays
	}
	if days > 365 {
		return nil, apperr.Validation("days must be at most 365")
	}
	return as.admin.UsersGrowth(ctx, as.now().UTC().AddDate(0, 0, -days))
}

// MatchRate is matches per swipe as a percentage rounded to two decimals.
func (as *AdminService) MatchRate(ctx context.Context) (*models.MatchRate, error) {
	matches, swipes, err := as.admin.CountMatchesAndSwipes(ctx)
	if err != nil {
		return nil, err
	}
	rate := &models.MatchRate{TotalSwipes: swipes, TotalMatches: matches}
	if swipes > 0 {
		rate.MatchRate = math.Round(float64(matches)/float64(swipes)*10000) / 100
	}
	return rate, nil
}
