package services

import (
	"context"
	"errors"
	"math/rand"
	"strings"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/helpers"
	"github.com/joshua-takyi/rendez/internal/models"
)

const (
	PotentialMatchLimit = 50
	candidatePoolSize   = 200
	searchLimit         = 20
)

type UserService struct {
	users     models.UserRepo
	photos    models.PhotoRepo
	interests models.InterestRepo
	shuffle   func([]*models.UserSummary)
}

func NewUserService(users models.UserRepo, photos models.PhotoRepo, interests models.InterestRepo) *UserService {
	return &UserService{
		users:     users,
		photos:    photos,
		interests: interests,
		shuffle: func(s []*models.UserSummary) {
			rand.Shuffle(len(s), func(i, j int) { s[i], s[j] = s[j], s[i] })
		},
	}
}

func (us *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	return us.users.GetUserByID(ctx, id)
}

// GetProfile returns the user with their photos and interests.
func (us *UserService) GetProfile(ctx context.Context, id string) (*models.UserProfile, error) {
	user, err := us.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	photos, err := us.photos.ListUserPhotos(ctx, id)
	if err != nil {
		return nil, err
	}
	interests, err := us.interests.ListUserInterests(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{User: user, Photos: photos, Interests: interests}, nil
}

func (us *UserService) UpdateProfile(ctx context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	if err := models.Validate.Struct(update); err != nil {
		return nil, apperr.Invalid(err)
	}
	if update.Preferences != nil {
		if err := models.Validate.Struct(update.Preferences); err != nil {
			return nil, apperr.Invalid(err)
		}
		if err := validatePreferences(*update.Preferences); err != nil {
			return nil, err
		}
	}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		update.Name = &name
	}
	if update.IsEmpty() && update.Interests == nil {
		return nil, apperr.Validation("no fields to update")
	}

	var user *models.User
	var err error
	if update.IsEmpty() {
		user, err = us.users.GetUserByID(ctx, id)
	} else {
		user, err = us.users.UpdateUser(ctx, id, update)
	}
	if err != nil {
		return nil, err
	}

	if update.Interests != nil {
		if err := us.SetInterests(ctx, id, update.Interests); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// SetInterests replaces the user's interests by catalogue name.
func (us *UserService) SetInterests(ctx context.Context, id string, names []string) error {
	if _, err := us.users.GetUserByID(ctx, id); err != nil {
		return err
	}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		interest, err := us.interests.FindInterestByName(ctx, strings.TrimSpace(name))
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return apperr.Validation("unknown interest: " + name)
			}
			return err
		}
		ids = append(ids, interest.ID)
	}
	return us.interests.SetUserInterests(ctx, id, ids)
}

// PotentialMatches returns up to PotentialMatchLimit candidates filtered by
// the user's age, gender and distance preferences, in random order.
// Candidates without coordinates pass the distance filter.
func (us *UserService) PotentialMatches(ctx context.Context, id string) ([]*models.UserSummary, error) {
	me, err := us.users.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}

	filter := models.CandidateFilter{
		Genders: me.Preferences.GenderPreference,
		Limit:   candidatePoolSize,
	}
	if me.Preferences.MinAge > 0 {
		filter.MinAge = &me.Preferences.MinAge
	}
	if me.Preferences.MaxAge > 0 {
		filter.MaxAge = &me.Preferences.MaxAge
	}

	candidates, err := us.users.ListCandidates(ctx, id, filter)
	if err != nil {
		return nil, err
	}

	out := make([]*models.UserSummary, 0, len(candidates))
	for _, c := range candidates {
		summary := c.Summary()
		if me.Latitude != nil && me.Longitude != nil && c.Latitude != nil && c.Longitude != nil {
			d := helpers.DistanceKm(*me.Latitude, *me.Longitude, *c.Latitude, *c.Longitude)
			if me.Preferences.MaxDistance > 0 && d > float64(me.Preferences.MaxDistance) {
				continue
			}
			d = float64(int(d*10+0.5)) / 10
			summary.Distance = &d
		}
		out = append(out, &summary)
	}

	us.shuffle(out)
	if len(out) > PotentialMatchLimit {
		out = out[:PotentialMatchLimit]
	}

	for _, s := range out {
		photos, err := us.photos.ListUserPhotos(ctx, s.ID)
		if err != nil {
			return nil, err
		}
		s.PrimaryPhoto = models.DisplayPhoto(photos)
	}
	return out, nil
}

func (us *UserService) SearchByName(ctx context.Context, query, callerID string) ([]*models.UserSummary, error) {
	query = strings.TrimSpace(query)
	if len(query) < 2 {
		return nil, apperr.Validation("query must be at least 2 characters")
	}
	users, err := us.users.SearchUsers(ctx, query, callerID, searchLimit)
	if err != nil {
		return nil, err
	}
	out := make([]*models.UserSummary, 0, len(users))
	for _, u := range users {
		s := u.Summary()
		out = append(out, &s)
	}
	return out, nil
}
