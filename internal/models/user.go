package models

import (
	"time"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

type UserPreferences struct {
	MinAge           int      `json:"min_age,omitempty" validate:"omitempty,gte=18,lte=100"`
	MaxAge           int      `json:"max_age,omitempty" validate:"omitempty,gte=18,lte=100"`
	MaxDistance      int      `json:"max_distance,omitempty" validate:"omitempty,gte=1,lte=500"`
	GenderPreference []string `json:"gender_preference,omitempty" validate:"omitempty,dive,oneof=male female other"`
}

type User struct {
	ID           string          `json:"user_id"`
	Name         string          `json:"name" validate:"required,min=1,max=100"`
	Email        string          `json:"email" validate:"required,email"`
	Age          int             `json:"age" validate:"required,gte=18,lte=100"`
	Gender       string          `json:"gender" validate:"required,oneof=male female other"`
	Bio          *string         `json:"bio,omitempty" validate:"omitempty,max=500"`
	City         *string         `json:"city,omitempty" validate:"omitempty,max=100"`
	Latitude     *float64        `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64        `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
	Height       *int            `json:"height,omitempty" validate:"omitempty,gte=100,lte=250"`
	Occupation   *string         `json:"occupation,omitempty" validate:"omitempty,max=100"`
	Education    *string         `json:"education,omitempty" validate:"omitempty,max=100"`
	Preferences  UserPreferences `json:"preferences"`
	PasswordHash string          `json:"-"`
	IsVerified   bool            `json:"is_verified"`
	IsBanned     bool            `json:"is_banned"`
	BannedAt     *time.Time      `json:"banned_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActive   *time.Time      `json:"last_active,omitempty"`
}

// UserSummary is the public view of a user embedded in other resources.
type UserSummary struct {
	ID           string     `json:"user_id"`
	Name         string     `json:"name"`
	Age          int        `json:"age"`
	Gender       string     `json:"gender"`
	Bio          *string    `json:"bio,omitempty"`
	City         *string    `json:"city,omitempty"`
	PrimaryPhoto *string    `json:"primary_photo,omitempty"`
	IsVerified   bool       `json:"is_verified"`
	LastActive   *time.Time `json:"last_active,omitempty"`
	Distance     *float64   `json:"distance,omitempty"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		Age:        u.Age,
		Gender:     u.Gender,
		Bio:        u.Bio,
		City:       u.City,
		IsVerified: u.IsVerified,
		LastActive: u.LastActive,
	}
}

// UserProfile is a user together with their photos and interests.
type UserProfile struct {
	*User
	Photos    []*Photo    `json:"photos"`
	Interests []*Interest `json:"interests"`
}

type RegisterRequest struct {
	Name        string           `json:"name" binding:"required"`
	Email       string           `json:"email" binding:"required,email"`
	Password    string           `json:"password" binding:"required"`
	Age         int              `json:"age" binding:"required"`
	Gender      string           `json:"gender" binding:"required"`
	Bio         *string          `json:"bio"`
	City        *string          `json:"city"`
	Latitude    *float64         `json:"latitude"`
	Longitude   *float64         `json:"longitude"`
	Height      *int             `json:"height"`
	Occupation  *string          `json:"occupation"`
	Education   *string          `json:"education"`
	Interests   []string         `json:"interests"`
	Preferences *UserPreferences `json:"preferences"`
}

// UserUpdate holds the profile fields a user may change. Nil fields are left
// untouched.
type UserUpdate struct {
	Name        *string          `json:"name" validate:"omitempty,min=1,max=100"`
	Age         *int             `json:"age" validate:"omitempty,gte=18,lte=100"`
	Gender      *string          `json:"gender" validate:"omitempty,oneof=male female other"`
	Bio         *string          `json:"bio" validate:"omitempty,max=500"`
	City        *string          `json:"city" validate:"omitempty,max=100"`
	Latitude    *float64         `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude   *float64         `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	Height      *int             `json:"height" validate:"omitempty,gte=100,lte=250"`
	Occupation  *string          `json:"occupation" validate:"omitempty,max=100"`
	Education   *string          `json:"education" validate:"omitempty,max=100"`
	Interests   []string         `json:"interests"`
	Preferences *UserPreferences `json:"preferences"`
}

// IsEmpty reports whether the update changes no stored profile field.
func (u *UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Age == nil && u.Gender == nil && u.Bio == nil &&
		u.City == nil && u.Latitude == nil && u.Longitude == nil && u.Height == nil &&
		u.Occupation == nil && u.Education == nil && u.Preferences == nil
}

// Params returns the parameters of the fixed profile update statement.
// Every key is always present; nil means "keep the stored value".
func (u *UserUpdate) Params() map[string]interface{} {
	params := map[string]interface{}{
		"name":       optional(u.Name),
		"age":        optional(u.Age),
		"gender":     optional(u.Gender),
		"bio":        optional(u.Bio),
		"city":       optional(u.City),
		"latitude":   optional(u.Latitude),
		"longitude":  optional(u.Longitude),
		"height":     optional(u.Height),
		"occupation": optional(u.Occupation),
		"education":  optional(u.Education),
		"min_age":    nil,
		"max_age":    nil,
		"max_dist":   nil,
		"genders":    nil,
	}
	if p := u.Preferences; p != nil {
		params["min_age"] = p.MinAge
		params["max_age"] = p.MaxAge
		params["max_dist"] = p.MaxDistance
		params["genders"] = p.GenderPreference
	}
	return params
}

// Apply copies the set fields onto user. Used by stores without a query
// language.
func (u *UserUpdate) Apply(user *User) {
	if u.Name != nil {
		user.Name = *u.Name
	}
	if u.Age != nil {
		user.Age = *u.Age
	}
	if u.Gender != nil {
		user.Gender = *u.Gender
	}
	if u.Bio != nil {
		user.Bio = u.Bio
	}
	if u.City != nil {
		user.City = u.City
	}
	if u.Latitude != nil {
		user.Latitude = u.Latitude
	}
	if u.Longitude != nil {
		user.Longitude = u.Longitude
	}
	if u.Height != nil {
		user.Height = u.Height
	}
	if u.Occupation != nil {
		user.Occupation = u.Occupation
	}
	if u.Education != nil {
		user.Education = u.Education
	}
	if u.Preferences != nil {
		user.Preferences = *u.Preferences
	}
}

// CandidateFilter narrows the potential-match query.
type CandidateFilter struct {
	MinAge  *int
	MaxAge  *int
	Genders []string
	Limit   int
}
