package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	UpdateUser(ctx context.Context, id string, update *UserUpdate) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	TouchLastActive(ctx context.Context, id string, at time.Time) error
	DeleteUser(ctx context.Context, id string) error
	ListCandidates(ctx context.Context, id string, filter CandidateFilter) ([]*User, error)
	SearchUsers(ctx context.Context, query, excludeID string, limit int) ([]*User, error)
}

func userProps(u *User) map[string]interface{} {
	return map[string]interface{}{
		"user_id":           u.ID,
		"name":              u.Name,
		"email":             u.Email,
		"age":               u.Age,
		"gender":            u.Gender,
		"bio":               optional(u.Bio),
		"city":              optional(u.City),
		"latitude":          optional(u.Latitude),
		"longitude":         optional(u.Longitude),
		"height":            optional(u.Height),
		"occupation":        optional(u.Occupation),
		"education":         optional(u.Education),
		"pref_min_age":      u.Preferences.MinAge,
		"pref_max_age":      u.Preferences.MaxAge,
		"pref_max_distance": u.Preferences.MaxDistance,
		"pref_genders":      nonNilStrings(u.Preferences.GenderPreference),
		"password_hash":     u.PasswordHash,
		"is_verified":       u.IsVerified,
		"is_banned":         u.IsBanned,
		"created_at":        u.CreatedAt,
		"last_active":       optional(u.LastActive),
	}
}

func userFromNode(n neo4j.Node) *User {
	p := n.Props
	return &User{
		ID:         propString(p, "user_id"),
		Name:       propString(p, "name"),
		Email:      propString(p, "email"),
		Age:        propInt(p, "age"),
		Gender:     propString(p, "gender"),
		Bio:        propStringPtr(p, "bio"),
		City:       propStringPtr(p, "city"),
		Latitude:   propFloatPtr(p, "latitude"),
		Longitude:  propFloatPtr(p, "longitude"),
		Height:     propIntPtr(p, "height"),
		Occupation: propStringPtr(p, "occupation"),
		Education:  propStringPtr(p, "education"),
		Preferences: UserPreferences{
			MinAge:           propInt(p, "pref_min_age"),
			MaxAge:           propInt(p, "pref_max_age"),
			MaxDistance:      propInt(p, "pref_max_distance"),
			GenderPreference: propStrings(p, "pref_genders"),
		},
		PasswordHash: propString(p, "password_hash"),
		IsVerified:   propBool(p, "is_verified"),
		IsBanned:     propBool(p, "is_banned"),
		BannedAt:     propTimePtr(p, "banned_at"),
		CreatedAt:    propTime(p, "created_at"),
		LastActive:   propTimePtr(p, "last_active"),
	}
}

func usersFromRecords(records []*neo4j.Record, key string) []*User {
	users := make([]*User, 0, len(records))
	for _, record := range records {
		if n, ok := nodeFromRecord(record, key); ok {
			users = append(users, userFromNode(n))
		}
	}
	return users
}

func nonNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func (r *Neo4jRepo) CreateUser(ctx context.Context, user *User) (*User, error) {
	records, err := r.write(ctx, `CREATE (u:User) SET u = $props RETURN u`, map[string]interface{}{
		"props": userProps(user),
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("error creating user: no record returned")
	}
	n, _ := nodeFromRecord(records[0], "u")
	return userFromNode(n), nil
}

func (r *Neo4jRepo) getUser(ctx context.Context, query string, params map[string]interface{}) (*User, error) {
	records, err := r.read(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error fetching user: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("user not found")
	}
	n, _ := nodeFromRecord(records[0], "u")
	return userFromNode(n), nil
}

func (r *Neo4jRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, `MATCH (u:User {user_id: $user_id}) RETURN u`, map[string]interface{}{"user_id": id})
}

func (r *Neo4jRepo) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `MATCH (u:User) WHERE toLower(u.email) = toLower($email) RETURN u`, map[string]interface{}{"email": email})
}

func (r *Neo4jRepo) UpdateUser(ctx context.Context, id string, update *UserUpdate) (*User, error) {
	query := `
		MATCH (u:User {user_id: $user_id})
		SET u.name = coalesce($name, u.name),
		    u.age = coalesce($age, u.age),
		    u.gender = coalesce($gender, u.gender),
		    u.bio = coalesce($bio, u.bio),
		    u.city = coalesce($city, u.city),
		    u.latitude = coalesce($latitude, u.latitude),
		    u.longitude = coalesce($longitude, u.longitude),
		    u.height = coalesce($height, u.height),
		    u.occupation = coalesce($occupation, u.occupation),
		    u.education = coalesce($education, u.education),
		    u.pref_min_age = coalesce($min_age, u.pref_min_age),
		    u.pref_max_age = coalesce($max_age, u.pref_max_age),
		    u.pref_max_distance = coalesce($max_dist, u.pref_max_distance),
		    u.pref_genders = coalesce($genders, u.pref_genders)
		RETURN u`
	params := update.Params()
	params["user_id"] = id

	records, err := r.write(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("user not found")
	}
	n, _ := nodeFromRecord(records[0], "u")
	return userFromNode(n), nil
}

func (r *Neo4jRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	records, err := r.write(ctx, `
		MATCH (u:User {user_id: $user_id})
		SET u.password_hash = $password_hash
		RETURN u.user_id AS user_id`, map[string]interface{}{
		"user_id":       id,
		"password_hash": passwordHash,
	})
	if err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *Neo4jRepo) TouchLastActive(ctx context.Context, id string, at time.Time) error {
	_, err := r.write(ctx, `MATCH (u:User {user_id: $user_id}) SET u.last_active = $at`, map[string]interface{}{
		"user_id": id,
		"at":      at,
	})
	if err != nil {
		return fmt.Errorf("error updating last active: %w", err)
	}
	return nil
}

// DeleteUser removes the user, their photos and the messages they sent,
// together with every relationship touching them.
func (r *Neo4jRepo) DeleteUser(ctx context.Context, id string) error {
	query := `
		MATCH (u:User {user_id: $user_id})
		OPTIONAL MATCH (p:Photo {user_id: $user_id})
		WITH u, collect(DISTINCT p) AS photos
		OPTIONAL MATCH (m:Message {sender_id: $user_id})
		WITH u, photos, collect(DISTINCT m) AS messages
		FOREACH (x IN photos | DETACH DELETE x)
		FOREACH (x IN messages | DETACH DELETE x)
		DETACH DELETE u
		RETURN 1 AS deleted`
	records, err := r.write(ctx, query, map[string]interface{}{"user_id": id})
	if err != nil {
		return fmt.Errorf("error deleting user: %w", err)
	}
	if len(records) == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}

func (r *Neo4jRepo) ListCandidates(ctx context.Context, id string, filter CandidateFilter) ([]*User, error) {
	query := `
		MATCH (me:User {user_id: $user_id})
		MATCH (u:User)
		WHERE u.user_id <> me.user_id
		  AND coalesce(u.is_banned, false) = false
		  AND NOT (me)-[:SWIPED]->(u)
		  AND NOT (me)-[:BLOCKS]-(u)
		  AND ($min_age IS NULL OR u.age >= $min_age)
		  AND ($max_age IS NULL OR u.age <= $max_age)
		  AND (size($genders) = 0 OR u.gender IN $genders)
		RETURN u
		LIMIT $limit`
	records, err := r.read(ctx, query, map[string]interface{}{
		"user_id": id,
		"min_age": optional(filter.MinAge),
		"max_age": optional(filter.MaxAge),
		"genders": nonNilStrings(filter.Genders),
		"limit":   filter.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("error listing candidates: %w", err)
	}
	return usersFromRecords(records, "u"), nil
}

func (r *Neo4jRepo) SearchUsers(ctx context.Context, query, excludeID string, limit int) ([]*User, error) {
	records, err := r.read(ctx, `
		MATCH (u:User)
		WHERE u.user_id <> $exclude_id
		  AND coalesce(u.is_banned, false) = false
		  AND toLower(u.name) CONTAINS toLower($query)
		RETURN u
		ORDER BY u.name
		LIMIT $limit`, map[string]interface{}{
		"query":      query,
		"exclude_id": excludeID,
		"limit":      limit,
	})
	if err != nil {
		return nil, fmt.Errorf("error searching users: %w", err)
	}
	return usersFromRecords(records, "u"), nil
}
