package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
)

type Stats struct {
	TotalUsers    int `json:"total_users"`
	VerifiedUsers int `json:"verified_users"`
	BannedUsers   int `json:"banned_users"`
	ActiveToday   int `json:"active_today"`
	NewThisWeek   int `json:"new_this_week"`
	TotalMatches  int `json:"total_matches"`
	TotalMessages int `json:"total_messages"`
}

type GrowthPoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type MatchRate struct {
	TotalSwipes  int     `json:"total_swipes"`
	TotalMatches int     `json:"total_matches"`
	MatchRate    float64 `json:"match_rate"`
}

type AdminMatch struct {
	Match
	User1Name string `json:"user1_name"`
	User2Name string `json:"user2_name"`
}

type AdminRepo interface {
	Stats(ctx context.Context, dayStart, weekStart time.Time) (*Stats, error)
	ListUsers(ctx context.Context, skip, limit int) ([]*User, int, error)
	SetVerified(ctx context.Context, id string, verified bool) (*User, error)
	SetBanned(ctx context.Context, id string, banned bool, at time.Time) (*User, error)
	ListMatches(ctx context.Context, skip, limit int) ([]*AdminMatch, int, error)
	UsersGrowth(ctx context.Context, since time.Time) ([]GrowthPoint, error)
	CountMatchesAndSwipes(ctx context.Context) (matches, swipes int, err error)
}

func (r *Neo4jRepo) Stats(ctx context.Context, dayStart, weekStart time.Time) (*Stats, error) {
	query := `
		OPTIONAL MATCH (u:User)
		WITH count(u) AS total_users,
		     sum(CASE WHEN u.is_verified THEN 1 ELSE 0 END) AS verified_users,
		     sum(CASE WHEN u.is_banned THEN 1 ELSE 0 END) AS banned_users,
		     sum(CASE WHEN u.last_active >= $day_start THEN 1 ELSE 0 END) AS active_today,
		     sum(CASE WHEN u.created_at >= $week_start THEN 1 ELSE 0 END) AS new_this_week
		OPTIONAL MATCH ()-[m:MATCHES]->()
		WITH total_users, verified_users, banned_users, active_today, new_this_week, count(m) AS total_matches
		OPTIONAL MATCH (msg:Message)
		RETURN total_users, verified_users, banned_users, active_today, new_this_week,
		       total_matches, count(msg) AS total_messages`
	records, err := r.read(ctx, query, map[string]interface{}{
		"day_start":  dayStart,
		"week_start": weekStart,
	})
	if err != nil {
		return nil, fmt.Errorf("error computing stats: %w", err)
	}
	stats := &Stats{}
	if len(records) > 0 {
		rec := records[0]
		stats.TotalUsers = int(getInt64FromRecord(rec, "total_users"))
		stats.VerifiedUsers = int(getInt64FromRecord(rec, "verified_users"))
		stats.BannedUsers = int(getInt64FromRecord(rec, "banned_users"))
		stats.ActiveToday = int(getInt64FromRecord(rec, "active_today"))
		stats.NewThisWeek = int(getInt64FromRecord(rec, "new_this_week"))
		stats.TotalMatches = int(getInt64FromRecord(rec, "total_matches"))
		stats.TotalMessages = int(getInt64FromRecord(rec, "total_messages"))
	}
	return stats, nil
}

func (r *Neo4jRepo) ListUsers(ctx context.Context, skip, limit int) ([]*User, int, error) {
	records, err := r.read(ctx, `
		MATCH (u:User)
		RETURN u
		ORDER BY u.created_at DESC
		SKIP $skip
		LIMIT $limit`, map[string]interface{}{"skip": skip, "limit": limit})
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	total, err := r.count(ctx, `MATCH (u:User) RETURN count(u) AS n`)
	if err != nil {
		return nil, 0, err
	}
	return usersFromRecords(records, "u"), total, nil
}

func (r *Neo4jRepo) SetVerified(ctx context.Context, id string, verified bool) (*User, error) {
	records, err := r.write(ctx, `
		MATCH (u:User {user_id: $user_id})
		SET u.is_verified = $verified
		RETURN u`, map[string]interface{}{"user_id": id, "verified": verified})
	if err != nil {
		return nil, fmt.Errorf("error verifying user: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("user not found")
	}
	n, _ := nodeFromRecord(records[0], "u")
	return userFromNode(n), nil
}

func (r *Neo4jRepo) SetBanned(ctx context.Context, id string, banned bool, at time.Time) (*User, error) {
	records, err := r.write(ctx, `
		MATCH (u:User {user_id: $user_id})
		SET u.is_banned = $banned,
		    u.banned_at = CASE WHEN $banned THEN $at ELSE null END
		RETURN u`, map[string]interface{}{"user_id": id, "banned": banned, "at": at})
	if err != nil {
		return nil, fmt.Errorf("error banning user: %w", err)
	}
	if len(records) == 0 {
		return nil, apperr.NotFound("user not found")
	}
	n, _ := nodeFromRecord(records[0], "u")
	return userFromNode(n), nil
}

func (r *Neo4jRepo) ListMatches(ctx context.Context, skip, limit int) ([]*AdminMatch, int, error) {
	records, err := r.read(ctx, `
		MATCH (a:User)-[m:MATCHES]->(b:User)
		RETURN m, a.user_id AS user1_id, b.user_id AS user2_id, a.name AS user1_name, b.name AS user2_name
		ORDER BY m.matched_at DESC
		SKIP $skip
		LIMIT $limit`, map[string]interface{}{"skip": skip, "limit": limit})
	if err != nil {
		return nil, 0, fmt.Errorf("error listing matches: %w", err)
	}
	total, err := r.count(ctx, `MATCH ()-[m:MATCHES]->() RETURN count(m) AS n`)
	if err != nil {
		return nil, 0, err
	}
	out := make([]*AdminMatch, 0, len(records))
	for _, record := range records {
		out = append(out, &AdminMatch{
			Match:     *matchFromRecord(record),
			User1Name: getStringFromRecord(record, "user1_name"),
			User2Name: getStringFromRecord(record, "user2_name"),
		})
	}
	return out, total, nil
}

func (r *Neo4jRepo) UsersGrowth(ctx context.Context, since time.Time) ([]GrowthPoint, error) {
	records, err := r.read(ctx, `
		MATCH (u:User)
		WHERE u.created_at >= $since
		RETURN toString(date(u.created_at)) AS day, count(u) AS n
		ORDER BY day`, map[string]interface{}{"since": since})
	if err != nil {
		return nil, fmt.Errorf("error computing growth: %w", err)
	}
	out := make([]GrowthPoint, 0, len(records))
	for _, record := range records {
		out = append(out, GrowthPoint{
			Date:  getStringFromRecord(record, "day"),
			Count: int(getInt64FromRecord(record, "n")),
		})
	}
	return out, nil
}

func (r *Neo4jRepo) CountMatchesAndSwipes(ctx context.Context) (int, int, error) {
	matches, err := r.count(ctx, `MATCH ()-[m:MATCHES]->() RETURN count(m) AS n`)
	if err != nil {
		return 0, 0, err
	}
	swipes, err := r.count(ctx, `MATCH ()-[s:SWIPED]->() RETURN count(s) AS n`)
	if err != nil {
		return 0, 0, err
	}
	return matches, swipes, nil
}

func (r *Neo4jRepo) count(ctx context.Context, query string) (int, error) {
	records, err := r.read(ctx, query, nil)
	if err != nil {
		return 0, fmt.Errorf("error counting: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}
	return int(getInt64FromRecord(records[0], "n")), nil
}
