// Package storetest provides an in-memory implementation of every store
// interface for service and route tests.
package storetest

import (
	"context"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/joshua-takyi/rendez/internal/apperr"
	"github.com/joshua-takyi/rendez/internal/models"
)

type like struct{ from, to string }

type MemoryStore struct {
	mu sync.Mutex

	users         map[string]*models.User
	swipes        map[string]*models.Swipe
	likes         map[like]time.Time
	matches       map[string]*models.Match
	messages      map[string]*models.Message
	photos        map[string]*models.Photo
	blocks        map[string]*models.Block
	reports       map[string]*models.Report
	interests     map[string]*models.Interest
	userInterests map[string]map[string]struct{}
	resetCodes    map[string]*models.ResetCode
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         map[string]*models.User{},
		swipes:        map[string]*models.Swipe{},
		likes:         map[like]time.Time{},
		matches:       map[string]*models.Match{},
		messages:      map[string]*models.Message{},
		photos:        map[string]*models.Photo{},
		blocks:        map[string]*models.Block{},
		reports:       map[string]*models.Report{},
		interests:     map[string]*models.Interest{},
		userInterests: map[string]map[string]struct{}{},
		resetCodes:    map[string]*models.ResetCode{},
	}
}

func cp[T any](v *T) *T {
	out := *v
	return &out
}

// users

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = cp(user)
	return cp(user), nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return cp(u), nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			return cp(u), nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func (s *MemoryStore) UpdateUser(_ context.Context, id string, update *models.UserUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	update.Apply(u)
	return cp(u), nil
}

func (s *MemoryStore) UpdatePassword(_ context.Context, id, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	u.PasswordHash = hash
	return nil
}

func (s *MemoryStore) TouchLastActive(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.LastActive = &at
	}
	return nil
}

func (s *MemoryStore) DeleteUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return apperr.NotFound("user not found")
	}
	delete(s.users, id)
	for k, sw := range s.swipes {
		if sw.FromUserID == id || sw.ToUserID == id {
			delete(s.swipes, k)
		}
	}
	for k := range s.likes {
		if k.from == id || k.to == id {
			delete(s.likes, k)
		}
	}
	for k, m := range s.matches {
		if m.User1ID == id || m.User2ID == id {
			delete(s.matches, k)
		}
	}
	for k, m := range s.messages {
		if m.SenderID == id {
			delete(s.messages, k)
		}
	}
	for k, p := range s.photos {
		if p.UserID == id {
			delete(s.photos, k)
		}
	}
	for k, b := range s.blocks {
		if b.BlockerID == id || b.BlockedID == id {
			delete(s.blocks, k)
		}
	}
	delete(s.userInterests, id)
	return nil
}

func (s *MemoryStore) blockedEitherWay(a, b string) bool {
	for _, bl := range s.blocks {
		if (bl.BlockerID == a && bl.BlockedID == b) || (bl.BlockerID == b && bl.BlockedID == a) {
			return true
		}
	}
	return false
}

func (s *MemoryStore) swipedLocked(from, to string) bool {
	for _, sw := range s.swipes {
		if sw.FromUserID == from && sw.ToUserID == to {
			return true
		}
	}
	return false
}

func (s *MemoryStore) ListCandidates(_ context.Context, id string, f models.CandidateFilter) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, u := range s.sortedUsers() {
		if u.ID == id || u.IsBanned || s.swipedLocked(id, u.ID) || s.blockedEitherWay(id, u.ID) {
			continue
		}
		if f.MinAge != nil && u.Age < *f.MinAge {
			continue
		}
		if f.MaxAge != nil && u.Age > *f.MaxAge {
			continue
		}
		if len(f.Genders) > 0 && !slices.Contains(f.Genders, u.Gender) {
			continue
		}
		out = append(out, cp(u))
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) SearchUsers(_ context.Context, query, excludeID string, limit int) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, u := range s.sortedUsers() {
		if u.ID == excludeID || u.IsBanned || !strings.Contains(strings.ToLower(u.Name), strings.ToLower(query)) {
			continue
		}
		out = append(out, cp(u))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) sortedUsers() []*models.User {
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

// swipes

func (s *MemoryStore) CreateSwipe(_ context.Context, sw *models.Swipe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[sw.FromUserID] == nil || s.users[sw.ToUserID] == nil {
		return apperr.NotFound("user not found")
	}
	s.swipes[sw.ID] = cp(sw)
	return nil
}

func (s *MemoryStore) GetSwipe(_ context.Context, id string) (*models.Swipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sw, ok := s.swipes[id]
	if !ok {
		return nil, apperr.NotFound("swipe not found")
	}
	return cp(sw), nil
}

func (s *MemoryStore) HasSwiped(_ context.Context, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.swipedLocked(from, to), nil
}

func (s *MemoryStore) DeleteSwipe(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.swipes[id]; !ok {
		return apperr.NotFound("swipe not found")
	}
	delete(s.swipes, id)
	return nil
}

func (s *MemoryStore) ListSwipes(_ context.Context, userID string, actions []string) ([]*models.Swipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Swipe
	for _, sw := range s.swipes {
		if sw.FromUserID != userID {
			continue
		}
		if len(actions) > 0 && !slices.Contains(actions, sw.Action) {
			continue
		}
		out = append(out, cp(sw))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) MergeLike(_ context.Context, from, to string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.likes[like{from, to}]; !ok {
		s.likes[like{from, to}] = at
	}
	return nil
}

func (s *MemoryStore) DeleteLike(_ context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.likes, like{from, to})
	return nil
}

func (s *MemoryStore) HasLike(_ context.Context, from, to string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.likes[like{from, to}]
	return ok, nil
}

func (s *MemoryStore) ListReceivedLikes(_ context.Context, userID string) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.User
	for _, u := range s.sortedUsers() {
		if _, ok := s.likes[like{u.ID, userID}]; !ok {
			continue
		}
		if s.findMatchLocked(u.ID, userID) != nil {
			continue
		}
		out = append(out, cp(u))
	}
	return out, nil
}

// Likes reports the number of stored like edges.
func (s *MemoryStore) Likes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.likes)
}

// matches

func (s *MemoryStore) findMatchLocked(a, b string) *models.Match {
	for _, m := range s.matches {
		if m.Involves(a, b) {
			return m
		}
	}
	return nil
}

func (s *MemoryStore) CreateMatch(_ context.Context, m *models.Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[m.User1ID] == nil || s.users[m.User2ID] == nil {
		return false, nil
	}
	if s.findMatchLocked(m.User1ID, m.User2ID) != nil {
		return false, nil
	}
	s.matches[m.ID] = cp(m)
	return true, nil
}

func (s *MemoryStore) GetMatch(_ context.Context, id string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, apperr.NotFound("match not found")
	}
	return cp(m), nil
}

func (s *MemoryStore) FindMatchBetween(_ context.Context, a, b string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.findMatchLocked(a, b); m != nil {
		return cp(m), nil
	}
	return nil, apperr.NotFound("match not found")
}

// Matches reports the number of stored matches.
func (s *MemoryStore) Matches() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches)
}

func (s *MemoryStore) lastMessageLocked(a, b string) *models.Message {
	var last *models.Message
	for _, msg := range s.messages {
		pair := (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a)
		if pair && (last == nil || msg.SentAt.After(last.SentAt)) {
			last = msg
		}
	}
	return last
}

func (s *MemoryStore) displayPhotoLocked(userID string) *string {
	var mine []*models.Photo
	for _, p := range s.photos {
		if p.UserID == userID {
			mine = append(mine, p)
		}
	}
	return models.DisplayPhoto(mine)
}

func (s *MemoryStore) ListUserMatches(_ context.Context, userID string) ([]*models.MatchSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.MatchSummary
	for _, m := range s.matches {
		other := m.Other(userID)
		if other == "" {
			continue
		}
		summary := &models.MatchSummary{Match: *m}
		if u, ok := s.users[other]; ok {
			summary.OtherUser = u.Summary()
		}
		summary.OtherUser.PrimaryPhoto = s.displayPhotoLocked(other)
		if last := s.lastMessageLocked(userID, other); last != nil {
			summary.LastMessage = cp(last)
		}
		out = append(out, summary)
	}
	activity := func(ms *models.MatchSummary) time.Time {
		if ms.LastMessage != nil {
			return ms.LastMessage.SentAt
		}
		return ms.MatchedAt
	}
	sort.Slice(out, func(i, j int) bool { return activity(out[i]).After(activity(out[j])) })
	return out, nil
}

func (s *MemoryStore) TouchConversation(_ context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[id]
	if !ok {
		return apperr.NotFound("match not found")
	}
	m.ConversationStarted = true
	m.LastMessageAt = &at
	return nil
}

func (s *MemoryStore) DeleteMatch(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[id]; !ok {
		return apperr.NotFound("match not found")
	}
	delete(s.matches, id)
	return nil
}

func (s *MemoryStore) DeleteMatchesBetween(_ context.Context, a, b string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, m := range s.matches {
		if m.Involves(a, b) {
			delete(s.matches, k)
		}
	}
	return nil
}

// messages

func (s *MemoryStore) CreateMessage(_ context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[msg.ID] = cp(msg)
	return nil
}

func (s *MemoryStore) GetMessage(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, apperr.NotFound("message not found")
	}
	return cp(m), nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func (s *MemoryStore) ListMatchMessages(_ context.Context, matchID string, limit, offset int) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Message
	for _, m := range s.messages {
		if m.MatchID != nil && *m.MatchID == matchID {
			out = append(out, cp(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	return page(out, limit, offset), nil
}

func (s *MemoryStore) ListBetween(_ context.Context, a, b string, limit int) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Message
	for _, m := range s.messages {
		if (m.SenderID == a && m.ReceiverID == b) || (m.SenderID == b && m.ReceiverID == a) {
			out = append(out, cp(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SentAt.After(out[j].SentAt) })
	out = page(out, limit, 0)
	slices.Reverse(out)
	return out, nil
}

func (s *MemoryStore) MarkRead(_ context.Context, id string, at time.Time) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, apperr.NotFound("message not found")
	}
	if m.ReadAt == nil {
		m.ReadAt = &at
	}
	m.IsRead = true
	return cp(m), nil
}

func (s *MemoryStore) MarkDelivered(_ context.Context, id string, at time.Time) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, apperr.NotFound("message not found")
	}
	if m.DeliveredAt == nil {
		m.DeliveredAt = &at
	}
	m.IsDelivered = true
	return cp(m), nil
}

func (s *MemoryStore) UnreadCount(_ context.Context, userID, fromID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, m := range s.messages {
		if m.ReceiverID == userID && !m.IsRead && (fromID == "" || m.SenderID == fromID) {
			n++
		}
	}
	return n, nil
}

// photos

func (s *MemoryStore) unsetPrimaryLocked(userID, keep string) {
	for _, p := range s.photos {
		if p.UserID == userID && p.ID != keep {
			p.IsPrimary = false
		}
	}
}

func (s *MemoryStore) CreatePhoto(_ context.Context, p *models.Photo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[p.UserID] == nil {
		return apperr.NotFound("user not found")
	}
	if p.IsPrimary {
		s.unsetPrimaryLocked(p.UserID, p.ID)
	}
	s.photos[p.ID] = cp(p)
	return nil
}

func (s *MemoryStore) GetPhoto(_ context.Context, id string) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return nil, apperr.NotFound("photo not found")
	}
	return cp(p), nil
}

func (s *MemoryStore) ListUserPhotos(_ context.Context, userID string) ([]*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Photo
	for _, p := range s.photos {
		if p.UserID == userID {
			out = append(out, cp(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Order != out[j].Order {
			return out[i].Order < out[j].Order
		}
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}

func (s *MemoryStore) UpdatePhoto(_ context.Context, id string, update *models.PhotoUpdate) (*models.Photo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.photos[id]
	if !ok {
		return nil, apperr.NotFound("photo not found")
	}
	if update.MakesPrimary() {
		s.unsetPrimaryLocked(p.UserID, id)
	}
	update.Apply(p)
	return cp(p), nil
}

func (s *MemoryStore) DeletePhoto(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.photos[id]; !ok {
		return apperr.NotFound("photo not found")
	}
	delete(s.photos, id)
	return nil
}

// blocks and reports

func (s *MemoryStore) CreateBlock(_ context.Context, b *models.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[b.BlockerID] == nil || s.users[b.BlockedID] == nil {
		return apperr.NotFound("user not found")
	}
	s.blocks[b.ID] = cp(b)
	return nil
}

func (s *MemoryStore) IsBlocked(_ context.Context, blocker, blocked string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.blocks {
		if b.BlockerID == blocker && b.BlockedID == blocked {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) DeleteBlock(_ context.Context, blocker, blocked string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, b := range s.blocks {
		if b.BlockerID == blocker && b.BlockedID == blocked {
			delete(s.blocks, k)
			return nil
		}
	}
	return apperr.NotFound("block not found")
}

func (s *MemoryStore) ListBlocks(_ context.Context, blocker string) ([]*models.BlockedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.BlockedUser
	for _, b := range s.blocks {
		if b.BlockerID != blocker {
			continue
		}
		entry := &models.BlockedUser{Block: *b}
		if u, ok := s.users[b.BlockedID]; ok {
			entry.User = u.Summary()
		}
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) CreateReport(_ context.Context, r *models.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[r.ID] = cp(r)
	return nil
}

func (s *MemoryStore) GetReport(_ context.Context, id string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, apperr.NotFound("report not found")
	}
	return cp(r), nil
}

func (s *MemoryStore) ListReports(_ context.Context, status string) ([]*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*models.Report
	for _, r := range s.reports {
		if status == "" || r.Status == status {
			out = append(out, cp(r))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (s *MemoryStore) UpdateReportStatus(_ context.Context, id, status string) (*models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, apperr.NotFound("report not found")
	}
	r.Status = status
	return cp(r), nil
}

// interests

func (s *MemoryStore) CreateInterest(_ context.Context, i *models.Interest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interests[i.ID] = cp(i)
	return nil
}

func (s *MemoryStore) GetInterest(_ context.Context, id string) (*models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.interests[id]
	if !ok {
		return nil, apperr.NotFound("interest not found")
	}
	return cp(i), nil
}

func (s *MemoryStore) FindInterestByName(_ context.Context, name string) (*models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, i := range s.interests {
		if strings.EqualFold(i.Name, name) {
			return cp(i), nil
		}
	}
	return nil, apperr.NotFound("interest not found")
}

func (s *MemoryStore) sortedInterests(keep func(*models.Interest) bool) []*models.Interest {
	var out []*models.Interest
	for _, i := range s.interests {
		if keep(i) {
			out = append(out, cp(i))
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *MemoryStore) ListInterests(_ context.Context, category string) ([]*models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedInterests(func(i *models.Interest) bool {
		return category == "" || i.Category == category
	}), nil
}

func (s *MemoryStore) AddUserInterest(_ context.Context, userID, interestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.users[userID] == nil || s.interests[interestID] == nil {
		return apperr.NotFound("user or interest not found")
	}
	if s.userInterests[userID] == nil {
		s.userInterests[userID] = map[string]struct{}{}
	}
	s.userInterests[userID][interestID] = struct{}{}
	return nil
}

func (s *MemoryStore) RemoveUserInterest(_ context.Context, userID, interestID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.userInterests[userID][interestID]; !ok {
		return apperr.NotFound("user interest not found")
	}
	delete(s.userInterests[userID], interestID)
	return nil
}

func (s *MemoryStore) SetUserInterests(_ context.Context, userID string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set := map[string]struct{}{}
	for _, id := range ids {
		if s.interests[id] != nil {
			set[id] = struct{}{}
		}
	}
	s.userInterests[userID] = set
	return nil
}

func (s *MemoryStore) ListUserInterests(_ context.Context, userID string) ([]*models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedInterests(func(i *models.Interest) bool {
		_, ok := s.userInterests[userID][i.ID]
		return ok
	}), nil
}

func (s *MemoryStore) CommonInterests(_ context.Context, a, b string) ([]*models.Interest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedInterests(func(i *models.Interest) bool {
		_, okA := s.userInterests[a][i.ID]
		_, okB := s.userInterests[b][i.ID]
		return okA && okB
	}), nil
}

// admin

func (s *MemoryStore) Stats(_ context.Context, dayStart, weekStart time.Time) (*models.Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &models.Stats{
		TotalUsers:    len(s.users),
		TotalMatches:  len(s.matches),
		TotalMessages: len(s.messages),
	}
	for _, u := range s.users {
		if u.IsVerified {
			st.VerifiedUsers++
		}
		if u.IsBanned {
			st.BannedUsers++
		}
		if u.LastActive != nil && !u.LastActive.Before(dayStart) {
			st.ActiveToday++
		}
		if !u.CreatedAt.Before(weekStart) {
			st.NewThisWeek++
		}
	}
	return st, nil
}

func (s *MemoryStore) ListUsers(_ context.Context, skip, limit int) ([]*models.User, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, cp(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].CreatedAt.After(users[j].CreatedAt) })
	return page(users, limit, skip), len(users), nil
}

func (s *MemoryStore) SetVerified(_ context.Context, id string, verified bool) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.IsVerified = verified
	return cp(u), nil
}

func (s *MemoryStore) SetBanned(_ context.Context, id string, banned bool, at time.Time) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	u.IsBanned = banned
	u.BannedAt = nil
	if banned {
		u.BannedAt = &at
	}
	return cp(u), nil
}

func (s *MemoryStore) ListMatches(_ context.Context, skip, limit int) ([]*models.AdminMatch, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.AdminMatch, 0, len(s.matches))
	for _, m := range s.matches {
		am := &models.AdminMatch{Match: *m}
		if u, ok := s.users[m.User1ID]; ok {
			am.User1Name = u.Name
		}
		if u, ok := s.users[m.User2ID]; ok {
			am.User2Name = u.Name
		}
		out = append(out, am)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MatchedAt.After(out[j].MatchedAt) })
	return page(out, limit, skip), len(out), nil
}

func (s *MemoryStore) UsersGrowth(_ context.Context, since time.Time) ([]models.GrowthPoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := map[string]int{}
	for _, u := range s.users {
		if !u.CreatedAt.Before(since) {
			counts[u.CreatedAt.UTC().Format(time.DateOnly)]++
		}
	}
	out := make([]models.GrowthPoint, 0, len(counts))
	for day, n := range counts {
		out = append(out, models.GrowthPoint{Date: day, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (s *MemoryStore) CountMatchesAndSwipes(_ context.Context) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.matches), len(s.swipes), nil
}

// reset codes

func (s *MemoryStore) SaveResetCode(_ context.Context, code *models.ResetCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetCodes[strings.ToLower(code.Email)] = cp(code)
	return nil
}

func (s *MemoryStore) GetResetCode(_ context.Context, email string) (*models.ResetCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rc, ok := s.resetCodes[strings.ToLower(email)]
	if !ok {
		return nil, apperr.NotFound("reset code not found")
	}
	return cp(rc), nil
}

func (s *MemoryStore) IncrementResetAttempts(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rc, ok := s.resetCodes[strings.ToLower(email)]; ok {
		rc.Attempts++
	}
	return nil
}

func (s *MemoryStore) DeleteResetCode(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.resetCodes, strings.ToLower(email))
	return nil
}

var (
	_ models.UserRepo      = (*MemoryStore)(nil)
	_ models.SwipeRepo     = (*MemoryStore)(nil)
	_ models.MatchRepo     = (*MemoryStore)(nil)
	_ models.MessageRepo   = (*MemoryStore)(nil)
	_ models.PhotoRepo     = (*MemoryStore)(nil)
	_ models.BlockRepo     = (*MemoryStore)(nil)
	_ models.InterestRepo  = (*MemoryStore)(nil)
	_ models.AdminRepo     = (*MemoryStore)(nil)
	_ models.ResetCodeRepo = (*MemoryStore)(nil)
)
