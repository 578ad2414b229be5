package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"chipin/internal/domain"

	"github.com/shopspring/decimal"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

const testTimeout = 5 * time.Second

// memStore is an in-memory backing store shared by the fake repositories.
type memStore struct {
	seq          int
	users        map[string]*domain.User
	groups       map[string]*domain.Group
	members      map[string]map[string]bool
	invited      map[string]map[string]bool
	invites      map[string]*domain.Invite
	joinRequests map[string]*domain.JoinRequest
	comments     map[string]*domain.Comment
	events       map[string]*domain.Event
	eventMembers map[string]map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		users:        make(map[string]*domain.User),
		groups:       make(map[string]*domain.Group),
		members:      make(map[string]map[string]bool),
		invited:      make(map[string]map[string]bool),
		invites:      make(map[string]*domain.Invite),
		joinRequests: make(map[string]*domain.JoinRequest),
		comments:     make(map[string]*domain.Comment),
		events:       make(map[string]*domain.Event),
		eventMembers: make(map[string]map[string]bool),
	}
}

func (m *memStore) nextID(prefix string) string {
	m.seq++
	return fmt.Sprintf("%s-%d", prefix, m.seq)
}

// addUser stores a user with the given cap; an empty cap leaves it unset.
func (m *memStore) addUser(id, username, maxSpend string) *domain.User {
	u := &domain.User{ID: id, Email: username + "@example.com", Username: username}
	if maxSpend != "" {
		u.MaxSpend = decimal.NewNullDecimal(decimal.RequireFromString(maxSpend))
	}
	m.users[id] = u
	return u
}

// addGroup stores a group administered by adminID with the given members.
func (m *memStore) addGroup(id, name, adminID string, memberIDs ...string) *domain.Group {
	g := &domain.Group{ID: id, Name: name, AdminID: adminID}
	m.groups[id] = g
	m.members[id] = make(map[string]bool)
	for _, uid := range memberIDs {
		m.members[id][uid] = true
	}
	return g
}

func (m *memStore) addEvent(id, groupID, total string, memberIDs ...string) *domain.Event {
	e := &domain.Event{ID: id, GroupID: groupID, Name: "Event " + id, TotalSpend: decimal.RequireFromString(total), Status: domain.EventPending}
	m.events[id] = e
	m.eventMembers[id] = make(map[string]bool)
	for _, uid := range memberIDs {
		m.eventMembers[id][uid] = true
	}
	return e
}

func (m *memStore) commentCount(groupID string) int {
	n := 0
	for _, c := range m.comments {
		if c.GroupID == groupID {
			n++
		}
	}
	return n
}

func (m *memStore) joinRequestCount(groupID, userID string) int {
	n := 0
	for _, jr := range m.joinRequests {
		if jr.GroupID == groupID && jr.UserID == userID {
			n++
		}
	}
	return n
}

func setOf(m map[string]map[string]bool, key string) map[string]bool {
	if m[key] == nil {
		m[key] = make(map[string]bool)
	}
	return m[key]
}

func sortedGroups(in []*domain.Group) []*domain.Group {
	sort.Slice(in, func(i, j int) bool { return in[i].ID < in[j].ID })
	return in
}

type fakeUserRepo struct{ *memStore }

func (f fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = f.nextID("user")
	f.users[u.ID] = u
	return nil
}

func (f fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	if _, ok := f.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	f.users[u.ID] = &cp
	return nil
}

func (f fakeUserRepo) ListNotInGroup(_ context.Context, groupID string) ([]*domain.User, error) {
	out := make([]*domain.User, 0)
	for id, u := range f.users {
		if !f.members[groupID][id] {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeGroupRepo struct{ *memStore }

func (f fakeGroupRepo) Create(_ context.Context, g *domain.Group) error {
	g.ID = f.nextID("group")
	f.groups[g.ID] = g
	return nil
}

func (f fakeGroupRepo) GetByID(_ context.Context, id string) (*domain.Group, error) {
	g, ok := f.groups[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return g, nil
}

func (f fakeGroupRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.groups[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.groups, id)
	delete(f.members, id)
	delete(f.invited, id)
	for k, c := range f.comments {
		if c.GroupID == id {
			delete(f.comments, k)
		}
	}
	for k, e := range f.events {
		if e.GroupID == id {
			delete(f.events, k)
		}
	}
	for k, jr := range f.joinRequests {
		if jr.GroupID == id {
			delete(f.joinRequests, k)
		}
	}
	return nil
}

func (f fakeGroupRepo) ListByMember(_ context.Context, userID string) ([]*domain.Group, error) {
	out := make([]*domain.Group, 0)
	for id, g := range f.groups {
		if f.members[id][userID] {
			out = append(out, g)
		}
	}
	return sortedGroups(out), nil
}

func (f fakeGroupRepo) ListInvitingUser(_ context.Context, userID string) ([]*domain.Group, error) {
	out := make([]*domain.Group, 0)
	for id, g := range f.groups {
		if f.invited[id][userID] {
			out = append(out, g)
		}
	}
	return sortedGroups(out), nil
}

func (f fakeGroupRepo) ListAvailable(_ context.Context, userID string) ([]*domain.Group, error) {
	out := make([]*domain.Group, 0)
	for id, g := range f.groups {
		if f.members[id][userID] || f.joinRequestCount(id, userID) > 0 {
			continue
		}
		out = append(out, g)
	}
	return sortedGroups(out), nil
}

func (f fakeGroupRepo) AddMember(_ context.Context, groupID, userID string) error {
	setOf(f.members, groupID)[userID] = true
	return nil
}

func (f fakeGroupRepo) RemoveMember(_ context.Context, groupID, userID string) error {
	if !f.members[groupID][userID] {
		return domain.ErrNotFound
	}
	delete(f.members[groupID], userID)
	return nil
}

func (f fakeGroupRepo) IsMember(_ context.Context, groupID, userID string) (bool, error) {
	return f.members[groupID][userID], nil
}

func (f fakeGroupRepo) ListMembers(_ context.Context, groupID string) ([]*domain.User, error) {
	out := make([]*domain.User, 0)
	for id := range f.members[groupID] {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeGroupRepo) CountMembers(_ context.Context, groupID string) (int, error) {
	return len(f.members[groupID]), nil
}

func (f fakeGroupRepo) AddInvitedUser(_ context.Context, groupID, userID string) error {
	setOf(f.invited, groupID)[userID] = true
	return nil
}

func (f fakeGroupRepo) RemoveInvitedUser(_ context.Context, groupID, userID string) error {
	delete(f.invited[groupID], userID)
	return nil
}

func (f fakeGroupRepo) IsInvited(_ context.Context, groupID, userID string) (bool, error) {
	return f.invited[groupID][userID], nil
}

type fakeInviteRepo struct{ *memStore }

func (f fakeInviteRepo) Create(_ context.Context, inv *domain.Invite) error {
	inv.ID = f.nextID("invite")
	f.invites[inv.ID] = inv
	return nil
}

func (f fakeInviteRepo) GetByID(_ context.Context, id string) (*domain.Invite, error) {
	inv, ok := f.invites[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

func (f fakeInviteRepo) GetByToken(_ context.Context, token string) (*domain.Invite, error) {
	for _, inv := range f.invites {
		if inv.Token == token {
			return inv, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeInviteRepo) MarkAccepted(_ context.Context, groupID, userID string) error {
	for _, inv := range f.invites {
		if inv.GroupID == groupID && inv.InvitedUserID == userID {
			inv.Accepted = true
		}
	}
	return nil
}

type fakeJoinRequestRepo struct{ *memStore }

func (f fakeJoinRequestRepo) Create(_ context.Context, jr *domain.JoinRequest) error {
	jr.ID = f.nextID("jr")
	f.joinRequests[jr.ID] = jr
	return nil
}

func (f fakeJoinRequestRepo) GetByID(_ context.Context, id string) (*domain.JoinRequest, error) {
	jr, ok := f.joinRequests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return jr, nil
}

func (f fakeJoinRequestRepo) GetByGroupAndUser(_ context.Context, groupID, userID string) (*domain.JoinRequest, error) {
	for _, jr := range f.joinRequests {
		if jr.GroupID == groupID && jr.UserID == userID {
			return jr, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f fakeJoinRequestRepo) ListByGroup(_ context.Context, groupID string) ([]*domain.JoinRequest, error) {
	out := make([]*domain.JoinRequest, 0)
	for _, jr := range f.joinRequests {
		if jr.GroupID == groupID {
			out = append(out, jr)
		}
	}
	return out, nil
}

func (f fakeJoinRequestRepo) ListByUser(_ context.Context, userID string) ([]*domain.JoinRequest, error) {
	out := make([]*domain.JoinRequest, 0)
	for _, jr := range f.joinRequests {
		if jr.UserID == userID {
			out = append(out, jr)
		}
	}
	return out, nil
}

func (f fakeJoinRequestRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.joinRequests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.joinRequests, id)
	return nil
}

type fakeCommentRepo struct{ *memStore }

func (f fakeCommentRepo) Create(_ context.Context, c *domain.Comment) error {
	c.ID = f.nextID("comment")
	f.comments[c.ID] = c
	return nil
}

func (f fakeCommentRepo) GetByID(_ context.Context, id string) (*domain.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f fakeCommentRepo) Update(_ context.Context, c *domain.Comment) error {
	if _, ok := f.comments[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	f.comments[c.ID] = &cp
	return nil
}

func (f fakeCommentRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.comments, id)
	return nil
}

func (f fakeCommentRepo) ListByGroup(_ context.Context, groupID string, params domain.PaginationParams) ([]*domain.Comment, int, error) {
	all := make([]*domain.Comment, 0)
	for _, c := range f.comments {
		if c.GroupID == groupID {
			all = append(all, c)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := min(params.Offset(), len(all))
	end := min(start+params.PageSize, len(all))
	return all[start:end], len(all), nil
}

type fakeEventRepo struct{ *memStore }

func (f fakeEventRepo) Create(_ context.Context, e *domain.Event) error {
	e.ID = f.nextID("event")
	f.events[e.ID] = e
	return nil
}

func (f fakeEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f fakeEventRepo) ListByGroup(_ context.Context, groupID string) ([]*domain.Event, error) {
	out := make([]*domain.Event, 0)
	for _, e := range f.events {
		if e.GroupID == groupID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f fakeEventRepo) UpdateStatus(_ context.Context, id string, status domain.EventStatus) error {
	e, ok := f.events[id]
	if !ok {
		return domain.ErrNotFound
	}
	e.Status = status
	return nil
}

func (f fakeEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	delete(f.eventMembers, id)
	return nil
}

func (f fakeEventRepo) AddMember(_ context.Context, eventID, userID string) error {
	set := setOf(f.eventMembers, eventID)
	if set[userID] {
		return domain.ErrAlreadyMember
	}
	set[userID] = true
	return nil
}

func (f fakeEventRepo) RemoveMember(_ context.Context, eventID, userID string) error {
	if !f.eventMembers[eventID][userID] {
		return domain.ErrNotFound
	}
	delete(f.eventMembers[eventID], userID)
	return nil
}

func (f fakeEventRepo) IsMember(_ context.Context, eventID, userID string) (bool, error) {
	return f.eventMembers[eventID][userID], nil
}

func (f fakeEventRepo) CountMembers(_ context.Context, eventID string) (int, error) {
	return len(f.eventMembers[eventID]), nil
}

// fakeRenderer wraps content in a paragraph.
type fakeRenderer struct{ err error }

func (f fakeRenderer) Render(source string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "<p>" + source + "</p>", nil
}

// fakeEmailService records group invite emails.
type fakeEmailService struct {
	sent []*domain.GroupInviteEmailData
	err  error
}

func (f *fakeEmailService) SendGroupInvite(_ context.Context, data *domain.GroupInviteEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
