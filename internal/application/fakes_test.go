package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"codedrop/internal/domain"
	"codedrop/internal/domain/entities"
)

// fakeClock is a manual clock: timers only fire from Advance.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), delay: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	active := !t.stopped && !t.fired
	t.stopped = true
	return active
}

// Advance moves time forward by d, firing due timers in deadline order.
// Timers armed by a callback fire too if they fall inside the window.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()
	for {
		c.mu.Lock()
		var next *fakeTimer
		for _, t := range c.timers {
			if t.stopped || t.fired || t.at.After(target) {
				continue
			}
			if next == nil || t.at.Before(next.at) {
				next = t
			}
		}
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		next.fired = true
		if next.at.After(c.now) {
			c.now = next.at
		}
		c.mu.Unlock()
		next.f()
	}
}

// Pending returns the delays of timers that have neither fired nor been stopped.
func (c *fakeClock) Pending() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []time.Duration
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t.delay)
		}
	}
	return out
}

type fakeEventRepo struct {
	mu        sync.Mutex
	events    map[uuid.UUID]entities.Event
	err       error
	createErr error
	// latestHook runs at the start of FindLatestByCreator when set.
	latestHook func()
}

func newFakeEventRepo(events ...entities.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[uuid.UUID]entities.Event)}
	for _, e := range events {
		r.events[e.ID] = e
	}
	return r
}

func (r *fakeEventRepo) Create(_ context.Context, event *entities.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.events[event.ID] = *event
	return nil
}

func (r *fakeEventRepo) FindByID(_ context.Context, id uuid.UUID) (*entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &e, nil
}

func (r *fakeEventRepo) FindByGuildID(_ context.Context, guildID string) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool { return e.GuildID == guildID })
}

func (r *fakeEventRepo) FindUnfinished(_ context.Context, now time.Time) ([]entities.Event, error) {
	return r.filter(func(e entities.Event) bool { return e.IsActive && e.EndAt.After(now) })
}

func (r *fakeEventRepo) FindLatestByCreator(_ context.Context, guildID, creatorID string) (*entities.Event, error) {
	if r.latestHook != nil {
		r.latestHook()
	}
	events, err := r.filter(func(e entities.Event) bool { return e.GuildID == guildID && e.CreatedBy == creatorID })
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, domain.ErrEventNotFound
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return &events[0], nil
}

func (r *fakeEventRepo) MarkInactive(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}
	e.IsActive = false
	r.events[id] = e
	return nil
}

func (r *fakeEventRepo) get(id uuid.UUID) (entities.Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	return e, ok
}

func (r *fakeEventRepo) all() []entities.Event {
	events, _ := r.filter(func(entities.Event) bool { return true })
	return events
}

func (r *fakeEventRepo) filter(keep func(entities.Event) bool) ([]entities.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	var out []entities.Event
	for _, e := range r.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

// fakeCodeRepo serializes claims behind a mutex the way the store serializes
// them behind its transaction and unique index.
type fakeCodeRepo struct {
	mu     sync.Mutex
	codes  map[uuid.UUID][]*entities.Code
	nextID int64
	err    error
}

func newFakeCodeRepo() *fakeCodeRepo {
	return &fakeCodeRepo{codes: make(map[uuid.UUID][]*entities.Code)}
}

func (r *fakeCodeRepo) InsertBatch(_ context.Context, eventID uuid.UUID, values []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return 0, r.err
	}
	inserted := 0
	for _, v := range values {
		dup := false
		for _, c := range r.codes[eventID] {
			if c.Value == v {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		r.nextID++
		r.codes[eventID] = append(r.codes[eventID], &entities.Code{ID: r.nextID, EventID: eventID, Value: v})
		inserted++
	}
	return inserted, nil
}

func (r *fakeCodeRepo) Claim(_ context.Context, eventID uuid.UUID, userID string, at time.Time) (*entities.Code, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	for _, c := range r.codes[eventID] {
		if c.ClaimedBy == userID {
			return nil, domain.ErrAlreadyClaimed
		}
	}
	for _, c := range r.codes[eventID] {
		if !c.Claimed() {
			c.ClaimedBy = userID
			c.ClaimedAt = at
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrCodesExhausted
}

func (r *fakeCodeRepo) Stats(_ context.Context, eventID uuid.UUID) (entities.PoolStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return entities.PoolStats{}, r.err
	}
	var s entities.PoolStats
	for _, c := range r.codes[eventID] {
		s.Total++
		if c.Claimed() {
			s.Claimed++
		}
	}
	return s, nil
}

type fakeBanRepo struct {
	mu     sync.Mutex
	banned map[string]bool
	calls  int
	err    error
}

func (r *fakeBanRepo) IsBanned(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return false, r.err
	}
	return r.banned[userID], nil
}

type announcement struct {
	guildID, channel, content string
}

type directMessage struct {
	userID, content string
}

type fakeMessenger struct {
	mu            sync.Mutex
	channels      map[string][]string
	announcements []announcement
	dms           []directMessage
	dmErr         error
	announceErr   error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{channels: map[string][]string{"g1": {"general", "news"}}}
}

func (m *fakeMessenger) ChannelExists(_ context.Context, guildID, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.channels[guildID] {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *fakeMessenger) Announce(_ context.Context, guildID, channelName, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.announceErr != nil {
		return m.announceErr
	}
	m.announcements = append(m.announcements, announcement{guildID, channelName, content})
	return nil
}

func (m *fakeMessenger) DirectMessage(_ context.Context, userID, content string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.dmErr != nil {
		return m.dmErr
	}
	m.dms = append(m.dms, directMessage{userID, content})
	return nil
}

func (m *fakeMessenger) sentDMs() []directMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]directMessage(nil), m.dms...)
}

func (m *fakeMessenger) lastDM() string {
	dms := m.sentDMs()
	if len(dms) == 0 {
		return ""
	}
	return dms[len(dms)-1].content
}

func (m *fakeMessenger) sentAnnouncements() []announcement {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]announcement(nil), m.announcements...)
}

// fakeTranslator returns the key, followed by the data when there is some.
// setup.default_response carries the placeholder like the real catalogs.
type fakeTranslator struct{}

func (fakeTranslator) T(_, key string, data map[string]any) string {
	if key == "setup.default_response" {
		return "Your code: {code}"
	}
	if len(data) == 0 {
		return key
	}
	return fmt.Sprintf("%s %v", key, data)
}

type fakeSource struct {
	rows  []string
	err   error
	calls int
}

func (s *fakeSource) Fetch(_ context.Context, _, _ string) ([]string, error) {
	s.calls++
	return s.rows, s.err
}

var t0 = time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)

func testEvent(guildID, pass string, start, end time.Time) entities.Event {
	return entities.Event{
		ID:              uuid.New(),
		GuildID:         guildID,
		ChannelName:     "general",
		StartAt:         start,
		EndAt:           end,
		StartMessage:    "start " + pass,
		EndMessage:      "end " + pass,
		ResponseMessage: "Code: {code}",
		Pass:            pass,
		CreatedBy:       "org",
		CreatedAt:       start.Add(-time.Hour),
		IsActive:        true,
	}
}
