package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"giveaway-bot/internal/common/config"
	"giveaway-bot/internal/features/giveaway/models"
	"giveaway-bot/internal/features/giveaway/registry"
	"giveaway-bot/internal/features/giveaway/render"
	"giveaway-bot/internal/platform/chat/chattest"
)

const (
	adminRole = "admin-role"
	admin     = "admin-1"
	channel   = "chan-1"
)

// manualScheduler lets tests fire and inspect countdowns deterministically.
type manualScheduler struct {
	mu       sync.Mutex
	armed    map[string]time.Duration
	fns      map[string]func()
	armCalls int
}

func newManualScheduler() *manualScheduler {
	return &manualScheduler{
		armed: make(map[string]time.Duration),
		fns:   make(map[string]func()),
	}
}

func (s *manualScheduler) Arm(id string, d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.armed[id] = d
	s.fns[id] = fn
	s.armCalls++
}

func (s *manualScheduler) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.fns[id]
	delete(s.fns, id)
	delete(s.armed, id)
	return ok
}

func (s *manualScheduler) Stop() {}

// fire runs the currently armed callback, mimicking timer expiry.
func (s *manualScheduler) fire(id string) {
	s.mu.Lock()
	fn := s.fns[id]
	delete(s.fns, id)
	delete(s.armed, id)
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (s *manualScheduler) duration(id string) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.armed[id]
	return d, ok
}

// fakeArchive is a map-backed Archive.
type fakeArchive struct {
	mu     sync.Mutex
	closed map[string]*models.ClosedGiveaway
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{closed: make(map[string]*models.ClosedGiveaway)}
}

func (a *fakeArchive) SaveClosed(ctx context.Context, g *models.ClosedGiveaway) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed[g.ID] = g
	return nil
}

func (a *fakeArchive) GetClosed(ctx context.Context, id string) (*models.ClosedGiveaway, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	g, ok := a.closed[id]
	if !ok {
		return nil, ErrNotFound
	}
	return g, nil
}

type fixture struct {
	ctrl    *Controller
	chat    *chattest.Fake
	reg     registry.Registry
	sched   *manualScheduler
	archive *fakeArchive
	cfg     *config.Config
}

func newFixture() *fixture {
	cfg := &config.Config{}
	cfg.Giveaway.AdminRoleID = adminRole
	cfg.Giveaway.ImageDomains = []string{"tr.rbxcdn.com"}
	cfg.Giveaway.ReviewTimeout = 15 * time.Minute
	cfg.Giveaway.ConfirmTimeout = 30 * time.Second
	cfg.Giveaway.FormTimeout = time.Minute

	fake := chattest.New()
	fake.SetRole(admin, adminRole, true)

	reg := registry.NewMemory()
	sched := newManualScheduler()
	archive := newFakeArchive()

	ctrl := NewController(cfg, fake, reg, sched, archive).
		WithRand(rand.New(rand.NewSource(1)).Intn)

	return &fixture{ctrl: ctrl, chat: fake, reg: reg, sched: sched, archive: archive, cfg: cfg}
}

func (f *fixture) createRequest() CreateRequest {
	return CreateRequest{
		ChannelID:    channel,
		Actor:        admin,
		Prize:        "Discord Nitro",
		Duration:     "1h",
		WinnersCount: 1,
	}
}

// startGiveaway drives a create through review straight to start.
func (f *fixture) startGiveaway(ctx context.Context, req CreateRequest) (string, error) {
	f.chat.QueueClick(req.Actor, render.BtnStart)
	return f.ctrl.Create(ctx, req)
}
