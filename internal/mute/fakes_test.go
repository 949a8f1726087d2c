package mute_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/mute"
	"go.uber.org/zap"
)

const (
	guildID   = uint64(1000)
	botID     = uint64(1)
	modID     = uint64(2)
	otherMod  = uint64(3)
	memberA   = uint64(10)
	memberB   = uint64(11)
	memberC   = uint64(12)
	invokerID = modID
)

var errBoom = errors.New("boom")

type platformCall struct {
	restore  bool
	memberID uint64
	until    *time.Time
}

type fakePlatform struct {
	mu         sync.Mutex
	suspendErr map[uint64]error
	restoreErr map[uint64]error
	calls      []platformCall
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{suspendErr: map[uint64]error{}, restoreErr: map[uint64]error{}}
}

func (p *fakePlatform) Suspend(_ context.Context, _, memberID uint64, until *time.Time) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, platformCall{memberID: memberID, until: until})
	return p.suspendErr[memberID]
}

func (p *fakePlatform) Restore(_ context.Context, _, memberID uint64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, platformCall{restore: true, memberID: memberID})
	return p.restoreErr[memberID]
}

func (p *fakePlatform) setRestoreErr(memberID uint64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.restoreErr[memberID] = err
}

func (p *fakePlatform) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func (p *fakePlatform) touched(memberID uint64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, call := range p.calls {
		if call.memberID == memberID {
			return true
		}
	}
	return false
}

type fakeCaps struct {
	service    uint64
	privileged map[uint64]bool
}

func newFakeCaps() *fakeCaps {
	return &fakeCaps{service: botID, privileged: map[uint64]bool{modID: true, otherMod: true}}
}

func (c *fakeCaps) IsPrivileged(_ context.Context, _, memberID uint64) bool {
	return c.privileged[memberID]
}

func (c *fakeCaps) IsServiceAccount(memberID uint64) bool {
	return memberID == c.service
}

type memStore struct {
	mu        sync.Mutex
	records   map[uint64]*types.MuteRecord
	writes    int
	upsertErr error
	sweepErr  error
}

func newMemStore() *memStore {
	return &memStore{records: map[uint64]*types.MuteRecord{}}
}

func (s *memStore) Upsert(_ context.Context, record *types.MuteRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.upsertErr != nil {
		return s.upsertErr
	}
	s.writes++
	clone := *record
	s.records[record.MemberID] = &clone
	return nil
}

func (s *memStore) Remove(_ context.Context, _, memberID uint64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	_, ok := s.records[memberID]
	delete(s.records, memberID)
	return ok, nil
}

func (s *memStore) Get(_ context.Context, _, memberID uint64) (*types.MuteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.records[memberID]
	if !ok {
		return nil, nil
	}
	clone := *record
	return &clone, nil
}

func (s *memStore) SweepExpired(_ context.Context, _ uint64, now time.Time) ([]*types.MuteRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sweepErr != nil {
		return nil, s.sweepErr
	}
	var expired []*types.MuteRecord
	for _, record := range s.records {
		if record.IsExpired(now) {
			clone := *record
			expired = append(expired, &clone)
		}
	}
	return expired, nil
}

func (s *memStore) put(memberID uint64, until *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[memberID] = &types.MuteRecord{GuildID: guildID, MemberID: memberID, MutedUntil: until}
}

func (s *memStore) has(memberID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[memberID]
	return ok
}

type fixedSettings struct {
	selfMute time.Duration
	interval time.Duration
}

func (s fixedSettings) SelfMuteDuration(context.Context, uint64) time.Duration { return s.selfMute }
func (s fixedSettings) SweepInterval(context.Context, uint64) time.Duration    { return s.interval }

type fixture struct {
	platform    *fakePlatform
	caps        *fakeCaps
	store       mute.Store
	mem         *memStore
	coordinator *mute.Coordinator

	// now is the start time; the clock only moves through advance.
	now     time.Time
	clockMu sync.Mutex
	current time.Time
}

// newFixture builds a coordinator over fakes with a frozen clock.
func newFixture(store mute.Store) *fixture {
	f := &fixture{
		platform: newFakePlatform(),
		caps:     newFakeCaps(),
		now:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	if store == nil {
		f.mem = newMemStore()
		store = f.mem
	}
	f.store = store
	f.current = f.now

	f.coordinator = mute.NewCoordinator(
		f.platform, f.caps, store,
		fixedSettings{selfMute: 20 * time.Minute, interval: time.Second},
		zap.NewNop(),
		mute.WithClock(f.clock),
	)

	return f
}

func (f *fixture) clock() time.Time {
	f.clockMu.Lock()
	defer f.clockMu.Unlock()
	return f.current
}

func (f *fixture) advance(d time.Duration) {
	f.clockMu.Lock()
	defer f.clockMu.Unlock()
	f.current = f.current.Add(d)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
