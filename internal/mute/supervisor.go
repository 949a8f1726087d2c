package mute

import (
	"context"
	"slices"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"
)

// Supervisor owns one expiry loop per guild and ties each loop to the guild's lifetime.
type Supervisor struct {
	parent      context.Context
	coordinator *Coordinator
	logger      *zap.Logger

	mu     sync.Mutex
	loops  map[uint64]*loopHandle
	wg     conc.WaitGroup
	closed bool
}

type loopHandle struct {
	loop   *ExpiryLoop
	cancel context.CancelFunc
	done   chan struct{}
}

// NewSupervisor creates a Supervisor. Loops stop when parent is done.
func NewSupervisor(parent context.Context, coordinator *Coordinator, logger *zap.Logger) *Supervisor {
	return &Supervisor{
		parent:      parent,
		coordinator: coordinator,
		logger:      logger.Named("expiry_supervisor"),
		loops:       make(map[uint64]*loopHandle),
	}
}

// Start launches the expiry loop of a guild. It returns false if the loop is
// already running or the supervisor was stopped.
func (s *Supervisor) Start(guildID uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	if _, ok := s.loops[guildID]; ok {
		return false
	}

	ctx, cancel := context.WithCancel(s.parent)
	handle := &loopHandle{
		loop:   NewExpiryLoop(guildID, s.coordinator, s.logger),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	s.loops[guildID] = handle

	recorder := s.coordinator.recorder
	s.wg.Go(func() {
		defer close(handle.done)
		defer recorder.LoopStopped()

		recorder.LoopStarted()
		if recovered := panics.Try(func() { handle.loop.Run(ctx) }); recovered != nil {
			s.logger.Error("Expiry loop panicked",
				zap.Uint64("guildID", guildID),
				zap.String("panic", recovered.String()))
			s.forget(guildID, handle)
		}
	})

	s.logger.Info("Started expiry loop", zap.Uint64("guildID", guildID))

	return true
}

// Stop cancels the expiry loop of a guild and waits for it to exit.
// It returns false if no loop was running.
func (s *Supervisor) Stop(guildID uint64) bool {
	s.mu.Lock()
	handle, ok := s.loops[guildID]
	delete(s.loops, guildID)
	s.mu.Unlock()

	if !ok {
		return false
	}

	handle.cancel()
	<-handle.done

	s.logger.Info("Stopped expiry loop", zap.Uint64("guildID", guildID))

	return true
}

// forget drops a loop that died on its own so the guild can be started again.
func (s *Supervisor) forget(guildID uint64, handle *loopHandle) {
	handle.cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loops[guildID] == handle {
		delete(s.loops, guildID)
	}
}

// StopAll stops every loop and refuses further starts.
func (s *Supervisor) StopAll() {
	s.mu.Lock()
	s.closed = true
	handles := s.loops
	s.loops = make(map[uint64]*loopHandle)
	s.mu.Unlock()

	for _, handle := range handles {
		handle.cancel()
	}

	if recovered := s.wg.WaitAndRecover(); recovered != nil {
		s.logger.Error("Expiry loop panicked", zap.String("panic", recovered.String()))
	}

	s.logger.Info("Stopped all expiry loops", zap.Int("count", len(handles)))
}

// Running returns the guilds with an active loop, in ascending order.
func (s *Supervisor) Running() []uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	guilds := make([]uint64, 0, len(s.loops))
	for guildID := range s.loops {
		guilds = append(guilds, guildID)
	}
	slices.Sort(guilds)

	return guilds
}

// Loop returns the loop of a guild, or nil if none is running.
func (s *Supervisor) Loop(guildID uint64) *ExpiryLoop {
	s.mu.Lock()
	defer s.mu.Unlock()

	if handle, ok := s.loops[guildID]; ok {
		return handle.loop
	}
	return nil
}
