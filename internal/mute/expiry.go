package mute

import (
	"context"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/robalyx/frost/pkg/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// minSweepInterval keeps a misconfigured interval from spinning the loop.
const minSweepInterval = time.Second

// LoopState is the state of an expiry loop.
//
//go:generate go tool enumer -type=LoopState -trimprefix=Loop -transform=lower
type LoopState int32

const (
	LoopIdle LoopState = iota
	LoopSweeping
)

// TickResult summarizes one sweep.
type TickResult struct {
	Expired  int
	Restored int
	Failed   int
	Skipped  int
	Err      error
}

// ExpiryLoop restores members of one guild whose mute has expired.
type ExpiryLoop struct {
	guildID     uint64
	coordinator *Coordinator
	logger      *zap.Logger
	state       atomic.Int32
}

// NewExpiryLoop creates the expiry loop of a guild.
func NewExpiryLoop(guildID uint64, coordinator *Coordinator, logger *zap.Logger) *ExpiryLoop {
	return &ExpiryLoop{
		guildID:     guildID,
		coordinator: coordinator,
		logger:      logger.Named("expiry_loop").With(zap.Uint64("guildID", guildID)),
	}
}

// State returns whether the loop is idle or sweeping.
func (l *ExpiryLoop) State() LoopState {
	return LoopState(l.state.Load())
}

// Run sweeps immediately and then once per interval until ctx is done.
// Cancellation is only observed between sweeps.
func (l *ExpiryLoop) Run(ctx context.Context) {
	l.logger.Debug("Expiry loop started")
	defer l.logger.Debug("Expiry loop stopped")

	for {
		if utils.ContextGuard(ctx) {
			return
		}

		l.Tick(ctx)

		if utils.ContextSleep(ctx, l.interval(ctx)) == utils.SleepCancelled {
			return
		}
	}
}

// Tick runs one sweep: every expired record is fed back through the coordinator as
// a system restore. Records that fail to restore stay in the store for the next tick.
func (l *ExpiryLoop) Tick(ctx context.Context) TickResult {
	c := l.coordinator
	ctx, span := c.tracer.Start(context.WithoutCancel(ctx), "mute.ExpiryTick", trace.WithAttributes(
		attribute.String("guild_id", strconv.FormatUint(l.guildID, 10)),
	))
	defer span.End()

	l.state.Store(int32(LoopSweeping))
	defer l.state.Store(int32(LoopIdle))

	start := time.Now()

	records, err := c.store.SweepExpired(ctx, l.guildID, c.now())
	if err != nil {
		c.recorder.ObserveSweep("storage_error", time.Since(start), 0)
		l.logger.Error("Failed to sweep expired mutes, skipping tick", zap.Error(err))
		return TickResult{Err: fmt.Errorf("%w: %w", ErrStorage, err)}
	}

	result := TickResult{Expired: len(records)}
	for _, record := range records {
		outcome := c.Apply(ctx, Request{
			GuildID: l.guildID,
			Targets: []uint64{record.MemberID},
			Restore: true,
			System:  true,
		})

		result.Restored += len(outcome.Succeeded)
		result.Failed += len(outcome.Failed)
		result.Skipped += len(outcome.Skipped)

		for _, failure := range outcome.Failed {
			l.logger.Warn("Failed to restore expired mute, will retry next tick",
				zap.Uint64("memberID", failure.MemberID),
				zap.Stringer("cause", failure.Cause),
				zap.Error(failure.Err))
		}
	}

	status := "ok"
	if result.Failed > 0 {
		status = "partial"
	}
	c.recorder.ObserveSweep(status, time.Since(start), result.Restored)

	span.SetAttributes(
		attribute.Int("expired", result.Expired),
		attribute.Int("restored", result.Restored),
		attribute.Int("failed", result.Failed),
	)

	if result.Expired > 0 {
		l.logger.Info("Restored expired mutes",
			zap.Int("expired", result.Expired),
			zap.Int("restored", result.Restored),
			zap.Int("failed", result.Failed),
			zap.Int("skipped", result.Skipped))
	}

	return result
}

// interval reads the current sweep interval of the guild.
func (l *ExpiryLoop) interval(ctx context.Context) time.Duration {
	return max(l.coordinator.settings.SweepInterval(ctx, l.guildID), minSweepInterval)
}
