package mute

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/lock"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Failure records why one target could not be processed.
type Failure struct {
	MemberID uint64
	Cause    Cause
	Err      error
}

// Outcome is the result of one request. It is handed to the presentation layer
// and then discarded.
type Outcome struct {
	Category  Category
	Succeeded []uint64
	Failed    []Failure
	// Rejected lists targets refused by policy; they were never attempted.
	Rejected []uint64
	// Skipped lists system restores that found nothing left to do.
	Skipped  []uint64
	Causes   Cause
	Duration Resolution
}

// FailedMembers returns the IDs of failed targets in order.
func (o *Outcome) FailedMembers() []uint64 {
	members := make([]uint64, len(o.Failed))
	for i, failure := range o.Failed {
		members[i] = failure.MemberID
	}
	return members
}

// UnauthorizedOutcome is the result of a suspend attempted without moderation rights.
type UnauthorizedOutcome struct {
	Category UnauthorizedCategory
	// Others lists the targets other than the invoker; none were touched.
	Others   []uint64
	Duration Resolution
	Cause    Cause
	Err      error
}

// RemainingState describes where a member is in the mute lifecycle.
type RemainingState int

const (
	// NotMuted means no record exists.
	NotMuted RemainingState = iota
	// MutedIndefinitely means a record without expiry exists.
	MutedIndefinitely
	// MuteDue means the expiry passed and the next sweep will restore the member.
	MuteDue
	// MuteActive means the expiry is in the future.
	MuteActive
)

// Remaining describes the time left on a member's mute.
type Remaining struct {
	State RemainingState
	Until *time.Time
	Left  time.Duration
}

// errNothingToRestore marks system restores whose record is gone or was extended.
var errNothingToRestore = errors.New("nothing to restore")

// Coordinator applies suspend and restore requests target by target, keeping the
// platform and the mute record store in step.
type Coordinator struct {
	platform Platform
	caps     Capabilities
	store    Store
	settings Settings
	locker   Locker
	recorder Recorder
	logger   *zap.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithLocker sets the member lock. Defaults to an in-process lock.
func WithLocker(locker Locker) Option {
	return func(c *Coordinator) {
		c.locker = locker
	}
}

// WithRecorder sets the metrics recorder.
func WithRecorder(recorder Recorder) Option {
	return func(c *Coordinator) {
		c.recorder = recorder
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(
	platform Platform, caps Capabilities, store Store, settings Settings, logger *zap.Logger, opts ...Option,
) *Coordinator {
	c := &Coordinator{
		platform: platform,
		caps:     caps,
		store:    store,
		settings: settings,
		locker:   lock.NewKeyedMutex(),
		recorder: NopRecorder{},
		logger:   logger.Named("mute_coordinator"),
		tracer:   otel.Tracer("github.com/robalyx/frost/internal/mute"),
		now:      time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Apply runs a suspend or restore request and reports the outcome. It never fails
// as a whole: per-target errors are collected in the outcome. Targets are processed
// one at a time in request order, and cancellation of ctx does not interrupt them.
func (c *Coordinator) Apply(ctx context.Context, req Request) *Outcome {
	ctx, span := c.tracer.Start(context.WithoutCancel(ctx), "mute.Apply", trace.WithAttributes(
		attribute.String("guild_id", strconv.FormatUint(req.GuildID, 10)),
		attribute.Bool("restore", req.Restore),
		attribute.Bool("system", req.System),
		attribute.Int("targets", len(req.Targets)),
	))
	defer span.End()

	outcome := &Outcome{}
	if !req.Restore {
		outcome.Duration = Resolve(req.Tokens, req.Intensity, c.now())
	}

	plan := Classify(ctx, req, c.caps)
	outcome.Rejected = plan.Rejected

	if plan.Final {
		outcome.Category = plan.Category
		c.finish(span, req, outcome)
		return outcome
	}

	for _, memberID := range plan.Eligible {
		err := c.processTarget(ctx, req, memberID, outcome.Duration.Until)

		switch {
		case err == nil:
			outcome.Succeeded = append(outcome.Succeeded, memberID)
			c.recorder.ObserveAction(actionName(req.Restore), 0)
		case errors.Is(err, errNothingToRestore):
			outcome.Skipped = append(outcome.Skipped, memberID)
		default:
			cause := CauseOf(err)
			outcome.Failed = append(outcome.Failed, Failure{MemberID: memberID, Cause: cause, Err: err})
			outcome.Causes |= cause
			c.recorder.ObserveAction(actionName(req.Restore), cause)

			c.logger.Warn("Failed to process mute target",
				zap.Uint64("guildID", req.GuildID),
				zap.Uint64("memberID", memberID),
				zap.Bool("restore", req.Restore),
				zap.Stringer("cause", cause),
				zap.Error(err))
		}
	}

	outcome.Category = Aggregate(len(outcome.Succeeded), len(outcome.Failed), req.Restore)
	c.finish(span, req, outcome)

	return outcome
}

// PunishUnauthorized suspends an invoker who tried to mute others without rights.
// The targets are left alone.
func (c *Coordinator) PunishUnauthorized(
	ctx context.Context, guildID, invoker uint64, targets []uint64,
) *UnauthorizedOutcome {
	ctx, span := c.tracer.Start(context.WithoutCancel(ctx), "mute.PunishUnauthorized")
	defer span.End()

	outcome := &UnauthorizedOutcome{}

	selfIncluded := false
	for _, target := range uniqueTargets(targets) {
		if target == invoker {
			selfIncluded = true
			continue
		}
		outcome.Others = append(outcome.Others, target)
	}

	switch {
	case !selfIncluded && len(outcome.Others) == 0:
		outcome.Category = UnauthorizedNone
	case selfIncluded && len(outcome.Others) == 0:
		outcome.Category = UnauthorizedSelf
	case selfIncluded:
		outcome.Category = UnauthorizedMixed
	default:
		outcome.Category = UnauthorizedUser
	}

	outcome.Duration = clamp(c.settings.SelfMuteDuration(ctx, guildID), c.now())

	req := Request{GuildID: guildID}
	if err := c.processTarget(ctx, req, invoker, outcome.Duration.Until); err != nil {
		outcome.Category = UnauthorizedFail
		outcome.Cause = CauseOf(err)
		outcome.Err = err
		span.SetStatus(codes.Error, err.Error())

		c.logger.Warn("Failed to self-mute unauthorized invoker",
			zap.Uint64("guildID", guildID),
			zap.Uint64("memberID", invoker),
			zap.Error(err))
	}

	c.recorder.ObserveOutcome(outcome.Category.String())

	return outcome
}

// Remaining reports how long a member stays muted.
func (c *Coordinator) Remaining(ctx context.Context, guildID, memberID uint64) (Remaining, error) {
	record, err := c.store.Get(ctx, guildID, memberID)
	if err != nil {
		return Remaining{}, fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return RemainingOf(record, c.now()), nil
}

// RemainingOf classifies a stored record at the given time. A nil record means not muted.
func RemainingOf(record *types.MuteRecord, now time.Time) Remaining {
	switch {
	case record == nil:
		return Remaining{State: NotMuted}
	case record.IsIndefinite():
		return Remaining{State: MutedIndefinitely}
	case record.IsExpired(now):
		return Remaining{State: MuteDue, Until: record.MutedUntil}
	default:
		return Remaining{State: MuteActive, Until: record.MutedUntil, Left: record.Remaining(now)}
	}
}

// processTarget suspends or restores a single member under its lock.
func (c *Coordinator) processTarget(ctx context.Context, req Request, memberID uint64, until *time.Time) error {
	unlock, err := c.locker.Lock(ctx, memberKey(req.GuildID, memberID))
	if err != nil {
		return fmt.Errorf("%w: failed to lock member: %w", ErrOther, err)
	}
	defer unlock()

	if req.Restore {
		return c.restore(ctx, req, memberID)
	}

	if err := c.platform.Suspend(ctx, req.GuildID, memberID, until); err != nil {
		return err
	}

	// The platform effect stays in place even if the record cannot be written
	record := &types.MuteRecord{
		GuildID:    req.GuildID,
		MemberID:   memberID,
		MutedUntil: until,
		MutedBy:    req.Invoker,
	}
	if err := c.store.Upsert(ctx, record); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

func (c *Coordinator) restore(ctx context.Context, req Request, memberID uint64) error {
	// Expiry restores re-check the record: it may have been removed or extended
	// since the sweep read it
	if req.System {
		record, err := c.store.Get(ctx, req.GuildID, memberID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrStorage, err)
		}
		if record == nil || !record.IsExpired(c.now()) {
			return errNothingToRestore
		}
	}

	if err := c.platform.Restore(ctx, req.GuildID, memberID); err != nil {
		return err
	}

	if _, err := c.store.Remove(ctx, req.GuildID, memberID); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}

	return nil
}

// finish records metrics and span status for a completed request.
func (c *Coordinator) finish(span trace.Span, req Request, outcome *Outcome) {
	span.SetAttributes(
		attribute.String("category", outcome.Category.String()),
		attribute.Int("succeeded", len(outcome.Succeeded)),
		attribute.Int("failed", len(outcome.Failed)),
	)
	if len(outcome.Failed) > 0 {
		span.SetStatus(codes.Error, outcome.Causes.String())
	}

	if !req.System {
		c.recorder.ObserveOutcome(outcome.Category.String())
	}

	c.logger.Debug("Processed mute request",
		zap.Uint64("guildID", req.GuildID),
		zap.Uint64("invoker", req.Invoker),
		zap.Stringer("category", outcome.Category),
		zap.Uint64s("succeeded", outcome.Succeeded),
		zap.Uint64s("failed", outcome.FailedMembers()),
		zap.Uint64s("rejected", outcome.Rejected))
}

func memberKey(guildID, memberID uint64) string {
	return strconv.FormatUint(guildID, 10) + ":" + strconv.FormatUint(memberID, 10)
}

func actionName(restore bool) string {
	if restore {
		return "restore"
	}
	return "suspend"
}
