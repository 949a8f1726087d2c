package mute

import (
	"context"
	"time"

	"github.com/robalyx/frost/internal/database/types"
)

// Platform applies and lifts suspensions on the chat platform. Both calls must be
// idempotent and should wrap failures with ErrPermissionDenied, ErrTransport or ErrOther.
type Platform interface {
	Suspend(ctx context.Context, guildID, memberID uint64, until *time.Time) error
	Restore(ctx context.Context, guildID, memberID uint64) error
}

// Capabilities answers who may be suspended.
type Capabilities interface {
	IsPrivileged(ctx context.Context, guildID, memberID uint64) bool
	IsServiceAccount(memberID uint64) bool
}

// Store persists active suspensions.
type Store interface {
	Upsert(ctx context.Context, record *types.MuteRecord) error
	Remove(ctx context.Context, guildID, memberID uint64) (bool, error)
	Get(ctx context.Context, guildID, memberID uint64) (*types.MuteRecord, error)
	SweepExpired(ctx context.Context, guildID uint64, now time.Time) ([]*types.MuteRecord, error)
}

// Settings supplies per-guild defaults.
type Settings interface {
	SelfMuteDuration(ctx context.Context, guildID uint64) time.Duration
	SweepInterval(ctx context.Context, guildID uint64) time.Duration
}

// Locker serializes work on a single key.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
