package types

import (
	"time"

	"github.com/uptrace/bun"
)

// MuteRecord is an active suspension of a guild member.
// A row exists for exactly as long as the member is suspended.
type MuteRecord struct {
	bun.BaseModel `bun:"table:mute_records,alias:mr"`

	GuildID    uint64     `bun:",pk"`                                         // Discord guild ID
	MemberID   uint64     `bun:",pk"`                                         // Discord user ID of the muted member
	MutedUntil *time.Time `bun:",nullzero"`                                   // When the mute expires (null for indefinite)
	MutedBy    uint64     `bun:",notnull"`                                    // Discord ID of the moderator (0 if system)
	CreatedAt  time.Time  `bun:",nullzero,notnull,default:current_timestamp"` // When the member was first muted
	UpdatedAt  time.Time  `bun:",nullzero,notnull,default:current_timestamp"` // When the expiry was last changed
}

// IsIndefinite checks if the mute has no expiry.
func (r *MuteRecord) IsIndefinite() bool {
	return r.MutedUntil == nil
}

// IsExpired checks if the mute expired at or before the given time.
func (r *MuteRecord) IsExpired(now time.Time) bool {
	return r.MutedUntil != nil && !r.MutedUntil.After(now)
}

// Remaining returns the time left until expiry, or zero if expired or indefinite.
func (r *MuteRecord) Remaining(now time.Time) time.Duration {
	if r.MutedUntil == nil || !r.MutedUntil.After(now) {
		return 0
	}
	return r.MutedUntil.Sub(now)
}
