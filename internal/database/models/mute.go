package models

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalyx/frost/internal/database/dbretry"
	"github.com/robalyx/frost/internal/database/types"
	"github.com/uptrace/bun"
	"go.uber.org/zap"
)

// MuteModel handles database operations for active mute records.
type MuteModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewMute creates a new MuteModel instance.
func NewMute(db *bun.DB, logger *zap.Logger) *MuteModel {
	return &MuteModel{
		db:     db,
		logger: logger.Named("db_mute"),
	}
}

// Upsert creates a mute record or overwrites the expiry of an existing one.
func (m *MuteModel) Upsert(ctx context.Context, record *types.MuteRecord) error {
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.MutedUntil != nil {
		until := record.MutedUntil.UTC()
		record.MutedUntil = &until
	}

	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		_, err := m.db.NewInsert().
			Model(record).
			On("CONFLICT (guild_id, member_id) DO UPDATE").
			Set("muted_until = EXCLUDED.muted_until").
			Set("muted_by = EXCLUDED.muted_by").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to upsert mute record: %w", err)
		}

		return nil
	})
}

// Remove deletes the mute record of a member.
// Returns true if a record was removed, false if the member wasn't muted.
func (m *MuteModel) Remove(ctx context.Context, guildID, memberID uint64) (bool, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (bool, error) {
		result, err := m.db.NewDelete().
			Model((*types.MuteRecord)(nil)).
			Where("guild_id = ?", guildID).
			Where("member_id = ?", memberID).
			Exec(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to remove mute record: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return false, err
		}

		return affected > 0, nil
	})
}

// Get retrieves the mute record of a member. Returns nil if the member isn't muted.
func (m *MuteModel) Get(ctx context.Context, guildID, memberID uint64) (*types.MuteRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.MuteRecord, error) {
		var record types.MuteRecord

		err := m.db.NewSelect().
			Model(&record).
			Where("guild_id = ?", guildID).
			Where("member_id = ?", memberID).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, nil
			}
			return nil, fmt.Errorf("failed to get mute record: %w", err)
		}

		return &record, nil
	})
}

// SweepExpired returns every record of the guild whose expiry is at or before now,
// oldest first. Records are not deleted.
func (m *MuteModel) SweepExpired(ctx context.Context, guildID uint64, now time.Time) ([]*types.MuteRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.MuteRecord, error) {
		var records []*types.MuteRecord

		err := m.db.NewSelect().
			Model(&records).
			Where("guild_id = ?", guildID).
			Where("muted_until IS NOT NULL").
			Where("muted_until <= ?", now.UTC()).
			Order("muted_until ASC", "member_id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to sweep expired mutes: %w", err)
		}

		return records, nil
	})
}

// ListByGuild returns all active mute records of a guild, soonest expiry first.
// Indefinite mutes come last.
func (m *MuteModel) ListByGuild(ctx context.Context, guildID uint64) ([]*types.MuteRecord, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) ([]*types.MuteRecord, error) {
		var records []*types.MuteRecord

		err := m.db.NewSelect().
			Model(&records).
			Where("guild_id = ?", guildID).
			OrderExpr("muted_until IS NULL ASC").
			Order("muted_until ASC", "member_id ASC").
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list mutes: %w", err)
		}

		return records, nil
	})
}
