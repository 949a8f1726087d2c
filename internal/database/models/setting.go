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

// SettingModel handles database operations for per-guild settings.
type SettingModel struct {
	db     *bun.DB
	logger *zap.Logger
}

// NewSetting creates a new SettingModel instance.
func NewSetting(db *bun.DB, logger *zap.Logger) *SettingModel {
	return &SettingModel{
		db:     db,
		logger: logger.Named("db_setting"),
	}
}

// GetGuildSettings retrieves the settings of a guild.
// A guild without a row gets empty settings so callers fall back to defaults.
func (m *SettingModel) GetGuildSettings(ctx context.Context, guildID uint64) (*types.GuildSettings, error) {
	return dbretry.Operation(ctx, func(ctx context.Context) (*types.GuildSettings, error) {
		return getGuildSettings(ctx, m.db, guildID)
	})
}

// SaveGuildSettings creates or replaces the settings of a guild.
func (m *SettingModel) SaveGuildSettings(ctx context.Context, settings *types.GuildSettings) error {
	return dbretry.NoResult(ctx, func(ctx context.Context) error {
		return saveGuildSettings(ctx, m.db, settings)
	})
}

// UpdateGuildSettings loads the settings of a guild, applies fn and saves the result
// in one transaction so concurrent updates do not overwrite each other.
func (m *SettingModel) UpdateGuildSettings(
	ctx context.Context, guildID uint64, fn func(*types.GuildSettings),
) (*types.GuildSettings, error) {
	var settings *types.GuildSettings

	err := dbretry.Transaction(ctx, m.db, func(ctx context.Context, tx bun.Tx) error {
		current, err := getGuildSettings(ctx, tx, guildID)
		if err != nil {
			return err
		}

		fn(current)

		if err := saveGuildSettings(ctx, tx, current); err != nil {
			return err
		}

		settings = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Updated guild settings", zap.Uint64("guildID", guildID))

	return settings, nil
}

func getGuildSettings(ctx context.Context, db bun.IDB, guildID uint64) (*types.GuildSettings, error) {
	settings := &types.GuildSettings{GuildID: guildID}

	err := db.NewSelect().
		Model(settings).
		WherePK().
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &types.GuildSettings{GuildID: guildID}, nil
		}
		return nil, fmt.Errorf("failed to get guild settings: %w", err)
	}

	return settings, nil
}

func saveGuildSettings(ctx context.Context, db bun.IDB, settings *types.GuildSettings) error {
	settings.UpdatedAt = time.Now().UTC()

	_, err := db.NewInsert().
		Model(settings).
		On("CONFLICT (guild_id) DO UPDATE").
		Set("self_mute_minutes = EXCLUDED.self_mute_minutes").
		Set("sweep_interval_minutes = EXCLUDED.sweep_interval_minutes").
		Set("mute_role_id = EXCLUDED.mute_role_id").
		Set("mod_role_ids = EXCLUDED.mod_role_ids").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to save guild settings: %w", err)
	}

	return nil
}
