package mute

import (
	"context"
	"time"

	"github.com/robalyx/frost/internal/database/types"
	"go.uber.org/zap"
)

// GuildSettingsSource loads stored per-guild settings.
type GuildSettingsSource interface {
	GetGuildSettings(ctx context.Context, guildID uint64) (*types.GuildSettings, error)
}

// StoredSettings serves guild settings from storage and falls back to defaults
// for unset values or when storage is unavailable.
type StoredSettings struct {
	source          GuildSettingsSource
	defaultSelfMute time.Duration
	defaultInterval time.Duration
	logger          *zap.Logger
}

// NewStoredSettings creates a StoredSettings.
func NewStoredSettings(
	source GuildSettingsSource, defaultSelfMute, defaultInterval time.Duration, logger *zap.Logger,
) *StoredSettings {
	return &StoredSettings{
		source:          source,
		defaultSelfMute: defaultSelfMute,
		defaultInterval: defaultInterval,
		logger:          logger.Named("mute_settings"),
	}
}

// SelfMuteDuration returns how long unauthorized invokers are muted.
func (s *StoredSettings) SelfMuteDuration(ctx context.Context, guildID uint64) time.Duration {
	if settings := s.load(ctx, guildID); settings != nil && settings.SelfMuteMinutes > 0 {
		return time.Duration(settings.SelfMuteMinutes) * time.Minute
	}
	return s.defaultSelfMute
}

// SweepInterval returns the time between expiry sweeps.
func (s *StoredSettings) SweepInterval(ctx context.Context, guildID uint64) time.Duration {
	if settings := s.load(ctx, guildID); settings != nil && settings.SweepIntervalMinutes > 0 {
		return time.Duration(settings.SweepIntervalMinutes) * time.Minute
	}
	return s.defaultInterval
}

func (s *StoredSettings) load(ctx context.Context, guildID uint64) *types.GuildSettings {
	settings, err := s.source.GetGuildSettings(ctx, guildID)
	if err != nil {
		s.logger.Warn("Failed to load guild settings, using defaults",
			zap.Uint64("guildID", guildID), zap.Error(err))
		return nil
	}
	return settings
}
