package mute_test

import (
	"context"
	"testing"
	"time"

	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/mute"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type settingsSource struct {
	settings *types.GuildSettings
	err      error
}

func (s settingsSource) GetGuildSettings(context.Context, uint64) (*types.GuildSettings, error) {
	return s.settings, s.err
}

func TestStoredSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		source       settingsSource
		wantSelfMute time.Duration
		wantInterval time.Duration
	}{
		{
			name:         "unset values use defaults",
			source:       settingsSource{settings: &types.GuildSettings{GuildID: guildID}},
			wantSelfMute: 20 * time.Minute,
			wantInterval: 5 * time.Minute,
		},
		{
			name: "stored values",
			source: settingsSource{settings: &types.GuildSettings{
				GuildID: guildID, SelfMuteMinutes: 45, SweepIntervalMinutes: 2,
			}},
			wantSelfMute: 45 * time.Minute,
			wantInterval: 2 * time.Minute,
		},
		{
			name:         "storage failure uses defaults",
			source:       settingsSource{err: errBoom},
			wantSelfMute: 20 * time.Minute,
			wantInterval: 5 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			settings := mute.NewStoredSettings(tt.source, 20*time.Minute, 5*time.Minute, zap.NewNop())

			assert.Equal(t, tt.wantSelfMute, settings.SelfMuteDuration(context.Background(), guildID))
			assert.Equal(t, tt.wantInterval, settings.SweepInterval(context.Background(), guildID))
		})
	}
}
