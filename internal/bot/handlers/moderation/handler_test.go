package moderation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/robalyx/frost/internal/bot/handlers/moderation"
	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/mute"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	guildID = uint64(1000)
	modID   = uint64(2)
	userID  = uint64(10)
	otherID = uint64(11)
)

type fakeCoordinator struct {
	mu           sync.Mutex
	requests     []mute.Request
	punished     []uint64
	remaining    mute.Remaining
	remainingErr error
}

func (c *fakeCoordinator) Apply(_ context.Context, req mute.Request) *mute.Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	category := mute.CategorySingle
	if req.Restore {
		category = mute.CategoryRestoreSingle
	}
	return &mute.Outcome{Category: category, Succeeded: req.Targets}
}

func (c *fakeCoordinator) PunishUnauthorized(_ context.Context, _, invoker uint64, targets []uint64) *mute.UnauthorizedOutcome {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.punished = append(c.punished, invoker)
	return &mute.UnauthorizedOutcome{Category: mute.UnauthorizedUser, Others: targets}
}

func (c *fakeCoordinator) Remaining(context.Context, uint64, uint64) (mute.Remaining, error) {
	return c.remaining, c.remainingErr
}

type fakeCaps struct{}

func (fakeCaps) IsPrivileged(_ context.Context, _, memberID uint64) bool { return memberID == modID }
func (fakeCaps) IsServiceAccount(memberID uint64) bool                   { return memberID == 1 }

type memSettings struct {
	mu       sync.Mutex
	settings map[uint64]*types.GuildSettings
	err      error
}

func newMemSettings() *memSettings {
	return &memSettings{settings: map[uint64]*types.GuildSettings{}}
}

func (s *memSettings) GetGuildSettings(_ context.Context, guildID uint64) (*types.GuildSettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if settings, ok := s.settings[guildID]; ok {
		clone := *settings
		clone.ModRoleIDs = append([]uint64(nil), settings.ModRoleIDs...)
		return &clone, nil
	}
	return &types.GuildSettings{GuildID: guildID}, nil
}

func (s *memSettings) UpdateGuildSettings(
	ctx context.Context, guildID uint64, fn func(*types.GuildSettings),
) (*types.GuildSettings, error) {
	settings, err := s.GetGuildSettings(ctx, guildID)
	if err != nil {
		return nil, err
	}
	fn(settings)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[guildID] = settings
	return settings, nil
}

type storeBackedSettings struct {
	store *memSettings
}

func (s storeBackedSettings) SelfMuteDuration(ctx context.Context, guildID uint64) time.Duration {
	settings, _ := s.store.GetGuildSettings(ctx, guildID)
	if settings == nil || settings.SelfMuteMinutes == 0 {
		return 20 * time.Minute
	}
	return time.Duration(settings.SelfMuteMinutes) * time.Minute
}

func (s storeBackedSettings) SweepInterval(ctx context.Context, guildID uint64) time.Duration {
	settings, _ := s.store.GetGuildSettings(ctx, guildID)
	if settings == nil || settings.SweepIntervalMinutes == 0 {
		return 5 * time.Minute
	}
	return time.Duration(settings.SweepIntervalMinutes) * time.Minute
}

func newHandler() (*moderation.Handler, *fakeCoordinator, *memSettings) {
	coordinator := &fakeCoordinator{}
	store := newMemSettings()
	handler := moderation.New(coordinator, fakeCaps{}, store, storeBackedSettings{store: store}, "!",
		moderation.Limits{MaxSelfMuteMinutes: 10080, MaxIntervalMinutes: 1440}, zap.NewNop())
	return handler, coordinator, store
}

func message(author uint64, content string) moderation.Message {
	return moderation.Message{GuildID: guildID, ChannelID: 5, AuthorID: author, Content: content}
}

func TestHandleIgnoresNonCommands(t *testing.T) {
	t.Parallel()

	handler, coordinator, _ := newHandler()

	_, ok := handler.Handle(context.Background(), message(modID, "hello there"))
	assert.False(t, ok)
	_, ok = handler.Handle(context.Background(), message(modID, "!dance"))
	assert.False(t, ok)
	assert.Empty(t, coordinator.requests)
}

func TestHandleModeratorMute(t *testing.T) {
	t.Parallel()

	handler, coordinator, _ := newHandler()

	reply, ok := handler.Handle(context.Background(), message(modID, "!supermute <@10> 1d"))
	require.True(t, ok)
	assert.Equal(t, "<@2> <@10> has been muted indefinitely.", reply)

	require.Len(t, coordinator.requests, 1)
	req := coordinator.requests[0]
	assert.Equal(t, guildID, req.GuildID)
	assert.Equal(t, modID, req.Invoker)
	assert.Equal(t, []uint64{userID}, req.Targets)
	assert.Equal(t, mute.IntensityExtended, req.Intensity)
	assert.Equal(t, []string{"1d"}, req.Tokens)
	assert.False(t, req.Restore)
}

func TestHandleModeratorRestore(t *testing.T) {
	t.Parallel()

	handler, coordinator, _ := newHandler()

	reply, ok := handler.Handle(context.Background(), message(modID, "!unmute <@10>"))
	require.True(t, ok)
	assert.Equal(t, "<@2> <@10> has been unmuted.", reply)
	require.Len(t, coordinator.requests, 1)
	assert.True(t, coordinator.requests[0].Restore)
}

func TestHandleUnauthorizedMute(t *testing.T) {
	t.Parallel()

	handler, coordinator, _ := newHandler()

	reply, ok := handler.Handle(context.Background(), message(userID, "!mute <@11>"))
	require.True(t, ok)
	assert.Contains(t, reply, "You tried to mute <@11>")
	assert.Empty(t, coordinator.requests)
	assert.Equal(t, []uint64{userID}, coordinator.punished)
}

func TestHandleRemaining(t *testing.T) {
	t.Parallel()

	handler, coordinator, _ := newHandler()
	coordinator.remaining = mute.Remaining{State: mute.MuteActive, Left: 2 * time.Hour}

	reply, ok := handler.Handle(context.Background(), message(userID, "!banishtime"))
	require.True(t, ok)
	assert.Equal(t, "<@10> You have about **2 hours** left to go.", reply)

	coordinator.remainingErr = errors.New("db down")
	reply, _ = handler.Handle(context.Background(), message(userID, "!mutetime <@11>"))
	assert.Contains(t, reply, "couldn't look that up")
}

func TestHandleSettings(t *testing.T) {
	t.Parallel()

	handler, _, store := newHandler()
	ctx := context.Background()

	reply, _ := handler.Handle(ctx, message(userID, "!selfmutetime 5"))
	assert.Equal(t, "<@10> Only moderators can change mute settings.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!selfmutetime"))
	assert.Equal(t, "<@2> Unauthorized mute attempts are punished with 20 minutes.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!selfmutetime 45"))
	assert.Equal(t, "<@2> Unauthorized mute attempts are now punished with 45 minutes.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!selfmutetime 0"))
	assert.Equal(t, "<@2> Give me a number of minutes between 1 and 10080.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!banishinterval 2"))
	assert.Equal(t, "<@2> Expired mutes will be checked every 2 minutes.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!muterole <@&900>"))
	assert.Equal(t, "<@2> The mute role is now <@&900>.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!modrole add 901"))
	assert.Equal(t, "<@2> <@&901> is now a moderator role.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!modrole add 901"))
	assert.Equal(t, "<@2> <@&901> is already a moderator role.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!modrole"))
	assert.Equal(t, "<@2> Moderator roles: <@&901>.", reply)

	settings, err := store.GetGuildSettings(ctx, guildID)
	require.NoError(t, err)
	assert.Equal(t, 45, settings.SelfMuteMinutes)
	assert.Equal(t, 2, settings.SweepIntervalMinutes)
	assert.Equal(t, uint64(900), settings.MuteRoleID)
	assert.Equal(t, []uint64{901}, settings.ModRoleIDs)

	reply, _ = handler.Handle(ctx, message(modID, "!modrole remove 901"))
	assert.Equal(t, "<@2> <@&901> is no longer a moderator role.", reply)

	reply, _ = handler.Handle(ctx, message(modID, "!muterole banana"))
	assert.Equal(t, "<@2> That doesn't look like a role.", reply)
}

func TestHandleSettingsStorageFailure(t *testing.T) {
	t.Parallel()

	handler, _, store := newHandler()
	store.err = errors.New("db down")

	reply, _ := handler.Handle(context.Background(), message(modID, "!banishinterval 3"))
	assert.Equal(t, "<@2> Failed to save the setting. Try again later.", reply)
}
