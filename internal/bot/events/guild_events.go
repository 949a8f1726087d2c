package events

import (
	"github.com/disgoorg/disgo/events"
	"go.uber.org/zap"
)

// LoopSupervisor runs one expiry loop per guild.
type LoopSupervisor interface {
	Start(guildID uint64) bool
	Stop(guildID uint64) bool
}

// GuildEventHandler ties expiry loops to guild membership of the bot.
type GuildEventHandler struct {
	supervisor LoopSupervisor
	logger     *zap.Logger
}

// NewGuildEventHandler creates a new instance of the guild event handler.
func NewGuildEventHandler(supervisor LoopSupervisor, logger *zap.Logger) *GuildEventHandler {
	return &GuildEventHandler{
		supervisor: supervisor,
		logger:     logger.Named("guild_events"),
	}
}

// OnGuildReady starts the loop of a guild received while connecting.
func (h *GuildEventHandler) OnGuildReady(event *events.GuildReady) {
	h.GuildAvailable(uint64(event.Guild.ID))
}

// OnGuildJoin handles the event when the bot joins a new guild.
func (h *GuildEventHandler) OnGuildJoin(event *events.GuildJoin) {
	h.logger.Info("Bot joined a new guild",
		zap.String("guildID", event.Guild.ID.String()),
		zap.String("guild_name", event.Guild.Name))

	h.GuildAvailable(uint64(event.Guild.ID))
}

// OnGuildLeave stops the loop when the bot is removed from a guild.
func (h *GuildEventHandler) OnGuildLeave(event *events.GuildLeave) {
	h.logger.Info("Bot left a guild", zap.String("guildID", event.Guild.ID.String()))

	h.GuildGone(uint64(event.Guild.ID))
}

// GuildAvailable starts the expiry loop of a guild if it is not running yet.
func (h *GuildEventHandler) GuildAvailable(guildID uint64) {
	if h.supervisor.Start(guildID) {
		h.logger.Debug("Expiry loop attached", zap.Uint64("guildID", guildID))
	}
}

// GuildGone stops the expiry loop of a guild.
func (h *GuildEventHandler) GuildGone(guildID uint64) {
	if h.supervisor.Stop(guildID) {
		h.logger.Debug("Expiry loop detached", zap.Uint64("guildID", guildID))
	}
}
