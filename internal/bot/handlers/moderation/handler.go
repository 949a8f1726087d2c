package moderation

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/robalyx/frost/internal/bot/commands"
	"github.com/robalyx/frost/internal/bot/constants"
	"github.com/robalyx/frost/internal/bot/render"
	"github.com/robalyx/frost/internal/database/types"
	"github.com/robalyx/frost/internal/mute"
	"go.uber.org/zap"
)

var (
	// ErrInvalidRoleID indicates a role argument that is not a role mention or ID.
	ErrInvalidRoleID = errors.New("invalid role id")
	// ErrInvalidMinutes indicates a settings argument outside the accepted range.
	ErrInvalidMinutes = errors.New("invalid number of minutes")
)

// Coordinator runs mute requests.
type Coordinator interface {
	Apply(ctx context.Context, req mute.Request) *mute.Outcome
	PunishUnauthorized(ctx context.Context, guildID, invoker uint64, targets []uint64) *mute.UnauthorizedOutcome
	Remaining(ctx context.Context, guildID, memberID uint64) (mute.Remaining, error)
}

// SettingsStore reads and changes per-guild settings.
type SettingsStore interface {
	GetGuildSettings(ctx context.Context, guildID uint64) (*types.GuildSettings, error)
	UpdateGuildSettings(ctx context.Context, guildID uint64, fn func(*types.GuildSettings)) (*types.GuildSettings, error)
}

// Message is a guild text message that may hold a command.
type Message struct {
	GuildID   uint64
	ChannelID uint64
	AuthorID  uint64
	Content   string
}

// Handler answers moderation message commands.
type Handler struct {
	coordinator Coordinator
	caps        mute.Capabilities
	store       SettingsStore
	effective   mute.Settings
	prefix      string
	limits      Limits
	logger      *zap.Logger
}

// Limits bounds the values moderators may store, in minutes.
type Limits struct {
	MaxSelfMuteMinutes int
	MaxIntervalMinutes int
}

// New creates a Handler. effective reports settings with defaults applied.
func New(
	coordinator Coordinator, caps mute.Capabilities, store SettingsStore, effective mute.Settings,
	prefix string, limits Limits, logger *zap.Logger,
) *Handler {
	return &Handler{
		coordinator: coordinator,
		caps:        caps,
		store:       store,
		effective:   effective,
		prefix:      prefix,
		limits:      limits,
		logger:      logger.Named("moderation_handler"),
	}
}

// Handle runs the command in msg and returns the reply. It returns false if the
// message is not a command.
func (h *Handler) Handle(ctx context.Context, msg Message) (string, bool) {
	cmd, ok := commands.Parse(h.prefix, msg.Content)
	if !ok {
		return "", false
	}

	start := time.Now()
	defer func() {
		h.logger.Debug("Handled command",
			zap.String("command", cmd.Name),
			zap.Uint64("guildID", msg.GuildID),
			zap.Uint64("invoker", msg.AuthorID),
			zap.Duration("duration", time.Since(start)))
	}()

	switch cmd.Kind {
	case commands.KindSuspend, commands.KindRestore:
		return h.handleMute(ctx, msg, cmd), true
	case commands.KindRemaining:
		return h.handleRemaining(ctx, msg, cmd), true
	case commands.KindSelfMuteTime, commands.KindSweepInterval, commands.KindMuteRole, commands.KindModRole:
		if !h.caps.IsPrivileged(ctx, msg.GuildID, msg.AuthorID) {
			return render.Mention(msg.AuthorID) + " Only moderators can change mute settings.", true
		}
		return h.handleSetting(ctx, msg, cmd), true
	default:
		return "", false
	}
}

func (h *Handler) handleMute(ctx context.Context, msg Message, cmd *commands.Command) string {
	// Members without moderation rights get muted themselves
	if !h.caps.IsPrivileged(ctx, msg.GuildID, msg.AuthorID) {
		out := h.coordinator.PunishUnauthorized(ctx, msg.GuildID, msg.AuthorID, cmd.Mentions)
		return render.Unauthorized(msg.AuthorID, out)
	}

	out := h.coordinator.Apply(ctx, mute.Request{
		GuildID:   msg.GuildID,
		Invoker:   msg.AuthorID,
		Targets:   cmd.Mentions,
		Restore:   cmd.Kind == commands.KindRestore,
		Intensity: cmd.Intensity,
		Tokens:    cmd.Args,
	})

	return render.Outcome(msg.AuthorID, out)
}

func (h *Handler) handleRemaining(ctx context.Context, msg Message, cmd *commands.Command) string {
	memberID := msg.AuthorID
	if len(cmd.Mentions) > 0 {
		memberID = cmd.Mentions[0]
	}

	remaining, err := h.coordinator.Remaining(ctx, msg.GuildID, memberID)
	if err != nil {
		h.logger.Error("Failed to get remaining mute time",
			zap.Uint64("guildID", msg.GuildID),
			zap.Uint64("memberID", memberID),
			zap.Error(err))
		return render.Mention(msg.AuthorID) + " I couldn't look that up right now. Try again later."
	}

	return render.Remaining(msg.AuthorID, memberID, remaining)
}

func (h *Handler) handleSetting(ctx context.Context, msg Message, cmd *commands.Command) string {
	reply, err := h.applySetting(ctx, msg.GuildID, cmd)
	switch {
	case errors.Is(err, ErrInvalidMinutes), errors.Is(err, ErrInvalidRoleID):
		return render.Mention(msg.AuthorID) + " " + reply
	case err != nil:
		h.logger.Error("Failed to update guild settings",
			zap.Uint64("guildID", msg.GuildID),
			zap.String("command", cmd.Name),
			zap.Error(err))
		return render.Mention(msg.AuthorID) + " Failed to save the setting. Try again later."
	}
	return render.Mention(msg.AuthorID) + " " + reply
}

// applySetting shows or changes one setting and returns the reply text.
func (h *Handler) applySetting(ctx context.Context, guildID uint64, cmd *commands.Command) (string, error) {
	switch cmd.Kind {
	case commands.KindSelfMuteTime:
		if len(cmd.Args) == 0 {
			d := h.effective.SelfMuteDuration(ctx, guildID)
			return "Unauthorized mute attempts are punished with " + render.Span(d) + ".", nil
		}
		minutes, err := parseMinutes(cmd.Args[0], h.limits.MaxSelfMuteMinutes)
		if err != nil {
			return "Give me a number of minutes between 1 and " + strconv.Itoa(h.limits.MaxSelfMuteMinutes) + ".", err
		}
		if _, err := h.store.UpdateGuildSettings(ctx, guildID, func(s *types.GuildSettings) {
			s.SelfMuteMinutes = minutes
		}); err != nil {
			return "", err
		}
		return "Unauthorized mute attempts are now punished with " + render.Span(time.Duration(minutes)*time.Minute) + ".", nil

	case commands.KindSweepInterval:
		if len(cmd.Args) == 0 {
			d := h.effective.SweepInterval(ctx, guildID)
			return "Expired mutes are checked every " + render.Span(d) + ".", nil
		}
		minutes, err := parseMinutes(cmd.Args[0], h.limits.MaxIntervalMinutes)
		if err != nil {
			return "Give me a number of minutes between 1 and " + strconv.Itoa(h.limits.MaxIntervalMinutes) + ".", err
		}
		if _, err := h.store.UpdateGuildSettings(ctx, guildID, func(s *types.GuildSettings) {
			s.SweepIntervalMinutes = minutes
		}); err != nil {
			return "", err
		}
		return "Expired mutes will be checked every " + render.Span(time.Duration(minutes)*time.Minute) + ".", nil

	case commands.KindMuteRole:
		if len(cmd.Args) == 0 {
			settings, err := h.store.GetGuildSettings(ctx, guildID)
			if err != nil {
				return "", err
			}
			if settings.MuteRoleID == 0 {
				return "No mute role is set.", nil
			}
			return "The mute role is " + roleMention(settings.MuteRoleID) + ".", nil
		}
		roleID, err := parseRoleID(cmd.Args[0])
		if err != nil {
			return "That doesn't look like a role.", err
		}
		if _, err := h.store.UpdateGuildSettings(ctx, guildID, func(s *types.GuildSettings) {
			s.MuteRoleID = roleID
		}); err != nil {
			return "", err
		}
		return "The mute role is now " + roleMention(roleID) + ".", nil

	case commands.KindModRole:
		return h.applyModRole(ctx, guildID, cmd.Args)
	}

	return "", nil
}

func (h *Handler) applyModRole(ctx context.Context, guildID uint64, args []string) (string, error) {
	if len(args) < 2 {
		settings, err := h.store.GetGuildSettings(ctx, guildID)
		if err != nil {
			return "", err
		}
		if len(settings.ModRoleIDs) == 0 {
			return "No moderator roles are set.", nil
		}
		mentions := make([]string, len(settings.ModRoleIDs))
		for i, id := range settings.ModRoleIDs {
			mentions[i] = roleMention(id)
		}
		return "Moderator roles: " + strings.Join(mentions, ", ") + ".", nil
	}

	roleID, err := parseRoleID(args[1])
	if err != nil {
		return "That doesn't look like a role.", err
	}

	var changed bool
	switch strings.ToLower(args[0]) {
	case constants.ModRoleAdd:
		_, err = h.store.UpdateGuildSettings(ctx, guildID, func(s *types.GuildSettings) {
			changed = s.AddModRole(roleID)
		})
		if err != nil {
			return "", err
		}
		if !changed {
			return roleMention(roleID) + " is already a moderator role.", nil
		}
		return roleMention(roleID) + " is now a moderator role.", nil
	case constants.ModRoleRemove:
		_, err = h.store.UpdateGuildSettings(ctx, guildID, func(s *types.GuildSettings) {
			changed = s.RemoveModRole(roleID)
		})
		if err != nil {
			return "", err
		}
		if !changed {
			return roleMention(roleID) + " wasn't a moderator role.", nil
		}
		return roleMention(roleID) + " is no longer a moderator role.", nil
	default:
		return "Use `modrole add <role>` or `modrole remove <role>`.", nil
	}
}

func parseMinutes(arg string, maxMinutes int) (int, error) {
	minutes, err := strconv.Atoi(arg)
	if err != nil || minutes < 1 || minutes > maxMinutes {
		return 0, ErrInvalidMinutes
	}
	return minutes, nil
}

func parseRoleID(arg string) (uint64, error) {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<@&"), ">")
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidRoleID
	}
	return id, nil
}

func roleMention(id uint64) string {
	return "<@&" + strconv.FormatUint(id, 10) + ">"
}
