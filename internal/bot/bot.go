package bot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/disgo/rest"
	"github.com/google/uuid"
	"github.com/robalyx/frost/internal/bot/constants"
	guildEvents "github.com/robalyx/frost/internal/bot/events"
	"github.com/robalyx/frost/internal/bot/handlers/moderation"
	"github.com/robalyx/frost/internal/mute"
	"github.com/robalyx/frost/internal/platform"
	"github.com/robalyx/frost/internal/setup"
	"github.com/robalyx/frost/internal/setup/telemetry"
	"github.com/robalyx/frost/pkg/utils"
	"go.uber.org/zap"
)

// Bot connects the mute engine to Discord: message commands go to the moderation
// handler and guild lifecycle events drive the expiry loops.
type Bot struct {
	client       bot.Client
	logger       *zap.Logger
	supervisor   *mute.Supervisor
	guildHandler *guildEvents.GuildEventHandler
	handler      *moderation.Handler
}

// New builds the Discord client and every component behind it. Loops stop when ctx is done.
func New(ctx context.Context, app *setup.App) (*Bot, error) {
	cfg := app.Config
	b := &Bot{logger: app.Logger.Named("bot")}

	// Configure Discord client with required gateway intents and event handlers
	client, err := disgo.New(cfg.Bot.Discord.Token,
		bot.WithGatewayConfigOpts(
			gateway.WithIntents(
				gateway.IntentGuilds,
				gateway.IntentGuildMembers,
				gateway.IntentGuildMessages,
				gateway.IntentMessageContent,
			),
		),
		bot.WithCacheConfigOpts(
			cache.WithCaches(cache.FlagGuilds, cache.FlagMembers, cache.FlagRoles),
		),
		bot.WithRestClientConfigOpts(
			rest.WithHTTPClient(&http.Client{Timeout: telemetry.ServiceBot.GetRequestTimeout(cfg)}),
		),
		bot.WithEventListeners(&events.ListenerAdapter{
			OnGuildReady:         b.onGuildReady,
			OnGuildJoin:          b.onGuildJoin,
			OnGuildLeave:         b.onGuildLeave,
			OnGuildMessageCreate: b.onGuildMessageCreate,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord client: %w", err)
	}
	b.client = client

	settingsModel := app.DB.Model().Setting()
	moderationCfg := &cfg.Bot.Moderation

	// Platform capabilities are backed by the REST client and the gateway cache
	var adapterOpts []platform.AdapterOption
	if retry := cfg.Common.Retry; retry.MaxRetries > 0 {
		adapterOpts = append(adapterOpts, platform.WithRetryOptions(utils.RetryOptions{
			MaxElapsedTime:  15 * time.Second,
			InitialInterval: time.Duration(retry.Delay) * time.Millisecond,
			MaxInterval:     time.Duration(retry.MaxDelay) * time.Millisecond,
			MaxRetries:      retry.MaxRetries,
		}))
	}
	adapter := platform.NewAdapter(client.Rest(), settingsModel, app.Logger, adapterOpts...)
	caps := platform.NewCapabilities(
		uint64(client.ID()), client.Caches(), client.Rest(), settingsModel, moderationCfg.ModRoleNames, app.Logger,
	)

	settings := mute.NewStoredSettings(
		settingsModel, moderationCfg.SelfMuteDuration(), moderationCfg.SweepInterval(), app.Logger,
	)

	coordinator := mute.NewCoordinator(adapter, caps, app.DB.Model().Mute(), settings, app.Logger,
		mute.WithLocker(app.Locker),
		mute.WithRecorder(app.Metrics),
	)

	b.supervisor = mute.NewSupervisor(ctx, coordinator, app.LogManager.GetWorkerLogger("expiry"))
	b.guildHandler = guildEvents.NewGuildEventHandler(b.supervisor, app.Logger)
	b.handler = moderation.New(coordinator, caps, settingsModel, settings, cfg.Bot.Discord.Prefix,
		moderation.Limits{
			MaxSelfMuteMinutes: constants.MaxSelfMuteMinutes,
			MaxIntervalMinutes: constants.MaxIntervalMinutes,
		}, app.Logger)

	return b, nil
}

// Start opens the gateway connection. Expiry loops start as guilds become ready.
func (b *Bot) Start(ctx context.Context) error {
	b.logger.Info("Starting bot")
	return b.client.OpenGateway(ctx)
}

// Close stops every expiry loop and then the gateway connection.
// This ensures in-flight restores finish before the client goes away.
func (b *Bot) Close(ctx context.Context) {
	b.logger.Info("Closing bot")
	b.supervisor.StopAll()
	b.client.Close(ctx)
}

func (b *Bot) onGuildReady(event *events.GuildReady) {
	b.guildHandler.OnGuildReady(event)
}

func (b *Bot) onGuildJoin(event *events.GuildJoin) {
	b.guildHandler.OnGuildJoin(event)
}

func (b *Bot) onGuildLeave(event *events.GuildLeave) {
	b.guildHandler.OnGuildLeave(event)
}

// onGuildMessageCreate runs message commands in their own goroutine so the gateway
// is never blocked by REST calls.
func (b *Bot) onGuildMessageCreate(event *events.GuildMessageCreate) {
	if event.Message.Author.Bot {
		return
	}

	msg := moderation.Message{
		GuildID:   uint64(event.GuildID),
		ChannelID: uint64(event.ChannelID),
		AuthorID:  uint64(event.Message.Author.ID),
		Content:   event.Message.Content,
	}

	go func() {
		requestID := uuid.New().String()
		start := time.Now()

		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("Panic in message command handler",
					zap.String("requestID", requestID),
					zap.Any("panic", r))
			}
		}()

		reply, ok := b.handler.Handle(context.Background(), msg)
		if !ok {
			return
		}

		_, err := event.Client().Rest().CreateMessage(event.ChannelID,
			discord.NewMessageCreateBuilder().SetContent(reply).Build(),
		)
		if err != nil {
			b.logger.Error("Failed to send command reply",
				zap.String("requestID", requestID),
				zap.Uint64("guildID", msg.GuildID),
				zap.Error(err))
			return
		}

		b.logger.Debug("Message command handled",
			zap.String("requestID", requestID),
			zap.Duration("duration", time.Since(start)))
	}()
}
