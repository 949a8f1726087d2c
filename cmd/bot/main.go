package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/frost/internal/bot"
	"github.com/robalyx/frost/internal/bot/render"
	"github.com/robalyx/frost/internal/database/migrations"
	"github.com/robalyx/frost/internal/metrics"
	"github.com/robalyx/frost/internal/mute"
	"github.com/robalyx/frost/internal/setup"
	"github.com/robalyx/frost/internal/setup/telemetry"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// LogDir specifies where log sessions are stored.
	LogDir = "logs"
	// ShutdownTimeout bounds how long the bot waits for in-flight work on exit.
	ShutdownTimeout = 30 * time.Second
)

var ErrInvalidID = errors.New("invalid discord ID")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	app := &cli.Command{
		Name:   "frost",
		Usage:  "Discord mute bot",
		Action: runBot,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Start the bot",
				Action: runBot,
			},
			{
				Name:   "migrate",
				Usage:  "Run pending migrations",
				Action: withMigrator(migrateUp),
				Commands: []*cli.Command{
					{
						Name:   "rollback",
						Usage:  "Rollback the last migration group",
						Action: withMigrator(migrateRollback),
					},
					{
						Name:   "status",
						Usage:  "Show migration status",
						Action: withMigrator(migrateStatus),
					},
				},
			},
			{
				Name:  "remaining",
				Usage: "Show how long a member stays muted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "guild",
						Usage:    "guild ID",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "member",
						Usage: "member ID, every muted member of the guild when omitted",
					},
				},
				Action: showRemaining,
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}

// runBot starts the bot and the metrics endpoint and blocks until a signal arrives.
func runBot(ctx context.Context, _ *cli.Command) error {
	app, err := setup.InitializeApp(ctx, telemetry.ServiceBot, LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	discordBot, err := bot.New(ctx, app)
	if err != nil {
		return fmt.Errorf("failed to create bot: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := discordBot.Start(gctx); err != nil {
			return fmt.Errorf("failed to start bot: %w", err)
		}
		app.Logger.Info("Bot has been started. Waiting for interrupt signal to gracefully shutdown...")
		<-gctx.Done()
		return nil
	})
	g.Go(func() error {
		return metrics.RunServer(gctx, app.Config.Common.Telemetry.MetricsAddr, app.Registry, app.Logger)
	})

	err = g.Wait()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	discordBot.Close(shutdownCtx)

	return err
}

type migratorAction func(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error

// withMigrator opens the database without the pending migration check and hands a migrator to fn.
func withMigrator(fn migratorAction) cli.ActionFunc {
	return func(ctx context.Context, _ *cli.Command) error {
		app, err := setup.InitializeApp(ctx, telemetry.ServiceMigrate, LogDir)
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}
		defer app.Cleanup(context.Background())

		migrator := migrate.NewMigrator(app.DB.DB(), migrations.Migrations)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migration tables: %w", err)
		}

		return fn(ctx, migrator, app.Logger)
	}
}

func migrateUp(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer migrator.Unlock(ctx) //nolint:errcheck // -

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		logger.Info("No new migrations to run (database is up to date)")
		return nil
	}

	logger.Info("Successfully migrated", zap.String("group", group.String()))

	return nil
}

func migrateRollback(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
	if err := migrator.Lock(ctx); err != nil {
		return err
	}
	defer migrator.Unlock(ctx) //nolint:errcheck // -

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return err
	}

	if group.IsZero() {
		logger.Info("No groups to roll back")
		return nil
	}

	logger.Info("Successfully rolled back", zap.String("group", group.String()))

	return nil
}

func migrateStatus(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger) error {
	ms, err := migrator.MigrationsWithStatus(ctx)
	if err != nil {
		return err
	}

	logger.Info("Migration status",
		zap.String("migrations", ms.String()),
		zap.String("unapplied", ms.Unapplied().String()),
		zap.String("last_group", ms.LastGroup().String()),
	)

	return nil
}

// showRemaining prints remaining mute times straight from the store.
func showRemaining(ctx context.Context, c *cli.Command) error {
	guildID, err := snowflake.Parse(c.String("guild"))
	if err != nil {
		return fmt.Errorf("%w: guild %q", ErrInvalidID, c.String("guild"))
	}

	var memberID snowflake.ID
	if raw := c.String("member"); raw != "" {
		if memberID, err = snowflake.Parse(raw); err != nil {
			return fmt.Errorf("%w: member %q", ErrInvalidID, raw)
		}
	}

	app, err := setup.InitializeApp(ctx, telemetry.ServiceCLI, LogDir)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.Cleanup(context.Background())

	now := time.Now()

	if memberID == 0 {
		records, err := app.DB.Model().Mute().ListByGuild(ctx, uint64(guildID))
		if err != nil {
			return fmt.Errorf("failed to list mute records: %w", err)
		}

		if len(records) == 0 {
			fmt.Println("nobody is muted")
			return nil
		}

		for _, record := range records {
			fmt.Printf("%d: %s\n", record.MemberID, describeRemaining(mute.RemainingOf(record, now)))
		}
		return nil
	}

	record, err := app.DB.Model().Mute().Get(ctx, uint64(guildID), uint64(memberID))
	if err != nil {
		return fmt.Errorf("failed to load mute record: %w", err)
	}

	fmt.Println(describeRemaining(mute.RemainingOf(record, now)))

	return nil
}

func describeRemaining(r mute.Remaining) string {
	switch r.State {
	case mute.NotMuted:
		return "not muted"
	case mute.MutedIndefinitely:
		return "muted indefinitely"
	case mute.MuteDue:
		return "due for unmuting since " + r.Until.Format(time.RFC3339)
	default:
		return render.Span(r.Left) + " left, until " + r.Until.Format(time.RFC3339)
	}
}
