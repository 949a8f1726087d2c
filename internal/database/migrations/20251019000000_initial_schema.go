package migrations

import (
	"context"
	"fmt"

	"github.com/robalyx/frost/internal/database/types"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.MuteRecord)(nil),
			(*types.GuildSettings)(nil),
		}

		for _, model := range models {
			_, err := db.NewCreateTable().
				Model(model).
				IfNotExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to create table %T: %w", model, err)
			}
		}

		// Sweeps scan one guild for rows with an expiry at or before now
		_, err := db.NewCreateIndex().
			Model((*types.MuteRecord)(nil)).
			Index("idx_mute_records_guild_until").
			Column("guild_id", "muted_until").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create mute expiry index: %w", err)
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		models := []any{
			(*types.GuildSettings)(nil),
			(*types.MuteRecord)(nil),
		}

		for _, model := range models {
			_, err := db.NewDropTable().
				Model(model).
				IfExists().
				Exec(ctx)
			if err != nil {
				return fmt.Errorf("failed to drop table %T: %w", model, err)
			}
		}

		return nil
	})
}
