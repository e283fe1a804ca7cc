package squadmigrations

import (
	"context"
	"fmt"

	squaddb "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/infrastructure/repositories"
	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating squad tables...")

		models := []interface{}{
			(*squaddb.League)(nil),
			(*squaddb.Squad)(nil),
			(*squaddb.SquadSlot)(nil),
			(*squaddb.PlayerScore)(nil),
			(*squaddb.TransferRecord)(nil),
			(*squaddb.SquadTotalSnapshot)(nil),
		}
		for _, model := range models {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create table for %T: %w", model, err)
			}
		}

		indexes := []string{
			"CREATE INDEX IF NOT EXISTS idx_squads_league_id ON squads (league_id)",
			"CREATE INDEX IF NOT EXISTS idx_squad_slots_player_id ON squad_slots (player_id) WHERE player_id IS NOT NULL",
			"CREATE INDEX IF NOT EXISTS idx_squad_transfers_squad_id ON squad_transfers (squad_id, created_at)",
			"CREATE INDEX IF NOT EXISTS idx_squad_total_snapshots_squad ON squad_total_snapshots (squad_id, recorded_at)",
		}
		for _, stmt := range indexes {
			if _, err := db.NewRaw(stmt).Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Squad tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping squad tables...")

		models := []interface{}{
			(*squaddb.SquadTotalSnapshot)(nil),
			(*squaddb.TransferRecord)(nil),
			(*squaddb.PlayerScore)(nil),
			(*squaddb.SquadSlot)(nil),
			(*squaddb.Squad)(nil),
			(*squaddb.League)(nil),
		}
		for _, model := range models {
			if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
				return err
			}
		}

		fmt.Println("Squad tables dropped successfully!")
		return nil
	})
}
