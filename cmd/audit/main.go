package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	squadservice "github.com/Black-And-White-Club/fantasy-bot/app/modules/squad/application"
	"github.com/Black-And-White-Club/fantasy-bot/config"
	"github.com/Black-And-White-Club/fantasy-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/fantasy-bot/internal/observability"
)

func main() {
	cliApp := &cli.App{
		Name:  "audit",
		Usage: "sweep squads for corrupt role timestamps",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Value: "config.yaml", Usage: "path to the configuration file"},
			&cli.StringFlag{Name: "league", Usage: "restrict the sweep to one league"},
			&cli.BoolFlag{Name: "repair", Usage: "apply the conservative repair"},
			&cli.StringFlag{Name: "xlsx", Usage: "write the findings to this workbook"},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := observability.NewLogger(cfg.Observability)
	obs := observability.NewNoop(logger)

	dbService, err := bundb.NewBunDBService(c.Context, cfg.Postgres.DSN, logger)
	if err != nil {
		return err
	}
	defer dbService.Close()

	service := squadservice.NewSquadService(
		dbService.Squad,
		logger,
		obs.Registry.SquadMetrics,
		obs.Registry.Tracer,
		dbService.GetDB(),
		cfg.League.DefaultRules,
	)

	result, err := service.AuditRoleTimestamps(c.Context, squadservice.AuditOptions{
		LeagueID: c.String("league"),
		Repair:   c.Bool("repair"),
	})
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}
	if result.IsFailure() {
		return fmt.Errorf("audit rejected: %w", *result.Failure)
	}
	outcome := *result.Success

	if path := c.String("xlsx"); path != "" {
		data, err := service.ExportAuditReport(outcome.Report)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		logger.Info("Audit workbook written", slog.String("path", path))
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}
