package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/xelth-com/swiftlog/internal/config"
	"github.com/xelth-com/swiftlog/internal/dashboard"
	"github.com/xelth-com/swiftlog/internal/database"
	"github.com/xelth-com/swiftlog/internal/models"
	"github.com/xelth-com/swiftlog/internal/store"
)

var (
	flagDeliveries int
	flagDays       int
	flagDrivers    int
	flagCustomers  int
	flagSeed       int64
	flagForce      bool
)

var rootCmd = &cobra.Command{
	Use:   "seed_demo",
	Short: "🌱 Fill the SwiftLog database with demo data",
	Long:  `Generates branches, drivers, vehicles, deliveries, critical customers and seller mappings and writes them through the row store.`,
	RunE:  runSeed,
}

func init() {
	rootCmd.Flags().IntVar(&flagDeliveries, "deliveries", 300, "number of deliveries to generate")
	rootCmd.Flags().IntVar(&flagDays, "days", 30, "spread deliveries over this many days up to today")
	rootCmd.Flags().IntVar(&flagDrivers, "drivers", 6, "drivers per branch")
	rootCmd.Flags().IntVar(&flagCustomers, "customers", 80, "distinct customers")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "random seed (0 = random)")
	rootCmd.Flags().BoolVar(&flagForce, "force", false, "seed even if deliveries already exist")
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("❌ Seeding failed")
	}
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	log.Info().Msg("✅ Migrations complete")

	rs := store.NewGormStore(db.DB)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var existing []models.Delivery
	if err := rs.SelectAll(ctx, models.TableDeliveries, &existing); err != nil {
		return err
	}
	if len(existing) > 0 && !flagForce {
		log.Warn().Int("deliveries", len(existing)).Msg("⚠️  Database already has deliveries, use --force to add more")
		return nil
	}

	ds := Generate(gofakeit.New(flagSeed), GenOptions{
		Deliveries:       flagDeliveries,
		Days:             flagDays,
		DriversPerBranch: flagDrivers,
		Customers:        flagCustomers,
		Today:            dashboard.DayOf(time.Now().In(cfg.Location)),
	})
	if len(existing) > 0 {
		// reference tables are only seeded once
		ds = Dataset{Deliveries: ds.Deliveries}
	}

	steps := []struct {
		table string
		rows  interface{}
		count int
	}{
		{models.TableBranches, &ds.Branches, len(ds.Branches)},
		{models.TableReasons, &ds.Reasons, len(ds.Reasons)},
		{models.TableDrivers, &ds.Drivers, len(ds.Drivers)},
		{models.TableVehicles, &ds.Vehicles, len(ds.Vehicles)},
		{models.TableDeliveries, &ds.Deliveries, len(ds.Deliveries)},
		{models.TableReputations, &ds.Reputations, len(ds.Reputations)},
		{models.TableMappings, &ds.Mappings, len(ds.Mappings)},
	}
	for _, step := range steps {
		if step.count == 0 {
			continue
		}
		if err := rs.Insert(ctx, step.table, step.rows); err != nil {
			return err
		}
		log.Info().Str("table", step.table).Int("rows", step.count).Msg("📦 Seeded")
	}

	log.Info().Msg("🎉 Demo data ready")
	return nil
}
