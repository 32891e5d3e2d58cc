package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adeharia/finance-tracker/internal/core/dates"
	"github.com/adeharia/finance-tracker/internal/core/events"
	expensePostgres "github.com/adeharia/finance-tracker/internal/expense/postgres"
	"github.com/adeharia/finance-tracker/internal/recurring"
	recurringPostgres "github.com/adeharia/finance-tracker/internal/recurring/postgres"
	"github.com/adeharia/finance-tracker/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	generateOnce bool
	generateUpTo string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Run the recurring-expense generation worker",
	Long: `Materialize due occurrences from recurring-expense templates. Runs on an
interval by default; pass --once for a single pass.`,
	Run: func(cmd *cobra.Command, args []string) {
		startGenerateWorker()
	},
}

func startGenerateWorker() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	lg := logger.L()

	var upTo *time.Time
	if generateUpTo != "" {
		parsed, err := dates.Parse(generateUpTo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid --up-to date %q, want YYYY-MM-DD\n", generateUpTo)
			os.Exit(1)
		}
		upTo = &parsed
	}

	sqlxDB, err := initDB(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer sqlxDB.Close()

	gormDB, err := initGorm(sqlxDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize gorm: %v\n", err)
		os.Exit(1)
	}

	bus := events.NewEventBus(lg)
	templates := recurringPostgres.NewRecurringRepository(gormDB)
	expenses := expensePostgres.NewExpenseRepository(gormDB)
	generator := recurring.NewGenerator(templates, expenses, bus, lg)

	if generateOnce {
		runGenerationPass(context.Background(), generator, templates, upTo, lg)
		return
	}

	interval := cfg.Recurring.Interval()
	lg.Info("generation worker started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	runGenerationPass(context.Background(), generator, templates, upTo, lg)

	for {
		select {
		case <-ticker.C:
			runGenerationPass(context.Background(), generator, templates, upTo, lg)
		case sig := <-sigChan:
			lg.Info("received signal, stopping generation worker", "signal", sig)
			return
		}
	}
}

// runGenerationPass generates due occurrences for every user that owns
// templates. One user's failure does not stop the others.
func runGenerationPass(ctx context.Context, generator *recurring.Generator, templates recurring.RepositoryAPI, upTo *time.Time, lg *slog.Logger) {
	userIDs, err := templates.UserIDsWithTemplates()
	if err != nil {
		lg.Error("failed to list users with templates", "error", err)
		return
	}

	for _, userID := range userIDs {
		result, err := generator.Generate(ctx, userID, upTo)
		if err != nil {
			lg.Error("generation failed", "user_id", userID, "error", err)
			continue
		}
		if result.GeneratedCount > 0 {
			lg.Info("generated recurring expenses", "user_id", userID, "count", result.GeneratedCount)
		}
	}
}
