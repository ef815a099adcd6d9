package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"kitchen-companion/internal/admin"
	"kitchen-companion/internal/config"
	"kitchen-companion/internal/database"
	"kitchen-companion/internal/logging"
	"kitchen-companion/internal/metrics"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.LoadTools()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	switch os.Args[1] {
	case "admin-token":
		tokenCmd := flag.NewFlagSet("admin-token", flag.ExitOnError)
		ttl := tokenCmd.Duration("ttl", time.Hour, "Token lifetime")
		_ = tokenCmd.Parse(os.Args[2:])

		token, err := admin.NewToken(cfg.AdminJWTSecret, *ttl)
		if err != nil {
			logger.Fatal("Failed to create admin token", zap.Error(err))
		}
		fmt.Println(token)

	case "usage":
		usageCmd := flag.NewFlagSet("usage", flag.ExitOnError)
		days := usageCmd.Int("days", 7, "Report the last N days")
		_ = usageCmd.Parse(os.Args[2:])

		mStore := openMetricsStore(cfg, logger)
		defer mStore.Close()

		rows, err := mStore.GetDailyUsage(ctx, *days)
		if err != nil {
			logger.Fatal("Failed to read usage", zap.Error(err))
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rows); err != nil {
			logger.Fatal("Failed to print usage", zap.Error(err))
		}

	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		_ = cleanupCmd.Parse(os.Args[2:])

		mStore := openMetricsStore(cfg, logger)
		defer mStore.Close()

		affected, err := mStore.Cleanup(ctx, *days)
		if err != nil {
			logger.Fatal("Cleanup failed", zap.Error(err))
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// openMetricsStore exits the process when the database cannot be opened.
// The returned store closes the underlying database.
func openMetricsStore(cfg *config.Config, logger *zap.Logger) *metrics.Store {
	db, err := database.NewDB(cfg.DatabasePath, logger)
	if err != nil {
		logger.Fatal("Failed to open metrics database", zap.Error(err))
	}
	return metrics.NewStore(db.SQL)
}

func printUsage() {
	fmt.Println("Usage: kitchen-companion <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  admin-token        Print a signed token for the admin API (-ttl 1h)")
	fmt.Println("  usage              Print daily provider usage (-days 7)")
	fmt.Println("  metrics-cleanup    Remove old metric records (-days 30)")
}
