// Command seed loads a JSON fixture of transactions, goals and budgets into
// the SQLite record store and optionally announces the change over AMQP so a
// running server drops its cached views.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/cli"
	"fintrack/internal/log"
	"fintrack/internal/records"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup finishes first.
func run() int {
	cfg, logger := cli.Bootstrap(log.ComponentSeed)

	file := flag.String("file", cfg.SeedFile, "path to the JSON fixture")
	dbPath := flag.String("db", cfg.SQLiteDBPath, "SQLite database path")
	publish := flag.Bool("publish", cfg.AMQPURL != "", "publish records_changed for every seeded user")
	flag.Parse()

	if *file == "" {
		logger.Error("No fixture given; use -file or SEED_FILE")
		return 2
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	fixture, err := records.ReadFixtureFile(*file)
	if err != nil {
		logger.Error("Failed to read fixture", log.FieldError, err, "file", *file)
		return 1
	}
	recs, err := fixture.Records()
	if err != nil {
		logger.Error("Fixture contains malformed records", log.FieldError, err, "file", *file)
		return 1
	}

	repo, err := cli.InitSQLite(logger, *dbPath)
	if err != nil {
		return 1
	}
	defer repo.Close()

	if err := records.Load(ctx, repo, recs); err != nil {
		logger.Error("Failed to load records", log.FieldError, err)
		return 1
	}

	users := recs.UserIDs()
	logger.Info("Fixture loaded",
		"file", *file,
		"db_path", *dbPath,
		"transactions", len(recs.Transactions),
		"goals", len(recs.Goals),
		"budgets", len(recs.Budgets)+len(recs.Inactive),
		"users", len(users))

	if !*publish {
		return 0
	}
	if cfg.AMQPURL == "" {
		logger.Warn("Publish requested but AMQP_URL is empty")
		return 0
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		return 1
	}
	defer client.Close()

	for _, userID := range users {
		if err := client.PublishRecordsChanged(ctx, userID, ""); err != nil {
			logger.Error("Failed to publish records changed", log.FieldError, err, log.FieldUserID, userID)
			return 1
		}
	}
	return 0
}
