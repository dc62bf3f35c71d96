package backend

import (
	"context"
	"fmt"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/records"
	"fintrack/internal/records/mongo"
	"fintrack/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *log.Logger) Factory {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLiteBackend(ctx, config)
	case MongoBackend:
		return f.createMongoBackend(ctx, config)
	case MemoryBackend:
		return f.createMemoryBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLiteBackend(ctx context.Context, config Config) (*BackendResult, error) {
	repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
	}

	if config.SeedFile != "" {
		if err := f.seed(ctx, repo, config.SeedFile); err != nil {
			repo.Close()
			return nil, err
		}
	}

	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)

	return &BackendResult{
		Source:  repo,
		Ping:    repo.Ping,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMongoBackend(ctx context.Context, config Config) (*BackendResult, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	src, err := mongo.Connect(connectCtx, config.MongoURI, config.MongoDatabase, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MongoDB source: %w", err)
	}

	f.logger.Info("Initialized MongoDB backend", "database", config.MongoDatabase)

	return &BackendResult{
		Source: src,
		Ping:   src.Ping,
		Cleanup: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return src.Close(ctx)
		},
	}, nil
}

func (f *DefaultFactory) createMemoryBackend(ctx context.Context, config Config) (*BackendResult, error) {
	var recs records.Records
	if config.SeedFile != "" {
		var err error
		if recs, err = readSeed(config.SeedFile); err != nil {
			return nil, err
		}
	}

	store, err := records.NewMemorySourceFrom(ctx, recs)
	if err != nil {
		return nil, fmt.Errorf("load seed file: %w", err)
	}
	if config.SeedFile != "" {
		f.logSeeded(recs)
	}

	f.logger.Info("Initialized memory backend", "seed_file", config.SeedFile)

	return &BackendResult{
		Source:  store,
		Ping:    func(context.Context) error { return nil },
		Cleanup: func() error { return nil },
	}, nil
}

func (f *DefaultFactory) seed(ctx context.Context, w records.Writer, path string) error {
	recs, err := readSeed(path)
	if err != nil {
		return err
	}
	if err := records.Load(ctx, w, recs); err != nil {
		return fmt.Errorf("load seed file: %w", err)
	}
	f.logSeeded(recs)
	return nil
}

func readSeed(path string) (records.Records, error) {
	fixture, err := records.ReadFixtureFile(path)
	if err != nil {
		return records.Records{}, fmt.Errorf("read seed file: %w", err)
	}
	recs, err := fixture.Records()
	if err != nil {
		return records.Records{}, fmt.Errorf("decode seed file: %w", err)
	}
	return recs, nil
}

func (f *DefaultFactory) logSeeded(recs records.Records) {
	f.logger.Info("Seeded records",
		"transactions", len(recs.Transactions),
		"goals", len(recs.Goals),
		"budgets", len(recs.Budgets)+len(recs.Inactive))
}
