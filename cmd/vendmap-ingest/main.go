// Command vendmap-ingest normalizes a vending machine spreadsheet into the
// document set the locator serves, writing review JSON and bulk NDJSON, and
// optionally loading the batch straight into the search index.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/campus-maps/vendmap/internal/config"
	dbRedis "github.com/campus-maps/vendmap/internal/db/redis"
	"github.com/campus-maps/vendmap/internal/ingest"
	logpkg "github.com/campus-maps/vendmap/internal/logger"
	machinerepo "github.com/campus-maps/vendmap/internal/repository/machine"
	"github.com/campus-maps/vendmap/internal/version"
)

func main() {
	// Optional .env for local runs; absence is not an error.
	_ = godotenv.Load()

	var (
		inputPath = flag.String("input", "", "spreadsheet to ingest (.csv or .xlsx)")
		format    = flag.String("format", "", "input format: csv or xlsx (default: from extension)")
		jsonPath  = flag.String("out", "machines.json", "normalized document set output")
		bulkPath  = flag.String("bulk", "", "bulk NDJSON output (omit to skip)")
		bulkIndex = flag.String("bulk-index", "vending_machines", "index name written into bulk metadata")
		load      = flag.Bool("load", false, "load the batch into the search index")
	)
	flag.Parse()

	env := config.GetEnv()
	logger, err := logpkg.New(env, "")
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	if *inputPath == "" {
		logger.Fatal("missing required -input flag")
	}

	logger.Info("Starting ingestion",
		zap.String("version", version.Version),
		zap.String("input", *inputPath),
	)

	rows, err := readRows(*inputPath, *format)
	if err != nil {
		logger.Fatal("Failed to read input", zap.Error(err))
	}

	batch := ingest.Normalize(rows)
	for _, skip := range batch.Skipped {
		logger.Warn("row skipped",
			zap.Int("row", skip.Position),
			zap.String("reason", skip.Reason),
		)
	}
	logger.Info("Normalized batch",
		zap.Int("rows", len(rows)),
		zap.Int("documents", len(batch.Documents)),
		zap.Int("skipped", len(batch.Skipped)),
	)

	if err := writeFile(*jsonPath, func(f *os.File) error {
		return ingest.WriteJSON(f, batch.Documents)
	}); err != nil {
		logger.Fatal("Failed to write document set", zap.Error(err))
	}
	logger.Info("Wrote document set", zap.String("path", *jsonPath))

	if *bulkPath != "" {
		if err := writeFile(*bulkPath, func(f *os.File) error {
			return ingest.WriteBulk(f, batch.Documents, *bulkIndex)
		}); err != nil {
			logger.Fatal("Failed to write bulk output", zap.Error(err))
		}
		logger.Info("Wrote bulk output", zap.String("path", *bulkPath))
	}

	if *load {
		if err := loadBatch(env, batch, logger); err != nil {
			logger.Fatal("Failed to load batch", zap.Error(err))
		}
	}
}

func readRows(path, format string) ([]ingest.Row, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".xlsx":
			format = "xlsx"
		default:
			format = "csv"
		}
	}

	switch format {
	case "xlsx":
		return ingest.ReadXLSX(path)
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		return ingest.ReadCSV(f)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// loadBatch pushes the documents straight into the search index using the
// same configuration as the API server.
func loadBatch(env string, batch ingest.Batch, logger *zap.Logger) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		return fmt.Errorf("create store: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}

	repo := machinerepo.New(store, cfg.Index.Name, cfg.Index.KeyPrefix)
	if err := repo.EnsureIndex(ctx); err != nil {
		return err
	}
	if err := repo.StoreBatch(ctx, batch.Documents); err != nil {
		return err
	}

	logger.Info("Loaded batch into index",
		zap.Int("documents", len(batch.Documents)),
		zap.String("index", cfg.Index.Name),
	)
	return nil
}
