// Command import loads a seed-shaped JSON file into the live store. When the
// store is unavailable the batch is merged into the demo seed file instead,
// unless the file is the demo seed itself.
//
// Flags:
//
//	--file    path to the batch file (required)
//	--target  name recorded for the batch (default: base name of --file)
//
// Exit codes: 0 = success, 1 = error or rolled back import.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/heartmarshall/finhistory-backend/internal/adapter/postgres"
	"github.com/heartmarshall/finhistory-backend/internal/app"
	"github.com/heartmarshall/finhistory-backend/internal/config"
	"github.com/heartmarshall/finhistory-backend/internal/demo"
	"github.com/heartmarshall/finhistory-backend/internal/service/ingest"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run returns the exit code so deferred cleanup runs before the process exits.
func run(args []string) int {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fileFlag := fs.String("file", "", "path to the batch file")
	targetFlag := fs.String("target", "", "name recorded for the batch (default: base name of --file)")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	if *fileFlag == "" {
		log.Print("--file is required")
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("load config: %v", err)
		return 1
	}

	logger := app.NewLogger(cfg.Log)

	seed, err := demo.LoadSeed(*fileFlag)
	if err != nil {
		logger.Error("load batch", slog.String("error", err.Error()))
		return 1
	}

	target := *targetFlag
	if target == "" {
		target = filepath.Base(*fileFlag)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool := postgres.NewLazyPool(cfg.Database)
	defer pool.Close()

	deps := app.NewDeps(logger, cfg, pool)

	res, err := deps.Ingest.Import(ctx, ingest.ImportRequest{Target: target, Seed: seed})
	if err != nil {
		logger.Error("import failed", slog.String("target", target), slog.String("error", err.Error()))
		return 1
	}
	if res.Failed() {
		return 1
	}

	for _, s := range res.Skipped {
		logger.Warn("skipped", slog.String("reason", s))
	}
	return 0
}
