// Command import_ingredients loads ingredient reference data from a CSV or JSON file.
//
//	import_ingredients -file data/ingredients.json
//	import_ingredients -file data/ingredients.csv -format csv
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"foodgram/internal/config"
	"foodgram/internal/database"
	"foodgram/internal/logging"
	"foodgram/internal/modules/catalog"
	"foodgram/internal/repository"

	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "data/ingredients.csv", "path to the ingredient file")
	format := flag.String("format", "", "csv or json; guessed from the extension when empty")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", logging.Err(err))
		os.Exit(1)
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	if *format == "" {
		*format = strings.TrimPrefix(strings.ToLower(filepath.Ext(*file)), ".")
	}

	f, err := os.Open(*file)
	if err != nil {
		logger.Error("open ingredient file", slog.String("file", *file), logging.Err(err))
		os.Exit(1)
	}
	defer f.Close()

	items, err := catalog.ParseIngredients(f, *format)
	if err != nil {
		logger.Error("parse ingredient file", slog.String("file", *file), logging.Err(err))
		os.Exit(1)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("db connect failed", logging.Err(err))
		os.Exit(1)
	}
	if err := database.Migrate(db); err != nil {
		logger.Error("migrate database", logging.Err(err))
		os.Exit(1)
	}

	svc := catalog.NewService(repository.NewIngredientRepository(db), repository.NewTagRepository(db), nil)
	created, err := svc.ImportIngredients(context.Background(), items)
	if err != nil {
		logger.Error("import ingredients", logging.Err(err))
		os.Exit(1)
	}
	logger.Info("ingredients imported", slog.Int("parsed", len(items)), slog.Int("created", created))
}
