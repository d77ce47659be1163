package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"

	"github.com/noah-isme/dojo-api/pkg/config"
	"github.com/noah-isme/dojo-api/pkg/database"
	"github.com/noah-isme/dojo-api/pkg/logger"
)

const usage = `usage: migrate <command>

commands:
  up             apply all pending migrations
  down [n]       roll back n migrations (default 1)
  version        print the current schema version
  force <v>      set the schema version without running migrations`

func main() {
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("database connection failed", "error", err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db)
	if err != nil {
		sugar.Fatalw("migrator init failed", "error", err)
	}

	switch cmd := flag.Arg(0); cmd {
	case "up":
		err = m.Up()
	case "down":
		steps := 1
		if flag.NArg() > 1 {
			if steps, err = strconv.Atoi(flag.Arg(1)); err != nil || steps < 1 {
				sugar.Fatalw("invalid step count", "value", flag.Arg(1))
			}
		}
		err = m.Steps(-steps)
	case "version":
		version, dirty, verr := m.Version()
		if errors.Is(verr, migrate.ErrNilVersion) {
			sugar.Infow("no migrations applied")
			return
		}
		if verr != nil {
			sugar.Fatalw("read version failed", "error", verr)
		}
		sugar.Infow("schema version", "version", version, "dirty", dirty)
		return
	case "force":
		if flag.NArg() < 2 {
			flag.Usage()
			os.Exit(2)
		}
		version, perr := strconv.Atoi(flag.Arg(1))
		if perr != nil {
			sugar.Fatalw("invalid version", "value", flag.Arg(1))
		}
		err = m.Force(version)
	default:
		sugar.Errorw("unknown command", "command", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		sugar.Info("schema already up to date")
		return
	}
	if err != nil {
		sugar.Fatalw("migration failed", "command", flag.Arg(0), "error", err)
	}
	sugar.Infow("migration complete", "command", flag.Arg(0))
}
