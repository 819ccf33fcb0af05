package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"time"

	"hirehub/internal/config"
	"hirehub/internal/database/migration"
	dbpostgres "hirehub/internal/database/postgres"
	"hirehub/internal/database/seeder"

	"github.com/joho/godotenv"
)

func main() {
	seed := flag.Bool("seed", false, "seed demo companies, users and jobs after migrating")
	seedFile := flag.String("seed-file", "", "YAML fixtures to seed instead of the built-in demo data")
	status := flag.Bool("status", false, "list migrations and whether each is applied, then exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to load .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)

	connCtx, connCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer connCancel()
	db, err := dbpostgres.Connect(connCtx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	migCtx, migCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer migCancel()
	r := migration.Runner{Dir: cfg.Migrations.Dir, Logger: logger}
	if *status {
		states, err := r.Status(migCtx, db.SQLDB())
		if err != nil {
			log.Fatalf("migration status failed: %v", err)
		}
		for _, s := range states {
			mark := "pending"
			if s.Applied {
				mark = "applied"
			}
			logger.Printf("[Migration] %s: version=%d name=%s", mark, s.Version, s.Name)
		}
		return
	}
	applied, err := r.Run(migCtx, db.SQLDB())
	if err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	logger.Printf("[Migration] Complete: applied=%d", applied)

	if !*seed {
		return
	}

	seeders := seeder.Defaults()
	if *seedFile != "" {
		fixtures, err := seeder.LoadFixtures(*seedFile)
		if err != nil {
			log.Fatalf("failed to load seed fixtures: %v", err)
		}
		seeders = seeder.ForFixtures(fixtures)
		logger.Printf("[Seeder] Using fixtures: file=%s companies=%d users=%d jobs=%d",
			*seedFile, len(fixtures.Companies), len(fixtures.Users), len(fixtures.Jobs))
	}

	seedCtx, seedCancel := context.WithTimeout(context.Background(), time.Minute)
	defer seedCancel()
	sr := seeder.Runner{Seeders: seeders, Logger: logger}
	if err := sr.Run(seedCtx, db); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
}
