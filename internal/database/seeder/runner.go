package seeder

import (
	"context"
	"fmt"
	"log"
	"time"

	"hirehub/internal/database"
)

// Seeder writes one kind of demo data. Run must be safe to repeat.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}

// Runner executes seeders in order and stops at the first failure.
type Runner struct {
	Seeders []Seeder
	Logger  *log.Logger
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return database.ErrNilDB
	}

	started := time.Now()
	ran := 0
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		t := time.Now()
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		ran++
		r.logf("[Seeder] Done: name=%s duration=%s", s.Name(), time.Since(t).Round(time.Millisecond))
	}
	r.logf("[Seeder] Complete: seeders=%d duration=%s", ran, time.Since(started).Round(time.Millisecond))
	return nil
}

func (r Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}
