package sched

import (
	"context"
	"time"

	"billionaireable/internal/usecase"

	"github.com/rs/zerolog"
)

// SweepWorker runs one sweep once a day at a fixed UTC clock time.
type SweepWorker struct {
	name string
	at   time.Duration // offset from midnight UTC
	run  func(ctx context.Context) (*usecase.SweepReport, error)
	log  *zerolog.Logger
}

func NewSweepWorker(name string, at time.Duration, run func(ctx context.Context) (*usecase.SweepReport, error), logger *zerolog.Logger) *SweepWorker {
	compLog := logger.With().Str("component", "SweepWorker").Str("sweep", name).Logger()
	return &SweepWorker{name: name, at: at, run: run, log: &compLog}
}

// nextRun returns the next occurrence of the configured clock time after now.
func (w *SweepWorker) nextRun(now time.Time) time.Time {
	utc := now.UTC()
	midnight := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	next := midnight.Add(w.at)
	if !next.After(utc) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info().Msg("Starting sweep worker")
	for {
		next := w.nextRun(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			w.log.Info().Msg("Stopping sweep worker")
			return ctx.Err()
		case <-timer.C:
			report, err := w.run(ctx)
			if err != nil {
				w.log.Error().Err(err).Msg("sweep run failed")
				continue
			}
			w.log.Info().Int("checked", report.Checked).Int("emailed", report.Emailed).Msg("sweep finished")
		}
	}
}
