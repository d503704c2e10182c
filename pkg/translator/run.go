package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/erdgen/pkg/cim"
)

// Runner validates and runs a set of translators against one schema.
type Runner struct {
	// Jobs limits concurrent translations; zero or less means no limit.
	Jobs   int
	Logger *slog.Logger
}

// Run validates every translator, then runs them in parallel. Validation
// problems from all translators are reported together as a
// *ValidationError before any translator writes output. The first
// translation error is returned; translations not yet started are skipped.
func (r *Runner) Run(ctx context.Context, s *cim.Schema, outputPath string, translators []Translator) error {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var verr ValidationError
	for _, t := range translators {
		res := t.ValidateProperties(outputPath, t.Properties())
		if res.Valid {
			continue
		}
		for _, msg := range res.Errors {
			verr.Messages = append(verr.Messages, fmt.Sprintf("%s: %s", t.Name(), msg))
		}
		if len(res.Errors) == 0 {
			verr.Messages = append(verr.Messages, t.Name()+": invalid properties")
		}
	}
	if len(verr.Messages) > 0 {
		return &verr
	}

	g, gctx := errgroup.WithContext(ctx)
	if r.Jobs > 0 {
		g.SetLimit(r.Jobs)
	}
	for _, t := range translators {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			logger.Debug("translating", slog.String("translator", t.Name()), slog.String("schema", s.Name()))
			if err := t.Translate(s, outputPath); err != nil {
				var terr *Error
				if !errors.As(err, &terr) {
					err = &Error{Translator: t.Name(), Schema: s.Name(), Err: err}
				}
				return err
			}
			logger.Info("translated",
				slog.String("translator", t.Name()),
				slog.String("schema", s.Name()),
				slog.Duration("took", time.Since(start)))
			return nil
		})
	}
	return g.Wait()
}

// Run is Runner.Run without a job limit.
func Run(ctx context.Context, s *cim.Schema, outputPath string, translators []Translator, logger *slog.Logger) error {
	r := &Runner{Logger: logger}
	return r.Run(ctx, s, outputPath, translators)
}
