package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/translator"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand() *cobra.Command {
	var (
		watch           bool
		savePreferences bool
	)

	cmd := &cobra.Command{
		Use:   "translate <document>",
		Short: "Generate code from a schema document",
		Long: `Run one or more translators over a schema document.

Translators are selected by display name or by target (sql, java).
Properties come from the translator defaults, then the preferences stored
in the document, then the properties section of erdgen.yaml.

Every selected translator is validated before any file is written.`,
		Example: `  # Generate the DDL script into ./build
  erdgen translate shop.xem --out build -T sql

  # Generate DDL and JPA classes, storing the properties in the document
  erdgen translate shop.xem -T sql -T java --save-preferences

  # Regenerate whenever the document changes
  erdgen translate shop.xem -T sql --watch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if watch && savePreferences {
				return errors.New("--watch cannot be combined with --save-preferences")
			}
			cc, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if !watch {
				return translateDocument(cmd.Context(), cc, args[0], savePreferences)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return watchDocument(ctx, cc, args[0], func(ctx context.Context) error {
				return translateDocument(ctx, cc, args[0], false)
			})
		},
	}

	cmd.Flags().String("out", "", "Output directory (default: output_dir from config, or .)")
	cmd.Flags().StringSliceP("translator", "T", nil, "Translator name or target; repeatable")
	cmd.Flags().Int("jobs", 0, "Maximum parallel translations (0: no limit)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Translate again whenever the document changes")
	cmd.Flags().BoolVar(&savePreferences, "save-preferences", false, "Store the translator properties in the document")

	_ = cmd.RegisterFlagCompletionFunc("translator", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return append(translator.List(), "sql", "java"), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// prepareTranslators resolves the configured selectors and applies the
// stored preferences, then the configured properties.
func prepareTranslators(cc *CommandContext, s *cim.Schema, logger *slog.Logger) ([]translator.Translator, error) {
	if len(cc.Cfg.Translators) == 0 {
		return nil, fmt.Errorf("no translator selected\nHint: use --translator with one of: %s, sql, java",
			strings.Join(translator.List(), ", "))
	}
	ts, err := translator.Resolve(cc.Cfg.Translators, logger)
	if err != nil {
		return nil, err
	}
	for _, t := range ts {
		if err := translator.LoadPreferences(t, s); err != nil {
			return nil, err
		}
		if props := cc.Cfg.TranslatorProperties(t.Name()); len(props) > 0 {
			if err := t.SetProperties(props); err != nil {
				return nil, fmt.Errorf("%s properties in config: %w", t.Name(), err)
			}
		}
	}
	return ts, nil
}

func translateDocument(ctx context.Context, cc *CommandContext, path string, savePreferences bool) error {
	runID := uuid.NewString()
	logger := cc.Logger.With(slog.String("run", runID))
	r := cc.Renderer

	s, err := readSchema(path, logger)
	if err != nil {
		return err
	}

	ts, err := prepareTranslators(cc, s, logger)
	if err != nil {
		return err
	}

	logger.Info("translating document",
		slog.String("document", path),
		slog.String("schema", s.Name()),
		slog.Int("translators", len(ts)))

	runner := &translator.Runner{Jobs: cc.Cfg.Jobs, Logger: logger}
	if err := runner.Run(ctx, s, cc.Cfg.OutputDir, ts); err != nil {
		return err
	}

	if savePreferences {
		for _, t := range ts {
			translator.SavePreferences(t, s)
		}
		if err := writeSchema(path, s); err != nil {
			return err
		}
		logger.Debug("stored translator preferences", slog.String("document", path))
	}

	names := make([]string, len(ts))
	for i, t := range ts {
		names[i] = t.Name()
	}

	if r.IsData() {
		return r.Data(output.TranslateOutput{
			RunID:       runID,
			Schema:      s.Name(),
			OutputDir:   cc.Cfg.OutputDir,
			Translators: names,
			Saved:       savePreferences,
		})
	}
	for _, name := range names {
		r.Success(fmt.Sprintf("%s: %s -> %s", name, s.Name(), cc.Cfg.OutputDir))
	}
	if savePreferences {
		r.Success("preferences stored in " + path)
	}
	return nil
}
