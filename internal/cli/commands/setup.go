package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/erdgen/internal/cli/config"
	"github.com/leapstack-labs/erdgen/internal/cli/output"
	"github.com/leapstack-labs/erdgen/pkg/cim"
	"github.com/leapstack-labs/erdgen/pkg/cim/sxml"
	"github.com/leapstack-labs/erdgen/pkg/erd"

	// Built-in translators.
	_ "github.com/leapstack-labs/erdgen/pkg/translators/jpa"
	_ "github.com/leapstack-labs/erdgen/pkg/translators/sqlddl"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext for cmd.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg, err := getConfig(cmd)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   config.GetLogger(cmd.Context()),
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}

// getConfig returns the configuration loaded by the root command. A
// command run on its own loads it from its own flags.
func getConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg, nil
	}
	return config.LoadConfig("", cmd.Flags())
}

// readSchema loads a schema document with the ERD variants.
func readSchema(path string, logger *slog.Logger) (*cim.Schema, error) {
	s, err := sxml.NewReader(erd.Variants, logger).ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return s, nil
}

// writeSchema saves s back to path.
func writeSchema(path string, s *cim.Schema) error {
	if err := sxml.NewWriter().WriteFile(path, s); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
