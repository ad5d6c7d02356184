// Package cli holds the frin command tree.
package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mani1234567sk/Frin-Backend/internal/config"
	"github.com/mani1234567sk/Frin-Backend/internal/logger"
)

// RootOptions holds flags shared by every command.
type RootOptions struct {
	EnvFiles []string
}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "frin",
		Short:         "FIRN Bakers factory backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringSliceVar(&opts.EnvFiles, "env-file", nil, "env files to load (default .env when present)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewTokenCommand(opts))
	cmd.AddCommand(NewHashPasswordCommand())

	return cmd
}

// load reads the config and builds the logger, reporting risky defaults.
func (o *RootOptions) load() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(o.EnvFiles...)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(cfg)
	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}
	return cfg, log, nil
}
