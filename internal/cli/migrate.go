package cli

import (
	"github.com/spf13/cobra"

	"github.com/mani1234567sk/Frin-Backend/internal/database"
)

func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := rootOpts.load()
			if err != nil {
				return err
			}
			db, err := database.Open(cfg, log)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db, log); err != nil {
				return err
			}
			log.Info("schema is up to date")
			return nil
		},
	}
}
