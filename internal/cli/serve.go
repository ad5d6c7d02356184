package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/mani1234567sk/Frin-Backend/internal/audit"
	"github.com/mani1234567sk/Frin-Backend/internal/database"
	"github.com/mani1234567sk/Frin-Backend/internal/maintenancemode"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/notify"
	"github.com/mani1234567sk/Frin-Backend/internal/reminder"
	"github.com/mani1234567sk/Frin-Backend/internal/server"
)

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), rootOpts, skipMigrate)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not migrate the schema on start")
	return cmd
}

func serve(ctx context.Context, opts *RootOptions, skipMigrate bool) error {
	cfg, log, err := opts.load()
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
	if !skipMigrate {
		if err := database.Migrate(db, log); err != nil {
			return err
		}
	}

	m := metrics.New()
	auditSvc := audit.NewService(db)
	sched := reminder.New(clockwork.NewRealClock(), cfg.ReminderLead, log)
	defer sched.Stop()

	mgr := maintenancemode.NewManager(db, notify.NewMailer(cfg, log, m), sched, auditSvc, m, log)
	// pending reminders do not survive a restart on their own
	if err := mgr.Reconcile(ctx); err != nil {
		log.WithError(err).Error("could not restore maintenance reminders")
	}

	app := server.New(server.Deps{
		Config:      cfg,
		DB:          db,
		Log:         log,
		Metrics:     m,
		Audit:       auditSvc,
		Maintenance: mgr,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server listening on :%s", cfg.HTTPPort)
		errCh <- app.Listen(":" + cfg.HTTPPort)
	}()

	sig, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-sig.Done():
	}

	log.Info("shutting down")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
	return nil
}
