// Package server assembles the fiber application: middleware, the
// maintenance gate and every module's routes.
package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/audit"
	"github.com/mani1234567sk/Frin-Backend/internal/auth"
	"github.com/mani1234567sk/Frin-Backend/internal/config"
	"github.com/mani1234567sk/Frin-Backend/internal/dashboard"
	"github.com/mani1234567sk/Frin-Backend/internal/financial"
	"github.com/mani1234567sk/Frin-Backend/internal/hr"
	"github.com/mani1234567sk/Frin-Backend/internal/inventory"
	"github.com/mani1234567sk/Frin-Backend/internal/logger"
	"github.com/mani1234567sk/Frin-Backend/internal/maintenance"
	"github.com/mani1234567sk/Frin-Backend/internal/maintenancemode"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/quality"
	"github.com/mani1234567sk/Frin-Backend/internal/warehouse"
)

type Deps struct {
	Config      *config.Config
	DB          *gorm.DB
	Log         *logrus.Logger
	Metrics     *metrics.Metrics
	Audit       *audit.Service
	Maintenance *maintenancemode.Manager
}

// New builds the app. Only the maintenance-mode mutations and the audit log
// need an operator token, and only when a JWT secret is configured.
func New(d Deps) *fiber.App {
	cfg := d.Config

	app := fiber.New(fiber.Config{
		AppName:      "FIRN Bakers API",
		ErrorHandler: apperr.Handler(d.Log),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.AccessLog(d.Log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CORSOrigins),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(d.Metrics.Middleware())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Use(maintenancemode.Gate(d.Maintenance, cfg.GateTimeout, d.Log, d.Metrics))

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "OK", "message": "FIRN Bakers API is running"})
	})

	guard := auth.RequireOperator(cfg.JWTSecret)

	dashboard.RegisterRoutes(api.Group("/dashboard"), dashboard.NewService(d.DB))
	inventory.RegisterRoutes(api.Group("/inventory"), inventory.NewService(d.DB))
	financial.RegisterRoutes(api.Group("/financial"), financial.NewService(d.DB, d.Audit, d.Metrics, d.Log))
	hr.RegisterRoutes(api.Group("/hr"), hr.NewService(d.DB))
	quality.RegisterRoutes(api.Group("/quality"), quality.NewService(d.DB))
	warehouse.RegisterRoutes(api.Group("/warehouse"), warehouse.NewService(d.DB))
	maintenance.RegisterRoutes(api.Group("/maintenance"), maintenance.NewService(d.DB))

	mm := api.Group("/maintenance-mode")
	mm.Post("/login", auth.LoginHandler(cfg))
	maintenancemode.RegisterRoutes(mm, d.Maintenance, guard)

	api.Get("/audit-logs", guard, audit.ListAuditLogsHandler(d.Audit))

	return app
}

func normalizeOrigins(raw string) string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return "*"
	}
	return strings.Join(out, ",")
}
