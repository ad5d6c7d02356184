package maintenancemode

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/mani1234567sk/Frin-Backend/internal/logger"
	"github.com/mani1234567sk/Frin-Backend/internal/metrics"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

// ActiveLookup finds the active maintenance window; nil means none.
type ActiveLookup interface {
	Active(ctx context.Context) (*models.MaintenanceMode, error)
}

// Paths that stay reachable during maintenance.
var exemptPrefixes = []string{
	"/api/maintenance-mode",
	"/api/health",
}

const DefaultGateTimeout = 5 * time.Second

func isExempt(path string) bool {
	for _, p := range exemptPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// Gate rejects requests with 503 while maintenance is active. When the
// lookup fails the request goes through: a broken check must not take the
// whole API down.
func Gate(lookup ActiveLookup, timeout time.Duration, log logrus.FieldLogger, m *metrics.Metrics) fiber.Handler {
	if timeout <= 0 {
		timeout = DefaultGateTimeout
	}
	return func(c *fiber.Ctx) error {
		if isExempt(c.Path()) {
			return c.Next()
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		mode, err := lookup.Active(ctx)
		cancel()

		if err != nil {
			logger.WithRequest(log, c).WithError(err).Error("maintenance check failed, letting request through")
			if m != nil {
				m.GateLookupErrors.Inc()
			}
			return c.Next()
		}
		if mode == nil {
			return c.Next()
		}

		if m != nil {
			m.GateBlocked.Inc()
		}
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error":       "System is currently under maintenance",
			"maintenance": mode.Summary(),
		})
	}
}
