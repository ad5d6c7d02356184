package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/config"
)

type LoginRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginHandler exchanges the configured operator credentials for a token.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !cfg.AuthEnabled() || cfg.OperatorPasswordHash == "" {
			return fiber.NewError(fiber.StatusNotFound, "Operator login is not enabled")
		}

		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return apperr.Validation("Invalid request body")
		}
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Password == "" {
			return apperr.Validation("name and password are required")
		}

		if !strings.EqualFold(body.Name, cfg.OperatorName) {
			return apperr.Unauthorized("Invalid credentials")
		}
		if err := bcrypt.CompareHashAndPassword([]byte(cfg.OperatorPasswordHash), []byte(body.Password)); err != nil {
			return apperr.Unauthorized("Invalid credentials")
		}

		token, err := GenerateToken(cfg.JWTSecret, cfg.OperatorName, cfg.TokenTTL)
		if err != nil {
			return apperr.Internal("could not create token", err)
		}

		return c.JSON(fiber.Map{
			"token":    token,
			"operator": cfg.OperatorName,
		})
	}
}

// HashPassword produces a value for OPERATOR_PASSWORD_HASH.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
