package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnavailable
	KindUnauthorized
)

func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return fiber.StatusBadRequest
	case KindNotFound:
		return fiber.StatusNotFound
	case KindConflict:
		return fiber.StatusConflict
	case KindUnavailable:
		return fiber.StatusServiceUnavailable
	case KindUnauthorized:
		return fiber.StatusUnauthorized
	default:
		return fiber.StatusInternalServerError
	}
}

// Error is the error type services return. Message is what the client sees;
// Err, when present, is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound produces the "<Entity> not found" message used by every module.
func NotFound(entity string) *Error {
	return &Error{Kind: KindNotFound, Message: entity + " not found"}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// FromDB classifies a gorm error. Record-not-found maps to NotFound(entity),
// unique violations to Conflict, everything else to Internal.
func FromDB(err error, entity, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindConflict, Message: entity + " already exists", Err: err}
	default:
		return Internal(fmt.Sprintf("could not %s %s", action, lowerFirst(entity)), err)
	}
}

// Status resolves the HTTP status and client message for any error.
func Status(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind.Status(), ae.Message
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}
	return fiber.StatusInternalServerError, err.Error()
}

// Handler is the fiber ErrorHandler: every error leaves as {"error": msg}.
func Handler(log logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, msg := Status(err)
		if status >= fiber.StatusInternalServerError {
			entry := log.WithError(err).WithField("path", c.Path())
			if rid, ok := c.Locals("requestid").(string); ok {
				entry = entry.WithField("request_id", rid)
			}
			entry.Error("unexpected error")
		}
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
