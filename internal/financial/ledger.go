package financial

import (
	"context"
	"strings"
	"time"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
)

type LedgerQuery struct {
	Type   string
	Period string
	Date   string
	Entity string
}

// Window returns the inclusive range covered by period around date, in the
// local time zone. Weeks run Sunday to Saturday; an unknown period is a day.
func Window(period string, date time.Time) (time.Time, time.Time) {
	d := date.In(time.Local)
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)

	var start, last time.Time
	switch period {
	case "week":
		start = day.AddDate(0, 0, -int(day.Weekday()))
		last = start.AddDate(0, 0, 6)
	case "month":
		start = time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.Local)
		last = start.AddDate(0, 1, -1)
	case "year":
		start = time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.Local)
		last = time.Date(d.Year(), time.December, 31, 0, 0, 0, 0, time.Local)
	default:
		start, last = day, day
	}
	return start, endOfDay(last)
}

func endOfDay(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, int(999*time.Millisecond), day.Location())
}

// Ledger lists the transactions inside the query window, newest first.
func (s *Service) Ledger(ctx context.Context, q LedgerQuery) ([]models.Transaction, error) {
	if strings.TrimSpace(q.Date) == "" {
		return nil, apperr.Validation("date is required")
	}
	date, err := models.ParseDateTime(strings.TrimSpace(q.Date))
	if err != nil {
		return nil, apperr.Validation("Invalid date: %s", q.Date)
	}
	switch models.TransactionType(q.Type) {
	case "", models.TransactionIncome, models.TransactionExpense:
	default:
		return nil, apperr.Validation("type must be one of [income, expense]")
	}

	start, end := Window(q.Period, date)
	db := s.db.WithContext(ctx).Where("date >= ? AND date <= ?", start, end)
	if q.Type != "" {
		db = db.Where("type = ?", q.Type)
	}
	if name := strings.TrimSpace(q.Entity); name != "" {
		pattern := "%" + escapeLike(strings.ToLower(name)) + "%"
		db = db.Where(`LOWER(supplier) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`, pattern, pattern)
	}

	var out []models.Transaction
	if err := db.Order("date DESC").Find(&out).Error; err != nil {
		return nil, apperr.FromDB(err, entity, "list")
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
