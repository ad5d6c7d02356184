package hr

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mani1234567sk/Frin-Backend/internal/apperr"
	"github.com/mani1234567sk/Frin-Backend/internal/crud"
	"github.com/mani1234567sk/Frin-Backend/internal/models"
	"github.com/mani1234567sk/Frin-Backend/internal/validation"
)

const (
	employeeEntity   = "Employee"
	attendanceEntity = "Attendance"
)

var (
	errDuplicateEmail      = apperr.Conflict("An employee with this email already exists")
	errDuplicateAttendance = apperr.Conflict("Attendance already recorded for this employee on this date")
)

// EmployeeRef is the part of an employee embedded in attendance listings.
type EmployeeRef struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Position string `json:"position"`
}

// AttendanceView is an attendance record with its employee resolved. The
// employee is null when it has since been deleted.
type AttendanceView struct {
	models.Attendance
	Employee *EmployeeRef `json:"employee"`
}

type Service struct {
	db        *gorm.DB
	employees crud.Resource[models.Employee]
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		db:        db,
		employees: crud.Resource[models.Employee]{DB: db, Entity: employeeEntity, Order: "created_at DESC"},
	}
}

func (s *Service) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	return s.employees.List(ctx)
}

func (s *Service) CreateEmployee(ctx context.Context, e *models.Employee) error {
	return duplicateEmail(s.employees.Create(ctx, e))
}

func (s *Service) UpdateEmployee(ctx context.Context, id string, apply func(*models.Employee) error) (*models.Employee, error) {
	e, err := s.employees.Update(ctx, id, apply)
	return e, duplicateEmail(err)
}

// DeleteEmployee removes the employee only; attendance rows stay.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	return s.employees.Delete(ctx, id)
}

// ListAttendance returns every record, latest day first.
func (s *Service) ListAttendance(ctx context.Context) ([]AttendanceView, error) {
	var records []models.Attendance
	if err := s.db.WithContext(ctx).Order("date DESC").Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, apperr.FromDB(err, attendanceEntity, "list")
	}
	return s.withEmployees(ctx, records)
}

// RecordAttendance stores one day for one employee. A second record for the
// same employee and day is a Conflict.
func (s *Service) RecordAttendance(ctx context.Context, a *models.Attendance) (*AttendanceView, error) {
	models.Normalize(a)
	if err := validation.Struct(a); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Employee{}).Where("id = ?", a.EmployeeID).Count(&count).Error; err != nil {
		return nil, apperr.FromDB(err, employeeEntity, "load")
	}
	if count == 0 {
		return nil, apperr.Validation("employee %s does not exist", a.EmployeeID)
	}

	if err := s.db.WithContext(ctx).Create(a).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errDuplicateAttendance
		}
		return nil, apperr.FromDB(err, attendanceEntity, "create")
	}

	views, err := s.withEmployees(ctx, []models.Attendance{*a})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) withEmployees(ctx context.Context, records []models.Attendance) ([]AttendanceView, error) {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.EmployeeID)
	}

	byID := make(map[string]EmployeeRef, len(ids))
	if len(ids) > 0 {
		var refs []EmployeeRef
		err := s.db.WithContext(ctx).Model(&models.Employee{}).
			Select("id", "name", "position").
			Where("id IN ?", ids).
			Find(&refs).Error
		if err != nil {
			return nil, apperr.FromDB(err, employeeEntity, "load")
		}
		for _, ref := range refs {
			byID[ref.ID] = ref
		}
	}

	views := make([]AttendanceView, 0, len(records))
	for _, r := range records {
		v := AttendanceView{Attendance: r}
		if ref, ok := byID[r.EmployeeID]; ok {
			v.Employee = &ref
		}
		views = append(views, v)
	}
	return views, nil
}

func duplicateEmail(err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind == apperr.KindConflict {
		return errDuplicateEmail
	}
	return err
}
