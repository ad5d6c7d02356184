package models

import (
	"time"

	"gorm.io/gorm"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
)

const DefaultHoursWorked = 8

// Attendance is one employee's record for one calendar day. The pair
// (employee, date) is unique.
type Attendance struct {
	Base
	EmployeeID  string           `gorm:"size:36;not null;uniqueIndex:idx_attendance_employee_date" json:"employee" validate:"required"`
	Date        DateTime         `gorm:"not null;uniqueIndex:idx_attendance_employee_date;index" json:"date" validate:"required"`
	Status      AttendanceStatus `gorm:"size:20;not null" json:"status" validate:"required,oneof=present absent late"`
	HoursWorked float64          `gorm:"not null;default:8" json:"hoursWorked" validate:"gte=0,lte=24"`
}

func (Attendance) TableName() string { return "attendance" }

func NewAttendance() Attendance {
	return Attendance{HoursWorked: DefaultHoursWorked}
}

// Normalize moves the date to local midnight so two records for the same
// day always collide on the unique index.
func (a *Attendance) Normalize() {
	if !a.Date.IsZero() {
		a.Date = DateTime{Time: StartOfDay(a.Date.Time)}
	}
}

func (a *Attendance) BeforeSave(tx *gorm.DB) error {
	a.Normalize()
	return nil
}

// StartOfDay returns local midnight of t's calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.In(time.Local)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}
