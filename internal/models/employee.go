package models

import (
	"strings"

	"gorm.io/gorm"
)

type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

type Employee struct {
	Base
	Name       string         `gorm:"size:100;not null" json:"name" validate:"required"`
	Email      string         `gorm:"size:255;not null;uniqueIndex" json:"email" validate:"required,email"`
	Position   string         `gorm:"size:100;not null" json:"position" validate:"required"`
	Department string         `gorm:"size:100;not null" json:"department" validate:"required"`
	Salary     float64        `gorm:"not null" json:"salary" validate:"gte=0"`
	HireDate   DateTime       `gorm:"not null" json:"hireDate" validate:"required"`
	Phone      string         `gorm:"size:30" json:"phone,omitempty"`
	Status     EmployeeStatus `gorm:"size:20;not null;default:active;index" json:"status" validate:"required,oneof=active inactive"`
}

func NewEmployee() Employee {
	return Employee{Status: EmployeeActive}
}

// Normalize lowercases the email so uniqueness ignores case.
func (e *Employee) Normalize() {
	trimAll(&e.Name, &e.Email, &e.Position, &e.Department, &e.Phone)
	e.Email = strings.ToLower(e.Email)
}

func (e *Employee) BeforeSave(tx *gorm.DB) error {
	e.Normalize()
	return nil
}
