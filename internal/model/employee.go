package model

import "strings"

type EmployeeTitle string

const (
	TitleWorker     EmployeeTitle = "Worker"
	TitleSupervisor EmployeeTitle = "Supervisor"
	TitleManager    EmployeeTitle = "Manager"
)

// ParseEmployeeTitle accepts any casing and returns the canonical title.
func ParseEmployeeTitle(s string) (EmployeeTitle, bool) {
	for _, t := range []EmployeeTitle{TitleWorker, TitleSupervisor, TitleManager} {
		if strings.EqualFold(strings.TrimSpace(s), string(t)) {
			return t, true
		}
	}
	return "", false
}

type Address struct {
	Street  string `db:"street" json:"street" validate:"required"`
	City    string `db:"city" json:"city" validate:"required"`
	Zip     string `db:"zip" json:"zip" validate:"required"`
	Country string `db:"country" json:"country" validate:"required"`
}

// Employee is a warehouse staff member. The address is stored on the same row.
type Employee struct {
	BaseModel
	Name    string        `db:"name" json:"name" validate:"required"`
	Email   string        `db:"email" json:"email" validate:"required,email"`
	Phone   string        `db:"phone" json:"phone" validate:"required"`
	Title   EmployeeTitle `db:"title" json:"title" validate:"oneof=Worker Supervisor Manager"`
	Address `json:"address"`
}

// EmployeeName is the id and display name used when picking employees.
type EmployeeName struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
