package dto

import "time"

type CreateTaskInput struct {
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Level             string   `json:"level"`
	AssignedEmployees []string `json:"assignedEmployees"`
	Assignee          string   `json:"-"`
}

type UpdateTaskInput struct {
	ID                string   `json:"-"`
	Name              string   `json:"name" binding:"required"`
	Description       string   `json:"description" binding:"required"`
	Level             string   `json:"level"`
	AssignedEmployees []string `json:"assignedEmployees"`
}

// TransitionInput starts or completes a task. A nil At means now.
type TransitionInput struct {
	ID string     `json:"-"`
	At *time.Time `json:"at"`
}
