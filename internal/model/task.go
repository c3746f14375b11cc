package model

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskNotStarted TaskStatus = "NOT-STARTED"
	TaskOngoing    TaskStatus = "ON-GOING"
	TaskPostponed  TaskStatus = "POSTPONED"
	TaskCompleted  TaskStatus = "COMPLETED"
)

func ParseTaskStatus(s string) (TaskStatus, bool) {
	switch TaskStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case TaskNotStarted:
		return TaskNotStarted, true
	case TaskOngoing:
		return TaskOngoing, true
	case TaskPostponed:
		return TaskPostponed, true
	case TaskCompleted:
		return TaskCompleted, true
	}
	return "", false
}

type TaskLevel string

const (
	TaskLevelLow    TaskLevel = "LOW"
	TaskLevelMedium TaskLevel = "MEDIUM"
	TaskLevelHigh   TaskLevel = "HIGH"
)

func ParseTaskLevel(s string) (TaskLevel, bool) {
	switch TaskLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case TaskLevelLow:
		return TaskLevelLow, true
	case TaskLevelMedium:
		return TaskLevelMedium, true
	case TaskLevelHigh:
		return TaskLevelHigh, true
	}
	return "", false
}

type Task struct {
	BaseModel
	Name              string     `db:"name" json:"name" validate:"required"`
	Description       string     `db:"description" json:"description" validate:"required"`
	Assignee          string     `db:"assignee" json:"assignee" validate:"required"`
	Level             TaskLevel  `db:"level" json:"level" validate:"oneof=LOW MEDIUM HIGH"`
	Status            TaskStatus `db:"status" json:"status" validate:"oneof=NOT-STARTED ON-GOING POSTPONED COMPLETED"`
	AssignedEmployees StringList `db:"assigned_employees" json:"assignedEmployees"`
	StartedAt         *time.Time `db:"started_at" json:"startedAt"`
	CompletedAt       *time.Time `db:"completed_at" json:"completedAt"`
}
