package dto

// TaskFilters narrows FindAll. Empty fields are ignored.
type TaskFilters struct {
	Assignee string
	Employee string // tasks whose assigned employees include this id
}
