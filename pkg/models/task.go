package models

// Task is a single checklist item owned by the user progress aggregate
type Task struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}
