package progress

import (
	"strings"

	"github.com/google/uuid"

	"github.com/raaj7000prajapati-crypto/jee-protocol/pkg/models"
)

// Pure transition functions over the task list. Each returns a fresh slice
// and leaves the order of untouched tasks intact.

// AddTask appends a new incomplete task. Adding blank text is a no-op and
// returns ok=false.
func AddTask(tasks []models.Task, text string) ([]models.Task, models.Task, bool) {
	if strings.TrimSpace(text) == "" {
		return tasks, models.Task{}, false
	}

	task := models.Task{
		ID:        uuid.NewString(),
		Text:      text,
		Completed: false,
	}

	next := make([]models.Task, 0, len(tasks)+1)
	next = append(next, tasks...)
	next = append(next, task)
	return next, task, true
}

// ToggleTask flips the completed flag of the task with the given id. Unknown
// ids are a no-op and return ok=false.
func ToggleTask(tasks []models.Task, id string) ([]models.Task, bool) {
	found := false
	next := make([]models.Task, len(tasks))
	for i, t := range tasks {
		if t.ID == id {
			t.Completed = !t.Completed
			found = true
		}
		next[i] = t
	}
	if !found {
		return tasks, false
	}
	return next, true
}

// DeleteTask removes the task with the given id. Unknown ids are a no-op and
// return ok=false.
func DeleteTask(tasks []models.Task, id string) ([]models.Task, bool) {
	found := false
	next := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == id {
			found = true
			continue
		}
		next = append(next, t)
	}
	if !found {
		return tasks, false
	}
	return next, true
}
