package domain

import "time"

// Task is a single entry of the shared task list.
type Task struct {
	ID           string    `json:"id"`
	CreationTime time.Time `json:"creationTime"`
	Text         string    `json:"text"`
	IsCompleted  bool      `json:"isCompleted"`
}
