package events

import "time"

type EventType string

const (
	TaskCreated EventType = "task_created"
	TaskUpdated EventType = "task_updated"
	TaskDeleted EventType = "task_deleted"
)

type TaskEvent struct {
	Type   EventType `json:"type"`
	TaskID int64     `json:"taskId"`
	UserID int64     `json:"userId"`
	Title  string    `json:"title,omitempty"`
	At     time.Time `json:"at"`
}
