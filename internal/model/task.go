package model

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusDone      TaskStatus = "done"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Collection names the two record collections in the task store. A task with
// a terminal status must only ever exist in the archive collection.
type Collection string

const (
	CollectionTasks    Collection = "tasks"
	CollectionArchived Collection = "archived_tasks"
)

// Task is a persisted to-do item. The JSON tags double as the column names of
// the remote store; the id is assigned by the store on insert. Deadline is an
// opaque string from the extraction service — no format is guaranteed, so it
// is never parsed. Participants is a ", "-joined list of display names.
type Task struct {
	ID              int64      `json:"id,omitempty"`
	TaskDescription string     `json:"task_description"`
	Deadline        *string    `json:"deadline"`
	Author          *string    `json:"author,omitempty"`
	Participants    *string    `json:"participants,omitempty"`
	OwnerID         string     `json:"telegram_user_id"`
	Status          TaskStatus `json:"status"`
}
