package relay

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event names carried in the envelope.
const (
	EventTaskCreated = "taskCreated"
	EventTaskUpdated = "taskUpdated"
	EventTaskDeleted = "taskDeleted"
	EventNewComment  = "newComment"
	EventActionLog   = "actionLog"
)

// Envelope wraps every relay payload. Data is the resolved entity for
// create/update events, or a {taskId} marker for deletions.
type Envelope struct {
	ID        string      `json:"id"`
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	EmittedAt time.Time   `json:"emitted_at"`
}

func newEnvelope(event string, data interface{}) Envelope {
	return Envelope{
		ID:        uuid.NewString(),
		Event:     event,
		Data:      data,
		EmittedAt: time.Now().UTC(),
	}
}

// ProjectSubject is the per-project room carrying task and action-log
// events. Clients subscribe to the project they have open instead of
// filtering a global feed.
func ProjectSubject(projectID uint64) string {
	return fmt.Sprintf("board.project.%d.tasks", projectID)
}

// TaskSubject is the per-task room carrying comment events.
func TaskSubject(taskID uint64) string {
	return fmt.Sprintf("board.task.%d.comments", taskID)
}
