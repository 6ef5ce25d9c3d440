package compose

import (
	"sync"
	"time"

	"github.com/xyz-asif/nexcrm/internal/features/comments"
	"github.com/xyz-asif/nexcrm/internal/mention"
)

// Session is one open comment form: a composer bound to a task and author.
// mu serializes requests because the composer is single-threaded.
type Session struct {
	ID        string
	TaskID    string
	Author    comments.Author
	CreatedAt time.Time

	mu       sync.Mutex
	composer *mention.Composer
}

// Request DTOs

type TextRequest struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

type SelectRequest struct {
	Kind mention.Kind `json:"kind" binding:"required"`
	ID   string       `json:"id" binding:"required"`
}

// Response DTOs

type SessionResponse struct {
	SessionID string        `json:"sessionId"`
	TaskID    string        `json:"taskId"`
	State     mention.State `json:"state"`
}

type SelectResponse struct {
	Edit  mention.Edit  `json:"edit"`
	State mention.State `json:"state"`
}
