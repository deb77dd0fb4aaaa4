package model

import "time"

// Selection is a drawn question set remembered so the same questions can be
// served again
type Selection struct {
	ID          string    `json:"id"`
	QuestionIDs []string  `json:"questionIds"`
	CreatedAt   time.Time `json:"createdAt"`
}
