package service

// Broadcaster interface for WebSocket notifications (avoids import cycle)
type Broadcaster interface {
	NotifySubject(subjectID string, msgType string, payload interface{})
}

// MsgAssessmentCompleted is sent to a subject after an assessment is stored
const MsgAssessmentCompleted = "assessment_completed"
