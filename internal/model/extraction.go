package model

// Extraction is the structured result the extraction service must return.
// TaskDescription is required for a usable extraction; Deadline stays nullable
// and opaque; NewParticipants may be absent.
type Extraction struct {
	TaskDescription string   `json:"task_description"`
	Deadline        *string  `json:"deadline"`
	NewParticipants []string `json:"new_participants,omitempty"`
}
