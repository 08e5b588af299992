package api

// User is the authenticated student identity returned by OTP verification
// and cached locally between runs.
type User struct {
	ID                int    `json:"id"`
	Phone             string `json:"phone"`
	FullName          string `json:"full_name,omitempty"`
	Role              string `json:"role,omitempty"`
	IsProfileComplete bool   `json:"is_profile_complete"`
}

// Question is one assessment question as delivered by the server.
// Immutable from the client's perspective.
type Question struct {
	ID   int    `json:"id"`
	Text string `json:"question_text"`
}

// Option is one selectable answer for a question. The server may carry
// scoring metadata on its side; the client only ever submits the id.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"option_text"`
	// Alt mirrors the legacy "text" field some endpoints still use.
	Alt string `json:"text"`
}

// Label returns the display text, preferring option_text over text.
func (o Option) Label() string {
	if o.Text != "" {
		return o.Text
	}
	return o.Alt
}

// StartResult is the response to starting an assessment session.
type StartResult struct {
	SessionID    int    `json:"sessionId"`
	CurrentStage string `json:"currentStage"`
}

// NextResult is the response to a next-question poll. Exactly one of the
// two shapes is populated: a question payload, or StageComplete.
type NextResult struct {
	StageComplete  bool     `json:"stageComplete"`
	Question       Question `json:"question"`
	Options        []Option `json:"options"`
	Progress       int      `json:"progress"`
	Stage          string   `json:"stage"`
	TotalQuestions int      `json:"totalQuestions"`
}

// AdvanceResult is the response to a stage advance. Finished and
// NextStage are mutually exclusive.
type AdvanceResult struct {
	Finished  bool   `json:"finished"`
	NextStage string `json:"nextStage"`
}

// CategoryScore is one per-category total in the final result set.
type CategoryScore struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// TestInfo is the display metadata for one stage (test code).
type TestInfo struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	TotalQuestions int    `json:"totalQuestions"`
}

// Career is a recommended career entry.
type Career struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	SkillsRequired string `json:"skills_required,omitempty"`
}

// College offers programs for a career.
type College struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Location    string `json:"location,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Slot is a bookable counselor time slot.
type Slot struct {
	ID            int    `json:"id"`
	CounselorName string `json:"counselor_name"`
	StartsAt      string `json:"starts_at"`
	IsBooked      bool   `json:"is_booked"`
}

// Booking is a confirmed counselor booking for the student.
type Booking struct {
	ID            int    `json:"id"`
	SlotID        int    `json:"slot_id"`
	CounselorName string `json:"counselor_name"`
	StartsAt      string `json:"starts_at"`
	Status        string `json:"status,omitempty"`
}
