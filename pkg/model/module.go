package model

import "time"

// Module result statuses.
const (
	StatusPassed  = "PASSED"
	StatusFailed  = "FAILED"
	StatusNoShow1 = "NO_SHOW_1"
	StatusNoShow2 = "NO_SHOW_2"
)

// MinModule and MaxModule bound the sequential certification pipeline.
const (
	MinModule = 1
	MaxModule = 4
)

// ValidModuleStatus reports whether s is a known result status.
func ValidModuleStatus(s string) bool {
	switch s {
	case StatusPassed, StatusFailed, StatusNoShow1, StatusNoShow2:
		return true
	}
	return false
}

// ValidModuleNumber reports whether n identifies one of the four modules.
func ValidModuleNumber(n int) bool {
	return n >= MinModule && n <= MaxModule
}

// ModuleResult is the single recorded outcome for (candidate, module).
// Resubmission overwrites the row in place; no attempt history is kept.
type ModuleResult struct {
	ID            int       `json:"id" db:"id"`
	CandidateID   int       `json:"candidate_id" db:"candidate_id"`
	ModuleNumber  int       `json:"module_number" db:"module_number"`
	Status        string    `json:"status" db:"status"`
	AttemptNumber int       `json:"attempt_number" db:"attempt_number"`
	IsRetake      bool      `json:"is_retake" db:"is_retake"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// ModuleSubmitRequest records an exam outcome for a candidate.
type ModuleSubmitRequest struct {
	CandidateID  int    `json:"candidate_id" binding:"required"`
	ModuleNumber int    `json:"module_number" binding:"required"`
	Status       string `json:"status" binding:"required"`
}

// ModuleCandidate is one row of a module exam list: the candidate together
// with its derived visibility/eligibility and the latest recorded status.
type ModuleCandidate struct {
	Candidate    Candidate `json:"candidate"`
	Visible      bool      `json:"visible"`
	Eligible     bool      `json:"eligible"`
	LatestStatus string    `json:"latest_status,omitempty"`
}
