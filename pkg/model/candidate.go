package model

import (
	"strings"
	"time"
)

// Profession values for candidate slots.
const (
	ProfessionDoctor = "DOCTOR"
	ProfessionNurse  = "NURSE"
)

// ValidProfession reports whether p is a known profession.
func ValidProfession(p string) bool {
	return p == ProfessionDoctor || p == ProfessionNurse
}

// Candidate represents one slot in a medical brigade, vacant or filled.
// A vacant slot has an empty full name and a synthetic VACANT-* PINFL.
// A note for certificate N is only meaningful while certN is false.
type Candidate struct {
	ID         int       `json:"id" db:"id"`
	FullName   string    `json:"full_name" db:"full_name"`
	Pinfl      string    `json:"pinfl" db:"pinfl"`
	Profession string    `json:"profession" db:"profession"`
	RegionID   int       `json:"region_id" db:"region_id"`
	BrigadeID  int       `json:"brigade_id" db:"brigade_id"`
	Cert1      bool      `json:"cert1" db:"cert1"`
	Cert1Note  *string   `json:"cert1_note" db:"cert1_note"`
	Cert2      bool      `json:"cert2" db:"cert2"`
	Cert2Note  *string   `json:"cert2_note" db:"cert2_note"`
	Cert3      bool      `json:"cert3" db:"cert3"`
	Cert3Note  *string   `json:"cert3_note" db:"cert3_note"`
	Cert4      bool      `json:"cert4" db:"cert4"`
	Cert4Note  *string   `json:"cert4_note" db:"cert4_note"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`

	Region        *Region         `json:"region,omitempty" db:"-"`
	Brigade       *MedicalBrigade `json:"brigade,omitempty" db:"-"`
	ModuleResults []ModuleResult  `json:"module_results,omitempty" db:"-"`
}

// Cert returns the certificate-N flag, n in 1..4.
func (c *Candidate) Cert(n int) bool {
	switch n {
	case 1:
		return c.Cert1
	case 2:
		return c.Cert2
	case 3:
		return c.Cert3
	case 4:
		return c.Cert4
	}
	return false
}

// SetCert sets the certificate-N flag, n in 1..4.
func (c *Candidate) SetCert(n int, v bool) {
	switch n {
	case 1:
		c.Cert1 = v
	case 2:
		c.Cert2 = v
	case 3:
		c.Cert3 = v
	case 4:
		c.Cert4 = v
	}
}

// Note returns the certificate-N note, n in 1..4.
func (c *Candidate) Note(n int) *string {
	switch n {
	case 1:
		return c.Cert1Note
	case 2:
		return c.Cert2Note
	case 3:
		return c.Cert3Note
	case 4:
		return c.Cert4Note
	}
	return nil
}

// SetNote sets the certificate-N note, n in 1..4.
func (c *Candidate) SetNote(n int, note *string) {
	switch n {
	case 1:
		c.Cert1Note = note
	case 2:
		c.Cert2Note = note
	case 3:
		c.Cert3Note = note
	case 4:
		c.Cert4Note = note
	}
}

// IsFilled reports whether the slot is occupied: both the full name and the
// identifier must be non-empty, and the identifier must not be a placeholder.
func (c *Candidate) IsFilled() bool {
	return strings.TrimSpace(c.FullName) != "" && strings.TrimSpace(c.Pinfl) != ""
}

// CandidateUpdateRequest is a partial update of a candidate. Nil fields are
// left untouched; which fields an actor may touch depends on its role.
type CandidateUpdateRequest struct {
	FullName   *string `json:"full_name"`
	Pinfl      *string `json:"pinfl"`
	Profession *string `json:"profession"`
	RegionID   *int    `json:"region_id"`
	BrigadeID  *int    `json:"brigade_id"`
	Cert1      *bool   `json:"cert1"`
	Cert1Note  *string `json:"cert1_note"`
	Cert2      *bool   `json:"cert2"`
	Cert2Note  *string `json:"cert2_note"`
	Cert3      *bool   `json:"cert3"`
	Cert3Note  *string `json:"cert3_note"`
	Cert4      *bool   `json:"cert4"`
	Cert4Note  *string `json:"cert4_note"`
}

// Cert returns the patch value for certificate N, nil when untouched.
func (r *CandidateUpdateRequest) Cert(n int) *bool {
	switch n {
	case 1:
		return r.Cert1
	case 2:
		return r.Cert2
	case 3:
		return r.Cert3
	case 4:
		return r.Cert4
	}
	return nil
}

// Note returns the patch value for certificate N's note, nil when untouched.
func (r *CandidateUpdateRequest) Note(n int) *string {
	switch n {
	case 1:
		return r.Cert1Note
	case 2:
		return r.Cert2Note
	case 3:
		return r.Cert3Note
	case 4:
		return r.Cert4Note
	}
	return nil
}

// ImportResult reports the outcome of a candidate import.
type ImportResult struct {
	Imported       int            `json:"imported"`
	Skipped        int            `json:"skipped"`
	Reasons        []ImportReason `json:"reasons"`
	VacanciesCount *int           `json:"vacancies_count,omitempty"`
}

// ImportReason explains why a row was not imported. RowIndex 0 refers to the
// import as a whole.
type ImportReason struct {
	RowIndex int    `json:"row_index"`
	Reason   string `json:"reason"`
}
