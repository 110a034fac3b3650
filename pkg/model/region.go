package model

import "time"

// Region owns medical brigades and, through them, all candidate slots.
type Region struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Brigades   []MedicalBrigade `json:"brigades,omitempty" db:"-"`
	Candidates []Candidate      `json:"candidates,omitempty" db:"-"`
}

// MedicalBrigade belongs to exactly one region and owns a fixed slot
// template of 1 doctor and 4 nurses created with it.
type MedicalBrigade struct {
	ID       int    `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	RegionID int    `json:"region_id" db:"region_id"`
}

// RegionCreateRequest is the payload for creating a region with its brigades.
type RegionCreateRequest struct {
	Name         string `json:"name" binding:"required"`
	BrigadeCount int    `json:"brigade_count" binding:"required"`
}

// RegionResizeRequest changes the number of brigades in a region.
type RegionResizeRequest struct {
	BrigadeCount int `json:"brigade_count" binding:"required"`
}
