// Package region maintains regions, their medical brigades and the fixed
// slot template of 1 doctor and 4 nurses per brigade.
package region

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

// Slots every brigade owns from creation.
const (
	DoctorSlotsPerBrigade = 1
	NurseSlotsPerBrigade  = 4
)

// RegionService handles region and brigade provisioning
type RegionService struct {
	db *sqlx.DB
}

// NewRegionService creates a new region service
func NewRegionService(db *sqlx.DB) *RegionService {
	return &RegionService{db: db}
}

// VacantDoctorPinfl returns the placeholder identifier for an unfilled
// doctor slot.
func VacantDoctorPinfl(regionID, brigadeID int) string {
	return fmt.Sprintf("VACANT-D-%d-%d", regionID, brigadeID)
}

// VacantNursePinfl returns the placeholder identifier for the n-th unfilled
// nurse slot, n in 1..4.
func VacantNursePinfl(regionID, brigadeID, n int) string {
	return fmt.Sprintf("VACANT-N-%d-%d-%d", regionID, brigadeID, n)
}

// BrigadeName names the i-th brigade of a region, i starting at 1.
func BrigadeName(i int) string {
	return fmt.Sprintf("Brigade %d", i)
}

// CreateRegion creates a region with brigadeCount brigades, each holding the
// standard vacant slot set. All rows are written in one transaction.
func (s *RegionService) CreateRegion(name string, brigadeCount int) (*model.Region, error) {
	if name == "" {
		return nil, apperr.Validationf("region name is required")
	}
	if brigadeCount <= 0 {
		return nil, apperr.Validationf("brigade count must be positive")
	}

	var exists bool
	err := s.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM regions WHERE name = $1)", name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.Conflictf("region %q already exists", name)
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var region model.Region
	err = tx.Get(&region, "INSERT INTO regions (name) VALUES ($1) RETURNING id, name, created_at, updated_at", name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperr.Conflictf("region %q already exists", name)
		}
		return nil, err
	}

	for i := 1; i <= brigadeCount; i++ {
		if err := createBrigadeWithSlots(tx, region.ID, BrigadeName(i)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetRegion(region.ID)
}

// createBrigadeWithSlots inserts one brigade and its 1+4 vacant slots.
func createBrigadeWithSlots(tx *sqlx.Tx, regionID int, name string) error {
	var brigadeID int
	err := tx.QueryRow(
		"INSERT INTO medical_brigades (name, region_id) VALUES ($1, $2) RETURNING id",
		name, regionID).Scan(&brigadeID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
        INSERT INTO candidates (full_name, pinfl, profession, region_id, brigade_id)
        VALUES ('', $1, $2, $3, $4)`,
		VacantDoctorPinfl(regionID, brigadeID), model.ProfessionDoctor, regionID, brigadeID)
	if err != nil {
		return err
	}

	for n := 1; n <= NurseSlotsPerBrigade; n++ {
		_, err = tx.Exec(`
            INSERT INTO candidates (full_name, pinfl, profession, region_id, brigade_id)
            VALUES ('', $1, $2, $3, $4)`,
			VacantNursePinfl(regionID, brigadeID, n), model.ProfessionNurse, regionID, brigadeID)
		if err != nil {
			return err
		}
	}
	return nil
}

// ResizeRegion grows or shrinks a region to newCount brigades. Growth
// appends fresh-template brigades; shrinking removes the trailing brigades
// together with their candidates and module results. The region row stays
// locked for the whole transaction so concurrent resizes serialize.
func (s *RegionService) ResizeRegion(regionID, newCount int) (*model.Region, error) {
	if newCount <= 0 {
		return nil, apperr.Validationf("brigade count must be positive")
	}

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var locked int
	err = tx.Get(&locked, "SELECT id FROM regions WHERE id = $1 FOR UPDATE", regionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFoundf("region %d not found", regionID)
		}
		return nil, err
	}

	var brigadeIDs []int
	err = tx.Select(&brigadeIDs, "SELECT id FROM medical_brigades WHERE region_id = $1 ORDER BY id ASC", regionID)
	if err != nil {
		return nil, err
	}
	current := len(brigadeIDs)

	switch {
	case newCount == current:
		// No-op resize.
	case newCount > current:
		for i := current + 1; i <= newCount; i++ {
			if err := createBrigadeWithSlots(tx, regionID, BrigadeName(i)); err != nil {
				return nil, err
			}
		}
	default:
		doomed := brigadeIDs[newCount:]
		if err := deleteBrigades(tx, doomed); err != nil {
			return nil, err
		}
		log.Printf("Region %d resized from %d to %d brigades, removed %d", regionID, current, newCount, len(doomed))
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return s.GetRegion(regionID)
}

// deleteBrigades removes brigades and their dependents in dependency order.
func deleteBrigades(tx *sqlx.Tx, brigadeIDs []int) error {
	if len(brigadeIDs) == 0 {
		return nil
	}
	_, err := tx.Exec(`
        DELETE FROM module_results
        WHERE candidate_id IN (SELECT id FROM candidates WHERE brigade_id = ANY($1))`,
		pq.Array(brigadeIDs))
	if err != nil {
		return err
	}
	_, err = tx.Exec("DELETE FROM candidates WHERE brigade_id = ANY($1)", pq.Array(brigadeIDs))
	if err != nil {
		return err
	}
	_, err = tx.Exec("DELETE FROM medical_brigades WHERE id = ANY($1)", pq.Array(brigadeIDs))
	return err
}

// DeleteRegion removes a region and everything bound to it: module results,
// candidates, brigades and region-scoped user accounts, in that order.
func (s *RegionService) DeleteRegion(regionID int) error {
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var locked int
	err = tx.Get(&locked, "SELECT id FROM regions WHERE id = $1 FOR UPDATE", regionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFoundf("region %d not found", regionID)
		}
		return err
	}

	_, err = tx.Exec(`
        DELETE FROM module_results
        WHERE candidate_id IN (SELECT id FROM candidates WHERE region_id = $1)`, regionID)
	if err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM candidates WHERE region_id = $1", regionID); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM medical_brigades WHERE region_id = $1", regionID); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM users WHERE region_id = $1", regionID); err != nil {
		return err
	}
	if _, err = tx.Exec("DELETE FROM regions WHERE id = $1", regionID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetRegion fetches one region with its brigades.
func (s *RegionService) GetRegion(regionID int) (*model.Region, error) {
	var region model.Region
	err := s.db.Get(&region, "SELECT id, name, created_at, updated_at FROM regions WHERE id = $1", regionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFoundf("region %d not found", regionID)
		}
		return nil, err
	}

	err = s.db.Select(&region.Brigades,
		"SELECT id, name, region_id FROM medical_brigades WHERE region_id = $1 ORDER BY id ASC", regionID)
	if err != nil {
		return nil, err
	}
	return &region, nil
}

// ListRegions returns all regions for an admin actor, or only the actor's
// own region for a region-scoped actor.
func (s *RegionService) ListRegions(actor model.Actor) ([]model.Region, error) {
	var regions []model.Region
	if actor.IsAdmin() {
		err := s.db.Select(&regions, "SELECT id, name, created_at, updated_at FROM regions ORDER BY id ASC")
		if err != nil {
			return nil, err
		}
	} else {
		if actor.RegionID == nil {
			return []model.Region{}, nil
		}
		region, err := s.GetRegion(*actor.RegionID)
		if err != nil {
			if apperr.KindOf(err) == apperr.NotFound {
				return []model.Region{}, nil
			}
			return nil, err
		}
		return []model.Region{*region}, nil
	}

	for i := range regions {
		err := s.db.Select(&regions[i].Brigades,
			"SELECT id, name, region_id FROM medical_brigades WHERE region_id = $1 ORDER BY id ASC", regions[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return regions, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint error.
func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
