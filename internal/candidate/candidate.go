// Package candidate manages candidate slots: listing, field-gated updates
// and bulk roster import.
package candidate

import (
	"database/sql"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"medcert-dashboard-go/internal/progression"
	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

// CandidateService handles candidate slot operations
type CandidateService struct {
	db *sqlx.DB
}

// NewCandidateService creates a new candidate service
func NewCandidateService(db *sqlx.DB) *CandidateService {
	return &CandidateService{db: db}
}

// ListFilter narrows a candidate listing.
type ListFilter struct {
	RegionID   *int
	BrigadeID  *int
	Profession string
	Search     string
}

// ListCandidates returns candidates visible to the actor, with their module
// results attached. Region actors are always scoped to their own region.
func (s *CandidateService) ListCandidates(actor model.Actor, filter ListFilter) ([]model.Candidate, error) {
	query := `
        SELECT id, full_name, pinfl, profession, region_id, brigade_id,
               cert1, cert1_note, cert2, cert2_note, cert3, cert3_note, cert4, cert4_note,
               created_at, updated_at
        FROM candidates WHERE 1=1`
	var args []interface{}

	regionID := filter.RegionID
	if !actor.IsAdmin() {
		regionID = actor.RegionID
		if regionID == nil {
			return []model.Candidate{}, nil
		}
	}
	if regionID != nil {
		args = append(args, *regionID)
		query += " AND region_id = $" + itoa(len(args))
	}
	if filter.BrigadeID != nil {
		args = append(args, *filter.BrigadeID)
		query += " AND brigade_id = $" + itoa(len(args))
	}
	if model.ValidProfession(filter.Profession) {
		args = append(args, filter.Profession)
		query += " AND profession = $" + itoa(len(args))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := itoa(len(args))
		query += " AND (full_name ILIKE $" + n + " OR pinfl LIKE $" + n + ")"
	}
	query += " ORDER BY region_id ASC, brigade_id ASC, id ASC"

	var candidates []model.Candidate
	if err := s.db.Select(&candidates, query, args...); err != nil {
		return nil, err
	}
	if err := s.attachModuleResults(candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}

// attachModuleResults loads module results for the given candidates in one
// query and distributes them.
func (s *CandidateService) attachModuleResults(candidates []model.Candidate) error {
	if len(candidates) == 0 {
		return nil
	}
	ids := make([]int, len(candidates))
	byID := make(map[int]*model.Candidate, len(candidates))
	for i := range candidates {
		ids[i] = candidates[i].ID
		byID[candidates[i].ID] = &candidates[i]
	}

	var results []model.ModuleResult
	err := s.db.Select(&results, `
        SELECT id, candidate_id, module_number, status, attempt_number, is_retake, created_at, updated_at
        FROM module_results WHERE candidate_id = ANY($1)
        ORDER BY candidate_id ASC, module_number ASC`, pq.Array(ids))
	if err != nil {
		return err
	}
	for _, r := range results {
		c := byID[r.CandidateID]
		c.ModuleResults = append(c.ModuleResults, r)
	}
	return nil
}

// FilterForActor returns a copy of req with the fields the actor may not
// write removed. Region actors are limited to the name, identifier and
// certificate fields; disallowed fields are dropped silently.
func FilterForActor(req *model.CandidateUpdateRequest, actor model.Actor) *model.CandidateUpdateRequest {
	if actor.IsAdmin() {
		return req
	}
	filtered := *req
	filtered.Profession = nil
	filtered.RegionID = nil
	filtered.BrigadeID = nil
	return &filtered
}

// UpdateCandidate applies a partial update under the actor's authority:
// region actors may only reach candidates of their own region and only the
// name/identifier/certificate fields; the certificate gate and cascade run
// inside the same transaction as the write.
func (s *CandidateService) UpdateCandidate(actor model.Actor, candidateID int, req *model.CandidateUpdateRequest) (*model.Candidate, error) {
	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var c model.Candidate
	err = tx.Get(&c, `
        SELECT id, full_name, pinfl, profession, region_id, brigade_id,
               cert1, cert1_note, cert2, cert2_note, cert3, cert3_note, cert4, cert4_note,
               created_at, updated_at
        FROM candidates WHERE id = $1 FOR UPDATE`, candidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFoundf("candidate %d not found", candidateID)
		}
		return nil, err
	}

	if !actor.IsAdmin() {
		if actor.RegionID == nil || c.RegionID != *actor.RegionID {
			return nil, apperr.Forbiddenf("candidate belongs to another region")
		}
	}
	req = FilterForActor(req, actor)

	var results []model.ModuleResult
	err = tx.Select(&results, `
        SELECT id, candidate_id, module_number, status, attempt_number, is_retake, created_at, updated_at
        FROM module_results WHERE candidate_id = $1`, candidateID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		c.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.Pinfl != nil {
		pinfl := strings.TrimSpace(*req.Pinfl)
		if pinfl == "" {
			return nil, apperr.Validationf("pinfl must not be empty")
		}
		var takenBy int
		err = tx.Get(&takenBy, "SELECT id FROM candidates WHERE pinfl = $1 AND id <> $2", pinfl, candidateID)
		if err == nil {
			return nil, apperr.Conflictf("pinfl %q is already assigned", pinfl)
		}
		if err != sql.ErrNoRows {
			return nil, err
		}
		c.Pinfl = pinfl
	}
	if req.Profession != nil {
		if !model.ValidProfession(*req.Profession) {
			return nil, apperr.Validationf("invalid profession %q", *req.Profession)
		}
		c.Profession = *req.Profession
	}
	if req.RegionID != nil {
		var exists bool
		if err := tx.Get(&exists, "SELECT EXISTS (SELECT 1 FROM regions WHERE id = $1)", *req.RegionID); err != nil {
			return nil, err
		}
		if !exists {
			return nil, apperr.Validationf("region %d does not exist", *req.RegionID)
		}
		c.RegionID = *req.RegionID
	}
	if req.BrigadeID != nil {
		var brigadeRegion int
		err := tx.Get(&brigadeRegion, "SELECT region_id FROM medical_brigades WHERE id = $1", *req.BrigadeID)
		if err == sql.ErrNoRows {
			return nil, apperr.Validationf("brigade %d does not exist", *req.BrigadeID)
		}
		if err != nil {
			return nil, err
		}
		if brigadeRegion != c.RegionID {
			return nil, apperr.Validationf("brigade %d belongs to another region", *req.BrigadeID)
		}
		c.BrigadeID = *req.BrigadeID
	}

	if err := progression.ApplyCertUpdate(&c, req, results); err != nil {
		return nil, err
	}

	_, err = tx.Exec(`
        UPDATE candidates SET
            full_name = $1, pinfl = $2, profession = $3, region_id = $4, brigade_id = $5,
            cert1 = $6, cert1_note = $7, cert2 = $8, cert2_note = $9,
            cert3 = $10, cert3_note = $11, cert4 = $12, cert4_note = $13,
            updated_at = now()
        WHERE id = $14`,
		c.FullName, c.Pinfl, c.Profession, c.RegionID, c.BrigadeID,
		c.Cert1, c.Cert1Note, c.Cert2, c.Cert2Note,
		c.Cert3, c.Cert3Note, c.Cert4, c.Cert4Note,
		c.ID)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return nil, apperr.Conflictf("pinfl %q is already assigned", c.Pinfl)
		}
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	c.ModuleResults = results
	return &c, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
