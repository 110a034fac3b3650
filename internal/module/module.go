// Package module implements the sequential exam pipeline: who appears in a
// module's list, who may be scored, and recording results.
package module

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"medcert-dashboard-go/internal/candidate"
	"medcert-dashboard-go/internal/progression"
	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

// ModuleService handles module exam listings and result submission
type ModuleService struct {
	db               *sqlx.DB
	candidateService *candidate.CandidateService
}

// NewModuleService creates a new module service
func NewModuleService(db *sqlx.DB, candidateService *candidate.CandidateService) *ModuleService {
	return &ModuleService{db: db, candidateService: candidateService}
}

// ListModuleCandidates returns the candidates visible in module n's exam
// list, scoped to the actor's region for region users, with the derived
// eligibility flag and the latest recorded status per candidate.
func (s *ModuleService) ListModuleCandidates(actor model.Actor, moduleNumber int) ([]model.ModuleCandidate, error) {
	if !model.ValidModuleNumber(moduleNumber) {
		return nil, apperr.Validationf("module number must be between %d and %d", model.MinModule, model.MaxModule)
	}

	candidates, err := s.candidateService.ListCandidates(actor, candidate.ListFilter{})
	if err != nil {
		return nil, err
	}

	list := make([]model.ModuleCandidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		if !progression.Visible(c, c.ModuleResults, moduleNumber) {
			continue
		}
		list = append(list, model.ModuleCandidate{
			Candidate:    *c,
			Visible:      true,
			Eligible:     progression.Eligible(c, c.ModuleResults, moduleNumber),
			LatestStatus: progression.LatestStatus(c.ModuleResults, moduleNumber),
		})
	}
	return list, nil
}

// SubmitResult records an exam outcome. Only the global role may write
// results; the candidate must be eligible for the module. An existing row
// for (candidate, module) is overwritten in place with the attempt counter
// reset, so no history of prior attempts survives.
func (s *ModuleService) SubmitResult(actor model.Actor, req model.ModuleSubmitRequest) (*model.ModuleResult, error) {
	if !actor.IsAdmin() {
		return nil, apperr.Forbiddenf("only the administrator may modify module results")
	}
	if err := progression.ValidateSubmission(req.ModuleNumber, req.Status); err != nil {
		return nil, err
	}

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
        FROM candidates WHERE id = $1 FOR UPDATE`, req.CandidateID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.NotFoundf("candidate %d not found", req.CandidateID)
		}
		return nil, err
	}

	var results []model.ModuleResult
	err = tx.Select(&results, `
        SELECT id, candidate_id, module_number, status, attempt_number, is_retake, created_at, updated_at
        FROM module_results WHERE candidate_id = $1`, req.CandidateID)
	if err != nil {
		return nil, err
	}

	if !progression.Eligible(&c, results, req.ModuleNumber) {
		return nil, apperr.Validationf("candidate %d is not eligible for module %d", req.CandidateID, req.ModuleNumber)
	}

	var result model.ModuleResult
	err = tx.Get(&result, `
        INSERT INTO module_results (candidate_id, module_number, status, attempt_number, is_retake)
        VALUES ($1, $2, $3, 1, false)
        ON CONFLICT (candidate_id, module_number)
        DO UPDATE SET status = EXCLUDED.status, attempt_number = 1, is_retake = false, updated_at = now()
        RETURNING id, candidate_id, module_number, status, attempt_number, is_retake, created_at, updated_at`,
		req.CandidateID, req.ModuleNumber, req.Status)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &result, nil
}
