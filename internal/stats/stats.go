// Package stats computes the dashboard aggregations: fill/vacancy counts,
// certificate counts, the certification funnel, per-region and
// per-profession breakdowns, and the problem-region rankings. Everything
// here is a read-only view over candidates and module results.
package stats

import (
	"sort"

	"github.com/jmoiron/sqlx"

	"medcert-dashboard-go/pkg/model"
)

// StatsService computes dashboard statistics
type StatsService struct {
	db *sqlx.DB
}

// NewStatsService creates a new statistics service
func NewStatsService(db *sqlx.DB) *StatsService {
	return &StatsService{db: db}
}

// firstStatusPerModule maps module number to the recorded status, keeping
// the first result seen per module.
func firstStatusPerModule(results []model.ModuleResult) map[int]string {
	m := make(map[int]string, model.MaxModule)
	for _, r := range results {
		if _, ok := m[r.ModuleNumber]; !ok {
			m[r.ModuleNumber] = r.Status
		}
	}
	return m
}

// ComputeGlobalMetrics aggregates candidates into the top-level dashboard
// numbers. A slot counts as filled only when both name and identifier are
// non-empty.
func ComputeGlobalMetrics(candidates []model.Candidate) model.GlobalMetrics {
	m := model.GlobalMetrics{ModuleStatus: model.NewModuleBuckets()}
	m.TotalSlots = len(candidates)

	for i := range candidates {
		c := &candidates[i]
		if c.IsFilled() {
			m.Filled++
			switch c.Profession {
			case model.ProfessionDoctor:
				m.DoctorsFilled++
			case model.ProfessionNurse:
				m.NursesFilled++
			}
		}
		if c.Cert1 {
			m.Cert1Count++
		}
		if c.Cert2 {
			m.Cert2Count++
		}
		if c.Cert3 {
			m.Cert3Count++
		}
		if c.Cert4 {
			m.Cert4Count++
		}
		for _, r := range c.ModuleResults {
			if b, ok := m.ModuleStatus[r.ModuleNumber]; ok {
				b.Add(r.Status)
			}
		}
	}

	m.Vacant = m.TotalSlots - m.Filled
	m.Module1Passed = m.ModuleStatus[1].Passed
	m.Module2Passed = m.ModuleStatus[2].Passed
	m.Module3Passed = m.ModuleStatus[3].Passed
	m.Module4Passed = m.ModuleStatus[4].Passed
	return m
}

// BuildFunnel turns global metrics into the cert1 → module4 funnel.
func BuildFunnel(m model.GlobalMetrics) []model.FunnelStep {
	return []model.FunnelStep{
		{Step: "cert1", Count: m.Cert1Count},
		{Step: "module1", Count: m.Module1Passed},
		{Step: "module2", Count: m.Module2Passed},
		{Step: "module3", Count: m.Module3Passed},
		{Step: "module4", Count: m.Module4Passed},
	}
}

// ComputeRegionAnalytics aggregates one region's candidates.
func ComputeRegionAnalytics(regionID int, regionName string, candidates []model.Candidate) model.RegionAnalytics {
	g := ComputeGlobalMetrics(candidates)
	return model.RegionAnalytics{
		ID:            regionID,
		Name:          regionName,
		TotalSlots:    g.TotalSlots,
		Filled:        g.Filled,
		Vacant:        g.Vacant,
		DoctorsFilled: g.DoctorsFilled,
		NursesFilled:  g.NursesFilled,
		Cert1:         g.Cert1Count,
		Cert2:         g.Cert2Count,
		Cert3:         g.Cert3Count,
		Cert4:         g.Cert4Count,
		Modules:       g.ModuleStatus,
		Module1Passed: g.Module1Passed,
		Module4Passed: g.Module4Passed,
	}
}

// ComputeProfessionMetrics aggregates candidates per profession.
func ComputeProfessionMetrics(candidates []model.Candidate) map[string]model.ProfessionMetrics {
	out := map[string]model.ProfessionMetrics{
		model.ProfessionDoctor: {},
		model.ProfessionNurse:  {},
	}
	for i := range candidates {
		c := &candidates[i]
		bucket, ok := out[c.Profession]
		if !ok {
			continue
		}
		bucket.Total++
		if c.Cert1 {
			bucket.Cert1++
		}
		statuses := firstStatusPerModule(c.ModuleResults)
		if statuses[1] == model.StatusPassed {
			bucket.Module1Passed++
		}
		if statuses[4] == model.StatusPassed {
			bucket.Module4Passed++
		}
		out[c.Profession] = bucket
	}
	return out
}

// problemRegionBase flattens a region's analytics into the three trouble
// metrics used for ranking.
func problemRegionBase(r model.RegionAnalytics) model.ProblemRegion {
	var noShow, failed int
	for n := model.MinModule; n <= model.MaxModule; n++ {
		b := r.Modules[n]
		noShow += b.NoShow1 + b.NoShow2
		failed += b.Failed
	}
	return model.ProblemRegion{
		RegionID:    r.ID,
		RegionName:  r.Name,
		TotalNoShow: noShow,
		TotalFailed: failed,
		Vacant:      r.Vacant,
	}
}

// TopProblemRegions ranks regions descending by each trouble metric and
// keeps the top 5. Ties keep the input order.
func TopProblemRegions(regions []model.RegionAnalytics) model.ProblemRegions {
	base := make([]model.ProblemRegion, len(regions))
	for i, r := range regions {
		base[i] = problemRegionBase(r)
	}

	top5 := func(key func(model.ProblemRegion) int) []model.ProblemRegion {
		ranked := make([]model.ProblemRegion, len(base))
		copy(ranked, base)
		sort.SliceStable(ranked, func(i, j int) bool {
			return key(ranked[i]) > key(ranked[j])
		})
		if len(ranked) > 5 {
			ranked = ranked[:5]
		}
		return ranked
	}

	return model.ProblemRegions{
		NoShow: top5(func(p model.ProblemRegion) int { return p.TotalNoShow }),
		Failed: top5(func(p model.ProblemRegion) int { return p.TotalFailed }),
		Vacant: top5(func(p model.ProblemRegion) int { return p.Vacant }),
	}
}

// regionRow is the minimal region projection the summary needs.
type regionRow struct {
	ID   int    `db:"id"`
	Name string `db:"name"`
}

// loadCandidates fetches candidates with module results, optionally scoped
// to one region.
func (s *StatsService) loadCandidates(regionID *int) ([]model.Candidate, error) {
	query := `
        SELECT id, full_name, pinfl, profession, region_id, brigade_id,
               cert1, cert1_note, cert2, cert2_note, cert3, cert3_note, cert4, cert4_note,
               created_at, updated_at
        FROM candidates`
	var args []interface{}
	if regionID != nil {
		query += " WHERE region_id = $1"
		args = append(args, *regionID)
	}
	query += " ORDER BY region_id ASC, brigade_id ASC, id ASC"

	var candidates []model.Candidate
	if err := s.db.Select(&candidates, query, args...); err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return candidates, nil
	}

	var results []model.ModuleResult
	resultQuery := `
        SELECT mr.id, mr.candidate_id, mr.module_number, mr.status, mr.attempt_number, mr.is_retake,
               mr.created_at, mr.updated_at
        FROM module_results mr`
	if regionID != nil {
		resultQuery += " JOIN candidates c ON c.id = mr.candidate_id WHERE c.region_id = $1"
	}
	resultQuery += " ORDER BY mr.candidate_id ASC, mr.module_number ASC"
	if err := s.db.Select(&results, resultQuery, args...); err != nil {
		return nil, err
	}

	byID := make(map[int]*model.Candidate, len(candidates))
	for i := range candidates {
		byID[candidates[i].ID] = &candidates[i]
	}
	for _, r := range results {
		if c, ok := byID[r.CandidateID]; ok {
			c.ModuleResults = append(c.ModuleResults, r)
		}
	}
	return candidates, nil
}

// loadRegions fetches region ids and names ordered by name, optionally
// scoped to one region.
func (s *StatsService) loadRegions(regionID *int) ([]regionRow, error) {
	query := "SELECT id, name FROM regions"
	var args []interface{}
	if regionID != nil {
		query += " WHERE id = $1"
		args = append(args, *regionID)
	}
	query += " ORDER BY name ASC"

	var regions []regionRow
	if err := s.db.Select(&regions, query, args...); err != nil {
		return nil, err
	}
	return regions, nil
}

// scopeFor returns the region scope for an actor: nil for admins, the own
// region for region users.
func scopeFor(actor model.Actor) *int {
	if actor.IsAdmin() {
		return nil
	}
	return actor.RegionID
}

// Summary builds the full dashboard statistics payload for the actor.
func (s *StatsService) Summary(actor model.Actor) (*model.Summary, error) {
	scope := scopeFor(actor)

	candidates, err := s.loadCandidates(scope)
	if err != nil {
		return nil, err
	}
	regions, err := s.loadRegions(scope)
	if err != nil {
		return nil, err
	}

	byRegion := make(map[int][]model.Candidate)
	for _, c := range candidates {
		byRegion[c.RegionID] = append(byRegion[c.RegionID], c)
	}

	regionAnalytics := make([]model.RegionAnalytics, 0, len(regions))
	for _, r := range regions {
		regionAnalytics = append(regionAnalytics, ComputeRegionAnalytics(r.ID, r.Name, byRegion[r.ID]))
	}

	global := ComputeGlobalMetrics(candidates)

	return &model.Summary{
		Global:         global,
		Funnel:         BuildFunnel(global),
		Regions:        regionAnalytics,
		Professions:    ComputeProfessionMetrics(candidates),
		ProblemRegions: TopProblemRegions(regionAnalytics),
	}, nil
}
