package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcert-dashboard-go/pkg/model"
)

func filledCandidate(profession string, certs []int, results ...model.ModuleResult) model.Candidate {
	c := model.Candidate{
		FullName:      "Filled Person",
		Pinfl:         "12345678901234",
		Profession:    profession,
		ModuleResults: results,
	}
	for _, n := range certs {
		c.SetCert(n, true)
	}
	return c
}

func vacantCandidate(profession string) model.Candidate {
	return model.Candidate{FullName: "", Pinfl: "VACANT-D-1-1", Profession: profession}
}

func passed(n int) model.ModuleResult {
	return model.ModuleResult{ModuleNumber: n, Status: model.StatusPassed}
}

func TestComputeGlobalMetrics(t *testing.T) {
	candidates := []model.Candidate{
		filledCandidate(model.ProfessionDoctor, []int{1, 2}, passed(1), passed(2)),
		filledCandidate(model.ProfessionNurse, []int{1}, passed(1)),
		filledCandidate(model.ProfessionNurse, []int{1}, model.ModuleResult{ModuleNumber: 1, Status: model.StatusFailed}),
		vacantCandidate(model.ProfessionNurse),
		// Name present but placeholder identifier cleared: still vacant.
		{FullName: "Named But No ID", Pinfl: " ", Profession: model.ProfessionDoctor, Cert1: true},
	}

	m := ComputeGlobalMetrics(candidates)

	assert.Equal(t, 5, m.TotalSlots)
	assert.Equal(t, 3, m.Filled)
	assert.Equal(t, 2, m.Vacant)
	assert.Equal(t, 1, m.DoctorsFilled)
	assert.Equal(t, 2, m.NursesFilled)
	assert.Equal(t, 4, m.Cert1Count)
	assert.Equal(t, 1, m.Cert2Count)
	assert.Equal(t, 0, m.Cert3Count)
	assert.Equal(t, 2, m.Module1Passed)
	assert.Equal(t, 1, m.Module2Passed)
	assert.Equal(t, 1, m.ModuleStatus[1].Failed)
}

func TestBuildFunnel(t *testing.T) {
	m := model.GlobalMetrics{
		Cert1Count:    10,
		Module1Passed: 8,
		Module2Passed: 5,
		Module3Passed: 3,
		Module4Passed: 1,
	}
	funnel := BuildFunnel(m)
	require.Len(t, funnel, 5)
	assert.Equal(t, model.FunnelStep{Step: "cert1", Count: 10}, funnel[0])
	assert.Equal(t, model.FunnelStep{Step: "module4", Count: 1}, funnel[4])

	// The funnel never widens with consistent data.
	for i := 1; i < len(funnel); i++ {
		assert.LessOrEqual(t, funnel[i].Count, funnel[i-1].Count)
	}
}

func TestComputeProfessionMetrics(t *testing.T) {
	candidates := []model.Candidate{
		filledCandidate(model.ProfessionDoctor, []int{1}, passed(1), passed(2), passed(3), passed(4)),
		filledCandidate(model.ProfessionDoctor, nil),
		filledCandidate(model.ProfessionNurse, []int{1}, passed(1)),
	}

	out := ComputeProfessionMetrics(candidates)

	doctors := out[model.ProfessionDoctor]
	assert.Equal(t, 2, doctors.Total)
	assert.Equal(t, 1, doctors.Cert1)
	assert.Equal(t, 1, doctors.Module1Passed)
	assert.Equal(t, 1, doctors.Module4Passed)

	nurses := out[model.ProfessionNurse]
	assert.Equal(t, 1, nurses.Total)
	assert.Equal(t, 1, nurses.Module1Passed)
	assert.Equal(t, 0, nurses.Module4Passed)
}

func regionWith(id int, name string, noShow, failed, vacant int) model.RegionAnalytics {
	buckets := model.NewModuleBuckets()
	buckets[1].NoShow1 = noShow
	buckets[2].Failed = failed
	return model.RegionAnalytics{ID: id, Name: name, Vacant: vacant, Modules: buckets}
}

func TestTopProblemRegions(t *testing.T) {
	regions := []model.RegionAnalytics{
		regionWith(1, "Andijan", 5, 0, 2),
		regionWith(2, "Bukhara", 2, 7, 2),
		regionWith(3, "Fergana", 8, 1, 0),
		regionWith(4, "Jizzakh", 0, 0, 9),
		regionWith(5, "Namangan", 3, 3, 3),
		regionWith(6, "Samarkand", 8, 2, 2),
	}

	top := TopProblemRegions(regions)

	require.Len(t, top.NoShow, 5)
	// Descending, ties keep input order: Fergana before Samarkand at 8.
	assert.Equal(t, 3, top.NoShow[0].RegionID)
	assert.Equal(t, 6, top.NoShow[1].RegionID)
	assert.Equal(t, 1, top.NoShow[2].RegionID)

	assert.Equal(t, 2, top.Failed[0].RegionID)
	assert.Equal(t, 5, top.Failed[1].RegionID)

	assert.Equal(t, 4, top.Vacant[0].RegionID)
	// Vacancy ties at 2 keep input order: Andijan, Bukhara, Samarkand.
	assert.Equal(t, 5, top.Vacant[1].RegionID)
	assert.Equal(t, 1, top.Vacant[2].RegionID)
	assert.Equal(t, 2, top.Vacant[3].RegionID)
	assert.Equal(t, 6, top.Vacant[4].RegionID)
}

func TestTopProblemRegionsFewerThanFive(t *testing.T) {
	regions := []model.RegionAnalytics{
		regionWith(1, "Andijan", 1, 1, 1),
		regionWith(2, "Bukhara", 2, 2, 2),
	}
	top := TopProblemRegions(regions)
	require.Len(t, top.NoShow, 2)
	assert.Equal(t, 2, top.NoShow[0].RegionID)
}

func TestComputeRegionAnalytics(t *testing.T) {
	candidates := []model.Candidate{
		filledCandidate(model.ProfessionDoctor, []int{1}, passed(1)),
		vacantCandidate(model.ProfessionNurse),
	}
	r := ComputeRegionAnalytics(7, "Tashkent Region", candidates)

	assert.Equal(t, 7, r.ID)
	assert.Equal(t, "Tashkent Region", r.Name)
	assert.Equal(t, 2, r.TotalSlots)
	assert.Equal(t, 1, r.Filled)
	assert.Equal(t, 1, r.Vacant)
	assert.Equal(t, 1, r.Cert1)
	assert.Equal(t, 1, r.Module1Passed)
}

func TestRenderWorkbookSheets(t *testing.T) {
	summary := &model.Summary{
		Regions: []model.RegionAnalytics{
			regionWith(1, "Andijan", 1, 2, 3),
		},
		Professions: map[string]model.ProfessionMetrics{
			model.ProfessionDoctor: {Total: 2},
			model.ProfessionNurse:  {Total: 8},
		},
	}
	data, err := renderWorkbook(summary)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
