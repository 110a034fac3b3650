package model

// ModuleStatusBucket counts recorded results per status for one module.
type ModuleStatusBucket struct {
	Passed  int `json:"PASSED"`
	Failed  int `json:"FAILED"`
	NoShow1 int `json:"NO_SHOW_1"`
	NoShow2 int `json:"NO_SHOW_2"`
}

// Add increments the counter matching status. Unknown statuses are ignored.
func (b *ModuleStatusBucket) Add(status string) {
	switch status {
	case StatusPassed:
		b.Passed++
	case StatusFailed:
		b.Failed++
	case StatusNoShow1:
		b.NoShow1++
	case StatusNoShow2:
		b.NoShow2++
	}
}

// ModuleBuckets holds one status bucket per module, indexed 1..4 in JSON.
type ModuleBuckets map[int]*ModuleStatusBucket

// NewModuleBuckets returns empty buckets for all four modules.
func NewModuleBuckets() ModuleBuckets {
	m := make(ModuleBuckets, MaxModule)
	for n := MinModule; n <= MaxModule; n++ {
		m[n] = &ModuleStatusBucket{}
	}
	return m
}

// GlobalMetrics aggregates all visible candidates.
type GlobalMetrics struct {
	TotalSlots    int           `json:"total_slots"`
	Filled        int           `json:"filled"`
	Vacant        int           `json:"vacant"`
	DoctorsFilled int           `json:"doctors_filled"`
	NursesFilled  int           `json:"nurses_filled"`
	Cert1Count    int           `json:"cert1_count"`
	Cert2Count    int           `json:"cert2_count"`
	Cert3Count    int           `json:"cert3_count"`
	Cert4Count    int           `json:"cert4_count"`
	Module1Passed int           `json:"module1_passed"`
	Module2Passed int           `json:"module2_passed"`
	Module3Passed int           `json:"module3_passed"`
	Module4Passed int           `json:"module4_passed"`
	ModuleStatus  ModuleBuckets `json:"module_status"`
}

// CertCount returns the certificate-N holder count, n in 1..4.
func (m *GlobalMetrics) CertCount(n int) int {
	switch n {
	case 1:
		return m.Cert1Count
	case 2:
		return m.Cert2Count
	case 3:
		return m.Cert3Count
	case 4:
		return m.Cert4Count
	}
	return 0
}

// FunnelStep is one stage of the certification funnel.
type FunnelStep struct {
	Step  string `json:"step"`
	Count int    `json:"count"`
}

// RegionAnalytics is the per-region slice of the summary.
type RegionAnalytics struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	TotalSlots    int           `json:"total_slots"`
	Filled        int           `json:"filled"`
	Vacant        int           `json:"vacant"`
	DoctorsFilled int           `json:"doctors_filled"`
	NursesFilled  int           `json:"nurses_filled"`
	Cert1         int           `json:"cert1"`
	Cert2         int           `json:"cert2"`
	Cert3         int           `json:"cert3"`
	Cert4         int           `json:"cert4"`
	Modules       ModuleBuckets `json:"modules"`
	Module1Passed int           `json:"module1_passed"`
	Module4Passed int           `json:"module4_passed"`
}

// CertCount returns the certificate-N holder count, n in 1..4.
func (r *RegionAnalytics) CertCount(n int) int {
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
	return 0
}

// ProfessionMetrics is the per-profession slice of the summary.
type ProfessionMetrics struct {
	Total         int `json:"total"`
	Cert1         int `json:"cert1"`
	Module1Passed int `json:"module1_passed"`
	Module4Passed int `json:"module4_passed"`
}

// ProblemRegion ranks a region by one of the trouble metrics.
type ProblemRegion struct {
	RegionID    int    `json:"region_id"`
	RegionName  string `json:"region_name"`
	TotalNoShow int    `json:"total_no_show"`
	TotalFailed int    `json:"total_failed"`
	Vacant      int    `json:"vacant"`
}

// ProblemRegions holds the top-5 regions per trouble metric.
type ProblemRegions struct {
	NoShow []ProblemRegion `json:"no_show"`
	Failed []ProblemRegion `json:"failed"`
	Vacant []ProblemRegion `json:"vacant"`
}

// Summary is the full dashboard statistics payload.
type Summary struct {
	Global         GlobalMetrics                `json:"global"`
	Funnel         []FunnelStep                 `json:"funnel"`
	Regions        []RegionAnalytics            `json:"regions"`
	Professions    map[string]ProfessionMetrics `json:"professions"`
	ProblemRegions ProblemRegions               `json:"problem_regions"`
}
