package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func candidateWithCerts(certs ...int) *model.Candidate {
	c := &model.Candidate{}
	for _, n := range certs {
		c.SetCert(n, true)
	}
	return c
}

func passedResults(modules ...int) []model.ModuleResult {
	var rs []model.ModuleResult
	for _, m := range modules {
		rs = append(rs, model.ModuleResult{ModuleNumber: m, Status: model.StatusPassed})
	}
	return rs
}

func TestPassedAllBefore(t *testing.T) {
	tests := []struct {
		name    string
		results []model.ModuleResult
		module  int
		want    bool
	}{
		{"module 1 needs nothing", nil, 1, true},
		{"module 2 with module 1 passed", passedResults(1), 2, true},
		{"module 2 without module 1", nil, 2, false},
		{"module 4 requires every earlier module", passedResults(1, 3), 4, false},
		{"module 4 with full chain", passedResults(1, 2, 3), 4, true},
		{"failed result does not count", []model.ModuleResult{{ModuleNumber: 1, Status: model.StatusFailed}}, 2, false},
		{"no-show does not count", []model.ModuleResult{{ModuleNumber: 1, Status: model.StatusNoShow1}}, 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PassedAllBefore(tt.results, tt.module))
		})
	}
}

func TestCertChainHeld(t *testing.T) {
	tests := []struct {
		name   string
		certs  []int
		module int
		want   bool
	}{
		{"full chain to 2", []int{1, 2}, 2, true},
		{"cert2 alone is not a chain", []int{2}, 2, false},
		{"gap in the middle breaks chain", []int{1, 3, 4}, 4, false},
		{"full chain to 4", []int{1, 2, 3, 4}, 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CertChainHeld(candidateWithCerts(tt.certs...), tt.module))
		})
	}
}

func TestVisible(t *testing.T) {
	// Module 1 visibility follows cert1 only.
	assert.True(t, Visible(candidateWithCerts(1), nil, 1))
	assert.False(t, Visible(candidateWithCerts(), nil, 1))

	// Module N>1 visibility follows the exam chain, not certificates.
	noCerts := candidateWithCerts()
	assert.True(t, Visible(noCerts, passedResults(1), 2))
	assert.False(t, Visible(noCerts, nil, 2))
	assert.True(t, Visible(noCerts, passedResults(1, 2, 3), 4))
	assert.False(t, Visible(noCerts, passedResults(1, 2), 4))
}

func TestEligible(t *testing.T) {
	tests := []struct {
		name    string
		certs   []int
		results []model.ModuleResult
		module  int
		want    bool
	}{
		{"module 1 with cert1", []int{1}, nil, 1, true},
		{"module 1 without cert1", nil, nil, 1, false},
		{"module 2 with certs 1-2 and module 1 passed", []int{1, 2}, passedResults(1), 2, true},
		{"module 2 missing cert2", []int{1}, passedResults(1), 2, false},
		{"module 2 missing exam", []int{1, 2}, nil, 2, false},
		{"module 3 cert chain alone is insufficient", []int{1, 2, 3}, passedResults(1), 3, false},
		{"module 3 exam chain alone is insufficient", []int{1}, passedResults(1, 2), 3, false},
		{"module 4 full chain", []int{1, 2, 3, 4}, passedResults(1, 2, 3), 4, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eligible(candidateWithCerts(tt.certs...), tt.results, tt.module))
		})
	}
}

func TestValidateSubmission(t *testing.T) {
	assert.NoError(t, ValidateSubmission(1, model.StatusPassed))
	assert.NoError(t, ValidateSubmission(4, model.StatusNoShow2))

	err := ValidateSubmission(5, model.StatusPassed)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	err = ValidateSubmission(0, model.StatusPassed)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))

	err = ValidateSubmission(2, "MAYBE")
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
}

func TestApplyCertUpdateCascade(t *testing.T) {
	c := candidateWithCerts(1, 2, 3, 4)
	c.SetNote(4, strPtr("late paperwork"))

	patch := &model.CandidateUpdateRequest{Cert1: boolPtr(false)}
	require.NoError(t, ApplyCertUpdate(c, patch, passedResults(1, 2, 3)))

	assert.False(t, c.Cert1)
	assert.False(t, c.Cert2)
	assert.False(t, c.Cert3)
	assert.False(t, c.Cert4)
	assert.Nil(t, c.Cert2Note)
	assert.Nil(t, c.Cert3Note)
	assert.Nil(t, c.Cert4Note)
}

func TestApplyCertUpdateCascadeMidChain(t *testing.T) {
	c := candidateWithCerts(1, 2, 3, 4)

	patch := &model.CandidateUpdateRequest{Cert3: boolPtr(false), Cert3Note: strPtr("revoked")}
	require.NoError(t, ApplyCertUpdate(c, patch, passedResults(1, 2, 3)))

	assert.True(t, c.Cert1)
	assert.True(t, c.Cert2)
	assert.False(t, c.Cert3)
	assert.False(t, c.Cert4)
	require.NotNil(t, c.Cert3Note)
	assert.Equal(t, "revoked", *c.Cert3Note)
	assert.Nil(t, c.Cert4Note)
}

func TestApplyCertUpdateFirstFalseWins(t *testing.T) {
	// Clearing cert1 and cert2 in one patch triggers a single cascade from
	// cert1; the explicit cert2=false is subsumed by it.
	c := candidateWithCerts(1, 2, 3, 4)

	patch := &model.CandidateUpdateRequest{
		Cert1: boolPtr(false),
		Cert2: boolPtr(false),
	}
	require.NoError(t, ApplyCertUpdate(c, patch, passedResults(1, 2, 3)))

	for n := 1; n <= 4; n++ {
		assert.False(t, c.Cert(n), "cert%d", n)
		assert.Nil(t, c.Note(n), "cert%d note", n)
	}
}

func TestApplyCertUpdateGate(t *testing.T) {
	// cert2 needs module 1 passed.
	c := candidateWithCerts(1)
	err := ApplyCertUpdate(c, &model.CandidateUpdateRequest{Cert2: boolPtr(true)}, nil)
	require.Error(t, err)
	assert.Equal(t, apperr.Validation, apperr.KindOf(err))
	assert.False(t, c.Cert2)

	require.NoError(t, ApplyCertUpdate(c, &model.CandidateUpdateRequest{Cert2: boolPtr(true)}, passedResults(1)))
	assert.True(t, c.Cert2)

	// cert1 has no preconditions.
	blank := &model.Candidate{}
	require.NoError(t, ApplyCertUpdate(blank, &model.CandidateUpdateRequest{Cert1: boolPtr(true)}, nil))
	assert.True(t, blank.Cert1)
}

func TestApplyCertUpdateClearsNoteOnGrant(t *testing.T) {
	c := &model.Candidate{Cert1Note: strPtr("missing documents")}

	require.NoError(t, ApplyCertUpdate(c, &model.CandidateUpdateRequest{Cert1: boolPtr(true)}, nil))
	assert.True(t, c.Cert1)
	assert.Nil(t, c.Cert1Note)
}

func TestApplyCertUpdateNotePatch(t *testing.T) {
	c := &model.Candidate{}

	// Note set while the certificate stays false.
	require.NoError(t, ApplyCertUpdate(c, &model.CandidateUpdateRequest{Cert1Note: strPtr("sick leave")}, nil))
	require.NotNil(t, c.Cert1Note)
	assert.Equal(t, "sick leave", *c.Cert1Note)

	// Empty string clears the note.
	require.NoError(t, ApplyCertUpdate(c, &model.CandidateUpdateRequest{Cert1Note: strPtr("")}, nil))
	assert.Nil(t, c.Cert1Note)
}

func TestLatestStatus(t *testing.T) {
	rs := []model.ModuleResult{
		{ModuleNumber: 1, Status: model.StatusPassed},
		{ModuleNumber: 2, Status: model.StatusFailed},
	}
	assert.Equal(t, model.StatusPassed, LatestStatus(rs, 1))
	assert.Equal(t, model.StatusFailed, LatestStatus(rs, 2))
	assert.Equal(t, "", LatestStatus(rs, 3))
}
