// Package progression implements the certification-progression rule set:
// the certificate gate with its cascade-on-clear, and the sequential
// module-exam visibility and eligibility rules. All functions are pure;
// persistence and HTTP concerns live elsewhere.
package progression

import (
	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

// HasPassed reports whether results contain a PASSED outcome for module n.
func HasPassed(results []model.ModuleResult, n int) bool {
	for _, r := range results {
		if r.ModuleNumber == n && r.Status == model.StatusPassed {
			return true
		}
	}
	return false
}

// PassedAllBefore reports whether every module 1..n-1 has a PASSED result.
// True for n == 1.
func PassedAllBefore(results []model.ModuleResult, n int) bool {
	for m := model.MinModule; m < n; m++ {
		if !HasPassed(results, m) {
			return false
		}
	}
	return true
}

// CertChainHeld reports whether the candidate holds every certificate 1..n.
// Certificate n alone is never enough: a break anywhere below invalidates it.
func CertChainHeld(c *model.Candidate, n int) bool {
	for m := 1; m <= n; m++ {
		if !c.Cert(m) {
			return false
		}
	}
	return true
}

// Visible reports whether the candidate appears in the exam list for module n.
// Module 1 lists certificate-1 holders; module n lists everyone who passed
// all of modules 1..n-1, regardless of certificates.
func Visible(c *model.Candidate, results []model.ModuleResult, n int) bool {
	if n == model.MinModule {
		return c.Cert1
	}
	return PassedAllBefore(results, n)
}

// Eligible reports whether the candidate may be scored for module n: the
// full certificate chain 1..n must be held and every earlier module passed.
func Eligible(c *model.Candidate, results []model.ModuleResult, n int) bool {
	if n == model.MinModule {
		return c.Cert1
	}
	return CertChainHeld(c, n) && PassedAllBefore(results, n)
}

// LatestStatus returns the recorded status for module n, or "" when no
// result exists.
func LatestStatus(results []model.ModuleResult, n int) string {
	for _, r := range results {
		if r.ModuleNumber == n {
			return r.Status
		}
	}
	return ""
}

// ValidateSubmission checks the enum inputs of a module result submission.
func ValidateSubmission(moduleNumber int, status string) error {
	if !model.ValidModuleNumber(moduleNumber) {
		return apperr.Validationf("module number must be between %d and %d", model.MinModule, model.MaxModule)
	}
	if !model.ValidModuleStatus(status) {
		return apperr.Validationf("invalid module status %q", status)
	}
	return nil
}

// ApplyCertUpdate applies the certificate part of a candidate patch to c,
// enforcing the chain gate and the cascade-on-clear rule in one step.
//
// Gate: certN may only be turned on (N > 1) once module N-1 is PASSED.
// Cascade: the first certificate among 1..3 cleared by the patch also clears
// every higher certificate and its note. One cascade level per update is
// enough because the whole patch is resolved here atomically.
// A certificate that ends up set has no note; notes only annotate absence.
func ApplyCertUpdate(c *model.Candidate, patch *model.CandidateUpdateRequest, results []model.ModuleResult) error {
	for n := 2; n <= model.MaxModule; n++ {
		if v := patch.Cert(n); v != nil && *v && !c.Cert(n) {
			if !HasPassed(results, n-1) {
				return apperr.Validationf("certificate %d requires module %d to be passed", n, n-1)
			}
		}
	}

	for n := 1; n <= model.MaxModule; n++ {
		if v := patch.Cert(n); v != nil {
			c.SetCert(n, *v)
		}
		if note := patch.Note(n); note != nil {
			if *note == "" {
				c.SetNote(n, nil)
			} else {
				s := *note
				c.SetNote(n, &s)
			}
		}
	}

	for n := 1; n <= 3; n++ {
		if v := patch.Cert(n); v != nil && !*v {
			for m := n + 1; m <= model.MaxModule; m++ {
				c.SetCert(m, false)
				c.SetNote(m, nil)
			}
			break
		}
	}

	for n := 1; n <= model.MaxModule; n++ {
		if c.Cert(n) {
			c.SetNote(n, nil)
		}
	}

	return nil
}
