package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVacantPinflFormat(t *testing.T) {
	assert.Equal(t, "VACANT-D-3-17", VacantDoctorPinfl(3, 17))
	assert.Equal(t, "VACANT-N-3-17-1", VacantNursePinfl(3, 17, 1))
	assert.Equal(t, "VACANT-N-3-17-4", VacantNursePinfl(3, 17, 4))
}

func TestVacantPinflUniqueWithinBrigade(t *testing.T) {
	seen := map[string]bool{
		VacantDoctorPinfl(1, 2): true,
	}
	for n := 1; n <= NurseSlotsPerBrigade; n++ {
		p := VacantNursePinfl(1, 2, n)
		assert.False(t, seen[p], "duplicate placeholder %s", p)
		seen[p] = true
	}
	assert.Len(t, seen, DoctorSlotsPerBrigade+NurseSlotsPerBrigade)
}

func TestBrigadeName(t *testing.T) {
	assert.Equal(t, "Brigade 1", BrigadeName(1))
	assert.Equal(t, "Brigade 12", BrigadeName(12))
}
