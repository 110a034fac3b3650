package candidate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medcert-dashboard-go/pkg/model"
)

func slot(id int, name string) model.Candidate {
	return model.Candidate{ID: id, FullName: name}
}

func TestParseRows(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("ФИО\nAlisher Usmanov\n\nDilnoza Karimova\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alisher Usmanov", "", "Dilnoza Karimova"}, rows)
}

func TestParseRowsNoHeader(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("Alisher Usmanov\nDilnoza Karimova\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alisher Usmanov", "Dilnoza Karimova"}, rows)
}

func TestParseRowsTakesFirstColumn(t *testing.T) {
	rows, err := ParseRows(strings.NewReader("full_name,extra\nAlisher Usmanov,ignored\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Alisher Usmanov"}, rows)
}

func TestPlanImportAddFillsVacanciesInOrder(t *testing.T) {
	slots := []model.Candidate{
		slot(1, "Occupied One"),
		slot(2, ""),
		slot(3, ""),
		slot(4, "Occupied Two"),
		slot(5, ""),
	}
	plan := planImport(ModeAdd, []string{"A", "", "B"}, slots)

	// Empty rows are dropped, non-empty rows land on vacant slots in slot order.
	require.Len(t, plan.Assignments, 2)
	assert.Equal(t, slotAssignment{SlotID: 2, Name: "A"}, plan.Assignments[0])
	assert.Equal(t, slotAssignment{SlotID: 3, Name: "B"}, plan.Assignments[1])
	assert.Empty(t, plan.Clears)
	assert.Equal(t, 2, plan.Result.Imported)
	assert.Equal(t, 0, plan.Result.Skipped)
	require.NotNil(t, plan.Result.VacanciesCount)
	assert.Equal(t, 3, *plan.Result.VacanciesCount)
}

func TestPlanImportAddMoreRowsThanVacancies(t *testing.T) {
	slots := []model.Candidate{slot(1, ""), slot(2, "Taken")}
	plan := planImport(ModeAdd, []string{"A", "B", "C"}, slots)

	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, 1, plan.Result.Imported)
	assert.Equal(t, 2, plan.Result.Skipped)
}

func TestPlanImportAddNoVacancies(t *testing.T) {
	slots := []model.Candidate{slot(1, "Taken"), slot(2, "Taken")}
	plan := planImport(ModeAdd, []string{"A"}, slots)

	assert.Empty(t, plan.Assignments)
	assert.Equal(t, 0, plan.Result.Imported)
	assert.Equal(t, 1, plan.Result.Skipped)
	require.Len(t, plan.Result.Reasons, 1)
	assert.Equal(t, 0, plan.Result.Reasons[0].RowIndex)
}

func TestPlanImportOverwrite(t *testing.T) {
	slots := []model.Candidate{
		slot(1, "Old One"),
		slot(2, ""),
		slot(3, "Old Three"),
		slot(4, "Old Four"),
	}
	plan := planImport(ModeOverwrite, []string{"New One", "New Two"}, slots)

	// First two slots take the rows, the rest are cleared.
	require.Len(t, plan.Assignments, 2)
	assert.Equal(t, slotAssignment{SlotID: 1, Name: "New One"}, plan.Assignments[0])
	assert.Equal(t, slotAssignment{SlotID: 2, Name: "New Two"}, plan.Assignments[1])
	assert.Equal(t, []int{3, 4}, plan.Clears)
	assert.Equal(t, 2, plan.Result.Imported)
	assert.Equal(t, 0, plan.Result.Skipped)
}

func TestPlanImportOverwriteMoreRowsThanSlots(t *testing.T) {
	slots := []model.Candidate{slot(1, ""), slot(2, "")}
	plan := planImport(ModeOverwrite, []string{"A", "B", "C"}, slots)

	require.Len(t, plan.Assignments, 2)
	assert.Empty(t, plan.Clears)
	assert.Equal(t, 2, plan.Result.Imported)
	assert.Equal(t, 1, plan.Result.Skipped)
}

func TestPlanImportOverwriteEmptyRowClearsSlot(t *testing.T) {
	slots := []model.Candidate{slot(1, "Old"), slot(2, "Old")}
	plan := planImport(ModeOverwrite, []string{"", "New"}, slots)

	assert.Equal(t, []int{1}, plan.Clears)
	require.Len(t, plan.Assignments, 1)
	assert.Equal(t, slotAssignment{SlotID: 2, Name: "New"}, plan.Assignments[0])
	assert.Equal(t, 1, plan.Result.Imported)
	assert.Equal(t, 1, plan.Result.Skipped)
}

func TestFilterForActor(t *testing.T) {
	prof := model.ProfessionDoctor
	region := 7
	name := "Someone"
	req := &model.CandidateUpdateRequest{
		FullName:   &name,
		Profession: &prof,
		RegionID:   &region,
		BrigadeID:  &region,
	}

	regionActor := model.Actor{Role: model.RoleRegion, RegionID: &region}
	filtered := FilterForActor(req, regionActor)
	assert.Nil(t, filtered.Profession)
	assert.Nil(t, filtered.RegionID)
	assert.Nil(t, filtered.BrigadeID)
	require.NotNil(t, filtered.FullName)
	assert.Equal(t, "Someone", *filtered.FullName)

	admin := model.Actor{Role: model.RoleAdmin}
	assert.Same(t, req, FilterForActor(req, admin))
}
