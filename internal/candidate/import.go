package candidate

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/lib/pq"

	"medcert-dashboard-go/pkg/apperr"
	"medcert-dashboard-go/pkg/model"
)

// Import modes.
const (
	ModeAdd       = "add"
	ModeOverwrite = "overwrite"
)

// ImportBatchSize bounds how many rows one UPDATE statement carries.
const ImportBatchSize = 100

// ParseRows reads candidate names from a one-column CSV file. A header row
// labelled with a known alias of "full name" is skipped.
func ParseRows(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var rows []string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperr.Validationf("malformed CSV file: %v", err)
		}
		name := ""
		if len(record) > 0 {
			name = strings.TrimSpace(record[0])
		}
		if first {
			first = false
			if isHeaderLabel(name) {
				continue
			}
		}
		rows = append(rows, name)
	}
	return rows, nil
}

func isHeaderLabel(s string) bool {
	switch strings.ToLower(s) {
	case "фио", "fio", "fullname", "full_name", "full name":
		return true
	}
	return false
}

// slotAssignment maps one imported row onto one candidate slot.
type slotAssignment struct {
	SlotID int
	Name   string
}

// importPlan is the pure outcome of matching rows to slots; executing it is
// a separate, transactional step.
type importPlan struct {
	Assignments []slotAssignment
	Clears      []int
	Result      model.ImportResult
}

// planImport computes the row-to-slot mapping for both modes.
//
// add: non-empty rows fill vacant slots in slot order, min(rows, vacancies)
// imported, surplus rows skipped.
// overwrite: the first min(rows, slots) slots take the rows in order;
// every slot beyond the row count is cleared.
func planImport(mode string, rows []string, slots []model.Candidate) importPlan {
	plan := importPlan{Result: model.ImportResult{Reasons: []model.ImportReason{}}}

	if mode == ModeAdd {
		var toImport []string
		for _, name := range rows {
			if name != "" {
				toImport = append(toImport, name)
			}
		}

		var vacancies []model.Candidate
		for _, slot := range slots {
			if strings.TrimSpace(slot.FullName) == "" {
				vacancies = append(vacancies, slot)
			}
		}
		count := len(vacancies)
		plan.Result.VacanciesCount = &count

		max := len(toImport)
		if len(vacancies) < max {
			max = len(vacancies)
		}
		for i := 0; i < max; i++ {
			plan.Assignments = append(plan.Assignments, slotAssignment{SlotID: vacancies[i].ID, Name: toImport[i]})
		}
		plan.Result.Imported = max
		plan.Result.Skipped = len(toImport) - max

		if len(vacancies) == 0 && len(toImport) > 0 {
			plan.Result.Reasons = append(plan.Result.Reasons, model.ImportReason{
				RowIndex: 0,
				Reason: fmt.Sprintf(
					"no vacant slots for this region and profession (total slots: %d); use overwrite mode or resize the region",
					len(slots)),
			})
		}
		return plan
	}

	// overwrite
	for i, slot := range slots {
		name := ""
		if i < len(rows) {
			name = rows[i]
		}
		if name == "" {
			plan.Clears = append(plan.Clears, slot.ID)
		} else {
			plan.Assignments = append(plan.Assignments, slotAssignment{SlotID: slot.ID, Name: name})
			plan.Result.Imported++
		}
	}
	if extra := len(rows) - plan.Result.Imported; extra > 0 {
		plan.Result.Skipped = extra
	}
	return plan
}

// Import fills candidate slots from an uploaded roster. Region actors are
// always scoped to their own region; admins must name the target region.
// The whole import commits or rolls back as one transaction, with row
// updates flushed in ImportBatchSize chunks.
func (s *CandidateService) Import(actor model.Actor, regionID int, profession, mode string, rows []string) (*model.ImportResult, error) {
	if mode != ModeAdd && mode != ModeOverwrite {
		return nil, apperr.Validationf("mode must be %q or %q", ModeAdd, ModeOverwrite)
	}
	if !model.ValidProfession(profession) {
		return nil, apperr.Validationf("invalid profession %q", profession)
	}

	if !actor.IsAdmin() {
		if actor.RegionID == nil {
			return nil, apperr.Forbiddenf("actor has no region")
		}
		regionID = *actor.RegionID
	} else if regionID == 0 {
		return nil, apperr.Validationf("region_id is required for admin imports")
	}

	var exists bool
	if err := s.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM regions WHERE id = $1)", regionID); err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperr.NotFoundf("region %d not found", regionID)
	}

	var slots []model.Candidate
	err := s.db.Select(&slots, `
        SELECT id, full_name, pinfl, profession, region_id, brigade_id,
               cert1, cert1_note, cert2, cert2_note, cert3, cert3_note, cert4, cert4_note,
               created_at, updated_at
        FROM candidates
        WHERE region_id = $1 AND profession = $2
        ORDER BY brigade_id ASC, id ASC`, regionID, profession)
	if err != nil {
		return nil, err
	}

	plan := planImport(mode, rows, slots)

	tx, err := s.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	for start := 0; start < len(plan.Assignments); start += ImportBatchSize {
		end := start + ImportBatchSize
		if end > len(plan.Assignments) {
			end = len(plan.Assignments)
		}
		chunk := plan.Assignments[start:end]
		ids := make([]int, len(chunk))
		names := make([]string, len(chunk))
		for i, a := range chunk {
			ids[i] = a.SlotID
			names[i] = a.Name
		}
		_, err = tx.Exec(`
            UPDATE candidates AS c SET full_name = u.name, updated_at = now()
            FROM unnest($1::int[], $2::text[]) AS u(id, name)
            WHERE c.id = u.id`, pq.Array(ids), pq.Array(names))
		if err != nil {
			return nil, err
		}
	}

	for start := 0; start < len(plan.Clears); start += ImportBatchSize {
		end := start + ImportBatchSize
		if end > len(plan.Clears) {
			end = len(plan.Clears)
		}
		_, err = tx.Exec(`
            UPDATE candidates SET
                full_name = '',
                cert1 = false, cert1_note = NULL, cert2 = false, cert2_note = NULL,
                cert3 = false, cert3_note = NULL, cert4 = false, cert4_note = NULL,
                updated_at = now()
            WHERE id = ANY($1)`, pq.Array(plan.Clears[start:end]))
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	result := plan.Result
	if mode == ModeOverwrite {
		result.VacanciesCount = nil
	}
	return &result, nil
}
