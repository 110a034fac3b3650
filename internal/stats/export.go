package stats

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"medcert-dashboard-go/pkg/model"
)

// Export renders the actor's summary as an .xlsx workbook with the four
// dashboard sheets: Regions, Modules, Professions and Vacancies.
func (s *StatsService) Export(actor model.Actor) ([]byte, error) {
	summary, err := s.Summary(actor)
	if err != nil {
		return nil, err
	}
	return renderWorkbook(summary)
}

func renderWorkbook(summary *model.Summary) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRegionsSheet(f, summary); err != nil {
		return nil, err
	}
	if err := writeModulesSheet(f, summary); err != nil {
		return nil, err
	}
	if err := writeProfessionsSheet(f, summary); err != nil {
		return nil, err
	}
	if err := writeVacanciesSheet(f, summary); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func mergeCells(f *excelize.File, sheet string, c1, r1, c2, r2 int) error {
	start, err := excelize.CoordinatesToCellName(c1, r1)
	if err != nil {
		return err
	}
	end, err := excelize.CoordinatesToCellName(c2, r2)
	if err != nil {
		return err
	}
	return f.MergeCell(sheet, start, end)
}

// writeRegionsSheet writes the per-region breakdown with a two-level
// header: one merged group per certificate and module, with status
// subheadings beneath.
func writeRegionsSheet(f *excelize.File, summary *model.Summary) error {
	const sheet = "Regions"
	f.SetSheetName("Sheet1", sheet)

	top := []interface{}{"Region", "Total slots", "Vacant"}
	sub := []interface{}{"", "", ""}
	for n := 1; n <= 4; n++ {
		top = append(top, fmt.Sprintf("Certificate %d", n), "")
		sub = append(sub, "held", "missing")
		top = append(top, fmt.Sprintf("Module %d", n), "", "", "")
		sub = append(sub, "Passed", "Failed", "No-show once", "No-show twice")
	}
	if err := setRow(f, sheet, 1, top); err != nil {
		return err
	}
	if err := setRow(f, sheet, 2, sub); err != nil {
		return err
	}

	// Vertical merges for the three leading columns, horizontal for groups.
	for col := 1; col <= 3; col++ {
		if err := mergeCells(f, sheet, col, 1, col, 2); err != nil {
			return err
		}
	}
	col := 4
	for n := 1; n <= 4; n++ {
		if err := mergeCells(f, sheet, col, 1, col+1, 1); err != nil {
			return err
		}
		col += 2
		if err := mergeCells(f, sheet, col, 1, col+3, 1); err != nil {
			return err
		}
		col += 4
	}

	row := 3
	for _, r := range summary.Regions {
		values := []interface{}{r.Name, r.TotalSlots, r.Vacant}
		for n := 1; n <= 4; n++ {
			held := r.CertCount(n)
			values = append(values, held, r.TotalSlots-held)
			b := r.Modules[n]
			values = append(values, b.Passed, b.Failed, b.NoShow1, b.NoShow2)
		}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeModulesSheet(f *excelize.File, summary *model.Summary) error {
	const sheet = "Modules"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []interface{}{"Region", "Module", "Passed", "Failed", "No-show once", "No-show twice"}); err != nil {
		return err
	}
	row := 2
	for _, r := range summary.Regions {
		for n := 1; n <= 4; n++ {
			b := r.Modules[n]
			values := []interface{}{r.Name, fmt.Sprintf("Module %d", n), b.Passed, b.Failed, b.NoShow1, b.NoShow2}
			if err := setRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func writeProfessionsSheet(f *excelize.File, summary *model.Summary) error {
	const sheet = "Professions"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []interface{}{"Profession", "Total", "Certificate 1", "Module 1 passed", "Module 4 passed"}); err != nil {
		return err
	}
	row := 2
	for _, entry := range []struct {
		label string
		key   string
	}{
		{"Doctor", model.ProfessionDoctor},
		{"Nurse", model.ProfessionNurse},
	} {
		m := summary.Professions[entry.key]
		values := []interface{}{entry.label, m.Total, m.Cert1, m.Module1Passed, m.Module4Passed}
		if err := setRow(f, sheet, row, values); err != nil {
			return err
		}
		row++
	}
	return nil
}

func writeVacanciesSheet(f *excelize.File, summary *model.Summary) error {
	const sheet = "Vacancies"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, []interface{}{"Region", "Total slots", "Vacant"}); err != nil {
		return err
	}
	row := 2
	for _, r := range summary.Regions {
		if err := setRow(f, sheet, row, []interface{}{r.Name, r.TotalSlots, r.Vacant}); err != nil {
			return err
		}
		row++
	}
	return nil
}
