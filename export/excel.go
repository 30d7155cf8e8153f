package export

import (
	"github.com/xuri/excelize/v2"
)

// Excel writes the winner table as an xlsx workbook and returns the file
// path.
func Excel(raffle string, rows []Row) (string, error) {
	f := excelize.NewFile()
	sheet := raffle
	if len(sheet) > 31 {
		sheet = sheet[:31]
	}
	if sheet == "" {
		sheet = "Sheet1"
	}
	f.SetSheetName("Sheet1", sheet)

	cells := make([]interface{}, len(header))
	for i, h := range header {
		cells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &cells); err != nil {
		return "", err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", err
		}
		values := []interface{}{row.Serial, row.DisplayName, row.ShortName, row.Link}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return "", err
		}
	}

	path := tempPath(raffle, "xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", err
	}
	return path, nil
}
