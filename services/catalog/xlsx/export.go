// Package xlsx renders the movie collection as a local spreadsheet
// file, mirroring the master worksheet's column layout.
package xlsx

import (
	"log/slog"

	"cinescrape/services/catalog"

	"github.com/xuri/excelize/v2"
)

const worksheetName = "Movies"

func Export(records []catalog.MovieRecord, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	err := f.SetSheetName(f.GetSheetName(0), worksheetName)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(catalog.Headers))
	for i, h := range catalog.Headers {
		header[i] = h
	}
	err = f.SetSheetRow(worksheetName, "A1", &header)
	if err != nil {
		return err
	}

	for i, record := range records {
		row := record.Row()
		cells := make([]interface{}, len(row))
		for j, cell := range row {
			cells[j] = cell
		}
		start, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		err = f.SetSheetRow(worksheetName, start, &cells)
		if err != nil {
			return err
		}
	}

	err = f.SaveAs(path)
	if err != nil {
		return err
	}
	slog.Info("exported collection", "path", path, "records", len(records))
	return nil
}
