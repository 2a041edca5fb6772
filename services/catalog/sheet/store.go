// Package sheet persists the movie collection to a Google Sheets
// worksheet through a service-account credential. Reads and writes are
// wholesale over the entire worksheet, matching the run's
// load-once/rewrite-once lifecycle.
package sheet

import (
	"context"
	"fmt"
	"log/slog"

	"cinescrape/services/catalog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var tracer = otel.Tracer("catalog/sheet")

type Store struct {
	srv           *sheets.Service
	spreadsheetId string
	worksheet     string
}

type Options struct {
	CredentialsFile string
	SpreadsheetId   string
	// worksheet title inside the spreadsheet, created with the header
	// row when missing
	Worksheet string
}

func Open(ctx context.Context, opts Options) (*Store, error) {
	ctx, span := tracer.Start(ctx, "store:Open")
	defer span.End()

	srv, err := sheets.NewService(ctx,
		option.WithCredentialsFile(opts.CredentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize sheets client: %w", err)
	}

	s := &Store{
		srv:           srv,
		spreadsheetId: opts.SpreadsheetId,
		worksheet:     opts.Worksheet,
	}
	err = s.ensureWorksheet(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to ensure worksheet")
		return nil, err
	}
	return s, nil
}

func (s *Store) headerRange() string {
	return fmt.Sprintf("'%s'!A1", s.worksheet)
}

func (s *Store) ensureWorksheet(ctx context.Context) error {
	spreadsheet, err := s.srv.Spreadsheets.Get(s.spreadsheetId).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("fetch spreadsheet: %w", err)
	}

	for _, ws := range spreadsheet.Sheets {
		if ws.Properties != nil && ws.Properties.Title == s.worksheet {
			return nil
		}
	}

	slog.InfoContext(ctx, "master worksheet not found, creating it", "worksheet", s.worksheet)
	_, err = s.srv.Spreadsheets.BatchUpdate(s.spreadsheetId, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{Title: s.worksheet},
			},
		}},
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("create worksheet: %w", err)
	}

	header := make([]interface{}, len(catalog.Headers))
	for i, h := range catalog.Headers {
		header[i] = h
	}
	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetId, s.headerRange(), &sheets.ValueRange{
		Values: [][]interface{}{header},
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

// Read loads every data row below the header, keyed by title. Rows with
// an empty title cell are skipped.
func (s *Store) Read(ctx context.Context) (map[string]catalog.MovieRecord, error) {
	ctx, span := tracer.Start(ctx, "store:Read")
	defer span.End()

	resp, err := s.srv.Spreadsheets.Values.Get(s.spreadsheetId, fmt.Sprintf("'%s'", s.worksheet)).
		Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read rows")
		return nil, err
	}

	records := map[string]catalog.MovieRecord{}
	for i, raw := range resp.Values {
		if i == 0 {
			continue
		}
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		record := catalog.FromRow(row)
		if record.Title == "" {
			continue
		}
		records[record.Title] = record
	}

	slog.InfoContext(ctx, "read master worksheet", "records", len(records))
	return records, nil
}

// Write clears the worksheet and rewrites the header plus every record,
// wholesale. Readers never observe a partial generation beyond what the
// API itself exposes between the clear and the update.
func (s *Store) Write(ctx context.Context, records []catalog.MovieRecord) error {
	ctx, span := tracer.Start(ctx, "store:Write")
	defer span.End()

	_, err := s.srv.Spreadsheets.Values.Clear(s.spreadsheetId, fmt.Sprintf("'%s'", s.worksheet), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to clear worksheet")
		return fmt.Errorf("clear worksheet: %w", err)
	}

	values := make([][]interface{}, 0, len(records)+1)
	header := make([]interface{}, len(catalog.Headers))
	for i, h := range catalog.Headers {
		header[i] = h
	}
	values = append(values, header)
	for _, record := range records {
		row := record.Row()
		cells := make([]interface{}, len(row))
		for i, cell := range row {
			cells[i] = cell
		}
		values = append(values, cells)
	}

	_, err = s.srv.Spreadsheets.Values.Update(s.spreadsheetId, s.headerRange(), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write rows")
		return fmt.Errorf("update worksheet: %w", err)
	}

	slog.InfoContext(ctx, "master worksheet updated", "records", len(records))
	return nil
}
