package export

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// SheetsPusher mirrors the inventory snapshot into a Google spreadsheet.
type SheetsPusher struct {
	sheetsService *sheets.Service
}

// NewSheetsPusher builds the Sheets client from GOOGLE_SHEETS_CREDENTIALS_JSON,
// falling back to a local credentials file for development.
func NewSheetsPusher() (*SheetsPusher, error) {
	ctx := context.Background()

	credentialsJSON := os.Getenv("GOOGLE_SHEETS_CREDENTIALS_JSON")
	var credentials *google.Credentials
	var err error

	if credentialsJSON != "" {
		credentials, err = google.CredentialsFromJSON(ctx, []byte(credentialsJSON), sheets.SpreadsheetsScope)
	} else {
		credentialsFile := "configs/google-credentials.json"
		b, readErr := os.ReadFile(credentialsFile)
		if readErr != nil {
			return nil, fmt.Errorf("failed to read Google credentials file: %v", readErr)
		}
		credentials, err = google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load Google credentials: %v", err)
	}

	client := oauth2.NewClient(ctx, credentials.TokenSource)
	sheetsService, err := sheets.New(client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Sheets client: %v", err)
	}

	return &SheetsPusher{sheetsService: sheetsService}, nil
}

// PushSnapshot replaces the contents of the first sheet with the snapshot.
// Returns the number of data rows written.
func (p *SheetsPusher) PushSnapshot(spreadsheetID string, rows []Row) (int, error) {
	clearRange := "A1:Z10000"
	if _, err := p.sheetsService.Spreadsheets.Values.Clear(spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).Do(); err != nil {
		return 0, fmt.Errorf("failed to clear spreadsheet: %v", err)
	}

	values := make([][]interface{}, 0, len(rows)+1)
	header := make([]interface{}, len(columnHeaders))
	for i, h := range columnHeaders {
		header[i] = h
	}
	values = append(values, header)

	for _, row := range rows {
		cells := row.cells()
		line := make([]interface{}, len(cells))
		for i, cell := range cells {
			line[i] = cell
		}
		values = append(values, line)
	}

	body := &sheets.ValueRange{Values: values}
	if _, err := p.sheetsService.Spreadsheets.Values.Update(spreadsheetID, "A1", body).ValueInputOption("RAW").Do(); err != nil {
		return 0, fmt.Errorf("failed to write spreadsheet: %v", err)
	}

	return len(rows), nil
}
