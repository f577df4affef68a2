package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/chore-chart/internal/chart"
	"github.com/Veraticus/chore-chart/internal/common"
	"github.com/Veraticus/chore-chart/internal/service"
)

const borderStyle = "SOLID_MEDIUM"

// Writer publishes charts to a Google spreadsheet, one tab per week.
type Writer struct {
	service *sheets.Service
	logger  *slog.Logger
	config  Config
}

// NewWriter creates a new Google Sheets chart writer.
func NewWriter(ctx context.Context, config Config, logger *slog.Logger) (*Writer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	srv, err := createSheetsService(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return newWriterWithService(srv, config, logger), nil
}

func newWriterWithService(srv *sheets.Service, config Config, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{
		config:  config,
		service: srv,
		logger:  logger,
	}
}

// Write replaces the chart's week tab with a freshly laid out copy.
func (w *Writer) Write(ctx context.Context, c *chart.Chart) error {
	if c == nil {
		return fmt.Errorf("chart is required")
	}
	title := c.Title()
	w.logger.Info("starting chart export", "week", title, "rows", c.RowCount())

	retryOpts := service.RetryOptions{
		MaxAttempts:  w.config.RetryAttempts,
		InitialDelay: w.config.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts < 1 {
		retryOpts.MaxAttempts = 1
	}

	var spreadsheetID string
	err := common.WithRetry(ctx, func() error {
		var getErr error
		spreadsheetID, getErr = w.getOrCreateSpreadsheet(ctx, title)
		return classifyError(getErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	var sheetID int64
	err = common.WithRetry(ctx, func() error {
		var tabErr error
		sheetID, tabErr = w.replaceTab(ctx, spreadsheetID, title)
		return classifyError(tabErr)
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to prepare tab %s: %w", title, err)
	}

	layout := LayoutChart(c)
	err = common.WithRetry(ctx, func() error {
		return classifyError(w.writeValues(ctx, spreadsheetID, title, layout.Values))
	}, retryOpts)
	if err != nil {
		return fmt.Errorf("failed to write chart: %w", err)
	}

	if w.config.EnableFormatting {
		err = common.WithRetry(ctx, func() error {
			return classifyError(w.applyFormatting(ctx, spreadsheetID, sheetID, layout))
		}, retryOpts)
		if err != nil {
			// Don't fail the export if formatting fails
			w.logger.Warn("failed to apply formatting", "week", title, "error", err)
		}
	}

	w.logger.Info("chart export completed",
		"spreadsheet_id", spreadsheetID,
		"week", title,
		"rows_written", len(layout.Values))
	return nil
}

// classifyError marks quota and server errors from the API as retryable.
func classifyError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusTooManyRequests:
			return fmt.Errorf("%w: %w", common.ErrSheetsQuota, err)
		case apiErr.Code >= http.StatusInternalServerError:
			return common.Retryable(err)
		}
	}
	return err
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := oauthConfig(config.ClientID, config.ClientSecret, "")
		tokenSource = client.TokenSource(ctx, &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		})
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}

// getOrCreateSpreadsheet returns the configured spreadsheet, creating one
// named after the config when no ID is set.
func (w *Writer) getOrCreateSpreadsheet(ctx context.Context, firstTab string) (string, error) {
	if w.config.SpreadsheetID != "" {
		_, err := w.service.Spreadsheets.Get(w.config.SpreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
		if err != nil {
			return "", fmt.Errorf("unable to access spreadsheet %s: %w", w.config.SpreadsheetID, err)
		}
		return w.config.SpreadsheetID, nil
	}

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title:    w.config.SpreadsheetName,
			TimeZone: w.config.TimeZone,
		},
		Sheets: []*sheets.Sheet{
			{Properties: &sheets.SheetProperties{Title: firstTab}},
		},
	}

	created, err := w.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("unable to create spreadsheet: %w", err)
	}

	w.logger.Info("created new spreadsheet",
		"id", created.SpreadsheetId,
		"url", created.SpreadsheetUrl)

	// Later writes in this process go to the same spreadsheet.
	w.config.SpreadsheetID = created.SpreadsheetId
	return created.SpreadsheetId, nil
}

// replaceTab gives the week a new, empty tab and returns its sheet ID. An
// existing tab with the same title is removed after the new one is added, so
// the spreadsheet never drops to zero tabs.
func (w *Writer) replaceTab(ctx context.Context, spreadsheetID, title string) (int64, error) {
	existing, err := w.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties(sheetId,title)").
		Context(ctx).
		Do()
	if err != nil {
		return 0, fmt.Errorf("unable to list tabs: %w", err)
	}

	var oldID *int64
	for _, sheet := range existing.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			id := sheet.Properties.SheetId
			oldID = &id
		}
	}

	newTitle := title
	if oldID != nil {
		newTitle = title + " (new)"
	}
	added, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: newTitle}}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to add tab: %w", err)
	}
	if len(added.Replies) == 0 || added.Replies[0].AddSheet == nil {
		return 0, fmt.Errorf("add tab returned no sheet properties")
	}
	newID := added.Replies[0].AddSheet.Properties.SheetId

	if oldID == nil {
		return newID, nil
	}

	_, err = w.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{
			{DeleteSheet: &sheets.DeleteSheetRequest{SheetId: *oldID, ForceSendFields: []string{"SheetId"}}},
			{UpdateSheetProperties: &sheets.UpdateSheetPropertiesRequest{
				Properties: &sheets.SheetProperties{SheetId: newID, Title: title, ForceSendFields: []string{"SheetId"}},
				Fields:     "title",
			}},
		},
	}).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("unable to replace tab: %w", err)
	}

	w.logger.Debug("replaced existing tab", "title", title, "old_sheet_id", *oldID, "sheet_id", newID)
	return newID, nil
}

// writeValues writes the laid out cells starting at A1 of the week's tab.
func (w *Writer) writeValues(ctx context.Context, spreadsheetID, title string, values [][]any) error {
	_, err := w.service.Spreadsheets.Values.Update(spreadsheetID, fmt.Sprintf("'%s'!A1", title), &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("USER_ENTERED").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	return nil
}

// applyFormatting merges, styles and sizes the week's tab.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, layout *Layout) error {
	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formatRequests(sheetID, layout),
	}
	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}

// formatRequests builds the batch of formatting requests for a layout.
func formatRequests(sheetID int64, layout *Layout) []*sheets.Request {
	var requests []*sheets.Request

	for _, r := range layout.Merges {
		requests = append(requests, &sheets.Request{
			MergeCells: &sheets.MergeCellsRequest{
				Range:     gridRange(sheetID, r),
				MergeType: "MERGE_ALL",
			},
		})
	}

	for _, r := range layout.Wrapped {
		requests = append(requests, repeatFormat(sheetID, r, &sheets.CellFormat{
			WrapStrategy:      "WRAP",
			VerticalAlignment: "TOP",
		}, "userEnteredFormat(wrapStrategy,verticalAlignment)"))
	}

	for _, r := range layout.Bold {
		requests = append(requests, repeatFormat(sheetID, r, &sheets.CellFormat{
			TextFormat: &sheets.TextFormat{Bold: true},
		}, "userEnteredFormat.textFormat.bold"))
	}

	for _, r := range layout.Titles {
		requests = append(requests, repeatFormat(sheetID, r, &sheets.CellFormat{
			WrapStrategy:        "WRAP",
			VerticalAlignment:   "MIDDLE",
			HorizontalAlignment: "CENTER",
			TextRotation:        &sheets.TextRotation{Angle: 90},
			TextFormat:          &sheets.TextFormat{FontSize: 12},
		}, "userEnteredFormat(wrapStrategy,verticalAlignment,horizontalAlignment,textRotation,textFormat.fontSize)"))
	}

	border := &sheets.Border{Style: borderStyle}
	for _, row := range layout.Separators {
		requests = append(requests, &sheets.Request{
			UpdateBorders: &sheets.UpdateBordersRequest{
				Range: gridRange(sheetID, Range{StartRow: row, EndRow: row + 1, StartCol: 0, EndCol: columnCount}),
				Top:   border,
			},
		})
	}

	for col, width := range columnWidths {
		requests = append(requests, &sheets.Request{
			UpdateDimensionProperties: &sheets.UpdateDimensionPropertiesRequest{
				Range: &sheets.DimensionRange{
					SheetId:         sheetID,
					Dimension:       "COLUMNS",
					StartIndex:      int64(col),
					EndIndex:        int64(col + 1),
					ForceSendFields: []string{"SheetId", "StartIndex"},
				},
				Properties: &sheets.DimensionProperties{PixelSize: width},
				Fields:     "pixelSize",
			},
		})
	}

	return requests
}

func repeatFormat(sheetID int64, r Range, format *sheets.CellFormat, fields string) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range:  gridRange(sheetID, r),
			Cell:   &sheets.CellData{UserEnteredFormat: format},
			Fields: fields,
		},
	}
}

func gridRange(sheetID int64, r Range) *sheets.GridRange {
	return &sheets.GridRange{
		SheetId:          sheetID,
		StartRowIndex:    int64(r.StartRow),
		EndRowIndex:      int64(r.EndRow),
		StartColumnIndex: int64(r.StartCol),
		EndColumnIndex:   int64(r.EndCol),
		ForceSendFields:  []string{"SheetId", "StartRowIndex", "StartColumnIndex"},
	}
}
