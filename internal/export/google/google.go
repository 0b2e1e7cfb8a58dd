// Package google writes monthly statements to a Google Sheets report
// using service account credentials.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"undangan/internal/core"
	"undangan/internal/export"
	"undangan/internal/ledger"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsFile string
	CredentialsJSON string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	logger        *slog.Logger
}

var _ export.StatementWriter = (*Client)(nil)

// headerRow is written once; statement rows land at 1 + month index so
// re-exports of the same month overwrite in place.
var headerRow = []any{
	"Bulan", "Pendapatan", "Terbayar", "Belum Terbayar",
	"Pengeluaran Tetap", "Pengeluaran Variabel", "Saldo Bulan Lalu", "Sisa Saldo",
}

func NewClient(ctx context.Context, cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheetName := cfg.SheetName
	if sheetName == "" {
		sheetName = "Laporan"
	}

	credentials, err := loadCredentials(cfg)
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentials),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		svc:           svc,
		spreadsheetID: cfg.SpreadsheetID,
		sheetName:     sheetName,
		logger:        logger,
	}, nil
}

func loadCredentials(cfg Config) ([]byte, error) {
	switch {
	case strings.TrimSpace(cfg.CredentialsJSON) != "":
		return []byte(cfg.CredentialsJSON), nil
	case strings.TrimSpace(cfg.CredentialsFile) != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		return data, nil
	default:
		return nil, errors.New("missing service account credentials")
	}
}

// WriteStatement upserts the statement row for its month. The sheet is
// laid out one row per calendar month under a header row, so the write
// range follows directly from the month number.
func (c *Client) WriteStatement(ctx context.Context, st ledger.Statement) error {
	if st.Month < 1 || st.Month > 12 {
		return fmt.Errorf("statement month out of range: %d", st.Month)
	}

	row := []any{
		st.Label,
		st.TotalRevenue,
		st.PaidAmount,
		st.UnpaidAmount,
		st.FixedExpenses,
		st.VariableExpenses,
		st.PreviousMonthBalance,
		st.RemainingBalance,
	}

	header := fmt.Sprintf("%s!A1", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, header, &gsheet.ValueRange{
		Values: [][]any{headerRow},
	}).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	target := fmt.Sprintf("%s!A%d", c.sheetName, 1+st.Month)
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, target, &gsheet.ValueRange{
		Values: [][]any{row},
	}).ValueInputOption("RAW").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write statement row: %w", err)
	}

	c.logger.InfoContext(ctx, "Exported statement",
		"scope", st.Label,
		"revenue", core.FormatRupiah(st.TotalRevenue),
		"remaining", core.FormatRupiah(st.RemainingBalance))
	return nil
}
