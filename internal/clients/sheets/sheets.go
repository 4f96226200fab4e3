package sheets

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
)

const (
	valueInput = "RAW"
	insertData = "INSERT_ROWS"
)

var (
	ErrMissingSpreadsheet = errors.New("missing spreadsheet id")
	ErrMissingCredentials = errors.New("missing service account credentials")
)

type config interface {
	SpreadsheetID() string
	SheetName() string
	Credentials() string
	CredentialsFile() string
	Timeout() time.Duration
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
	timeout       time.Duration
}

// New authenticates with a service account (inline JSON wins over the file)
// and resolves the target sheet.
func New(ctx context.Context, cfg config) (*Client, error) {
	if strings.TrimSpace(cfg.SpreadsheetID()) == "" {
		return nil, ErrMissingSpreadsheet
	}

	raw, err := credentialsJSON(cfg)
	if err != nil {
		return nil, err
	}

	creds, err := google.CredentialsFromJSON(ctx, raw, gsheet.SpreadsheetsScope)
	if err != nil {
		return nil, errors.Wrap(err, "parse service account credentials")
	}

	svc, err := gsheet.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, errors.Wrap(err, "create sheets service")
	}

	return NewWithService(ctx, svc, cfg.SpreadsheetID(), cfg.SheetName(), cfg.Timeout())
}

// NewWithService builds a client on top of an existing service. An empty
// sheet name selects the first sheet of the spreadsheet.
func NewWithService(ctx context.Context, svc *gsheet.Service, spreadsheetID, sheetName string, timeout time.Duration) (*Client, error) {
	c := &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     strings.TrimSpace(sheetName),
		timeout:       timeout,
	}
	if c.sheetName == "" {
		title, err := c.firstSheetTitle(ctx)
		if err != nil {
			return nil, err
		}
		c.sheetName = title
	}

	logger.Info("sheets client initialized",
		zap.String("spreadsheet", spreadsheetID),
		zap.String("sheet", c.sheetName))
	return c, nil
}

func credentialsJSON(cfg config) ([]byte, error) {
	if inline := strings.TrimSpace(cfg.Credentials()); inline != "" {
		return []byte(inline), nil
	}
	if path := strings.TrimSpace(cfg.CredentialsFile()); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read service account file")
		}
		return raw, nil
	}
	return nil, ErrMissingCredentials
}

func (c *Client) firstSheetTitle(ctx context.Context) (string, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).
		Fields(googleapi.Field("sheets.properties.title")).
		Context(ctx).
		Do()
	if err != nil {
		return "", errors.Wrap(err, "get spreadsheet")
	}
	if len(ss.Sheets) == 0 || ss.Sheets[0].Properties == nil {
		return "", errors.Errorf("spreadsheet %s has no sheets", c.spreadsheetID)
	}
	return ss.Sheets[0].Properties.Title, nil
}

// Write appends the record as a new row after the last filled one.
func (c *Client) Write(ctx context.Context, rec expense.Record) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	vr := &gsheet.ValueRange{Values: [][]interface{}{rec.Row()}}
	_, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, c.appendRange(), vr).
		ValueInputOption(valueInput).
		InsertDataOption(insertData).
		Context(ctx).
		Do()
	if err != nil {
		return errors.Wrap(err, fmt.Sprintf("append to %s", c.sheetName))
	}

	logger.Info("row appended to sheet", zap.String("sheet", c.sheetName), zap.String("id", rec.ID.String()))
	return nil
}

func (c *Client) SheetName() string {
	return c.sheetName
}

func (c *Client) appendRange() string {
	return fmt.Sprintf("'%s'!A1", strings.ReplaceAll(c.sheetName, "'", "''"))
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}
