package expense

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

const (
	TimestampLayout    = "2006-01-02 15:04:05"
	DateLayout         = "2006-01-02"
	DefaultDescription = "Sin descripción"
)

var ErrMalformedInput = errors.New("malformed expense input")

// Record is a single expense as it is handed to the ledger. ID is an
// idempotency key; it does not appear in the spreadsheet row.
type Record struct {
	ID          uuid.UUID
	UserID      int64
	RecordedAt  time.Time
	ExpenseDate time.Time
	Amount      float64
	Category    string
	Description string
}

func New(userID int64, at time.Time, in Input, categoryLabel string) Record {
	return Record{
		ID:          uuid.New(),
		UserID:      userID,
		RecordedAt:  at,
		ExpenseDate: now.With(at).BeginningOfDay(),
		Amount:      in.Amount,
		Category:    categoryLabel,
		Description: in.Description,
	}
}

// Row is the ledger row layout; column order matters.
func (r Record) Row() []interface{} {
	return []interface{}{
		strconv.FormatInt(r.UserID, 10),
		r.RecordedAt.Format(TimestampLayout),
		r.ExpenseDate.Format(DateLayout),
		r.Amount,
		r.Category,
		r.Description,
	}
}

type Input struct {
	Amount      float64
	Description string
}

// ParseInput reads "AMOUNT [DESCRIPTION]". The amount accepts a comma as the
// decimal separator.
func ParseInput(text string) (Input, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Input{}, errors.Wrap(ErrMalformedInput, "empty message")
	}

	token, rest := text, ""
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		token = text[:i]
		rest = strings.TrimLeftFunc(text[i:], unicode.IsSpace)
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(token, ",", "."), 64)
	if err != nil {
		return Input{}, errors.Wrapf(ErrMalformedInput, "amount %q", token)
	}
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Input{}, errors.Wrapf(ErrMalformedInput, "amount %q is not finite", token)
	}

	if rest == "" {
		rest = DefaultDescription
	}
	return Input{Amount: amount, Description: rest}, nil
}

// FormatAmount renders an amount without trailing zeros.
func FormatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
