package kafka

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"max.ks1230/gastos-bot/internal/entity/expense"
)

// EncodeExpense serializes an ExpenseRecorded event. User ids travel as
// strings so they survive the float64 number type of structpb.
func EncodeExpense(rec expense.Record) ([]byte, error) {
	st, err := structpb.NewStruct(map[string]interface{}{
		"id":           rec.ID.String(),
		"user_id":      strconv.FormatInt(rec.UserID, 10),
		"recorded_at":  rec.RecordedAt.Format(time.RFC3339Nano),
		"expense_date": rec.ExpenseDate.Format(expense.DateLayout),
		"amount":       rec.Amount,
		"category":     rec.Category,
		"description":  rec.Description,
	})
	if err != nil {
		return nil, errors.Wrap(err, "build event")
	}
	return proto.Marshal(st)
}

func DecodeExpense(raw []byte) (expense.Record, error) {
	var st structpb.Struct
	if err := proto.Unmarshal(raw, &st); err != nil {
		return expense.Record{}, errors.Wrap(err, "unmarshal event")
	}
	f := st.GetFields()

	id, err := uuid.Parse(f["id"].GetStringValue())
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "event id")
	}
	userID, err := strconv.ParseInt(f["user_id"].GetStringValue(), 10, 64)
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "event user id")
	}
	recordedAt, err := time.Parse(time.RFC3339Nano, f["recorded_at"].GetStringValue())
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "event recorded_at")
	}
	expenseDate, err := time.Parse(expense.DateLayout, f["expense_date"].GetStringValue())
	if err != nil {
		return expense.Record{}, errors.Wrap(err, "event expense_date")
	}

	return expense.Record{
		ID:          id,
		UserID:      userID,
		RecordedAt:  recordedAt,
		ExpenseDate: expenseDate,
		Amount:      f["amount"].GetNumberValue(),
		Category:    f["category"].GetStringValue(),
		Description: f["description"].GetStringValue(),
	}, nil
}
