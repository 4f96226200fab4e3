package storage

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	sq "github.com/Masterminds/squirrel"
	// postgres driver
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"max.ks1230/gastos-bot/internal/entity/expense"
	"max.ks1230/gastos-bot/internal/logger"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type config interface {
	Host() string
	Port() int
	Username() string
	Password() string
	Database() string
	SSLMode() string
}

// dataSourceName is a postgres:// URL with escaped credentials; both lib/pq
// and golang-migrate accept it.
func dataSourceName(config config) string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(config.Username(), config.Password()),
		Host:     fmt.Sprintf("%s:%d", config.Host(), config.Port()),
		Path:     "/" + config.Database(),
		RawQuery: url.Values{"sslmode": []string{config.SSLMode()}}.Encode(),
	}
	return u.String()
}

type PostgresStorage struct {
	db *sql.DB
}

func NewPostgresStorage(config config) (*PostgresStorage, error) {
	db, err := sql.Open("postgres", dataSourceName(config))
	if err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Wrap(err, "cannot connect to database")
	}
	return &PostgresStorage{db}, nil
}

func NewPostgresStorageWithDB(db *sql.DB) *PostgresStorage {
	return &PostgresStorage{db}
}

func (s *PostgresStorage) Close() {
	if err := s.db.Close(); err != nil {
		logger.Error("error closing database", zap.Error(err))
	}
}

// Write inserts the record once; a repeated ID is a no-op.
func (s *PostgresStorage) Write(ctx context.Context, rec expense.Record) error {
	query := psql.Insert("expenses").
		Columns("id", "user_id", "recorded_at", "expense_date", "amount", "category", "description").
		Values(rec.ID.String(), rec.UserID, rec.RecordedAt, rec.ExpenseDate.Format(expense.DateLayout),
			rec.Amount, rec.Category, rec.Description).
		Suffix("ON CONFLICT (id) DO NOTHING")

	_, err := query.RunWith(s.db).ExecContext(ctx)
	return errors.Wrap(err, "save expense")
}

func (s *PostgresStorage) GetUserExpenses(ctx context.Context, userID int64) ([]expense.Record, error) {
	query := psql.Select("id", "user_id", "recorded_at", "expense_date", "amount", "category", "description").
		From("expenses").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("recorded_at")

	rows, err := query.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "get expenses")
	}
	defer func() {
		if rowErr := rows.Close(); rowErr != nil {
			logger.Error("error closing rows", zap.Error(rowErr))
		}
	}()

	exps := make([]expense.Record, 0)
	for rows.Next() {
		var e expense.Record
		err = rows.Scan(&e.ID, &e.UserID, &e.RecordedAt, &e.ExpenseDate, &e.Amount, &e.Category, &e.Description)
		if err != nil {
			return nil, errors.Wrap(err, "get expenses")
		}
		exps = append(exps, e)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get expenses")
	}

	return exps, nil
}
