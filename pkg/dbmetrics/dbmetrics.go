package dbmetrics

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/m04kA/SMC-ScheduleService/pkg/metrics"
)

// DBExecutor общий интерфейс для *sqlx.DB, *sqlx.Tx и *DB.
// Репозитории работают только через него.
type DBExecutor interface {
	sqlx.ExtContext
}

// TxExecutor активная транзакция
type TxExecutor interface {
	sqlx.ExtContext
	Commit() error
	Rollback() error
}

// TxBeginner умеет открывать транзакции (*sqlx.DB и *DB)
type TxBeginner interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

type txKey struct{}

// WithTx кладет транзакцию в контекст
func WithTx(ctx context.Context, tx TxExecutor) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetExecutor возвращает транзакцию из контекста, если она есть, иначе db
func GetExecutor(ctx context.Context, db DBExecutor) DBExecutor {
	if tx, ok := ctx.Value(txKey{}).(TxExecutor); ok && tx != nil {
		return tx
	}
	return db
}

// IsInTransaction проверяет, выполняется ли код внутри транзакции
func IsInTransaction(ctx context.Context) bool {
	tx, ok := ctx.Value(txKey{}).(TxExecutor)
	return ok && tx != nil
}

// DB обертка над *sqlx.DB, замеряющая длительность запросов
type DB struct {
	*sqlx.DB
	metrics *metrics.Metrics
}

// Wrap оборачивает соединение и регистрирует коллектор статистики пула
func Wrap(db *sqlx.DB, m *metrics.Metrics, dbName string) *DB {
	if m != nil {
		// Повторная регистрация (например, при переподключении) не критична
		_ = m.Register(collectors.NewDBStatsCollector(db.DB, dbName))
	}
	return &DB{DB: db, metrics: m}
}

func (d *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer d.observe("query", time.Now())
	return d.DB.QueryContext(ctx, query, args...)
}

func (d *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	defer d.observe("query", time.Now())
	return d.DB.QueryxContext(ctx, query, args...)
}

func (d *DB) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	defer d.observe("query_row", time.Now())
	return d.DB.QueryRowxContext(ctx, query, args...)
}

func (d *DB) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	defer d.observe("exec", time.Now())
	return d.DB.ExecContext(ctx, query, args...)
}

func (d *DB) observe(operation string, start time.Time) {
	d.metrics.ObserveDBQuery(operation, time.Since(start))
}
