package base

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrNotFound запись не найдена
var ErrNotFound = errors.New("record not found")

// Repository общие методы репозиториев одной таблицы.
// Каждый запрос пишется в трейс отдельным спаном db.<table>.<op>.
type Repository struct {
	pool   *pgxpool.Pool
	table  string
	tracer trace.Tracer
}

// NewRepository создаёт базовый репозиторий для таблицы table
func NewRepository(pool *pgxpool.Pool, table string) *Repository {
	return &Repository{
		pool:   pool,
		table:  table,
		tracer: otel.Tracer("repository"),
	}
}

func (r *Repository) start(ctx context.Context, op string) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, "db."+r.table+"."+op,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", "postgresql"),
			attribute.String("db.sql.table", r.table),
			attribute.String("db.operation", op),
		),
	)
}

func finish(span trace.Span, err error) {
	if err != nil && !IsNotFound(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// tracedRow закрывает спан при Scan
type tracedRow struct {
	row  pgx.Row
	span trace.Span
}

func (t tracedRow) Scan(dest ...any) error {
	err := t.row.Scan(dest...)
	finish(t.span, err)
	return err
}

// QueryRow выполняет запрос, возвращающий одну строку
func (r *Repository) QueryRow(ctx context.Context, op, query string, args ...any) pgx.Row {
	ctx, span := r.start(ctx, op)
	return tracedRow{row: r.pool.QueryRow(ctx, query, args...), span: span}
}

// Exec выполняет команду и возвращает количество затронутых строк
func (r *Repository) Exec(ctx context.Context, op, query string, args ...any) (int64, error) {
	ctx, span := r.start(ctx, op)
	tag, err := r.pool.Exec(ctx, query, args...)
	finish(span, err)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ExecOne как Exec, но возвращает ErrNotFound если ни одна строка не изменилась
func (r *Repository) ExecOne(ctx context.Context, op, query string, args ...any) error {
	affected, err := r.Exec(ctx, op, query, args...)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Collect выполняет запрос и собирает все строки через scan
func Collect[T any](ctx context.Context, r *Repository, op, query string, scan pgx.RowToFunc[T], args ...any) ([]T, error) {
	ctx, span := r.start(ctx, op)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		finish(span, err)
		return nil, err
	}

	out, err := pgx.CollectRows(rows, scan)
	span.SetAttributes(attribute.Int("db.rows", len(out)))
	finish(span, err)
	return out, err
}

// IsNotFound проверяет является ли ошибка "строка не найдена"
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}
