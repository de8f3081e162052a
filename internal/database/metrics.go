package database

import (
	"errors"
	"time"

	"socialnet/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	queryStartKey = "metrics:query_start"
	querySpanKey  = "tracing:query_span"
)

// registerQueryMetrics wraps GORM's CRUD callbacks to record query latency per
// table and a span per statement.
func registerQueryMetrics(db *gorm.DB) error {
	start := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			tx.InstanceSet(queryStartKey, time.Now())
			_, span := observability.StartSpan(tx.Statement.Context, "db."+operation,
				attribute.String("db.system", tx.Dialector.Name()),
				attribute.String("db.operation", operation),
			)
			tx.InstanceSet(querySpanKey, span)
		}
	}
	finish := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			if v, ok := tx.InstanceGet(queryStartKey); ok {
				if began, ok := v.(time.Time); ok {
					observability.ObserveQuery(operation, tx.Statement.Table, began)
				}
			}
			if v, ok := tx.InstanceGet(querySpanKey); ok {
				if span, ok := v.(trace.Span); ok {
					span.SetAttributes(
						attribute.String("db.table", tx.Statement.Table),
						attribute.Int64("db.rows_affected", tx.RowsAffected),
					)
					err := tx.Error
					if errors.Is(err, gorm.ErrRecordNotFound) {
						err = nil
					}
					observability.EndSpan(span, err)
				}
			}
		}
	}

	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("metrics:before_create", start("create")),
		cb.Create().After("gorm:create").Register("metrics:after_create", finish("create")),
		cb.Query().Before("gorm:query").Register("metrics:before_query", start("query")),
		cb.Query().After("gorm:query").Register("metrics:after_query", finish("query")),
		cb.Update().Before("gorm:update").Register("metrics:before_update", start("update")),
		cb.Update().After("gorm:update").Register("metrics:after_update", finish("update")),
		cb.Delete().Before("gorm:delete").Register("metrics:before_delete", start("delete")),
		cb.Delete().After("gorm:delete").Register("metrics:after_delete", finish("delete")),
	)
}
