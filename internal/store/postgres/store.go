// Package postgres implements the primary database store against Postgres,
// one repository per record kind.
package postgres

import (
	"context"
	"fmt"

	"selam/internal/content"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func whereFilter(q squirrel.SelectBuilder, filter content.Filter) squirrel.SelectBuilder {
	for column, value := range filter {
		q = q.Where(squirrel.Eq{column: value})
	}
	return q
}

func notFoundOr(err error, msg string) error {
	if pgxscan.NotFound(err) {
		return content.ErrNotFound
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func deleteByID(ctx context.Context, pool *pgxpool.Pool, table, id string) (bool, error) {
	query, args, err := psql().
		Delete(table).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build %s delete: %w", table, err)
	}

	tag, err := pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete from %s: %w", table, err)
	}

	return tag.RowsAffected() > 0, nil
}
