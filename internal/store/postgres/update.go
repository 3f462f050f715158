package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"selam/internal/content"
	"selam/internal/utils"
	"selam/pkg/types"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgxpool"
)

const updateTableName = "updates"

var updateTableColumns = []string{
	"id",
	"title",
	"description",
	"media_type",
	"media_url",
	"created_at",
	"updated_at",
}

type UpdateRepository struct {
	pool *pgxpool.Pool
}

func NewUpdateRepository(pool *pgxpool.Pool) *UpdateRepository {
	return &UpdateRepository{pool: pool}
}

func (r *UpdateRepository) Insert(ctx context.Context, update *types.Update) error {
	query, args, err := psql().
		Insert(updateTableName).
		Columns(updateTableColumns...).
		Values(
			update.ID,
			update.Title,
			update.Description,
			update.MediaType,
			update.MediaURL,
			update.CreatedAt,
			update.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert update: %w", err)
	}

	return nil
}

func (r *UpdateRepository) FindAll(ctx context.Context, filter content.Filter) ([]*types.Update, error) {
	q := psql().
		Select(updateTableColumns...).
		From(updateTableName).
		OrderBy("created_at DESC")

	query, args, err := whereFilter(q, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update select: %w", err)
	}

	var updates []*types.Update
	if err := pgxscan.Select(ctx, r.pool, &updates, query, args...); err != nil {
		return nil, fmt.Errorf("select updates: %w", err)
	}

	return updates, nil
}

func (r *UpdateRepository) FindOne(ctx context.Context, id string) (*types.Update, error) {
	query, args, err := psql().
		Select(updateTableColumns...).
		From(updateTableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update select: %w", err)
	}

	var update types.Update
	if err := pgxscan.Get(ctx, r.pool, &update, query, args...); err != nil {
		return nil, notFoundOr(err, "select update")
	}

	return &update, nil
}

func (r *UpdateRepository) UpdateOne(ctx context.Context, id string, patch types.UpdatePatch) (*types.Update, error) {
	query, args, err := psql().
		Update(updateTableName).
		SetMap(utils.PatchToMap(patch, "db")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(updateTableColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update update: %w", err)
	}

	var update types.Update
	if err := pgxscan.Get(ctx, r.pool, &update, query, args...); err != nil {
		return nil, notFoundOr(err, "update update")
	}

	return &update, nil
}

func (r *UpdateRepository) DeleteOne(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.pool, updateTableName, id)
}
