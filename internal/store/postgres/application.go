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

const applicationTableName = "applications"

var applicationTableColumns = []string{
	"id",
	"name",
	"email",
	"phone",
	"type",
	"interest",
	"skills",
	"organization",
	"partnership_type",
	"story_type",
	"message",
	"status",
	"created_at",
	"updated_at",
}

type ApplicationRepository struct {
	pool *pgxpool.Pool
}

func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{pool: pool}
}

func (r *ApplicationRepository) Insert(ctx context.Context, app *types.Application) error {
	query, args, err := psql().
		Insert(applicationTableName).
		Columns(applicationTableColumns...).
		Values(
			app.ID,
			app.Name,
			app.Email,
			app.Phone,
			app.Type,
			app.Interest,
			app.Skills,
			app.Organization,
			app.PartnershipType,
			app.StoryType,
			app.Message,
			app.Status,
			app.CreatedAt,
			app.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build application insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert application: %w", err)
	}

	return nil
}

func (r *ApplicationRepository) FindAll(ctx context.Context, filter content.Filter) ([]*types.Application, error) {
	q := psql().
		Select(applicationTableColumns...).
		From(applicationTableName).
		OrderBy("created_at DESC")

	query, args, err := whereFilter(q, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application select: %w", err)
	}

	var apps []*types.Application
	if err := pgxscan.Select(ctx, r.pool, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("select applications: %w", err)
	}

	return apps, nil
}

func (r *ApplicationRepository) FindOne(ctx context.Context, id string) (*types.Application, error) {
	query, args, err := psql().
		Select(applicationTableColumns...).
		From(applicationTableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application select: %w", err)
	}

	var app types.Application
	if err := pgxscan.Get(ctx, r.pool, &app, query, args...); err != nil {
		return nil, notFoundOr(err, "select application")
	}

	return &app, nil
}

func (r *ApplicationRepository) UpdateOne(ctx context.Context, id string, patch types.ApplicationPatch) (*types.Application, error) {
	query, args, err := psql().
		Update(applicationTableName).
		SetMap(utils.PatchToMap(patch, "db")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(applicationTableColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build application update: %w", err)
	}

	var app types.Application
	if err := pgxscan.Get(ctx, r.pool, &app, query, args...); err != nil {
		return nil, notFoundOr(err, "update application")
	}

	return &app, nil
}

func (r *ApplicationRepository) DeleteOne(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.pool, applicationTableName, id)
}
