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

const documentTableName = "documents"

var documentTableColumns = []string{
	"id",
	"title",
	"description",
	"category",
	"file_name",
	"file_url",
	"file_size",
	"file_type",
	"created_at",
	"updated_at",
}

type DocumentRepository struct {
	pool *pgxpool.Pool
}

func NewDocumentRepository(pool *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{pool: pool}
}

func (r *DocumentRepository) Insert(ctx context.Context, doc *types.Document) error {
	query, args, err := psql().
		Insert(documentTableName).
		Columns(documentTableColumns...).
		Values(
			doc.ID,
			doc.Title,
			doc.Description,
			doc.Category,
			doc.FileName,
			doc.FileURL,
			doc.FileSize,
			doc.FileType,
			doc.CreatedAt,
			doc.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build document insert: %w", err)
	}

	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	return nil
}

func (r *DocumentRepository) FindAll(ctx context.Context, filter content.Filter) ([]*types.Document, error) {
	q := psql().
		Select(documentTableColumns...).
		From(documentTableName).
		OrderBy("created_at DESC")

	query, args, err := whereFilter(q, filter).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document select: %w", err)
	}

	var docs []*types.Document
	if err := pgxscan.Select(ctx, r.pool, &docs, query, args...); err != nil {
		return nil, fmt.Errorf("select documents: %w", err)
	}

	return docs, nil
}

func (r *DocumentRepository) FindOne(ctx context.Context, id string) (*types.Document, error) {
	query, args, err := psql().
		Select(documentTableColumns...).
		From(documentTableName).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document select: %w", err)
	}

	var doc types.Document
	if err := pgxscan.Get(ctx, r.pool, &doc, query, args...); err != nil {
		return nil, notFoundOr(err, "select document")
	}

	return &doc, nil
}

func (r *DocumentRepository) UpdateOne(ctx context.Context, id string, patch types.DocumentPatch) (*types.Document, error) {
	query, args, err := psql().
		Update(documentTableName).
		SetMap(utils.PatchToMap(patch, "db")).
		Set("updated_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(documentTableColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build document update: %w", err)
	}

	var doc types.Document
	if err := pgxscan.Get(ctx, r.pool, &doc, query, args...); err != nil {
		return nil, notFoundOr(err, "update document")
	}

	return &doc, nil
}

func (r *DocumentRepository) DeleteOne(ctx context.Context, id string) (bool, error) {
	return deleteByID(ctx, r.pool, documentTableName, id)
}
