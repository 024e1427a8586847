package postgres

import (
	"context"
	"fmt"
	"strings"

	"myblog/internal/adapter/out/storage"
	"myblog/internal/model"
	"myblog/internal/service"
	"myblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var postColumns = []string{
	tableinfo.PostIDColumn,
	tableinfo.PostAuthorIDColumn,
	tableinfo.PostTitleColumn,
	tableinfo.PostSubtitleColumn,
	tableinfo.PostDateColumn,
	tableinfo.PostBodyColumn,
	tableinfo.PostImgURLColumn,
	tableinfo.PostCreatedAtColumn,
}

type PostStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewPostStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *PostStorage {
	return &PostStorage{
		db:     db,
		getter: getter,
	}
}

func (s *PostStorage) CreatePost(ctx context.Context, in model.Post) (model.Post, error) {
	query, args, err := sq.
		Insert(tableinfo.PostsTableName).
		Columns(
			tableinfo.PostAuthorIDColumn,
			tableinfo.PostTitleColumn,
			tableinfo.PostSubtitleColumn,
			tableinfo.PostDateColumn,
			tableinfo.PostBodyColumn,
			tableinfo.PostImgURLColumn,
		).
		Values(in.AuthorID, in.Title, in.Subtitle, in.Date, in.Body, in.ImgURL).
		Suffix("RETURNING " + joinColumns(postColumns)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Post{}, mapError(err, "exec insert post")
	}
	return out, nil
}

func (s *PostStorage) GetPostByID(ctx context.Context, postID int64) (model.Post, error) {
	query, args, err := sq.
		Select(postColumns...).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Post{}, mapError(err, "exec select post by id")
	}
	return out, nil
}

func (s *PostStorage) GetPosts(ctx context.Context) ([]model.Post, error) {
	query, args, err := sq.
		Select(postColumns...).
		From(tableinfo.PostsTableName).
		OrderBy(tableinfo.PostIDColumn + " ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec error selecting posts: %w", err)
	}
	defer rows.Close()

	var out []model.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return out, nil
}

// UpdatePost rewrites the editable fields. The date and creation time are
// never touched.
func (s *PostStorage) UpdatePost(ctx context.Context, postID int64, params storage.UpdatePostParams) (model.Post, error) {
	qb := sq.
		Update(tableinfo.PostsTableName).
		Set(tableinfo.PostTitleColumn, params.Title).
		Set(tableinfo.PostSubtitleColumn, params.Subtitle).
		Set(tableinfo.PostBodyColumn, params.Body).
		Set(tableinfo.PostImgURLColumn, params.ImgURL)
	if params.AuthorID != nil {
		qb = qb.Set(tableinfo.PostAuthorIDColumn, *params.AuthorID)
	}

	query, args, err := qb.
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix("RETURNING " + joinColumns(postColumns)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.Post{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanPost(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.Post{}, mapError(err, "exec update post")
	}
	return out, nil
}

func (s *PostStorage) DeletePost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Delete(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	tag, err := tr.Exec(ctx, query, args...)
	if err != nil {
		return mapError(err, "exec delete post")
	}
	if tag.RowsAffected() == 0 {
		return service.ErrNotFound
	}
	return nil
}

// LockPost holds a row lock on the post until the surrounding transaction
// ends. Comment inserts referencing the post wait for it.
func (s *PostStorage) LockPost(ctx context.Context, postID int64) error {
	query, args, err := sq.
		Select(tableinfo.PostIDColumn).
		From(tableinfo.PostsTableName).
		Where(sq.Eq{tableinfo.PostIDColumn: postID}).
		Suffix("FOR UPDATE").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	var id int64
	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	if err := tr.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return mapError(err, "lock post")
	}
	return nil
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	err := row.Scan(
		&p.ID,
		&p.AuthorID,
		&p.Title,
		&p.Subtitle,
		&p.Date,
		&p.Body,
		&p.ImgURL,
		&p.CreatedAt,
	)
	return p, err
}

func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
