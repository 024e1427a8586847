package postgres

import (
	"context"
	"fmt"

	"myblog/internal/model"
	"myblog/pkg/tableinfo"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
)

var userColumns = []string{
	tableinfo.UserIDColumn,
	tableinfo.UserNameColumn,
	tableinfo.UserEmailColumn,
	tableinfo.UserPasswordHashColumn,
	tableinfo.UserRoleColumn,
	tableinfo.UserCreatedAtColumn,
}

type UserStorage struct {
	db     trmpgx.Tr
	getter *trmpgx.CtxGetter
}

func NewUserStorage(db trmpgx.Tr, getter *trmpgx.CtxGetter) *UserStorage {
	return &UserStorage{
		db:     db,
		getter: getter,
	}
}

// CreateUser inserts the account as admin when the table is empty and as a
// member otherwise. Two concurrent first registrations race on the partial
// admin index; the loser is retried once and lands as a member.
func (s *UserStorage) CreateUser(ctx context.Context, in model.User) (model.User, error) {
	out, err := s.insertUser(ctx, in)
	if isSingleAdminViolation(err) {
		out, err = s.insertUser(ctx, in)
	}
	if err != nil {
		return model.User{}, mapError(err, "exec insert user")
	}
	return out, nil
}

func (s *UserStorage) insertUser(ctx context.Context, in model.User) (model.User, error) {
	roleExpr := sq.Expr(
		fmt.Sprintf("CASE WHEN EXISTS (SELECT 1 FROM %s) THEN ? ELSE ? END", tableinfo.UsersTableName),
		string(model.RoleMember), string(model.RoleAdmin),
	)

	query, args, err := sq.
		Insert(tableinfo.UsersTableName).
		Columns(
			tableinfo.UserNameColumn,
			tableinfo.UserEmailColumn,
			tableinfo.UserPasswordHashColumn,
			tableinfo.UserRoleColumn,
		).
		Values(in.Name, in.Email, in.PasswordHash, roleExpr).
		Suffix("RETURNING " + joinColumns(userColumns)).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	return scanUser(tr.QueryRow(ctx, query, args...))
}

func (s *UserStorage) GetUserByID(ctx context.Context, userID int64) (model.User, error) {
	return s.getUserBy(ctx, sq.Eq{tableinfo.UserIDColumn: userID})
}

func (s *UserStorage) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.getUserBy(ctx, sq.Eq{tableinfo.UserEmailColumn: email})
}

func (s *UserStorage) getUserBy(ctx context.Context, where sq.Eq) (model.User, error) {
	query, args, err := sq.
		Select(userColumns...).
		From(tableinfo.UsersTableName).
		Where(where).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return model.User{}, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	out, err := scanUser(tr.QueryRow(ctx, query, args...))
	if err != nil {
		return model.User{}, mapError(err, "exec select user")
	}
	return out, nil
}

func (s *UserStorage) GetUsersByIDs(ctx context.Context, userIDs []int64) ([]model.User, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	query, args, err := sq.
		Select(userColumns...).
		From(tableinfo.UsersTableName).
		Where(sq.Eq{tableinfo.UserIDColumn: userIDs}).
		OrderBy(tableinfo.UserIDColumn).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBuildingQuery, err)
	}

	tr := s.getter.DefaultTrOrDB(ctx, s.db)
	rows, err := tr.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("exec select users: %w", err)
	}
	defer rows.Close()

	out := make([]model.User, 0, len(userIDs))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return out, nil
}

func scanUser(row pgx.Row) (model.User, error) {
	var (
		u    model.User
		role string
	)
	if err := row.Scan(
		&u.ID,
		&u.Name,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.CreatedAt,
	); err != nil {
		return model.User{}, err
	}
	u.Role = model.Role(role)
	return u, nil
}
