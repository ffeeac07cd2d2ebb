// Package user implements the user directory repository using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/proposalflow-backend/internal/adapter/postgres"
	"github.com/heartmarshall/proposalflow-backend/internal/domain"
)

var userColumns = []string{"id", "name", "role", "created_at"}

// Repo provides user directory persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new user repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

// GetByID returns a user by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query, args, err := postgres.Builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select user: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
		}
		return nil, postgres.MapError(err, "user", id)
	}

	u := row.toDomain()
	return &u, nil
}

// GetByIDs returns the users that exist among ids, in no particular order.
// Missing ids are silently skipped; callers compare lengths.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	if len(ids) == 0 {
		return []domain.User{}, nil
	}

	query, args, err := postgres.Builder.
		Select(userColumns...).
		From("users").
		Where(squirrel.Expr("id = ANY(?)", ids)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select users: %w", err)
	}

	return r.selectUsers(ctx, query, args)
}

// Search returns users whose name contains query, case-insensitively,
// ordered by name. An empty query lists everyone.
func (r *Repo) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	builder := postgres.Builder.
		Select(userColumns...).
		From("users").
		OrderBy("name", "id")

	if q := strings.TrimSpace(query); q != "" {
		builder = builder.Where(squirrel.ILike{"name": "%" + escapeLike(q) + "%"})
	}
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	sql, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search users: %w", err)
	}

	return r.selectUsers(ctx, sql, args)
}

// Upsert inserts u or refreshes the name and role of an existing user.
func (r *Repo) Upsert(ctx context.Context, u domain.User) (*domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	query, args, err := postgres.Builder.
		Insert("users").
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Role.String(), u.CreatedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role RETURNING " +
			strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert user: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "user", u.ID)
	}

	saved := row.toDomain()
	return &saved, nil
}

func (r *Repo) selectUsers(ctx context.Context, query string, args []any) ([]domain.User, error) {
	var rows []userRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = row.toDomain()
	}
	return users, nil
}

type userRow struct {
	ID        uuid.UUID `db:"id"`
	Name      string    `db:"name"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

func (row userRow) toDomain() domain.User {
	return domain.User{
		ID:        row.ID,
		Name:      row.Name,
		Role:      domain.UserRole(row.Role),
		CreatedAt: row.CreatedAt,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
