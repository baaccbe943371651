package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sanosuguru/go-space-reservation/internal/domain/space"
)

type spaceRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Capacity    int       `db:"capacity"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *spaceRow) toEntity() *space.Space {
	return &space.Space{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Capacity: r.Capacity, Status: space.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type SpaceRepository struct{ db *sqlx.DB }

func NewSpaceRepository(db *sqlx.DB) *SpaceRepository { return &SpaceRepository{db: db} }

func (r *SpaceRepository) Create(ctx context.Context, s *space.Space) error {
	query := `INSERT INTO spaces (name, description, capacity, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.Name, s.Description, s.Capacity, string(s.Status), s.CreatedAt, s.UpdatedAt).Scan(&s.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return space.ErrSpaceNameTaken
		}
		return fmt.Errorf("スペース作成に失敗: %w", err)
	}
	return nil
}

func (r *SpaceRepository) GetByID(ctx context.Context, id int64) (*space.Space, error) {
	var row spaceRow
	query := `SELECT id, name, description, capacity, status, created_at, updated_at FROM spaces WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, space.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("スペース取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SpaceRepository) GetByName(ctx context.Context, name string) (*space.Space, error) {
	var row spaceRow
	query := `SELECT id, name, description, capacity, status, created_at, updated_at FROM spaces WHERE name = $1`
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, space.ErrSpaceNotFound
		}
		return nil, fmt.Errorf("スペース取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *SpaceRepository) List(ctx context.Context, f space.Filter) ([]*space.Space, int, error) {
	where := ""
	args := []interface{}{}
	n := 0
	appendCond := func(cond string, arg interface{}) {
		n++
		if where == "" {
			where = " WHERE "
		} else {
			where += " AND "
		}
		where += cond + "$" + strconv.Itoa(n)
		args = append(args, arg)
	}

	if f.Name != "" {
		appendCond("name ILIKE ", "%"+f.Name+"%")
	}
	if f.Capacity > 0 {
		appendCond("capacity >= ", f.Capacity)
	}
	if f.Status != "" {
		appendCond("status = ", string(f.Status))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM spaces"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("スペース件数取得に失敗: %w", err)
	}

	query := "SELECT id, name, description, capacity, status, created_at, updated_at FROM spaces" + where +
		" ORDER BY id LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	var rows []spaceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("スペース一覧取得に失敗: %w", err)
	}
	spaces := make([]*space.Space, len(rows))
	for i, row := range rows {
		spaces[i] = row.toEntity()
	}
	return spaces, total, nil
}

func (r *SpaceRepository) Update(ctx context.Context, s *space.Space) error {
	query := `UPDATE spaces SET name = $1, description = $2, capacity = $3, status = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, s.Name, s.Description, s.Capacity, string(s.Status), s.UpdatedAt, s.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return space.ErrSpaceNameTaken
		}
		return fmt.Errorf("スペース更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return space.ErrSpaceNotFound
	}
	return nil
}

var _ space.Repository = (*SpaceRepository)(nil)
