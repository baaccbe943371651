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

	"github.com/sanosuguru/go-space-reservation/internal/domain/resource"
	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
)

type resourceRow struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Quantity    int       `db:"quantity"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r *resourceRow) toEntity() *resource.Resource {
	return &resource.Resource{
		ID: r.ID, Name: r.Name, Description: r.Description,
		Quantity: r.Quantity, Status: resource.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

type ResourceRepository struct{ db *sqlx.DB }

func NewResourceRepository(db *sqlx.DB) *ResourceRepository { return &ResourceRepository{db: db} }

func (r *ResourceRepository) Create(ctx context.Context, res *resource.Resource) error {
	query := `INSERT INTO resources (name, description, quantity, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, res.Name, res.Description, res.Quantity, string(res.Status), res.CreatedAt, res.UpdatedAt).Scan(&res.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return resource.ErrResourceNameTaken
		}
		return fmt.Errorf("リソース作成に失敗: %w", err)
	}
	return nil
}

func (r *ResourceRepository) GetByID(ctx context.Context, id int64) (*resource.Resource, error) {
	var row resourceRow
	query := `SELECT id, name, description, quantity, status, created_at, updated_at FROM resources WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrResourceNotFound
		}
		return nil, fmt.Errorf("リソース取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ResourceRepository) GetByName(ctx context.Context, name string) (*resource.Resource, error) {
	var row resourceRow
	query := `SELECT id, name, description, quantity, status, created_at, updated_at FROM resources WHERE name = $1`
	if err := r.db.GetContext(ctx, &row, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrResourceNotFound
		}
		return nil, fmt.Errorf("リソース取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ResourceRepository) List(ctx context.Context, f resource.Filter) ([]*resource.Resource, int, error) {
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
	if f.Status != "" {
		appendCond("status = ", string(f.Status))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM resources"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("リソース件数取得に失敗: %w", err)
	}

	query := "SELECT id, name, description, quantity, status, created_at, updated_at FROM resources" + where +
		" ORDER BY id LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	var rows []resourceRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("リソース一覧取得に失敗: %w", err)
	}
	resources := make([]*resource.Resource, len(rows))
	for i, row := range rows {
		resources[i] = row.toEntity()
	}
	return resources, total, nil
}

func (r *ResourceRepository) Update(ctx context.Context, res *resource.Resource) error {
	query := `UPDATE resources SET name = $1, description = $2, quantity = $3, status = $4, updated_at = $5 WHERE id = $6`
	result, err := r.db.ExecContext(ctx, query, res.Name, res.Description, res.Quantity, string(res.Status), res.UpdatedAt, res.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return resource.ErrResourceNameTaken
		}
		return fmt.Errorf("リソース更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return resource.ErrResourceNotFound
	}
	return nil
}

// DecrementQuantity は在庫を条件付きで減算する
// quantity >= 要求数 の行のみ更新されるため、読み取り後の競合で在庫が負になることはない
func (r *ResourceRepository) DecrementQuantity(ctx context.Context, tx transaction.Tx, id int64, quantity int) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE resources SET quantity = quantity - $2, updated_at = NOW() WHERE id = $1 AND status = 'ACTIVE' AND quantity >= $2`
	result, err := sqlxTx.ExecContext(ctx, query, id, quantity)
	if err != nil {
		return fmt.Errorf("在庫減算に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return resource.ErrInsufficientQuantity
	}
	return nil
}

var _ resource.Repository = (*ResourceRepository)(nil)
