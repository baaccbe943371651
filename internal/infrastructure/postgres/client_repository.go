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

	"github.com/sanosuguru/go-space-reservation/internal/domain/client"
)

type clientRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CPF       string    `db:"cpf"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	BirthDate time.Time `db:"birth_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r *clientRow) toEntity() *client.Client {
	return &client.Client{
		ID: r.ID, Name: r.Name, CPF: r.CPF, Email: r.Email, Phone: r.Phone,
		BirthDate: r.BirthDate, Status: client.Status(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

const clientColumns = `id, name, cpf, email, phone, birth_date, status, created_at, updated_at`

type ClientRepository struct{ db *sqlx.DB }

func NewClientRepository(db *sqlx.DB) *ClientRepository { return &ClientRepository{db: db} }

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	query := `INSERT INTO clients (name, cpf, email, phone, birth_date, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, c.Name, c.CPF, c.Email, c.Phone, c.BirthDate, string(c.Status), c.CreatedAt, c.UpdatedAt).Scan(&c.ID); err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return client.ErrClientAlreadyExists
		}
		return fmt.Errorf("クライアント作成に失敗: %w", err)
	}
	return nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id int64) (*client.Client, error) {
	var row clientRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("クライアント取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ClientRepository) GetByCPFOrEmail(ctx context.Context, cpf, email string) (*client.Client, error) {
	var row clientRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+clientColumns+` FROM clients WHERE cpf = $1 OR email = $2`, cpf, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, client.ErrClientNotFound
		}
		return nil, fmt.Errorf("クライアント取得に失敗: %w", err)
	}
	return row.toEntity(), nil
}

func (r *ClientRepository) List(ctx context.Context, f client.Filter) ([]*client.Client, int, error) {
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
	if f.CPF != "" {
		appendCond("cpf = ", f.CPF)
	}
	if f.Email != "" {
		appendCond("email = ", f.Email)
	}
	if f.Status != "" {
		appendCond("status = ", string(f.Status))
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM clients"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("クライアント件数取得に失敗: %w", err)
	}

	query := "SELECT " + clientColumns + " FROM clients" + where +
		" ORDER BY id LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	var rows []clientRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("クライアント一覧取得に失敗: %w", err)
	}
	clients := make([]*client.Client, len(rows))
	for i, row := range rows {
		clients[i] = row.toEntity()
	}
	return clients, total, nil
}

func (r *ClientRepository) Update(ctx context.Context, c *client.Client) error {
	query := `UPDATE clients SET name = $1, cpf = $2, email = $3, phone = $4, birth_date = $5, status = $6, updated_at = $7 WHERE id = $8`
	result, err := r.db.ExecContext(ctx, query, c.Name, c.CPF, c.Email, c.Phone, c.BirthDate, string(c.Status), c.UpdatedAt, c.ID)
	if err != nil {
		if pgErr, ok := err.(*pq.Error); ok && pgErr.Code == "23505" {
			return client.ErrClientAlreadyExists
		}
		return fmt.Errorf("クライアント更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return client.ErrClientNotFound
	}
	return nil
}

var _ client.Repository = (*ClientRepository)(nil)
