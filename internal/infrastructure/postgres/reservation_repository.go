package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-space-reservation/internal/domain/reservation"
	"github.com/sanosuguru/go-space-reservation/internal/domain/transaction"
)

type reservationRow struct {
	ID        int64     `db:"id"`
	SpaceID   int64     `db:"space_id"`
	ClientID  int64     `db:"client_id"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type reservationViewRow struct {
	reservationRow
	ClientName  string `db:"client_name"`
	ClientCPF   string `db:"client_cpf"`
	ClientEmail string `db:"client_email"`
	ClientPhone string `db:"client_phone"`
	SpaceName   string `db:"space_name"`
}

type lineRow struct {
	ResourceID int64  `db:"resource_id"`
	Resource   string `db:"resource_name"`
	Quantity   int    `db:"quantity"`
}

const reservationColumns = `id, space_id, client_id, start_date, end_date, status, created_at, updated_at`

const reservationViewSelect = `
	SELECT r.id, r.space_id, r.client_id, r.start_date, r.end_date, r.status, r.created_at, r.updated_at,
	       c.name AS client_name, c.cpf AS client_cpf, c.email AS client_email, c.phone AS client_phone,
	       s.name AS space_name
	FROM reservations r
	JOIN clients c ON c.id = r.client_id
	JOIN spaces s ON s.id = r.space_id`

type ReservationRepository struct{ db *sqlx.DB }

func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// Create は予約本体とリソース行を同一トランザクション内で挿入する
func (r *ReservationRepository) Create(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `INSERT INTO reservations (space_id, client_id, start_date, end_date, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := sqlxTx.QueryRowContext(ctx, query, res.SpaceID, res.ClientID, res.StartDate, res.EndDate, string(res.Status), res.CreatedAt, res.UpdatedAt).Scan(&res.ID); err != nil {
		return fmt.Errorf("予約作成に失敗: %w", err)
	}
	for _, line := range res.Resources {
		if _, err := sqlxTx.ExecContext(ctx, `INSERT INTO reservation_resources (reservation_id, resource_id, quantity) VALUES ($1, $2, $3)`, res.ID, line.ResourceID, line.Quantity); err != nil {
			return fmt.Errorf("予約リソース関連付けに失敗: %w", err)
		}
	}
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*reservation.Reservation, error) {
	var row reservationRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	lines, err := r.getLines(ctx, id)
	if err != nil {
		return nil, err
	}
	return row.toEntity(lines), nil
}

func (r *ReservationRepository) GetView(ctx context.Context, id int64) (*reservation.View, error) {
	var row reservationViewRow
	if err := r.db.GetContext(ctx, &row, reservationViewSelect+` WHERE r.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservation.ErrReservationNotFound
		}
		return nil, fmt.Errorf("予約取得に失敗: %w", err)
	}
	return r.toView(ctx, &row)
}

func (r *ReservationRepository) List(ctx context.Context, f reservation.Filter) ([]*reservation.View, int, error) {
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

	if f.Status != "" {
		appendCond("r.status = ", string(f.Status))
	}
	if f.ClientName != "" {
		appendCond("c.name ILIKE ", "%"+f.ClientName+"%")
	}
	if f.ClientCPF != "" {
		appendCond("c.cpf = ", f.ClientCPF)
	}
	if f.ClientPhone != "" {
		appendCond("c.phone ILIKE ", "%"+f.ClientPhone+"%")
	}
	if f.SpaceName != "" {
		appendCond("s.name ILIKE ", "%"+f.SpaceName+"%")
	}

	countQuery := `SELECT COUNT(*) FROM reservations r JOIN clients c ON c.id = r.client_id JOIN spaces s ON s.id = r.space_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("予約件数取得に失敗: %w", err)
	}

	query := reservationViewSelect + where +
		" ORDER BY r.created_at DESC LIMIT $" + strconv.Itoa(n+1) + " OFFSET $" + strconv.Itoa(n+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	var rows []reservationViewRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("予約一覧取得に失敗: %w", err)
	}
	views := make([]*reservation.View, len(rows))
	for i := range rows {
		view, err := r.toView(ctx, &rows[i])
		if err != nil {
			return nil, 0, err
		}
		views[i] = view
	}
	return views, total, nil
}

func (r *ReservationRepository) Update(ctx context.Context, tx transaction.Tx, res *reservation.Reservation) error {
	sqlxTx := UnwrapTx(tx)
	if sqlxTx == nil {
		return fmt.Errorf("トランザクションが不正です")
	}
	query := `UPDATE reservations SET status = $1, start_date = $2, end_date = $3, updated_at = $4 WHERE id = $5`
	result, err := sqlxTx.ExecContext(ctx, query, string(res.Status), res.StartDate, res.EndDate, res.UpdatedAt, res.ID)
	if err != nil {
		return fmt.Errorf("予約更新に失敗: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return reservation.ErrReservationNotFound
	}
	return nil
}

// CountOverlapping は半開区間 [startDate, endDate) で重複するCANCELED以外の予約数を数える
// 境界が接するだけの予約（終了時刻 = 開始時刻）は重複とみなさない
func (r *ReservationRepository) CountOverlapping(ctx context.Context, tx transaction.Tx, spaceID int64, startDate, endDate time.Time, excludeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM reservations WHERE space_id = $1 AND status <> 'CANCELED' AND start_date < $3 AND end_date > $2 AND ($4 = 0 OR id <> $4)`
	var count int
	var err error
	if sqlxTx := UnwrapTx(tx); sqlxTx != nil {
		err = sqlxTx.GetContext(ctx, &count, query, spaceID, startDate, endDate, excludeID)
	} else {
		err = r.db.GetContext(ctx, &count, query, spaceID, startDate, endDate, excludeID)
	}
	if err != nil {
		return 0, fmt.Errorf("重複予約の検索に失敗: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) GetApprovedEndedBefore(ctx context.Context, t time.Time) ([]*reservation.Reservation, error) {
	var rows []reservationRow
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = 'APPROVED' AND end_date < $1`
	if err := r.db.SelectContext(ctx, &rows, query, t); err != nil {
		return nil, fmt.Errorf("終了済み予約の取得に失敗: %w", err)
	}
	result := make([]*reservation.Reservation, len(rows))
	for i, row := range rows {
		lines, err := r.getLines(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		result[i] = row.toEntity(lines)
	}
	return result, nil
}

func (r *ReservationRepository) CountActiveBySpace(ctx context.Context, spaceID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE space_id = $1 AND status <> 'CANCELED'`, spaceID)
	if err != nil {
		return 0, fmt.Errorf("予約件数取得に失敗: %w", err)
	}
	return count, nil
}

func (r *ReservationRepository) getLineRows(ctx context.Context, reservationID int64) ([]lineRow, error) {
	var rows []lineRow
	query := `SELECT rr.resource_id, res.name AS resource_name, rr.quantity FROM reservation_resources rr JOIN resources res ON res.id = rr.resource_id WHERE rr.reservation_id = $1 ORDER BY rr.resource_id`
	if err := r.db.SelectContext(ctx, &rows, query, reservationID); err != nil {
		return nil, fmt.Errorf("予約リソース取得に失敗: %w", err)
	}
	return rows, nil
}

func (r *ReservationRepository) getLines(ctx context.Context, reservationID int64) ([]reservation.ResourceLine, error) {
	rows, err := r.getLineRows(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	lines := make([]reservation.ResourceLine, len(rows))
	for i, row := range rows {
		lines[i] = reservation.ResourceLine{ResourceID: row.ResourceID, Quantity: row.Quantity}
	}
	return lines, nil
}

func (row *reservationRow) toEntity(lines []reservation.ResourceLine) *reservation.Reservation {
	return &reservation.Reservation{
		ID: row.ID, SpaceID: row.SpaceID, ClientID: row.ClientID,
		StartDate: row.StartDate, EndDate: row.EndDate,
		Status:    reservation.Status(row.Status),
		Resources: lines,
		CreatedAt: row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}
}

func (r *ReservationRepository) toView(ctx context.Context, row *reservationViewRow) (*reservation.View, error) {
	lineRows, err := r.getLineRows(ctx, row.ID)
	if err != nil {
		return nil, err
	}
	lines := make([]reservation.ResourceLine, len(lineRows))
	lineViews := make([]reservation.LineView, len(lineRows))
	for i, lr := range lineRows {
		lines[i] = reservation.ResourceLine{ResourceID: lr.ResourceID, Quantity: lr.Quantity}
		lineViews[i] = reservation.LineView{Resource: lr.Resource, Quantity: lr.Quantity}
	}
	return &reservation.View{
		Reservation: *row.reservationRow.toEntity(lines),
		ClientName:  row.ClientName,
		ClientCPF:   row.ClientCPF,
		ClientEmail: row.ClientEmail,
		ClientPhone: row.ClientPhone,
		SpaceName:   row.SpaceName,
		Lines:       lineViews,
	}, nil
}

var _ reservation.Repository = (*ReservationRepository)(nil)
