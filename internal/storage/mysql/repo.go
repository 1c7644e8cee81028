package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"hotelex_register/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// EnsureSchema creates the tables if absent. Idempotent; hotels must come
// first so the items FK resolves.
func (r *Repo) EnsureSchema(ctx context.Context) error {
	for _, stmt := range []string{createHotelsSQL, createItemsSQL, createUsersSQL} {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// InsertHotelWithItems writes the hotel row and its items in one transaction.
// Either every row lands or none do; the generated hotel id is returned.
func (r *Repo) InsertHotelWithItems(ctx context.Context, h domain.Hotel, items []domain.Item) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	res, err := tx.ExecContext(ctx, insertHotelSQL,
		h.Name,
		h.PhoneNumber,
		h.Whatsapp,
		h.HotelName,
		valStr(h.Description),
		valStr(h.Address),
	)
	if err != nil {
		return 0, fmt.Errorf("insert hotel: %w", err)
	}
	hotelID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("hotel id: %w", err)
	}

	for _, it := range items {
		if _, err := tx.ExecContext(ctx, insertItemSQL, hotelID, it.Name, valStr(it.Description)); err != nil {
			return 0, fmt.Errorf("insert item %q: %w", it.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return hotelID, nil
}

func (r *Repo) InsertUser(ctx context.Context, u domain.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, insertUserSQL, u.Name, u.Phone)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}
	return res.LastInsertId()
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.Hotel, error) {
	h, err := r.scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}

	rows, err := r.db.QueryContext(ctx, getItemsSQL, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var it domain.Item
		var desc sql.NullString
		if err := rows.Scan(&it.ID, &it.HotelID, &it.Name, &desc, &it.CreatedAt); err != nil {
			return domain.Hotel{}, err
		}
		if desc.Valid {
			d := desc.String
			it.Description = &d
		}
		h.Items = append(h.Items, it)
	}
	if err := rows.Err(); err != nil {
		return domain.Hotel{}, err
	}
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, limit int) ([]domain.Hotel, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := r.scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

type rowScanner interface{ Scan(dest ...any) error }

func (r *Repo) scanHotel(row rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var desc, addr sql.NullString
	if err := row.Scan(&h.ID, &h.Name, &h.PhoneNumber, &h.Whatsapp, &h.HotelName, &desc, &addr, &h.CreatedAt); err != nil {
		return domain.Hotel{}, err
	}
	if desc.Valid {
		d := desc.String
		h.Description = &d
	}
	if addr.Valid {
		a := addr.String
		h.Address = &a
	}
	return h, nil
}
