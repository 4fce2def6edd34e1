package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zekrotja/hermans/internal/model"
)

const pgForeignKeyViolation = "23503"

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) CreateList(ctx context.Context, list *model.OrderList) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO order_lists(id, created_at, deadline) VALUES ($1, $2, $3)`,
		list.ID, list.Created, list.Deadline)
	return err
}

func (r *Repo) GetList(ctx context.Context, id string) (*model.OrderList, error) {
	var list model.OrderList
	err := r.DB.QueryRow(ctx,
		`SELECT id, created_at, deadline FROM order_lists WHERE id=$1`, id).
		Scan(&list.ID, &list.Created, &list.Deadline)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// DeleteList removes the list; its orders go with it (ON DELETE CASCADE).
func (r *Repo) DeleteList(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM order_lists WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateOrder(ctx context.Context, listID string, o *model.Order) error {
	name, size := drinkColumns(o.Drink)
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, list_id, created_at, creator, store_item_id, variants, dips, drink_name, drink_size, edit_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		o.ID, listID, o.Created, o.Creator, o.StoreItem.ID,
		nonNil(o.StoreItem.Variants), nonNil(o.StoreItem.Dips), name, size, o.EditKey)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		return ErrNotFound
	}
	return err
}

const selectOrder = `
	SELECT id, created_at, creator, store_item_id, variants, dips, drink_name, drink_size, edit_key
	FROM orders`

func (r *Repo) GetOrders(ctx context.Context, listID string) ([]*model.Order, error) {
	rows, err := r.DB.Query(ctx, selectOrder+` WHERE list_id=$1 ORDER BY created_at, id`, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) GetOrder(ctx context.Context, listID, orderID string) (*model.Order, error) {
	o, err := scanOrder(r.DB.QueryRow(ctx, selectOrder+` WHERE list_id=$1 AND id=$2`, listID, orderID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return o, err
}

func (r *Repo) UpdateOrder(ctx context.Context, listID string, o *model.Order) error {
	name, size := drinkColumns(o.Drink)
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET creator=$3, store_item_id=$4, variants=$5, dips=$6, drink_name=$7, drink_size=$8
		WHERE list_id=$1 AND id=$2`,
		listID, o.ID, o.Creator, o.StoreItem.ID,
		nonNil(o.StoreItem.Variants), nonNil(o.StoreItem.Dips), name, size)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) DeleteOrder(ctx context.Context, listID, orderID string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE list_id=$1 AND id=$2`, listID, orderID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repo) CreateFeedback(ctx context.Context, f *model.Feedback) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO feedback(id, created_at, type, message, page) VALUES ($1, $2, $3, $4, $5)`,
		f.ID, f.Timestamp, f.Type, f.Message, f.Page)
	return err
}

func (r *Repo) ListFeedback(ctx context.Context) ([]*model.Feedback, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, created_at, type, message, page FROM feedback ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Feedback
	for rows.Next() {
		var f model.Feedback
		if err := rows.Scan(&f.ID, &f.Timestamp, &f.Type, &f.Message, &f.Page); err != nil {
			return nil, err
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o         model.Order
		item      model.StoreItem
		drinkName *string
		drinkSize *int16
	)
	err := row.Scan(&o.ID, &o.Created, &o.Creator, &item.ID, &item.Variants, &item.Dips,
		&drinkName, &drinkSize, &o.EditKey)
	if err != nil {
		return nil, err
	}
	if len(item.Variants) == 0 {
		item.Variants = nil
	}
	if len(item.Dips) == 0 {
		item.Dips = nil
	}
	o.StoreItem = &item
	if drinkName != nil {
		o.Drink = &model.Drink{Name: *drinkName}
		if drinkSize != nil {
			o.Drink.Size = model.DrinkSize(*drinkSize)
		}
	}
	return &o, nil
}

func drinkColumns(d *model.Drink) (*string, *int16) {
	if d == nil {
		return nil, nil
	}
	size := int16(d.Size)
	return &d.Name, &size
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
