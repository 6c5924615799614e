package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mmeshcher/storefront-system/internal/model"
)

const orderColumns = `id, user_id, total_cents, payment_method, status, payment_session_id,
	customer_name, customer_email, customer_phone, customer_address, customer_city,
	customer_postal_code, customer_notes, created_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var (
		o          model.Order
		sessionID  *string
		address    *string
		city       *string
		postalCode *string
	)
	err := row.Scan(&o.ID, &o.UserID, &o.TotalCents, &o.PaymentMethod, &o.Status, &sessionID,
		&o.Customer.FullName, &o.Customer.Email, &o.Customer.Phone, &address, &city,
		&postalCode, &o.Customer.Notes, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	if sessionID != nil {
		o.PaymentSessionID = *sessionID
	}
	if address != nil {
		o.Customer.Address = *address
	}
	if city != nil {
		o.Customer.City = *city
	}
	if postalCode != nil {
		o.Customer.PostalCode = *postalCode
	}
	return &o, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateOrder сохраняет заказ вместе с позициями и очищает корзину пользователя
// в одной транзакции, чтобы не оставлять систему в частично оформленном состоянии.
// Повторная платёжная сессия приводит к ErrSessionAlreadyProcessed.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o *model.Order) (*model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_cents, payment_method, status, payment_session_id,
		                     customer_name, customer_email, customer_phone, customer_address,
		                     customer_city, customer_postal_code, customer_notes)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		 RETURNING `+orderColumns,
		o.UserID, o.TotalCents, string(o.PaymentMethod), string(o.Status), nullable(o.PaymentSessionID),
		o.Customer.FullName, o.Customer.Email, o.Customer.Phone, nullable(o.Customer.Address),
		nullable(o.Customer.City), nullable(o.Customer.PostalCode), o.Customer.Notes,
	)

	created, err := scanOrder(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, fmt.Errorf("%w: %s", ErrSessionAlreadyProcessed, o.PaymentSessionID)
		}
		return nil, fmt.Errorf("insert order: %w", err)
	}

	for _, item := range o.Items {
		_, err := tx.Exec(ctx,
			`INSERT INTO order_items (order_id, product_id, product_name, quantity, price_cents)
			 VALUES ($1, $2, $3, $4, $5)`,
			created.ID, item.ProductID, item.ProductName, item.Quantity, item.PriceCents,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID)
	if err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	created.Items = o.Items
	return created, nil
}

func (r *PostgresRepository) loadOrderItems(ctx context.Context, orderIDs []int64) (map[int64][]model.OrderItem, error) {
	if len(orderIDs) == 0 {
		return map[int64][]model.OrderItem{}, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT order_id, product_id, product_name, quantity, price_cents
		 FROM order_items
		 WHERE order_id = ANY($1)`,
		orderIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("select order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]model.OrderItem, len(orderIDs))
	for rows.Next() {
		var orderID int64
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.ProductName, &item.Quantity, &item.PriceCents); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items[orderID] = append(items[orderID], item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

func (r *PostgresRepository) queryOrders(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	ids := make([]int64, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	items, err := r.loadOrderItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}

	return orders, nil
}

// GetAdminOrders возвращает страницу заказов для администратора, отсортированных
// от новых к старым, и общее количество заказов с учётом фильтра по статусу.
// Пустой статус или "all" отключает фильтрацию.
func (r *PostgresRepository) GetAdminOrders(ctx context.Context, status model.OrderStatus, limit, offset int) ([]model.Order, int64, error) {
	filter := status != "" && status != "all"

	var total int64
	var err error
	if filter {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, string(status)).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	var orders []model.Order
	if filter {
		orders, err = r.queryOrders(ctx,
			`SELECT `+orderColumns+` FROM orders WHERE status = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
			string(status), limit, offset)
	} else {
		orders, err = r.queryOrders(ctx,
			`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
			limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// GetOrdersByUser возвращает все заказы пользователя от новых к старым.
func (r *PostgresRepository) GetOrdersByUser(ctx context.Context, userID int64) ([]model.Order, error) {
	return r.queryOrders(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
}

// GetOrderByID возвращает заказ с позициями по идентификатору.
func (r *PostgresRepository) GetOrderByID(ctx context.Context, id int64) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.loadOrderItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

// GetOrderBySessionID возвращает заказ по идентификатору платёжной сессии.
func (r *PostgresRepository) GetOrderBySessionID(ctx context.Context, sessionID string) (*model.Order, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_session_id = $1`, sessionID)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.loadOrderItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

// UpdateOrderStatus переводит заказ из статуса from в статус to. Условие на
// текущий статус входит в сам UPDATE, поэтому конкурентное обновление не может
// выполнить переход из уже покинутого состояния.
func (r *PostgresRepository) UpdateOrderStatus(ctx context.Context, id int64, from, to model.OrderStatus) (*model.Order, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE orders SET status = $3 WHERE id = $1 AND status = $2 RETURNING `+orderColumns,
		id, string(from), string(to),
	)
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}

	items, err := r.loadOrderItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]

	return o, nil
}

// GetAnalyticsSummary возвращает сводные показатели: количество пользователей,
// товаров, заказов и суммарную выручку по всем заказам.
func (r *PostgresRepository) GetAnalyticsSummary(ctx context.Context) (*model.AnalyticsSummary, error) {
	var s model.AnalyticsSummary

	err := r.withRetry(ctx, func() error {
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&s.Users); err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&s.Products); err != nil {
			return fmt.Errorf("count products: %w", err)
		}
		if err := r.pool.QueryRow(ctx,
			`SELECT COUNT(*), COALESCE(SUM(total_cents), 0) FROM orders`,
		).Scan(&s.Sales, &s.RevenueCents); err != nil {
			return fmt.Errorf("sum orders: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &s, nil
}

// GetDailySales возвращает продажи и выручку по дням за указанный период.
// Дни без заказов отсутствуют в выборке и дозаполняются нулями на уровне сервиса.
func (r *PostgresRepository) GetDailySales(ctx context.Context, start, end time.Time) ([]model.SalesPoint, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT date_trunc('day', created_at) AS day, COUNT(*), COALESCE(SUM(total_cents), 0)
		 FROM orders
		 WHERE created_at >= $1 AND created_at < $2
		 GROUP BY day
		 ORDER BY day`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("select daily sales: %w", err)
	}
	defer rows.Close()

	var points []model.SalesPoint
	for rows.Next() {
		var p model.SalesPoint
		if err := rows.Scan(&p.Date, &p.Sales, &p.RevenueCents); err != nil {
			return nil, fmt.Errorf("scan sales point: %w", err)
		}
		points = append(points, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return points, nil
}
