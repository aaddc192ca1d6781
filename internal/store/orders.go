package store

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

var (
	taxRate               = decimal.RequireFromString("0.10")
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingFee       = decimal.NewFromInt(10)
)

type OrderTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// ComputeOrderTotals applies the flat pricing rules: free shipping
// above 100, otherwise a flat 10, plus 10% tax on the subtotal.
func ComputeOrderTotals(subtotal decimal.Decimal) OrderTotals {
	shipping := flatShippingFee
	if subtotal.GreaterThan(freeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(taxRate)

	return OrderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping),
	}
}

const orderNumberPrefix = "ORD-"

// NextOrderNumber produces the day's next ORD-YYYYMMDD-NNNN value by
// reading the highest number issued today. The sequence resets each
// day; the first order of a day is 0001. Past 9999 the suffix simply
// grows a digit, so the latest-row lookup sorts by length before
// value and the parse takes the whole suffix. Two transactions that
// read the same latest number conflict at serializable isolation and
// one retries; the UNIQUE constraint on order_number is the backstop.
func NextOrderNumber(ctx context.Context, tx *sql.Tx, now time.Time) (string, error) {
	prefix := orderNumberPrefix + now.Format("20060102") + "-"

	var latest string
	err := tx.QueryRowContext(ctx,
		`SELECT order_number
		 FROM orders
		 WHERE order_number LIKE $1
		 ORDER BY length(order_number) DESC, order_number DESC
		 LIMIT 1
		 FOR UPDATE`,
		prefix+"%").Scan(&latest)
	if err == sql.ErrNoRows {
		return prefix + "0001", nil
	}
	if err != nil {
		return "", fmt.Errorf("read latest order number: %w", err)
	}

	seq, err := strconv.Atoi(latest[len(prefix):])
	if err != nil {
		return "", fmt.Errorf("parse order number %q: %w", latest, err)
	}

	return fmt.Sprintf("%s%04d", prefix, seq+1), nil
}

const orderColumns = `id, user_id, order_number, status, total_amount, tax_amount, shipping_amount,
		payment_method, payment_status,
		shipping_name, shipping_address_line1, shipping_address_line2, shipping_city,
		shipping_state, shipping_postal_code, shipping_country, shipping_phone,
		notes, created_at, updated_at, version`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	order := &models.Order{}
	var addressLine2, notes sql.NullString
	err := row.Scan(
		&order.ID,
		&order.UserID,
		&order.OrderNumber,
		&order.Status,
		&order.TotalAmount,
		&order.TaxAmount,
		&order.ShippingAmount,
		&order.PaymentMethod,
		&order.PaymentStatus,
		&order.Shipping.Name,
		&order.Shipping.AddressLine1,
		&addressLine2,
		&order.Shipping.City,
		&order.Shipping.State,
		&order.Shipping.PostalCode,
		&order.Shipping.Country,
		&order.Shipping.Phone,
		&notes,
		&order.CreatedAt,
		&order.UpdatedAt,
		&order.Version,
	)
	if err != nil {
		return nil, err
	}
	order.Shipping.AddressLine2 = addressLine2.String
	order.Notes = notes.String
	return order, nil
}

type PlaceOrderRequest struct {
	UserID        int64
	Shipping      models.ShippingInfo
	PaymentMethod string
	Notes         string
}

// PlaceOrder converts the user's cart into an order: totals from live
// prices, per-item stock check and deduction, snapshot order items,
// cart cleared, all in one serializable transaction. Any failure
// rolls the whole thing back; a partial order or partial stock
// deduction can never be observed.
func PlaceOrder(ctx context.Context, db *sql.DB, req PlaceOrderRequest) (*models.Order, error) {
	var order *models.Order

	err := database.WithRetry(ctx, db, database.SerializableTxOptions(), func(tx *sql.Tx) error {
		var cartID int64
		err := tx.QueryRowContext(ctx,
			`SELECT id FROM carts WHERE user_id = $1`,
			req.UserID).Scan(&cartID)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrEmptyCart
			}
			return fmt.Errorf("get cart: %w", err)
		}

		// Locking products in id order keeps concurrent checkouts
		// over overlapping carts from deadlocking.
		rows, err := tx.QueryContext(ctx,
			`SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock_quantity
			 FROM cart_items ci
			 JOIN products p ON p.id = ci.product_id
			 WHERE ci.cart_id = $1
			 ORDER BY ci.product_id
			 FOR UPDATE OF p`,
			cartID)
		if err != nil {
			return fmt.Errorf("lock cart products: %w", err)
		}

		type checkoutLine struct {
			productID int64
			quantity  int
			name      string
			price     decimal.Decimal
			stock     int
		}

		var lines []checkoutLine
		for rows.Next() {
			var line checkoutLine
			if err := rows.Scan(&line.productID, &line.quantity, &line.name, &line.price, &line.stock); err != nil {
				rows.Close()
				return fmt.Errorf("scan cart line: %w", err)
			}
			lines = append(lines, line)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("rows error: %w", err)
		}
		rows.Close()

		if len(lines) == 0 {
			return database.ErrEmptyCart
		}

		subtotal := decimal.Zero
		for _, line := range lines {
			subtotal = subtotal.Add(line.price.Mul(decimal.NewFromInt(int64(line.quantity))))
		}
		totals := ComputeOrderTotals(subtotal)

		orderNumber, err := NextOrderNumber(ctx, tx, time.Now())
		if err != nil {
			return err
		}

		var orderID int64
		err = tx.QueryRowContext(ctx,
			`INSERT INTO orders (user_id, order_number, status, total_amount, tax_amount, shipping_amount,
			                     payment_method, payment_status,
			                     shipping_name, shipping_address_line1, shipping_address_line2, shipping_city,
			                     shipping_state, shipping_postal_code, shipping_country, shipping_phone,
			                     notes, created_at, updated_at, version)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, NOW(), NOW(), 1)
			 RETURNING id`,
			req.UserID, orderNumber, models.OrderStatusPending,
			totals.Total, totals.Tax, totals.Shipping,
			req.PaymentMethod, models.PaymentStatusPending,
			req.Shipping.Name, req.Shipping.AddressLine1, nullString(req.Shipping.AddressLine2),
			req.Shipping.City, req.Shipping.State, req.Shipping.PostalCode,
			req.Shipping.Country, req.Shipping.Phone, nullString(req.Notes)).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, line := range lines {
			if line.stock < line.quantity {
				return &database.InsufficientStockError{ProductName: line.name}
			}

			lineSubtotal := line.price.Mul(decimal.NewFromInt(int64(line.quantity)))
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, product_name, quantity, unit_price, subtotal, created_at)
				 VALUES ($1, $2, $3, $4, $5, $6, NOW())`,
				orderID, line.productID, line.name, line.quantity, line.price, lineSubtotal)
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}

			if _, err := AdjustStock(ctx, tx, line.productID, -line.quantity); err != nil {
				return err
			}
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		order, err = getOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		order.Items, err = getOrderItems(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

type queryer interface {
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

func getOrderTx(ctx context.Context, q queryer, id int64) (*models.Order, error) {
	order, err := scanOrder(q.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func getOrderItems(ctx context.Context, q queryer, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, order_id, product_id, product_name, quantity, unit_price, subtotal, created_at
		 FROM order_items
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var item models.OrderItem
		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&item.ProductName,
			&item.Quantity,
			&item.UnitPrice,
			&item.Subtotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

func GetOrder(ctx context.Context, db *sql.DB, id int64) (*models.Order, error) {
	order, err := getOrderTx(ctx, db, id)
	if err != nil {
		return nil, err
	}

	order.Items, err = getOrderItems(ctx, db, id)
	if err != nil {
		return nil, err
	}

	return order, nil
}

// GetUserOrder is GetOrder restricted to the owning user. Someone
// else's order reads as not found rather than forbidden.
func GetUserOrder(ctx context.Context, db *sql.DB, userID, id int64) (*models.Order, error) {
	order, err := GetOrder(ctx, db, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, database.ErrOrderNotFound
	}
	return order, nil
}

func ListOrdersCursor(ctx context.Context, db *sql.DB, userID int64, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, database.ErrInvalidCursor
	}

	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		  AND (created_at, id) < ($2, $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4`

	rows, err := db.QueryContext(ctx, query, userID, cursorData.CreatedAt, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		lastOrder := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			CreatedAt: lastOrder.CreatedAt,
			ID:        lastOrder.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}

func ListRecentOrders(ctx context.Context, db *sql.DB, userID int64, limit int) ([]models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = getOrderItems(ctx, db, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}

	return orders, nil
}

// ListOrdersAdmin pages over all orders, optionally filtered by
// status.
func ListOrdersAdmin(ctx context.Context, db *sql.DB, status string, page, pageSize int) (*OffsetPage, error) {
	where := ``
	var args []any
	if status != "" {
		where = `WHERE status = $1`
		args = append(args, status)
	}

	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM orders
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT %d OFFSET %d`, orderColumns, where, pageSize, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	return newOffsetPage(orders, total, page, pageSize), nil
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}
