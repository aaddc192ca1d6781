package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

func getOrCreateCart(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var cartID int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO carts (user_id, created_at, updated_at)
		 VALUES ($1, NOW(), NOW())
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		 RETURNING id`,
		userID).Scan(&cartID)
	if err != nil {
		return 0, fmt.Errorf("get or create cart: %w", err)
	}
	return cartID, nil
}

// AddCartItem puts quantity units of a product into the user's cart,
// merging with an existing line for the same product instead of
// adding a duplicate. The stock check here is point-in-time; checkout
// re-validates under lock.
func AddCartItem(ctx context.Context, db *sql.DB, userID, productID int64, quantity int) (*models.CartItem, error) {
	var item *models.CartItem

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var name string
		var stock int
		var status string
		err := tx.QueryRowContext(ctx,
			`SELECT name, stock_quantity, status FROM products WHERE id = $1`,
			productID).Scan(&name, &stock, &status)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrProductNotFound
			}
			return fmt.Errorf("check product: %w", err)
		}

		if status != models.ProductStatusPublished {
			return database.ErrProductNotFound
		}

		cartID, err := getOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		item = &models.CartItem{CartID: cartID, ProductID: productID, ProductName: name}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
			 VALUES ($1, $2, $3, NOW(), NOW())
			 ON CONFLICT (cart_id, product_id)
			 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
			 RETURNING id, quantity, created_at, updated_at`,
			cartID, productID, quantity).Scan(&item.ID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("upsert cart item: %w", err)
		}

		// The stock check covers the merged line, not just the
		// increment; rolling back undoes the upsert.
		if item.Quantity > stock {
			return &database.InsufficientStockError{ProductName: name}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

// UpdateCartItemQuantity sets the line's quantity to an absolute
// value, validated against current stock.
func UpdateCartItemQuantity(ctx context.Context, db *sql.DB, userID, itemID int64, quantity int) (*models.CartItem, error) {
	var item *models.CartItem

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var productID int64
		var ownerID int64
		var name string
		var stock int
		err := tx.QueryRowContext(ctx,
			`SELECT ci.product_id, c.user_id, p.name, p.stock_quantity
			 FROM cart_items ci
			 JOIN carts c ON c.id = ci.cart_id
			 JOIN products p ON p.id = ci.product_id
			 WHERE ci.id = $1`,
			itemID).Scan(&productID, &ownerID, &name, &stock)
		if err != nil {
			if err == sql.ErrNoRows {
				return database.ErrCartItemNotFound
			}
			return fmt.Errorf("check cart item: %w", err)
		}

		// Someone else's line reads as not found, same as remove.
		if ownerID != userID {
			return database.ErrCartItemNotFound
		}
		if stock < quantity {
			return &database.InsufficientStockError{ProductName: name}
		}

		item = &models.CartItem{ID: itemID, ProductID: productID, ProductName: name}
		err = tx.QueryRowContext(ctx,
			`UPDATE cart_items SET quantity = $1, updated_at = NOW()
			 WHERE id = $2
			 RETURNING cart_id, quantity, created_at, updated_at`,
			quantity, itemID).Scan(&item.CartID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return fmt.Errorf("update cart item: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func RemoveCartItem(ctx context.Context, db *sql.DB, userID, itemID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM cart_items ci
		 USING carts c
		 WHERE ci.id = $1 AND c.id = ci.cart_id AND c.user_id = $2`,
		itemID, userID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrCartItemNotFound
	}

	return nil
}

func ClearCart(ctx context.Context, db *sql.DB, userID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM cart_items ci
		 USING carts c
		 WHERE c.id = ci.cart_id AND c.user_id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}

// GetCart returns the cart with lines priced from the live product
// rows. A user with no cart row yet gets an empty cart.
func GetCart(ctx context.Context, db *sql.DB, userID int64) (*models.Cart, error) {
	cart := &models.Cart{UserID: userID}

	err := db.QueryRowContext(ctx,
		`SELECT id, created_at, updated_at FROM carts WHERE user_id = $1`,
		userID).Scan(&cart.ID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return cart, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, p.name, p.price, ci.created_at, ci.updated_at
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = $1
		 ORDER BY ci.created_at`,
		cart.ID)
	if err != nil {
		return nil, fmt.Errorf("get cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.CartItem
		err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.ProductID,
			&item.Quantity,
			&item.ProductName,
			&item.UnitPrice,
			&item.CreatedAt,
			&item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return cart, nil
}

// CartTotalAmount sums quantity times current product price over the
// cart's lines.
func CartTotalAmount(cart *models.Cart) decimal.Decimal {
	total := decimal.Zero
	for _, item := range cart.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

func CartItemCount(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ci.quantity), 0)
		 FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE c.user_id = $1`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count cart items: %w", err)
	}

	return count, nil
}
