package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

func getOrCreateWishlist(ctx context.Context, tx *sql.Tx, userID int64) (int64, error) {
	var wishlistID int64
	err := tx.QueryRowContext(ctx,
		`INSERT INTO wishlists (user_id, created_at)
		 VALUES ($1, NOW())
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id`,
		userID).Scan(&wishlistID)
	if err != nil {
		return 0, fmt.Errorf("get or create wishlist: %w", err)
	}
	return wishlistID, nil
}

// AddWishlistItem is idempotent: adding a product that is already on
// the wishlist returns the existing item.
func AddWishlistItem(ctx context.Context, db *sql.DB, userID, productID int64) (*models.WishlistItem, error) {
	var item *models.WishlistItem

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`,
			productID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check product exists: %w", err)
		}
		if !exists {
			return database.ErrProductNotFound
		}

		wishlistID, err := getOrCreateWishlist(ctx, tx, userID)
		if err != nil {
			return err
		}

		item = &models.WishlistItem{WishlistID: wishlistID, ProductID: productID}
		err = tx.QueryRowContext(ctx,
			`INSERT INTO wishlist_items (wishlist_id, product_id, created_at)
			 VALUES ($1, $2, NOW())
			 ON CONFLICT (wishlist_id, product_id) DO UPDATE SET product_id = EXCLUDED.product_id
			 RETURNING id, created_at`,
			wishlistID, productID).Scan(&item.ID, &item.CreatedAt)
		if err != nil {
			return fmt.Errorf("upsert wishlist item: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return item, nil
}

func RemoveWishlistItem(ctx context.Context, db *sql.DB, userID, itemID int64) error {
	result, err := db.ExecContext(ctx,
		`DELETE FROM wishlist_items wi
		 USING wishlists w
		 WHERE wi.id = $1 AND w.id = wi.wishlist_id AND w.user_id = $2`,
		itemID, userID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrWishlistItemNotFound
	}

	return nil
}

func ClearWishlist(ctx context.Context, db *sql.DB, userID int64) error {
	_, err := db.ExecContext(ctx,
		`DELETE FROM wishlist_items wi
		 USING wishlists w
		 WHERE w.id = wi.wishlist_id AND w.user_id = $1`,
		userID)
	if err != nil {
		return fmt.Errorf("clear wishlist: %w", err)
	}

	return nil
}

func GetWishlist(ctx context.Context, db *sql.DB, userID int64) (*models.Wishlist, error) {
	wishlist := &models.Wishlist{UserID: userID}

	err := db.QueryRowContext(ctx,
		`SELECT id, created_at FROM wishlists WHERE user_id = $1`,
		userID).Scan(&wishlist.ID, &wishlist.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return wishlist, nil
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT wi.id, wi.wishlist_id, wi.product_id, p.name, wi.created_at
		 FROM wishlist_items wi
		 JOIN products p ON p.id = wi.product_id
		 WHERE wi.wishlist_id = $1
		 ORDER BY wi.created_at`,
		wishlist.ID)
	if err != nil {
		return nil, fmt.Errorf("get wishlist items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.WishlistItem
		err := rows.Scan(&item.ID, &item.WishlistID, &item.ProductID, &item.ProductName, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		wishlist.Items = append(wishlist.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return wishlist, nil
}

func WishlistContains(ctx context.Context, db *sql.DB, userID, productID int64) (bool, error) {
	var contains bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(
			SELECT 1
			FROM wishlist_items wi
			JOIN wishlists w ON w.id = wi.wishlist_id
			WHERE w.user_id = $1 AND wi.product_id = $2)`,
		userID, productID).Scan(&contains)
	if err != nil {
		return false, fmt.Errorf("check wishlist item: %w", err)
	}

	return contains, nil
}

func WishlistItemCount(ctx context.Context, db *sql.DB, userID int64) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM wishlist_items wi
		 JOIN wishlists w ON w.id = wi.wishlist_id
		 WHERE w.user_id = $1`,
		userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count wishlist items: %w", err)
	}

	return count, nil
}
