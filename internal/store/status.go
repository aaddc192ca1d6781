package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

// Actor identifies who is driving a status change. Admins get the
// full transition graph; a plain user only gets pending→cancelled on
// their own orders.
type Actor struct {
	UserID int64
	Admin  bool
}

// TransitionOrderStatus moves an order to newStatus and applies the
// inventory side effects of the edge, all in one transaction:
//
//   - entering cancelled or declined restores every item's stock
//   - leaving cancelled for an active status re-deducts it, and the
//     whole transition aborts if any product lacks stock
//   - every other edge touches no inventory
//
// The order row is locked first, so two concurrent transitions on the
// same order serialize instead of losing an update.
func TransitionOrderStatus(ctx context.Context, db *sql.DB, orderID int64, newStatus string, actor Actor) (*models.Order, error) {
	var order *models.Order

	err := database.WithRetry(ctx, db, database.SerializableTxOptions(), func(tx *sql.Tx) error {
		current, err := getOrderForUpdate(ctx, tx, orderID)
		if err != nil {
			return err
		}

		if !actor.Admin {
			if current.UserID != actor.UserID {
				return database.ErrOrderNotFound
			}
			if newStatus != models.OrderStatusCancelled || !models.CustomerCanCancel(current.Status) {
				return &database.InvalidTransitionError{From: current.Status, To: newStatus}
			}
		} else if !models.CanTransition(current.Status, newStatus) {
			return &database.InvalidTransitionError{From: current.Status, To: newStatus}
		}

		items, err := getOrderItems(ctx, tx, orderID)
		if err != nil {
			return err
		}

		switch {
		case models.RestoresInventory(current.Status, newStatus):
			for _, item := range items {
				_, err := AdjustStock(ctx, tx, item.ProductID, item.Quantity)
				if errors.Is(err, database.ErrProductNotFound) {
					// Product deleted since purchase; nothing to restore.
					continue
				}
				if err != nil {
					return err
				}
			}
		case models.RedeductsInventory(current.Status, newStatus):
			for _, item := range items {
				if _, err := AdjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
					return err
				}
			}
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE orders
			 SET status = $1, updated_at = NOW(), version = version + 1
			 WHERE id = $2`,
			newStatus, orderID)
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}

		order, err = getOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		order.Items = items
		return nil
	})
	if err != nil {
		return nil, err
	}

	return order, nil
}

// CancelOrder is the customer-facing cancel: the pending→cancelled
// edge on the caller's own order.
func CancelOrder(ctx context.Context, db *sql.DB, orderID, userID int64) (*models.Order, error) {
	return TransitionOrderStatus(ctx, db, orderID, models.OrderStatusCancelled, Actor{UserID: userID})
}

func getOrderForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*models.Order, error) {
	order, err := scanOrder(tx.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	return order, nil
}
