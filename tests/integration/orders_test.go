package integration

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func TestPlaceOrder(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor1@example.com")
	user := seedUser(t, db, "buyer1@example.com")
	product := seedProduct(t, db, vendor.ID, "ORD-TEST-001", 30, 5)

	fillCart(t, db, user.ID, product.ID, 2)

	order, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Shipping:      testShipping(),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Place order: %v", err)
	}

	// subtotal 60, tax 6, shipping 10 (subtotal not above 100)
	if !order.TotalAmount.Equal(decimal.NewFromInt(76)) {
		t.Errorf("Expected total 76, got %s", order.TotalAmount)
	}
	if !order.TaxAmount.Equal(decimal.NewFromInt(6)) {
		t.Errorf("Expected tax 6, got %s", order.TaxAmount)
	}
	if !order.ShippingAmount.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Expected shipping 10, got %s", order.ShippingAmount)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("Expected status pending, got %s", order.Status)
	}
	if order.PaymentStatus != models.PaymentStatusPending {
		t.Errorf("Expected payment status pending, got %s", order.PaymentStatus)
	}
	if len(order.Items) != 1 {
		t.Fatalf("Expected 1 order item, got %d", len(order.Items))
	}
	if order.Items[0].ProductName != product.Name {
		t.Errorf("Expected item name %q, got %q", product.Name, order.Items[0].ProductName)
	}
	if !order.Items[0].Subtotal.Equal(decimal.NewFromInt(60)) {
		t.Errorf("Expected item subtotal 60, got %s", order.Items[0].Subtotal)
	}

	if stock := productStock(t, db, product.ID); stock != 3 {
		t.Errorf("Expected stock 3 after checkout, got %d", stock)
	}

	cart, err := store.GetCart(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("Cart should be empty after checkout, has %d items", len(cart.Items))
	}
}

func TestPlaceOrderFreeShipping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor2@example.com")
	user := seedUser(t, db, "buyer2@example.com")
	product := seedProduct(t, db, vendor.ID, "ORD-TEST-002", 60, 10)

	fillCart(t, db, user.ID, product.ID, 3)

	order, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Shipping:      testShipping(),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Place order: %v", err)
	}

	// subtotal 180 clears the free shipping threshold
	if !order.ShippingAmount.Equal(decimal.Zero) {
		t.Errorf("Expected free shipping, got %s", order.ShippingAmount)
	}
	if !order.TotalAmount.Equal(decimal.NewFromInt(198)) {
		t.Errorf("Expected total 198, got %s", order.TotalAmount)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	user := seedUser(t, db, "buyer3@example.com")

	_, err := store.PlaceOrder(context.Background(), db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Shipping:      testShipping(),
		PaymentMethod: "card",
	})
	if err != database.ErrEmptyCart {
		t.Errorf("Expected empty cart error, got: %v", err)
	}
}

func TestPlaceOrderInsufficientStockRollsBackEverything(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor4@example.com")
	user := seedUser(t, db, "buyer4@example.com")
	plenty := seedProduct(t, db, vendor.ID, "ORD-TEST-004A", 10, 50)
	scarce := seedProduct(t, db, vendor.ID, "ORD-TEST-004B", 10, 1)

	fillCart(t, db, user.ID, plenty.ID, 5)

	// Bypass the cart-time stock check so checkout has to catch it.
	if _, err := db.ExecContext(ctx, `
		INSERT INTO cart_items (cart_id, product_id, quantity, created_at, updated_at)
		SELECT c.id, $1, 3, NOW(), NOW() FROM carts c WHERE c.user_id = $2`,
		scarce.ID, user.ID); err != nil {
		t.Fatalf("Insert oversized cart item: %v", err)
	}

	_, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Shipping:      testShipping(),
		PaymentMethod: "card",
	})
	if !database.IsInsufficientStock(err) {
		t.Fatalf("Expected insufficient stock error, got: %v", err)
	}

	if stock := productStock(t, db, plenty.ID); stock != 50 {
		t.Errorf("Rollback should leave first product at 50, got %d", stock)
	}
	if stock := productStock(t, db, scarce.ID); stock != 1 {
		t.Errorf("Rollback should leave second product at 1, got %d", stock)
	}

	cart, err := store.GetCart(ctx, db, user.ID)
	if err != nil {
		t.Fatalf("Get cart: %v", err)
	}
	if len(cart.Items) != 2 {
		t.Errorf("Failed checkout should keep the cart, has %d items", len(cart.Items))
	}

	var orderCount int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&orderCount); err != nil {
		t.Fatalf("Count orders: %v", err)
	}
	if orderCount != 0 {
		t.Errorf("Failed checkout should create no order rows, found %d", orderCount)
	}
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor5@example.com")
	product := seedProduct(t, db, vendor.ID, "ORD-TEST-005", 100, 10)

	concurrency := 8
	users := make([]int64, concurrency)
	for i := 0; i < concurrency; i++ {
		user := seedUser(t, db, "race"+string(rune('a'+i))+"@example.com")
		users[i] = user.ID
		fillCart(t, db, user.ID, product.ID, 3)
	}

	var wg sync.WaitGroup
	results := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
				UserID:        userID,
				Shipping:      testShipping(),
				PaymentMethod: "card",
			})
			results <- err
		}(users[i])
	}

	wg.Wait()
	close(results)

	successCount := 0
	for err := range results {
		switch {
		case err == nil:
			successCount++
		case database.IsInsufficientStock(err):
		case database.IsRetryable(err):
			// A checkout may exhaust its retries under this much
			// contention; that is a loss, not a correctness failure.
		default:
			t.Errorf("Unexpected error: %v", err)
		}
	}

	// 10 units, 3 per order: at most 3 checkouts can win.
	if successCount > 3 {
		t.Errorf("Oversold: %d checkouts succeeded with stock for 3", successCount)
	}
	if successCount == 0 {
		t.Error("Expected at least one checkout to succeed")
	}

	finalStock := productStock(t, db, product.ID)
	if finalStock != 10-successCount*3 {
		t.Errorf("Expected final stock %d, got %d", 10-successCount*3, finalStock)
	}
	if finalStock < 0 {
		t.Errorf("Stock went negative: %d", finalStock)
	}
}

func TestOrderNumbersUniqueAndSequential(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor6@example.com")
	user := seedUser(t, db, "buyer6@example.com")
	product := seedProduct(t, db, vendor.ID, "ORD-TEST-006", 5, 100)

	seen := make(map[string]bool)
	var previous string
	for i := 0; i < 5; i++ {
		fillCart(t, db, user.ID, product.ID, 1)
		order, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
			UserID:        user.ID,
			Shipping:      testShipping(),
			PaymentMethod: "card",
		})
		if err != nil {
			t.Fatalf("Place order %d: %v", i, err)
		}

		if seen[order.OrderNumber] {
			t.Errorf("Duplicate order number %s", order.OrderNumber)
		}
		seen[order.OrderNumber] = true

		if previous != "" && order.OrderNumber <= previous {
			t.Errorf("Order number %s should sort after %s", order.OrderNumber, previous)
		}
		previous = order.OrderNumber
	}
}

func seedOrderNumber(t *testing.T, db *sql.DB, userID int64, orderNumber string) {
	t.Helper()

	_, err := db.ExecContext(context.Background(), `
		INSERT INTO orders (user_id, order_number, status, total_amount, tax_amount, shipping_amount,
		                    payment_method, payment_status,
		                    shipping_name, shipping_address_line1, shipping_city, shipping_state,
		                    shipping_postal_code, shipping_country, shipping_phone)
		VALUES ($1, $2, 'pending', 0, 0, 0, 'card', 'pending', 'x', 'x', 'x', 'x', 'x', 'x', 'x')`,
		userID, orderNumber)
	if err != nil {
		t.Fatalf("Seed order %s: %v", orderNumber, err)
	}
}

func TestOrderNumberSequencePastFourDigits(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := seedUser(t, db, "buyer9@example.com")
	today := time.Now()
	prefix := "ORD-" + today.Format("20060102") + "-"

	seedOrderNumber(t, db, user.ID, prefix+"9999")

	next := func() string {
		var number string
		err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
			var err error
			number, err = store.NextOrderNumber(ctx, tx, today)
			return err
		})
		if err != nil {
			t.Fatalf("Next order number: %v", err)
		}
		return number
	}

	if got := next(); got != prefix+"10000" {
		t.Fatalf("Expected rollover to %s10000, got %s", prefix, got)
	}

	// The five-digit number must now be seen as the latest; a string
	// sort would keep returning 9999 and regenerate a duplicate.
	seedOrderNumber(t, db, user.ID, prefix+"10000")
	if got := next(); got != prefix+"10001" {
		t.Errorf("Expected %s10001 after 10000, got %s", prefix, got)
	}
}

func TestOrderNumberSequenceResetsAcrossDays(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor8@example.com")
	user := seedUser(t, db, "buyer8@example.com")
	product := seedProduct(t, db, vendor.ID, "ORD-TEST-008", 5, 100)

	fillCart(t, db, user.ID, product.ID, 1)
	order, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
		UserID:        user.ID,
		Shipping:      testShipping(),
		PaymentMethod: "card",
	})
	if err != nil {
		t.Fatalf("Place order: %v", err)
	}

	today := time.Now()
	wantToday := "ORD-" + today.Format("20060102") + "-0001"
	if order.OrderNumber != wantToday {
		t.Errorf("Expected first order number %s, got %s", wantToday, order.OrderNumber)
	}

	err = database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		next, err := store.NextOrderNumber(ctx, tx, today)
		if err != nil {
			return err
		}
		if want := "ORD-" + today.Format("20060102") + "-0002"; next != want {
			t.Errorf("Expected same-day number %s, got %s", want, next)
		}

		tomorrow := today.AddDate(0, 0, 1)
		next, err = store.NextOrderNumber(ctx, tx, tomorrow)
		if err != nil {
			return err
		}
		if want := "ORD-" + tomorrow.Format("20060102") + "-0001"; next != want {
			t.Errorf("Expected next-day sequence to reset, want %s, got %s", want, next)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Next order number: %v", err)
	}
}

func TestListOrdersCursor(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "vendor7@example.com")
	user := seedUser(t, db, "buyer7@example.com")
	product := seedProduct(t, db, vendor.ID, "ORD-TEST-007", 5, 100)

	for i := 0; i < 15; i++ {
		fillCart(t, db, user.ID, product.ID, 1)
		if _, err := store.PlaceOrder(ctx, db, store.PlaceOrderRequest{
			UserID:        user.ID,
			Shipping:      testShipping(),
			PaymentMethod: "card",
		}); err != nil {
			t.Fatalf("Place order %d: %v", i, err)
		}
	}

	page1, err := store.ListOrdersCursor(ctx, db, user.ID, "", 10)
	if err != nil {
		t.Fatalf("List orders page 1: %v", err)
	}
	if !page1.HasMore {
		t.Error("Page 1 should have more results")
	}
	if page1.NextCursor == "" {
		t.Error("Page 1 should have a next cursor")
	}
	if orders := page1.Items.([]models.Order); len(orders) != 10 {
		t.Errorf("Expected 10 orders on page 1, got %d", len(orders))
	}

	page2, err := store.ListOrdersCursor(ctx, db, user.ID, page1.NextCursor, 10)
	if err != nil {
		t.Fatalf("List orders page 2: %v", err)
	}
	if page2.HasMore {
		t.Error("Page 2 should not have more results")
	}
	if orders := page2.Items.([]models.Order); len(orders) != 5 {
		t.Errorf("Expected 5 orders on page 2, got %d", len(orders))
	}

	if _, err := store.ListOrdersCursor(ctx, db, user.ID, "not-a-cursor!!", 10); !errors.Is(err, database.ErrInvalidCursor) {
		t.Errorf("Expected ErrInvalidCursor for garbage cursor, got %v", err)
	}
}
