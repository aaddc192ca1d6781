package integration

import (
	"context"
	"database/sql"
	"testing"

	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func adjustStock(t *testing.T, db *sql.DB, productID int64, delta int) (int, error) {
	t.Helper()

	var remaining int
	err := database.WithTransaction(context.Background(), db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		var err error
		remaining, err = store.AdjustStock(context.Background(), tx, productID, delta)
		return err
	})
	return remaining, err
}

func TestAdjustStock(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	vendor := seedVendor(t, db, "pv1@example.com")
	product := seedProduct(t, db, vendor.ID, "PT-001", 10, 5)

	remaining, err := adjustStock(t, db, product.ID, -3)
	if err != nil {
		t.Fatalf("Deduct: %v", err)
	}
	if remaining != 2 {
		t.Errorf("Expected 2 remaining, got %d", remaining)
	}

	remaining, err = adjustStock(t, db, product.ID, 4)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if remaining != 6 {
		t.Errorf("Expected 6 remaining, got %d", remaining)
	}

	_, err = adjustStock(t, db, product.ID, -7)
	if !database.IsInsufficientStock(err) {
		t.Errorf("Expected insufficient stock error, got: %v", err)
	}
	if stock := productStock(t, db, product.ID); stock != 6 {
		t.Errorf("Failed deduct should leave stock at 6, got %d", stock)
	}

	_, err = adjustStock(t, db, 99999, -1)
	if err != database.ErrProductNotFound {
		t.Errorf("Expected product not found, got: %v", err)
	}
}

func TestListProductsOnlyPublished(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "pv2@example.com")
	published := seedProduct(t, db, vendor.ID, "PT-002A", 10, 5)
	draft := seedProduct(t, db, vendor.ID, "PT-002B", 10, 5)
	if _, err := store.UpdateProductStatus(ctx, db, draft.ID, models.ProductStatusDraft); err != nil {
		t.Fatalf("Set draft: %v", err)
	}

	page, err := store.ListProducts(ctx, db, 1, 20)
	if err != nil {
		t.Fatalf("List products: %v", err)
	}
	products := page.Items.([]models.Product)
	if len(products) != 1 {
		t.Fatalf("Expected only the published product, got %d", len(products))
	}
	if products[0].ID != published.ID {
		t.Errorf("Expected product %d, got %d", published.ID, products[0].ID)
	}
}

func TestSearchProducts(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	vendor := seedVendor(t, db, "pv3@example.com")
	seedProduct(t, db, vendor.ID, "PT-003A", 10, 5)
	seedProduct(t, db, vendor.ID, "PT-003B", 10, 5)
	seedProduct(t, db, vendor.ID, "XX-900", 10, 5)

	page, err := store.SearchProducts(ctx, db, "pt-003", 1, 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if matches := page.Items.([]models.Product); len(matches) != 2 {
		t.Errorf("Expected 2 matches for pt-003, got %d", len(matches))
	}
}
