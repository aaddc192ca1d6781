package integration

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
	"github.com/vG1v/ecommerce-app-backend/internal/store"
)

func setupTestDB(t *testing.T) (*sql.DB, func()) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:14-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	postgres, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start postgres container: %v", err)
	}

	host, err := postgres.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := postgres.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s:%s/testdb?sslmode=disable", host, port.Port())

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	if err := runMigrations(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	cleanup := func() {
		if err := db.Close(); err != nil {
			t.Logf("Failed to close database: %v", err)
		}
		if err := postgres.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	}

	return db, cleanup
}

func runMigrations(db *sql.DB) error {
	migrationDir := "../../migrations"
	files, err := os.ReadDir(migrationDir)
	if err != nil {
		return fmt.Errorf("read migration directory: %w", err)
	}

	var migrationFiles []string
	for _, file := range files {
		if !file.IsDir() && strings.HasSuffix(file.Name(), ".up.sql") {
			migrationFiles = append(migrationFiles, file.Name())
		}
	}

	sort.Strings(migrationFiles)

	for _, filename := range migrationFiles {
		filePath := filepath.Join(migrationDir, filename)
		content, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read migration file %s: %w", filename, err)
		}

		if _, err := db.Exec(string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", filename, err)
		}
	}

	return nil
}

func seedUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()

	user, err := store.CreateUser(context.Background(), db, email, "Test User", "not-a-real-hash")
	if err != nil {
		t.Fatalf("Create user %s: %v", email, err)
	}
	return user
}

func seedVendor(t *testing.T, db *sql.DB, email string) *models.Vendor {
	t.Helper()

	owner := seedUser(t, db, email)
	vendor, err := store.CreateVendor(context.Background(), db, store.CreateVendorRequest{
		UserID:       owner.ID,
		StoreName:    "Store " + email,
		ContactEmail: email,
	})
	if err != nil {
		t.Fatalf("Create vendor for %s: %v", email, err)
	}
	return vendor
}

func seedProduct(t *testing.T, db *sql.DB, vendorID int64, sku string, price int64, stock int) *models.Product {
	t.Helper()

	product, err := store.CreateProduct(context.Background(), db, store.CreateProductRequest{
		VendorID: vendorID,
		SKU:      sku,
		Name:     "Product " + sku,
		Slug:     strings.ToLower(sku),
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Status:   models.ProductStatusPublished,
	})
	if err != nil {
		t.Fatalf("Create product %s: %v", sku, err)
	}
	return product
}

func fillCart(t *testing.T, db *sql.DB, userID, productID int64, quantity int) {
	t.Helper()

	if _, err := store.AddCartItem(context.Background(), db, userID, productID, quantity); err != nil {
		t.Fatalf("Add cart item: %v", err)
	}
}

func testShipping() models.ShippingInfo {
	return models.ShippingInfo{
		Name:         "Test User",
		AddressLine1: "1 Test Street",
		City:         "Testville",
		State:        "TS",
		PostalCode:   "12345",
		Country:      "Testland",
		Phone:        "555-0100",
	}
}

func productStock(t *testing.T, db *sql.DB, productID int64) int {
	t.Helper()

	product, err := store.GetProduct(context.Background(), db, productID)
	if err != nil {
		t.Fatalf("Get product %d: %v", productID, err)
	}
	return product.StockQuantity
}
