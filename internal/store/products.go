package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

const productColumns = `id, vendor_id, sku, name, slug, description, price, stock_quantity, status, featured, created_at, updated_at, version`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(
		&product.ID,
		&product.VendorID,
		&product.SKU,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.StockQuantity,
		&product.Status,
		&product.Featured,
		&product.CreatedAt,
		&product.UpdatedAt,
		&product.Version,
	)
	if err != nil {
		return nil, err
	}
	return product, nil
}

type CreateProductRequest struct {
	VendorID    int64
	SKU         string
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Status      string
}

func CreateProduct(ctx context.Context, db *sql.DB, req CreateProductRequest) (*models.Product, error) {
	if req.Status == "" {
		req.Status = models.ProductStatusDraft
	}

	query := `
		INSERT INTO products (vendor_id, sku, name, slug, description, price, stock_quantity, status, featured, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, NOW(), NOW(), 1)
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query,
		req.VendorID, req.SKU, req.Name, req.Slug, req.Description, req.Price, req.Stock, req.Status))
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	return product, nil
}

func GetProduct(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	return product, nil
}

type UpdateProductRequest struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

func UpdateProduct(ctx context.Context, db *sql.DB, id int64, req UpdateProductRequest) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, stock_quantity = $4,
		    updated_at = NOW(), version = version + 1
		WHERE id = $5
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query, req.Name, req.Description, req.Price, req.Stock, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}

	return product, nil
}

func UpdateProductStatus(ctx context.Context, db *sql.DB, id int64, status string) (*models.Product, error) {
	query := `
		UPDATE products
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query, status, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("update product status: %w", err)
	}

	return product, nil
}

func ToggleProductFeatured(ctx context.Context, db *sql.DB, id int64) (*models.Product, error) {
	query := `
		UPDATE products
		SET featured = NOT featured, updated_at = NOW(), version = version + 1
		WHERE id = $1
		RETURNING ` + productColumns

	product, err := scanProduct(db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrProductNotFound
		}
		return nil, fmt.Errorf("toggle product featured: %w", err)
	}

	return product, nil
}

func DeleteProduct(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrProductNotFound
	}

	return nil
}

// AdjustStock applies a signed delta to a product's stock inside the
// caller's transaction and returns the new quantity. The guard in the
// WHERE clause makes the check-then-adjust atomic: a concurrent
// adjustment on the same row cannot drive stock negative. Callers
// must abort their transaction on error so the whole batch of
// adjustments for an order applies or none do.
func AdjustStock(ctx context.Context, tx *sql.Tx, productID int64, delta int) (int, error) {
	var newQuantity int
	err := tx.QueryRowContext(ctx,
		`UPDATE products
		 SET stock_quantity = stock_quantity + $1,
		     updated_at = NOW()
		 WHERE id = $2
		   AND stock_quantity + $1 >= 0
		 RETURNING stock_quantity`,
		delta, productID).Scan(&newQuantity)
	if err == sql.ErrNoRows {
		var name string
		nameErr := tx.QueryRowContext(ctx, `SELECT name FROM products WHERE id = $1`, productID).Scan(&name)
		if nameErr == sql.ErrNoRows {
			return 0, database.ErrProductNotFound
		}
		if nameErr != nil {
			return 0, fmt.Errorf("look up product %d: %w", productID, nameErr)
		}
		return 0, &database.InsufficientStockError{ProductName: name}
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock for product %d: %w", productID, err)
	}

	return newQuantity, nil
}

func ListProducts(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	return listProductsWhere(ctx, db, `WHERE status = 'published'`, nil, page, pageSize)
}

func ListAllProducts(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	return listProductsWhere(ctx, db, ``, nil, page, pageSize)
}

func SearchProducts(ctx context.Context, db *sql.DB, term string, page, pageSize int) (*OffsetPage, error) {
	return listProductsWhere(ctx, db,
		`WHERE status = 'published' AND name ILIKE '%' || $1 || '%'`,
		[]any{term}, page, pageSize)
}

func ListProductsByVendor(ctx context.Context, db *sql.DB, vendorID int64, page, pageSize int) (*OffsetPage, error) {
	return listProductsWhere(ctx, db, `WHERE vendor_id = $1`, []any{vendorID}, page, pageSize)
}

func ListFeaturedProducts(ctx context.Context, db *sql.DB, limit int) ([]models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE status = 'published' AND featured
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured products: %w", err)
	}
	defer rows.Close()

	return collectProducts(rows)
}

func listProductsWhere(ctx context.Context, db *sql.DB, where string, args []any, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	offset := (page - 1) * pageSize
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		%s
		ORDER BY created_at DESC
		LIMIT %d OFFSET %d`, productColumns, where, pageSize, offset)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products, err := collectProducts(rows)
	if err != nil {
		return nil, err
	}

	return newOffsetPage(products, total, page, pageSize), nil
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return products, nil
}
