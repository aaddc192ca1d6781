package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"

	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

const vendorColumns = `id, user_id, store_name, slug, description, contact_email, contact_phone, status, commission_rate, created_at, updated_at`

func scanVendor(row interface{ Scan(...any) error }) (*models.Vendor, error) {
	vendor := &models.Vendor{}
	var description, phone sql.NullString
	err := row.Scan(
		&vendor.ID,
		&vendor.UserID,
		&vendor.StoreName,
		&vendor.Slug,
		&description,
		&vendor.ContactEmail,
		&phone,
		&vendor.Status,
		&vendor.CommissionRate,
		&vendor.CreatedAt,
		&vendor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	vendor.Description = description.String
	vendor.ContactPhone = phone.String
	return vendor, nil
}

// Slugify lowercases and collapses non-alphanumeric runs into single
// hyphens.
func Slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

type CreateVendorRequest struct {
	UserID       int64
	StoreName    string
	Description  string
	ContactEmail string
	ContactPhone string
}

// CreateVendor registers a vendor storefront for the user and grants
// them the vendor role, in one transaction. New vendors start out
// pending until an admin activates them. Slug collisions get a
// numeric suffix.
func CreateVendor(ctx context.Context, db *sql.DB, req CreateVendorRequest) (*models.Vendor, error) {
	var vendor *models.Vendor

	err := database.WithTransaction(ctx, db, database.DefaultTxOptions(), func(tx *sql.Tx) error {
		slug := Slugify(req.StoreName)

		var taken int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM vendors WHERE slug LIKE $1 || '%'`, slug).Scan(&taken)
		if err != nil {
			return fmt.Errorf("check vendor slug: %w", err)
		}
		if taken > 0 {
			slug = fmt.Sprintf("%s-%d", slug, taken)
		}

		vendor, err = scanVendor(tx.QueryRowContext(ctx,
			`INSERT INTO vendors (user_id, store_name, slug, description, contact_email, contact_phone,
			                      status, commission_rate, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 10.00, NOW(), NOW())
			 RETURNING `+vendorColumns,
			req.UserID, req.StoreName, slug, nullString(req.Description),
			req.ContactEmail, nullString(req.ContactPhone), models.VendorStatusPending))
		if err != nil {
			return fmt.Errorf("create vendor: %w", err)
		}

		_, err = tx.ExecContext(ctx,
			`UPDATE users SET role = $1, updated_at = NOW(), version = version + 1
			 WHERE id = $2 AND role = $3`,
			models.RoleVendor, req.UserID, models.RoleCustomer)
		if err != nil {
			return fmt.Errorf("grant vendor role: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return vendor, nil
}

func GetVendor(ctx context.Context, db *sql.DB, id int64) (*models.Vendor, error) {
	vendor, err := scanVendor(db.QueryRowContext(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrVendorNotFound
		}
		return nil, fmt.Errorf("get vendor: %w", err)
	}

	return vendor, nil
}

func GetVendorByUser(ctx context.Context, db *sql.DB, userID int64) (*models.Vendor, error) {
	vendor, err := scanVendor(db.QueryRowContext(ctx,
		`SELECT `+vendorColumns+` FROM vendors WHERE user_id = $1`, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrVendorNotFound
		}
		return nil, fmt.Errorf("get vendor by user: %w", err)
	}

	return vendor, nil
}

func ListVendors(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM vendors`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count vendors: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + vendorColumns + `
		FROM vendors
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []models.Vendor
	for rows.Next() {
		vendor, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, *vendor)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(vendors, total, page, pageSize), nil
}

func UpdateVendorStatus(ctx context.Context, db *sql.DB, id int64, status string) (*models.Vendor, error) {
	vendor, err := scanVendor(db.QueryRowContext(ctx,
		`UPDATE vendors SET status = $1, updated_at = NOW()
		 WHERE id = $2
		 RETURNING `+vendorColumns,
		status, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrVendorNotFound
		}
		return nil, fmt.Errorf("update vendor status: %w", err)
	}

	return vendor, nil
}
