package store

import (
	"context"
	"database/sql"
	"fmt"
	"path"

	"github.com/google/uuid"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

// AddImage records an attachment for a user or product. The stored
// path gets a generated name; originalName only survives in the
// filename column for display.
func AddImage(ctx context.Context, db *sql.DB, ownerKind string, ownerID int64, originalName string, sortOrder int) (*models.Image, error) {
	if ownerKind != models.ImageOwnerUser && ownerKind != models.ImageOwnerProduct {
		return nil, fmt.Errorf("unknown image owner kind %q", ownerKind)
	}

	storedPath := path.Join("uploads", ownerKind+"s", uuid.NewString()+path.Ext(originalName))

	image := &models.Image{
		OwnerKind: ownerKind,
		OwnerID:   ownerID,
		Path:      storedPath,
		Filename:  originalName,
		SortOrder: sortOrder,
	}

	err := db.QueryRowContext(ctx,
		`INSERT INTO images (owner_kind, owner_id, path, filename, sort_order, created_at)
		 VALUES ($1, $2, $3, $4, $5, NOW())
		 RETURNING id, created_at`,
		ownerKind, ownerID, storedPath, originalName, sortOrder).Scan(&image.ID, &image.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("add image: %w", err)
	}

	return image, nil
}

func ListImages(ctx context.Context, db *sql.DB, ownerKind string, ownerID int64) ([]models.Image, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, owner_kind, owner_id, path, filename, sort_order, created_at
		 FROM images
		 WHERE owner_kind = $1 AND owner_id = $2
		 ORDER BY sort_order, id`,
		ownerKind, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []models.Image
	for rows.Next() {
		var image models.Image
		err := rows.Scan(&image.ID, &image.OwnerKind, &image.OwnerID, &image.Path, &image.Filename, &image.SortOrder, &image.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, image)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return images, nil
}

func DeleteImage(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrImageNotFound
	}

	return nil
}
