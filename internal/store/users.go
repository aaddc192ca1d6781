package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vG1v/ecommerce-app-backend/internal/database"
	"github.com/vG1v/ecommerce-app-backend/internal/models"
)

const userColumns = `id, email, name, password_hash, role, created_at, updated_at, version`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.Version,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(ctx context.Context, db *sql.DB, email, name, passwordHash string) (*models.User, error) {
	query := `
		INSERT INTO users (email, name, password_hash, role, created_at, updated_at, version)
		VALUES ($1, $2, $3, $4, NOW(), NOW(), 1)
		RETURNING ` + userColumns

	user, err := scanUser(db.QueryRowContext(ctx, query, email, name, passwordHash, models.RoleCustomer))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func GetUser(ctx context.Context, db *sql.DB, id int64) (*models.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*models.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// IssueAPIToken rotates the user's bearer token and returns the new
// value. The previous token stops working immediately.
func IssueAPIToken(ctx context.Context, db *sql.DB, userID int64) (string, error) {
	token := uuid.NewString()

	result, err := db.ExecContext(ctx,
		`UPDATE users SET api_token = $1, updated_at = NOW() WHERE id = $2`,
		token, userID)
	if err != nil {
		return "", fmt.Errorf("issue api token: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return "", database.ErrUserNotFound
	}

	return token, nil
}

func RevokeAPIToken(ctx context.Context, db *sql.DB, userID int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET api_token = NULL, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("revoke api token: %w", err)
	}
	return nil
}

// GetUserByToken resolves a bearer token to its user. The role comes
// back with the row, so authorization checks downstream never query
// again.
func GetUserByToken(ctx context.Context, db *sql.DB, token string) (*models.User, error) {
	user, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE api_token = $1`, token))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by token: %w", err)
	}

	return user, nil
}

func SetUserRole(ctx context.Context, db *sql.DB, userID int64, role string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE users SET role = $1, updated_at = NOW(), version = version + 1 WHERE id = $2`,
		role, userID)
	if err != nil {
		return fmt.Errorf("set user role: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return database.ErrUserNotFound
	}

	return nil
}

func ListUsers(ctx context.Context, db *sql.DB, page, pageSize int) (*OffsetPage, error) {
	var total int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	offset := (page - 1) * pageSize
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := db.QueryContext(ctx, query, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return newOffsetPage(users, total, page, pageSize), nil
}

type UserOrderStats struct {
	TotalOrders int64           `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// GetUserOrderStats sums over completed and processing orders only;
// cancelled and declined orders never counted as spend.
func GetUserOrderStats(ctx context.Context, db *sql.DB, userID int64) (*UserOrderStats, error) {
	stats := &UserOrderStats{}

	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total_amount) FILTER (WHERE status IN ('completed', 'processing')), 0)
		 FROM orders
		 WHERE user_id = $1`,
		userID).Scan(&stats.TotalOrders, &stats.TotalSpent)
	if err != nil {
		return nil, fmt.Errorf("get user order stats: %w", err)
	}

	return stats, nil
}
