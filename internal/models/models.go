package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
	RoleVendor   = "vendor"
)

type Vendor struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	StoreName      string          `json:"store_name"`
	Slug           string          `json:"slug"`
	Description    string          `json:"description,omitempty"`
	ContactEmail   string          `json:"contact_email"`
	ContactPhone   string          `json:"contact_phone,omitempty"`
	Status         string          `json:"status"`
	CommissionRate decimal.Decimal `json:"commission_rate"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

const (
	VendorStatusPending   = "pending"
	VendorStatusActive    = "active"
	VendorStatusSuspended = "suspended"
)

type Product struct {
	ID            int64           `json:"id"`
	VendorID      int64           `json:"vendor_id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Slug          string          `json:"slug"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	Status        string          `json:"status"`
	Featured      bool            `json:"featured"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	Version       int             `json:"version"`
}

const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

type Cart struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID          int64           `json:"id"`
	CartID      int64           `json:"cart_id"`
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	ProductName string          `json:"product_name,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Wishlist struct {
	ID        int64          `json:"id"`
	UserID    int64          `json:"user_id"`
	Items     []WishlistItem `json:"items"`
	CreatedAt time.Time      `json:"created_at"`
}

type WishlistItem struct {
	ID          int64     `json:"id"`
	WishlistID  int64     `json:"wishlist_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShippingInfo is copied verbatim onto the order at checkout so the
// order keeps the address it shipped to, not a live reference.
type ShippingInfo struct {
	Name         string `json:"shipping_name"`
	AddressLine1 string `json:"shipping_address_line1"`
	AddressLine2 string `json:"shipping_address_line2,omitempty"`
	City         string `json:"shipping_city"`
	State        string `json:"shipping_state"`
	PostalCode   string `json:"shipping_postal_code"`
	Country      string `json:"shipping_country"`
	Phone        string `json:"shipping_phone"`
}

type Order struct {
	ID             int64           `json:"id"`
	UserID         int64           `json:"user_id"`
	OrderNumber    string          `json:"order_number"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	ShippingAmount decimal.Decimal `json:"shipping_amount"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentStatus  string          `json:"payment_status"`
	Shipping       ShippingInfo    `json:"shipping"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	Version        int             `json:"version"`
	Items          []OrderItem     `json:"items,omitempty"`
}

// OrderItem snapshots the product at purchase time. ProductName and
// UnitPrice stay accurate even if the product is later repriced or
// deleted.
type OrderItem struct {
	ID          int64           `json:"id"`
	OrderID     int64           `json:"order_id"`
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	CreatedAt   time.Time       `json:"created_at"`
}

const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusDeclined   = "declined"
	OrderStatusCancelled  = "cancelled"
)

const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
	PaymentStatusFailed  = "failed"
)

func OrderStatuses() []string {
	return []string{
		OrderStatusPending,
		OrderStatusProcessing,
		OrderStatusCompleted,
		OrderStatusDeclined,
		OrderStatusCancelled,
	}
}

func IsValidOrderStatus(status string) bool {
	for _, s := range OrderStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

const (
	ImageOwnerUser    = "user"
	ImageOwnerProduct = "product"
)

// Image is an attachment record tagged with its owner kind rather
// than a polymorphic reference.
type Image struct {
	ID        int64     `json:"id"`
	OwnerKind string    `json:"owner_kind"`
	OwnerID   int64     `json:"owner_id"`
	Path      string    `json:"path"`
	Filename  string    `json:"filename"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}
