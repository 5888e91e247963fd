package api

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartProduct is the denormalized product snapshot embedded in a cart line.
// The server owns it; the client only caches the last-seen copy.
type CartProduct struct {
	ID          string           `json:"_id" validate:"required"`
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       string           `json:"image,omitempty"`
	Description string           `json:"description,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
}

// CartItem is one line in the cart. The line ID is assigned by the server;
// locally created placeholders carry an empty ID until the server responds.
type CartItem struct {
	ID       string       `json:"_id,omitempty"`
	Product  *CartProduct `json:"product" validate:"required"`
	Quantity int          `json:"quantity"`
}

// ProductID returns the embedded product's identifier, or "" when the line
// is structurally incomplete.
func (i CartItem) ProductID() string {
	if i.Product == nil {
		return ""
	}
	return i.Product.ID
}

// Valid reports whether the line is renderable: a present product with a
// non-empty identifier.
func (i CartItem) Valid() bool {
	return i.Product != nil && i.Product.ID != ""
}

// Product is a catalog entry.
type Product struct {
	ID          string           `json:"_id" validate:"required"`
	Name        string           `json:"name"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Image       string           `json:"image,omitempty"`
	Description string           `json:"description,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	ShopID      string           `json:"shop,omitempty"`
	Category    string           `json:"category,omitempty"`
}

// Location is a latitude/longitude pair.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// Shop is a storefront users browse and order from.
type Shop struct {
	ID          string    `json:"_id" validate:"required"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Address     string    `json:"address,omitempty"`
	Location    *Location `json:"location,omitempty"`
	IsOpen      bool      `json:"isOpen"`
}

// Address is one saved entry in the user's address book.
type Address struct {
	ID         string  `json:"_id,omitempty"`
	Label      string  `json:"label,omitempty"`
	Line1      string  `json:"line1"`
	City       string  `json:"city"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postalCode,omitempty"`
	Country    string  `json:"country,omitempty"`
	Latitude   float64 `json:"lat,omitempty"`
	Longitude  float64 `json:"lng,omitempty"`
	PlaceID    string  `json:"placeId,omitempty"`
}

// Order is a placed order as returned by the server.
type Order struct {
	ID          string           `json:"_id" validate:"required"`
	Items       []CartItem       `json:"items"`
	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
	Status      string           `json:"status"`
	Address     *Address         `json:"address,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// OrderTracking is the courier position and status for an in-flight order.
type OrderTracking struct {
	OrderID   string    `json:"order"`
	Status    string    `json:"status"`
	Courier   *Location `json:"courier,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CreateOrderInput is the payload for placing an order from the current cart.
type CreateOrderInput struct {
	AddressID string `json:"address" validate:"required"`
	Note      string `json:"note,omitempty"`
}

// AddressInput is the payload for creating or updating an address entry.
type AddressInput struct {
	Label      string  `json:"label,omitempty"`
	Line1      string  `json:"line1" validate:"required"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state,omitempty"`
	PostalCode string  `json:"postalCode,omitempty"`
	Country    string  `json:"country,omitempty"`
	Latitude   float64 `json:"lat,omitempty"`
	Longitude  float64 `json:"lng,omitempty"`
	PlaceID    string  `json:"placeId,omitempty"`
}

// ProductListParams filters and pages the catalog listing.
type ProductListParams struct {
	ShopID string
	Search string
	Page   int
	Limit  int
}

// LoginInput carries the credentials for POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenPair is the payload returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken" validate:"required"`
	RefreshToken string `json:"refreshToken,omitempty"`
}
