package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is the option picked at checkout. Nothing is charged.
type PaymentMethod string

const (
	PaymentCard PaymentMethod = "card"
	PaymentUPI  PaymentMethod = "upi"
	PaymentCOD  PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentCOD:
		return true
	}
	return false
}

// ShippingAddress holds the contact and address fields collected at checkout.
type ShippingAddress struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"required"`
	Address   string `json:"address" binding:"required"`
	City      string `json:"city" binding:"required"`
	State     string `json:"state" binding:"required"`
	Zip       string `json:"zip" binding:"required"`
	Country   string `json:"country" binding:"required"`
}

// Order is the record of a simulated purchase.
type Order struct {
	ID       string          `json:"id"`
	Origin   string          `json:"origin"`
	Lines    []CartLine      `json:"lines"`
	Shipping ShippingAddress `json:"shipping"`
	Payment  PaymentMethod   `json:"payment"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Delivery decimal.Decimal `json:"delivery"`
	Total    decimal.Decimal `json:"total"`
	PlacedAt time.Time       `json:"placedAt"`
}
