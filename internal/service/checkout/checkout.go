// Package checkout prices the cart and simulates order placement.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/events"
	"storefront/internal/notify"
	"storefront/internal/service/cart"
)

// ErrInvalidRequest wraps every checkout form validation failure.
var ErrInvalidRequest = errors.New("invalid checkout request")

var (
	// FreeDeliveryThreshold is the subtotal above which delivery is free.
	FreeDeliveryThreshold = decimal.NewFromInt(100)
	// DeliveryFee is charged at or below the threshold.
	DeliveryFee = decimal.RequireFromString("9.99")
)

// Summary is the order total shown beside the checkout form.
type Summary struct {
	TotalItems   int             `json:"totalItems"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	Delivery     decimal.Decimal `json:"delivery"`
	Total        decimal.Decimal `json:"total"`
	FreeDelivery bool            `json:"freeDelivery"`
}

// Summarize applies the delivery rule to subtotal.
func Summarize(subtotal decimal.Decimal) Summary {
	s := Summary{Subtotal: subtotal, Delivery: DeliveryFee}
	if subtotal.GreaterThan(FreeDeliveryThreshold) {
		s.Delivery = decimal.Zero
		s.FreeDelivery = true
	}
	s.Total = subtotal.Add(s.Delivery)
	return s
}

// SummarizeLines totals lines and applies the delivery rule.
func SummarizeLines(lines []domain.CartLine) Summary {
	s := Summarize(cart.Subtotal(lines))
	for _, l := range lines {
		s.TotalItems += l.Quantity
	}
	return s
}

// Request is the submitted checkout form. Rules live in binding tags so gin
// applies them when binding and Validate applies the same ones otherwise.
type Request struct {
	Shipping domain.ShippingAddress `json:"shipping"`
	Payment  domain.PaymentMethod   `json:"payment" binding:"required,oneof=card upi cod"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	return v
}

// Validate requires every shipping field, a well-formed email and a known
// payment method.
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// Cart is the part of the cart container checkout needs.
type Cart interface {
	Checkout(ctx context.Context, place func(lines []domain.CartLine) error) (persistErr error, err error)
}

// Service places orders. Nothing is charged; placing an order publishes an
// event and empties the cart.
type Service struct {
	publisher events.Publisher
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

func New(publisher events.Publisher, logger zerolog.Logger) *Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &Service{
		publisher: publisher,
		logger:    logger.With().Str("service", "checkout").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// PlaceOrder validates req, records the order and clears c. The cart stays
// locked from reading its lines until it is cleared. A failed write of the
// emptied cart is logged but does not undo the order.
func (s *Service) PlaceOrder(ctx context.Context, origin string, c Cart, notifier notify.Notifier, req Request) (domain.Order, error) {
	if err := req.Validate(); err != nil {
		return domain.Order{}, err
	}

	var order domain.Order
	persistErr, err := c.Checkout(ctx, func(lines []domain.CartLine) error {
		if len(lines) == 0 {
			return domain.ErrEmptyCart
		}
		sum := SummarizeLines(lines)
		order = domain.Order{
			ID:       s.newID(),
			Origin:   origin,
			Lines:    lines,
			Shipping: req.Shipping,
			Payment:  req.Payment,
			Subtotal: sum.Subtotal,
			Delivery: sum.Delivery,
			Total:    sum.Total,
			PlacedAt: s.now().UTC(),
		}
		if err := s.publisher.PublishOrderPlaced(ctx, order); err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}
	if persistErr != nil {
		s.logger.Warn().Err(persistErr).Str("order_id", order.ID).Msg("cart not persisted after order")
	}

	s.logger.Info().
		Str("order_id", order.ID).
		Str("origin", origin).
		Str("total", order.Total.StringFixed(2)).
		Str("payment", string(order.Payment)).
		Msg("order placed")
	notifier.Notify(ctx, notify.Notification{
		Title:       "Order Placed!",
		Description: "Thank you for your purchase. Your order is being processed.",
	})
	return order, nil
}
