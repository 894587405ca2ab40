package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/logx"
	"storefront/internal/notify"
	"storefront/internal/service/cart"
	"storefront/internal/storage"
)

type stubCart struct {
	lines    []domain.CartLine
	clearErr error
	cleared  bool
}

func (c *stubCart) Checkout(_ context.Context, place func([]domain.CartLine) error) (error, error) {
	if err := place(c.lines); err != nil {
		return nil, err
	}
	c.cleared = true
	c.lines = nil
	return c.clearErr, nil
}

type recordingPublisher struct {
	orders []domain.Order
	err    error
}

func (p *recordingPublisher) PublishOrderPlaced(_ context.Context, o domain.Order) error {
	if p.err != nil {
		return p.err
	}
	p.orders = append(p.orders, o)
	return nil
}

func line(price float64, qty int) domain.CartLine {
	return domain.CartLine{
		Product:  domain.Product{ID: "p", Name: "P", Price: price},
		Color:    "Black",
		Size:     "M",
		Quantity: qty,
	}
}

func validRequest() Request {
	return Request{
		Shipping: domain.ShippingAddress{
			FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
			Phone: "555-0100", Address: "1 Analytical Way", City: "London",
			State: "LDN", Zip: "N1", Country: "UK",
		},
		Payment: domain.PaymentUPI,
	}
}

func newTestService(pub *recordingPublisher) *Service {
	s := New(pub, logx.Nop())
	s.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	s.newID = func() string { return "ord-1" }
	return s
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		subtotal, delivery, total string
		free                      bool
	}{
		{"0", "9.99", "9.99", false},
		{"100", "9.99", "109.99", false},
		{"100.01", "0", "100.01", true},
		{"130", "0", "130", true},
	}
	for _, tc := range cases {
		s := Summarize(decimal.RequireFromString(tc.subtotal))
		assert.True(t, s.Delivery.Equal(decimal.RequireFromString(tc.delivery)), tc.subtotal)
		assert.True(t, s.Total.Equal(decimal.RequireFromString(tc.total)), tc.subtotal)
		assert.Equal(t, tc.free, s.FreeDelivery, tc.subtotal)
	}
}

func TestSummarizeLines(t *testing.T) {
	s := SummarizeLines([]domain.CartLine{line(50, 2), line(30, 1)})
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, "130.00", s.Subtotal.StringFixed(2))
	assert.True(t, s.FreeDelivery)
}

func TestRequestValidate(t *testing.T) {
	require.NoError(t, validRequest().Validate())

	r := validRequest()
	r.Shipping.City = ""
	assert.ErrorIs(t, r.Validate(), ErrInvalidRequest)

	r = validRequest()
	r.Shipping.Email = "not-an-email"
	assert.ErrorIs(t, r.Validate(), ErrInvalidRequest)

	r = validRequest()
	r.Payment = "bitcoin"
	assert.ErrorIs(t, r.Validate(), ErrInvalidRequest)

	r = validRequest()
	r.Payment = ""
	assert.ErrorIs(t, r.Validate(), ErrInvalidRequest)
}

func TestPlaceOrder(t *testing.T) {
	pub := &recordingPublisher{}
	c := &stubCart{lines: []domain.CartLine{line(50, 2), line(30, 1)}}
	queue := notify.NewQueue(0)

	order, err := newTestService(pub).PlaceOrder(context.Background(), "origin-a", c, queue, validRequest())
	require.NoError(t, err)

	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "origin-a", order.Origin)
	assert.Equal(t, "130.00", order.Total.StringFixed(2))
	assert.Len(t, order.Lines, 2)
	assert.True(t, c.cleared)
	require.Len(t, pub.orders, 1)
	assert.Equal(t, order.ID, pub.orders[0].ID)

	notes := queue.Drain()
	require.Len(t, notes, 1)
	assert.Equal(t, "Order Placed!", notes[0].Title)
}

func TestPlaceOrderAddsDeliveryBelowThreshold(t *testing.T) {
	c := &stubCart{lines: []domain.CartLine{line(40, 1)}}
	order, err := newTestService(&recordingPublisher{}).PlaceOrder(context.Background(), "o", c, notify.NewQueue(0), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "9.99", order.Delivery.StringFixed(2))
	assert.Equal(t, "49.99", order.Total.StringFixed(2))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	pub := &recordingPublisher{}
	_, err := newTestService(pub).PlaceOrder(context.Background(), "o", &stubCart{}, notify.NewQueue(0), validRequest())
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, pub.orders)
}

func TestPlaceOrderInvalidRequestKeepsCart(t *testing.T) {
	c := &stubCart{lines: []domain.CartLine{line(40, 1)}}
	req := validRequest()
	req.Payment = ""
	_, err := newTestService(&recordingPublisher{}).PlaceOrder(context.Background(), "o", c, notify.NewQueue(0), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.False(t, c.cleared)
}

func TestPlaceOrderPublishFailureKeepsCart(t *testing.T) {
	boom := errors.New("broker down")
	c := &stubCart{lines: []domain.CartLine{line(40, 1)}}
	queue := notify.NewQueue(0)
	_, err := newTestService(&recordingPublisher{err: boom}).PlaceOrder(context.Background(), "o", c, queue, validRequest())
	assert.ErrorIs(t, err, boom)
	assert.False(t, c.cleared)
	assert.Empty(t, queue.Drain())
}

func TestPlaceOrderSurvivesClearFailure(t *testing.T) {
	c := &stubCart{lines: []domain.CartLine{line(40, 1)}, clearErr: errors.New("disk full")}
	order, err := newTestService(&recordingPublisher{}).PlaceOrder(context.Background(), "o", c, notify.NewQueue(0), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "ord-1", order.ID)
	assert.True(t, c.cleared)
}

// addingPublisher adds a line to the cart from another goroutine while the
// order is being published.
type addingPublisher struct {
	cart  *cart.Cart
	extra domain.Product
	added chan error
}

func (p *addingPublisher) PublishOrderPlaced(ctx context.Context, _ domain.Order) error {
	go func() { p.added <- p.cart.AddItem(ctx, p.extra, "Black", "M", 1) }()
	return nil
}

func TestPlaceOrderKeepsLineAddedDuringPublish(t *testing.T) {
	ctx := context.Background()
	c, err := cart.Load(ctx, storage.Scoped(storage.NewMemory(), "o"), notify.NewQueue(0), logx.Nop())
	require.NoError(t, err)
	require.NoError(t, c.AddItem(ctx, domain.Product{ID: "a", Name: "A", Price: 40}, "Black", "M", 1))

	pub := &addingPublisher{cart: c, extra: domain.Product{ID: "b", Name: "B", Price: 20}, added: make(chan error, 1)}
	s := New(pub, logx.Nop())

	order, err := s.PlaceOrder(ctx, "o", c, notify.NewQueue(0), validRequest())
	require.NoError(t, err)
	require.NoError(t, <-pub.added)

	require.Len(t, order.Lines, 1)
	assert.Equal(t, "a", order.Lines[0].Product.ID)
	lines := c.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "b", lines[0].Product.ID)
}
