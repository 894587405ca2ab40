package httpserver

import (
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
	"storefront/internal/notify"
	"storefront/internal/service/checkout"
	"storefront/internal/session"
)

type productView struct {
	domain.Product
	DiscountPercent int `json:"discountPercent,omitempty"`
}

type productListResponse struct {
	Total    int           `json:"total"`
	Products []productView `json:"products"`
}

type cartLineView struct {
	Product   productView     `json:"product"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

type cartResponse struct {
	Lines         []cartLineView        `json:"lines"`
	TotalItems    int                   `json:"totalItems"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	Notifications []notify.Notification `json:"notifications"`
}

type wishlistResponse struct {
	Items         []productView         `json:"items"`
	TotalItems    int                   `json:"totalItems"`
	Notifications []notify.Notification `json:"notifications"`
}

type wishlistContainsResponse struct {
	ProductID  string `json:"productId"`
	Wishlisted bool   `json:"wishlisted"`
}

type summaryResponse struct {
	checkout.Summary
	Lines []cartLineView `json:"lines"`
}

type orderResponse struct {
	Order         domain.Order          `json:"order"`
	Notifications []notify.Notification `json:"notifications"`
}

func toProductView(p domain.Product) productView {
	return productView{Product: p, DiscountPercent: p.DiscountPercent()}
}

func toProductViews(products []domain.Product) []productView {
	out := make([]productView, 0, len(products))
	for _, p := range products {
		out = append(out, toProductView(p))
	}
	return out
}

func toCartLineViews(lines []domain.CartLine) []cartLineView {
	out := make([]cartLineView, 0, len(lines))
	for _, l := range lines {
		out = append(out, cartLineView{
			Product:   toProductView(l.Product),
			Color:     l.Color,
			Size:      l.Size,
			Quantity:  l.Quantity,
			LineTotal: decimal.NewFromFloat(l.Product.Price).Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return out
}

func buildCartResponse(sess *session.Session) cartResponse {
	snap := sess.Cart.Snapshot()
	return cartResponse{
		Lines:         toCartLineViews(snap.Lines),
		TotalItems:    snap.TotalItems,
		Subtotal:      snap.Subtotal,
		Notifications: drain(sess),
	}
}

func buildWishlistResponse(sess *session.Session) wishlistResponse {
	items := sess.Wishlist.Items()
	return wishlistResponse{
		Items:         toProductViews(items),
		TotalItems:    len(items),
		Notifications: drain(sess),
	}
}

func drain(sess *session.Session) []notify.Notification {
	out := sess.Notifications.Drain()
	if out == nil {
		return []notify.Notification{}
	}
	return out
}
