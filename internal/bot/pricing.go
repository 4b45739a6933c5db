package bot

import (
	"context"
	"fmt"

	"github.com/wolfman30/whatsapp-order-bot/internal/catalog"
	"github.com/wolfman30/whatsapp-order-bot/internal/orders"
)

// Quote is the priced result of a batch of item requests.
type Quote struct {
	Items []orders.LineItem
	Total catalog.Cents
}

// PricingEngine resolves item requests against the catalog.
type PricingEngine struct {
	catalog catalog.Repository
}

// NewPricingEngine creates a pricing engine over the given catalog.
func NewPricingEngine(repo catalog.Repository) *PricingEngine {
	if repo == nil {
		panic("bot: catalog repository cannot be nil")
	}
	return &PricingEngine{catalog: repo}
}

// Price batch-looks-up the requested ids and emits one line item per resolved
// request, in request order. Requests whose id is not in the catalog are
// silently dropped: no line item and no error. Requests with a non-positive
// quantity are dropped the same way. If everything drops, the quote has no
// items and a zero total.
func (e *PricingEngine) Price(ctx context.Context, requests []ItemRequest) (Quote, error) {
	if len(requests) == 0 {
		return Quote{}, nil
	}

	ids := make([]int64, 0, len(requests))
	for _, req := range requests {
		ids = append(ids, req.ProductID)
	}
	products, err := e.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return Quote{}, fmt.Errorf("bot: price lookup: %w", err)
	}
	byID := make(map[int64]catalog.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var quote Quote
	for _, req := range requests {
		if req.Quantity <= 0 {
			continue
		}
		product, ok := byID[req.ProductID]
		if !ok {
			continue
		}
		lineTotal := product.UnitPrice.Mul(req.Quantity)
		quote.Items = append(quote.Items, orders.LineItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.UnitPrice,
			Quantity:  req.Quantity,
			LineTotal: lineTotal,
		})
		quote.Total += lineTotal
	}
	return quote, nil
}
