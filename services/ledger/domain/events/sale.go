package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// TopicSaleCommitted is the Watermill topic published when a sale is committed.
const TopicSaleCommitted = "sale.committed"

// SaleCommittedVersion is the current schema version of SaleCommittedEvent.
const SaleCommittedVersion = 1

// SaleCommittedLine is one sold line with the product's stock after the commit.
type SaleCommittedLine struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Total       decimal.Decimal `json:"total"`
	StockAfter  int             `json:"stock_after"`
}

// SaleCommittedEvent is published after a sale and its stock changes are persisted.
// Consumers subscribe via EventBus.Subscribe(ctx, events.TopicSaleCommitted).
type SaleCommittedEvent struct {
	EventID      uuid.UUID           `json:"event_id"` // Unique publish-time identifier for deduplication
	Version      int                 `json:"version"`  // Schema version; increment on breaking changes
	SaleID       int64               `json:"sale_id"`
	Date         time.Time           `json:"date"`
	CustomerName string              `json:"customer_name,omitempty"`
	TotalPrice   decimal.Decimal     `json:"total_price"`
	Lines        []SaleCommittedLine `json:"lines"`
	OccurredAt   time.Time           `json:"occurred_at"`
}

// NewSaleCommitted builds the event for sale. stockAfter maps a product id to
// its stock once the sale was applied.
func NewSaleCommitted(sale models.Sale, stockAfter func(productID int64) int, occurredAt time.Time) SaleCommittedEvent {
	lines := make([]SaleCommittedLine, 0, len(sale.Items))
	for _, it := range sale.Items {
		lines = append(lines, SaleCommittedLine{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price,
			Total:       it.Total,
			StockAfter:  stockAfter(it.ProductID),
		})
	}
	return SaleCommittedEvent{
		EventID:      uuid.New(),
		Version:      SaleCommittedVersion,
		SaleID:       sale.ID,
		Date:         sale.Date,
		CustomerName: sale.CustomerName,
		TotalPrice:   sale.TotalPrice,
		Lines:        lines,
		OccurredAt:   occurredAt,
	}
}

// Sale reconstructs the committed sale from the event.
func (e SaleCommittedEvent) Sale() models.Sale {
	items := make([]models.SaleItem, 0, len(e.Lines))
	for _, l := range e.Lines {
		items = append(items, models.SaleItem{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			Quantity:    l.Quantity,
			Price:       l.Price,
			Total:       l.Total,
		})
	}
	return models.Sale{
		ID:           e.SaleID,
		Date:         e.Date,
		Items:        items,
		TotalPrice:   e.TotalPrice,
		CustomerName: e.CustomerName,
	}
}
