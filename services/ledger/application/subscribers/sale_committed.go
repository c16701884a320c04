// Package subscribers holds the ledger's event handlers. They run in the
// worker for the durable bus and in-process for the in-memory bus.
package subscribers

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/stockledger/pkg/logger"
	ledgerevents "github.com/ghuser/stockledger/services/ledger/domain/events"
	"github.com/ghuser/stockledger/services/ledger/domain/repositories"
	domainsvcs "github.com/ghuser/stockledger/services/ledger/domain/services"
)

// Subscriber subscribes a handler to a topic. *events.EventBus implements it.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler func(context.Context, *message.Message) error) (<-chan error, error)
}

// Threshold reports the stock level below which a product counts as low.
// It is consulted per event so settings changes apply without a restart.
type Threshold func(ctx context.Context) int

// FixedThreshold returns a Threshold that always reports n.
func FixedThreshold(n int) Threshold {
	return func(context.Context) int { return n }
}

// Register wires all ledger event handlers on bus. readModel may be nil, in
// which case sales are not cached; ledger confirms every cached sale. Returns
// the subscribed topics.
func Register(ctx context.Context, bus Subscriber, readModel repositories.SaleReadModel, ledger domainsvcs.SaleLister, lowStockThreshold Threshold, log logger.Logger) ([]string, error) {
	topic := ledgerevents.TopicSaleCommitted
	errCh, err := bus.Subscribe(ctx, topic, HandleSaleCommitted(readModel, ledger, lowStockThreshold, log))
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", topic, err)
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			log.ErrorContext(ctx, "subscriber error", "topic", topic, "error", err)
		}
	}()
	return []string{topic}, nil
}

// HandleSaleCommitted returns a handler for sale.committed events.
// Handlers must be idempotent: EventBus retries up to 3x on failure.
// It warms the sale read model and reports lines that left a product low on stock.
// An event for a sale the ledger no longer holds leaves nothing in the cache.
func HandleSaleCommitted(readModel repositories.SaleReadModel, ledger domainsvcs.SaleLister, lowStockThreshold Threshold, log logger.Logger) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt ledgerevents.SaleCommittedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			// A payload that cannot be decoded will never succeed; drop it.
			log.ErrorContext(ctx, "undecodable sale.committed payload", "message_id", msg.UUID, "error", err)
			return nil
		}
		if evt.Version > ledgerevents.SaleCommittedVersion {
			log.WarnContext(ctx, "newer sale.committed schema", "version", evt.Version, "event_id", evt.EventID)
		}

		if readModel != nil {
			kept, err := domainsvcs.WarmReadModel(ctx, readModel, ledger, evt.Sale())
			switch {
			case err != nil:
				// Cache warming is best-effort; log but do not fail the handler.
				log.WarnContext(ctx, "cache warm failed for sale.committed",
					"sale_id", evt.SaleID, "error", err)
			case !kept:
				log.InfoContext(ctx, "sale no longer in the ledger, not cached", "sale_id", evt.SaleID)
			default:
				log.InfoContext(ctx, "cache warmed", "sale_id", evt.SaleID)
			}
		}

		threshold := lowStockThreshold(ctx)
		for _, l := range evt.Lines {
			if l.StockAfter < threshold {
				log.WarnContext(ctx, "product low on stock",
					"product_id", l.ProductID, "product", l.ProductName,
					"stock", l.StockAfter, "threshold", threshold, "sale_id", evt.SaleID)
			}
		}
		return nil
	}
}
