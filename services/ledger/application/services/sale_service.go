package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ghuser/stockledger/pkg/events"
	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
	ledgerevents "github.com/ghuser/stockledger/services/ledger/domain/events"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/ledger/domain/repositories"
	domainsvcs "github.com/ghuser/stockledger/services/ledger/domain/services"
	salecsv "github.com/ghuser/stockledger/services/ledger/infrastructure/csv"
)

const instrumentationName = "github.com/ghuser/stockledger/services/ledger"

// Publisher publishes Watermill messages. *events.EventBus implements it.
type Publisher interface {
	Publish(ctx context.Context, topic string, msgs ...*message.Message) error
}

// SaleService commits and queries sales.
type SaleService struct {
	repo      repositories.SaleRepository
	readModel repositories.SaleReadModel // nil when no cache is configured
	publisher Publisher                  // nil disables events
	ids       *ids.Generator
	now       func() time.Time
	loc       *time.Location
	log       logger.Logger
	tracer    trace.Tracer
	metrics   saleMetrics
}

type saleMetrics struct {
	committed metric.Int64Counter
	revenue   metric.Float64Counter
	rejected  metric.Int64Counter
}

// Deps groups the SaleService collaborators. ReadModel and Publisher are optional.
type Deps struct {
	Repo      repositories.SaleRepository
	ReadModel repositories.SaleReadModel
	Publisher Publisher
	IDs       *ids.Generator
	Now       func() time.Time
	Location  *time.Location
	Log       logger.Logger
}

// NewSaleService returns a SaleService. Instruments are registered on the
// global OTel meter provider.
func NewSaleService(d Deps) (*SaleService, error) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.Location == nil {
		d.Location = time.Local
	}
	meter := otel.Meter(instrumentationName)
	committed, err := meter.Int64Counter("stockledger.sales.committed",
		metric.WithDescription("Number of committed sales"))
	if err != nil {
		return nil, fmt.Errorf("sales committed counter: %w", err)
	}
	revenue, err := meter.Float64Counter("stockledger.sales.revenue",
		metric.WithDescription("Revenue of committed sales"))
	if err != nil {
		return nil, fmt.Errorf("sales revenue counter: %w", err)
	}
	rejected, err := meter.Int64Counter("stockledger.sales.rejected",
		metric.WithDescription("Number of rejected sales by reason"))
	if err != nil {
		return nil, fmt.Errorf("sales rejected counter: %w", err)
	}
	return &SaleService{
		repo:      d.Repo,
		readModel: d.ReadModel,
		publisher: d.Publisher,
		ids:       d.IDs,
		now:       d.Now,
		loc:       d.Location,
		log:       d.Log,
		tracer:    otel.Tracer(instrumentationName),
		metrics:   saleMetrics{committed: committed, revenue: revenue, rejected: rejected},
	}, nil
}

// CommitSale records a sale for lines and decrements stock in the same store
// write. A rejected sale changes nothing.
func (s *SaleService) CommitSale(ctx context.Context, lines []models.Line, customer string) (*models.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.CommitSale", trace.WithAttributes(
		attribute.Int("sale.lines", len(lines)),
	))
	defer span.End()

	var (
		sale  models.Sale
		after []catalog.Product
	)
	err := s.repo.Commit(ctx, func(products []catalog.Product, sales []models.Sale) ([]catalog.Product, []models.Sale, error) {
		id := s.ids.Next(ids.Max(sales, models.SaleID))
		committed, next, err := domainsvcs.Commit(products, lines, customer, id, s.now())
		if err != nil {
			return nil, nil, err
		}
		sale, after = committed, next
		return next, append(sales, committed), nil
	})
	if err != nil {
		reason := ledgerdomain.RejectReason(err)
		s.metrics.rejected.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
		s.log.WarnContext(ctx, "sale rejected", "reason", reason, "error", err)
		return nil, fmt.Errorf("commit sale: %w", err)
	}

	span.SetAttributes(attribute.Int64("sale.id", sale.ID), attribute.String("sale.total", sale.TotalPrice.String()))
	s.metrics.committed.Add(ctx, 1)
	s.metrics.revenue.Add(ctx, sale.TotalPrice.InexactFloat64())
	s.log.InfoContext(ctx, "sale committed",
		"sale_id", sale.ID, "items", sale.ItemCount(), "total", sale.TotalPrice.String())

	s.publishCommitted(ctx, sale, after)
	return &sale, nil
}

// publishCommitted emits sale.committed. The sale is already durable, so a
// publish failure is logged and not returned.
func (s *SaleService) publishCommitted(ctx context.Context, sale models.Sale, after []catalog.Product) {
	if s.publisher == nil {
		return
	}
	evt := ledgerevents.NewSaleCommitted(sale, func(pid int64) int {
		return domainsvcs.StockAfter(after, pid)
	}, s.now().UTC())
	msg, err := events.NewMessage(evt)
	if err != nil {
		s.log.ErrorContext(ctx, "encode sale event", "sale_id", sale.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, ledgerevents.TopicSaleCommitted, msg); err != nil {
		s.log.ErrorContext(ctx, "publish sale event", "sale_id", sale.ID, "error", err)
	}
}

// List returns the sales matching search, newest first.
func (s *SaleService) List(ctx context.Context, search string) ([]models.Sale, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	return models.Search(sales, search), nil
}

// All returns every sale in stored order.
func (s *SaleService) All(ctx context.Context) ([]models.Sale, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if sales == nil {
		sales = []models.Sale{}
	}
	return sales, nil
}

// Recent returns the n newest sales.
func (s *SaleService) Recent(ctx context.Context, n int) ([]models.Sale, error) {
	sales, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	if n >= 0 && len(sales) > n {
		sales = sales[:n]
	}
	return sales, nil
}

// Get retrieves a sale using a read-through cache:
//  1. Check the read model first.
//  2. On a miss (or cache error), load the sales document.
//  3. Warm the read model with the result, then confirm the entry against
//     the ledger so a concurrent reset or import cannot leave it behind.
func (s *SaleService) Get(ctx context.Context, id int64) (*models.Sale, error) {
	if s.readModel != nil {
		sale, ok, err := s.readModel.Get(ctx, id)
		if err != nil {
			s.log.WarnContext(ctx, "sale cache read failed", "sale_id", id, "error", err)
		} else if ok {
			return &sale, nil
		}
	}

	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	i := models.Find(sales, id)
	if i < 0 {
		return nil, ledgerdomain.ErrSaleNotFound
	}
	sale := sales[i]

	if s.readModel != nil {
		if _, err := domainsvcs.WarmReadModel(ctx, s.readModel, s.repo, sale); err != nil {
			s.log.WarnContext(ctx, "sale cache write failed", "sale_id", id, "error", err)
		}
	}
	return &sale, nil
}

// ExportCSV renders every sale in the given flavor, newest first.
func (s *SaleService) ExportCSV(ctx context.Context, flavor salecsv.Flavor) ([]byte, error) {
	sales, err := s.List(ctx, "")
	if err != nil {
		return nil, err
	}
	return salecsv.EncodeSales(sales, flavor, s.loc), nil
}

// Location is the zone used for calendar days.
func (s *SaleService) Location() *time.Location { return s.loc }
