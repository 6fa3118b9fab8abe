package order

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/shopcore/shop-backend/internal/metrics"
	"github.com/shopcore/shop-backend/internal/product"
)

const (
	// MaxLineItems bounds the compensation loop's cost.
	MaxLineItems = 50
	MaxItemQty   = 1000
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// StockReserver is the guarded-update capability the service needs from the
// product store: a conditional decrement that captures a name/price snapshot,
// and the compensating increment.
type StockReserver interface {
	DecrementStock(ctx context.Context, id string, qty int) (*product.Snapshot, error)
	IncrementStock(ctx context.Context, id string, qty int) error
}

type Service struct {
	repo  Repository
	stock StockReserver
}

func NewService(repo Repository, stock StockReserver) *Service {
	return &Service{repo: repo, stock: stock}
}

type reservation struct {
	productID string
	qty       int
	snap      *product.Snapshot
}

// Place validates the request, reserves stock for every line item with
// all-or-nothing semantics, and persists the priced order with status pending.
//
// Reservation is a sequence of guarded single-row decrements, not a
// transaction: any item's failure triggers compensating increments for every
// item already reserved in this request. Between the last decrement and the
// compensation another request can observe the partially applied stock; the
// window is a known limitation of the single-row atomicity this relies on.
func (s *Service) Place(ctx context.Context, req PlaceOrderRequest) (*Order, error) {
	if err := validate(req); err != nil {
		metrics.OrdersTotal.WithLabelValues("validation_failed").Inc()
		return nil, err
	}

	var reserved []reservation
	for _, it := range req.Items {
		ref := strings.TrimSpace(it.Ref())
		pid, err := uuid.Parse(ref)
		if err != nil {
			s.compensate(ctx, reserved)
			metrics.OrdersTotal.WithLabelValues("invalid_reference").Inc()
			return nil, fmt.Errorf("%w: %q is not a valid product id", ErrInvalidReference, ref)
		}

		snap, err := s.stock.DecrementStock(ctx, pid.String(), it.Quantity)
		if err != nil {
			s.compensate(ctx, reserved)
			switch {
			case errors.Is(err, product.ErrNotFound):
				metrics.OrdersTotal.WithLabelValues("invalid_reference").Inc()
				return nil, fmt.Errorf("%w: product %s does not exist", ErrInvalidReference, pid)
			case errors.Is(err, product.ErrInsufficientStock):
				metrics.OrdersTotal.WithLabelValues("insufficient_stock").Inc()
				return nil, fmt.Errorf("%w for product %s", ErrInsufficientStock, pid)
			default:
				metrics.OrdersTotal.WithLabelValues("persistence_error").Inc()
				return nil, err
			}
		}
		metrics.ItemsReserved.Add(float64(it.Quantity))
		reserved = append(reserved, reservation{productID: pid.String(), qty: it.Quantity, snap: snap})
	}

	o := &Order{
		ID:            uuid.NewString(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Address:       strings.TrimSpace(req.Address),
		Status:        StatusPending,
	}
	total := decimal.Zero
	for _, r := range reserved {
		price, err := decimal.NewFromString(r.snap.Price)
		if err != nil {
			s.compensate(ctx, reserved)
			metrics.OrdersTotal.WithLabelValues("persistence_error").Inc()
			return nil, fmt.Errorf("bad stored price for product %s: %w", r.productID, err)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(r.qty))))
		o.Items = append(o.Items, Item{
			ID:        uuid.NewString(),
			OrderID:   o.ID,
			ProductID: r.productID,
			Name:      r.snap.Name,
			Quantity:  r.qty,
			Price:     price.StringFixed(2),
		})
	}
	o.Total = total.Round(2).StringFixed(2)

	if err := s.repo.Create(ctx, o, o.Items); err != nil {
		// No order row may survive a failed placement, so the reservations
		// are rolled back even though every decrement succeeded.
		s.compensate(ctx, reserved)
		metrics.OrdersTotal.WithLabelValues("persistence_error").Inc()
		return nil, err
	}
	metrics.OrdersTotal.WithLabelValues("success").Inc()
	return o, nil
}

// compensate restores stock for every reservation, in the order the decrements
// were applied. A failed increment leaves stock under-counted; it is logged and
// counted so operators can alert on it, and the loop keeps going.
func (s *Service) compensate(ctx context.Context, reserved []reservation) {
	for _, r := range reserved {
		if err := s.stock.IncrementStock(ctx, r.productID, r.qty); err != nil {
			metrics.CompensationFailures.Inc()
			log.WithFields(log.Fields{
				"product_id": r.productID,
				"qty":        r.qty,
			}).WithError(err).Error("stock compensation failed; stock is under-counted")
			continue
		}
		metrics.Compensations.Inc()
	}
}

// UpdateStatus moves an order to next, rejecting unknown statuses and the
// delivered -> pending transition.
func (s *Service) UpdateStatus(ctx context.Context, id, next string) (*Order, error) {
	if !ValidStatus(next) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, next)
	}
	cur, _, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanTransition(cur.Status, next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, next)
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		return nil, err
	}
	cur.Status = next
	return cur, nil
}

func validate(req PlaceOrderRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" {
		return fmt.Errorf("%w: customerName is required", ErrValidation)
	}
	email := strings.TrimSpace(req.CustomerEmail)
	if email == "" {
		return fmt.Errorf("%w: customerEmail is required", ErrValidation)
	}
	if !emailRx.MatchString(email) {
		return fmt.Errorf("%w: customerEmail is not a valid address", ErrValidation)
	}
	if strings.TrimSpace(req.Address) == "" {
		return fmt.Errorf("%w: address is required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("%w: items must not be empty", ErrValidation)
	}
	if len(req.Items) > MaxLineItems {
		return fmt.Errorf("%w: at most %d line items per order", ErrValidation, MaxLineItems)
	}
	for i, it := range req.Items {
		if strings.TrimSpace(it.Ref()) == "" {
			return fmt.Errorf("%w: items[%d] is missing a product id", ErrValidation, i)
		}
		if it.Quantity < 1 || it.Quantity > MaxItemQty {
			return fmt.Errorf("%w: items[%d] quantity must be between 1 and %d", ErrValidation, i, MaxItemQty)
		}
	}
	return nil
}
