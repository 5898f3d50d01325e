package orders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"motogo-backend/internal/models"
	"motogo-backend/internal/modules/pricing"
	"motogo-backend/internal/observability"
	emailSvc "motogo-backend/pkg/email"
)

// UserDirectory is the slice of the user store the order service needs:
// resolving a customer for the completion receipt.
type UserDirectory interface {
	FindByID(ctx context.Context, userID string) (*models.User, error)
}

// ServiceInterface defines the contract for the order service.
type ServiceInterface interface {
	Quote(ctx context.Context, req models.QuoteRequest) (*QuoteResponse, error)
	CreateOrder(ctx context.Context, customerID string, req models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, orderID int, actorID string, role models.Role) (*models.Order, error)
	ListOrders(ctx context.Context, actorID string, role models.Role) ([]*models.Order, error)
	ListAllOrders(ctx context.Context) ([]*models.Order, error)
	AcceptOrder(ctx context.Context, orderID int, driverID string, role models.Role) (*models.Order, error)
	UpdateStatus(ctx context.Context, orderID int, driverID string, role models.Role, next models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID int, customerID string, role models.Role) (*models.Order, error)
}

// QuoteResponse is a priced quote the client can reference on creation.
type QuoteResponse struct {
	ID        string            `json:"id"`
	Breakdown pricing.Breakdown `json:"breakdown"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type cachedQuote struct {
	breakdown pricing.Breakdown
	expiresAt time.Time
}

// transition describes one legal edge of the order lifecycle: who may drive
// it and from which status. Everything else is rejected.
type transition struct {
	from          models.OrderStatus
	role          models.Role
	bindsDriver   bool // pending→accepted sets driver_id to the actor
	requireOwner  bool // actor must be the order's customer
	requireDriver bool // actor must be the order's assigned driver
}

var transitions = map[models.OrderStatus]transition{
	models.StatusAccepted:   {from: models.StatusPending, role: models.RoleDriver, bindsDriver: true},
	models.StatusCancelled:  {from: models.StatusPending, role: models.RoleCustomer, requireOwner: true},
	models.StatusInProgress: {from: models.StatusAccepted, role: models.RoleDriver, requireDriver: true},
	models.StatusCompleted:  {from: models.StatusInProgress, role: models.RoleDriver, requireDriver: true},
}

// Service implements the order lifecycle and pricing flow.
type Service struct {
	repo      RepositoryInterface
	users     UserDirectory
	resolver  pricing.DistanceResolver
	engine    *pricing.Engine
	emailer   emailSvc.ServiceInterface
	templates *emailSvc.TemplateManager
	logger    *slog.Logger

	quoteTTL       time.Duration
	quoteCache     map[string]cachedQuote
	quoteCacheLock sync.RWMutex
}

func NewService(
	repo RepositoryInterface,
	users UserDirectory,
	resolver pricing.DistanceResolver,
	engine *pricing.Engine,
	emailer emailSvc.ServiceInterface,
	templates *emailSvc.TemplateManager,
	logger *slog.Logger,
	quoteTTL time.Duration,
) *Service {
	return &Service{
		repo:       repo,
		users:      users,
		resolver:   resolver,
		engine:     engine,
		emailer:    emailer,
		templates:  templates,
		logger:     logger,
		quoteTTL:   quoteTTL,
		quoteCache: make(map[string]cachedQuote),
	}
}

// Quote resolves the distance between the two points and returns the full
// fare breakdown. The quote is cached briefly so creation can honor it.
func (s *Service) Quote(ctx context.Context, req models.QuoteRequest) (*QuoteResponse, error) {
	distance := s.resolver.DistanceKm(ctx, req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)
	breakdown := s.engine.Quote(distance)

	quote := &QuoteResponse{
		ID:        uuid.New().String(),
		Breakdown: breakdown,
		ExpiresAt: time.Now().Add(s.quoteTTL),
	}

	s.quoteCacheLock.Lock()
	s.quoteCache[quote.ID] = cachedQuote{breakdown: breakdown, expiresAt: quote.ExpiresAt}
	s.quoteCacheLock.Unlock()

	return quote, nil
}

// CreateOrder prices the trip and persists a pending order. The price is
// computed server-side, stored once, and never recomputed on status changes.
func (s *Service) CreateOrder(ctx context.Context, customerID string, req models.CreateOrderRequest) (*models.Order, error) {
	var price int
	if req.QuoteID != "" {
		cached, ok := s.takeQuote(req.QuoteID)
		if !ok {
			return nil, models.ErrQuoteExpired
		}
		price = cached.breakdown.Price
	} else {
		distance := s.resolver.DistanceKm(ctx, req.PickupLat, req.PickupLng, req.DropoffLat, req.DropoffLng)
		price = s.engine.Quote(distance).Price
	}

	order, err := s.repo.Create(ctx, customerID, req, price)
	if err != nil {
		return nil, fmt.Errorf("service.CreateOrder: %w", err)
	}

	observability.OrdersCreated.Inc()
	s.logger.Info("order created", "order_id", order.ID, "customer_id", customerID, "type", order.Type, "price", order.Price)
	return order, nil
}

func (s *Service) takeQuote(id string) (cachedQuote, bool) {
	s.quoteCacheLock.Lock()
	defer s.quoteCacheLock.Unlock()
	cached, ok := s.quoteCache[id]
	if !ok {
		return cachedQuote{}, false
	}
	delete(s.quoteCache, id)
	if time.Now().After(cached.expiresAt) {
		return cachedQuote{}, false
	}
	return cached, true
}

// GetOrder retrieves one order, scoped to what the actor may see: customers
// their own orders, drivers pending orders and their own assignments, admins
// everything. Out-of-scope lookups return NotFound to avoid leaking.
func (s *Service) GetOrder(ctx context.Context, orderID int, actorID string, role models.Role) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !visibleTo(order, actorID, role) {
		return nil, models.ErrNotFound
	}
	return order, nil
}

func visibleTo(order *models.Order, actorID string, role models.Role) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleCustomer:
		return order.CustomerID == actorID
	case models.RoleDriver:
		if order.Status == models.StatusPending {
			return true
		}
		return order.DriverID != nil && *order.DriverID == actorID
	}
	return false
}

// ListOrders returns the role-scoped order listing used by the polling UIs.
func (s *Service) ListOrders(ctx context.Context, actorID string, role models.Role) ([]*models.Order, error) {
	switch role {
	case models.RoleDriver:
		return s.repo.ListForDriver(ctx, actorID)
	case models.RoleAdmin:
		return s.repo.ListAll(ctx)
	default:
		return s.repo.ListByCustomer(ctx, actorID)
	}
}

// ListAllOrders lists every order in the system (admin view).
func (s *Service) ListAllOrders(ctx context.Context) ([]*models.Order, error) {
	return s.repo.ListAll(ctx)
}

// AcceptOrder claims a pending order for a driver.
func (s *Service) AcceptOrder(ctx context.Context, orderID int, driverID string, role models.Role) (*models.Order, error) {
	return s.applyTransition(ctx, orderID, driverID, role, models.StatusAccepted)
}

// UpdateStatus advances an accepted order to in_progress or completed.
func (s *Service) UpdateStatus(ctx context.Context, orderID int, driverID string, role models.Role, next models.OrderStatus) (*models.Order, error) {
	if next != models.StatusInProgress && next != models.StatusCompleted {
		return nil, models.ErrForbidden
	}
	return s.applyTransition(ctx, orderID, driverID, role, next)
}

// CancelOrder cancels a pending order on behalf of its customer.
func (s *Service) CancelOrder(ctx context.Context, orderID int, customerID string, role models.Role) (*models.Order, error) {
	return s.applyTransition(ctx, orderID, customerID, role, models.StatusCancelled)
}

// applyTransition checks the transition table against the actor, then lets
// the storage layer's conditional update arbitrate races. The pre-read gives
// friendly errors; the conditional update is the authority.
func (s *Service) applyTransition(ctx context.Context, orderID int, actorID string, role models.Role, next models.OrderStatus) (*models.Order, error) {
	t, ok := transitions[next]
	if !ok {
		return nil, models.ErrForbidden
	}
	if role != t.role {
		return nil, models.ErrForbidden
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if t.requireOwner && order.CustomerID != actorID {
		return nil, models.ErrForbidden
	}
	if t.requireDriver && (order.DriverID == nil || *order.DriverID != actorID) {
		return nil, models.ErrForbidden
	}
	if order.Status != t.from {
		return nil, conflictFor(next)
	}

	var bindDriver *string
	if t.bindsDriver {
		bindDriver = &actorID
	}

	updated, err := s.repo.ConditionalUpdateStatus(ctx, orderID, t.from, next, bindDriver)
	if err != nil {
		if errors.Is(err, models.ErrConflict) {
			observability.TransitionConflicts.WithLabelValues(string(next)).Inc()
			return nil, conflictFor(next)
		}
		return nil, fmt.Errorf("service.applyTransition: %w", err)
	}

	observability.OrderTransitions.WithLabelValues(string(next)).Inc()
	s.logger.Info("order transition", "order_id", orderID, "to", next, "actor_id", actorID)

	if next == models.StatusCompleted {
		s.sendReceipt(updated)
	}
	return updated, nil
}

// conflictFor picks the user-facing conflict message for a rejected edge.
func conflictFor(next models.OrderStatus) error {
	switch next {
	case models.StatusAccepted:
		return models.ErrOrderNotAvailable
	case models.StatusCancelled:
		return models.ErrOrderNotCancellable
	default:
		return models.ErrConflict
	}
}

// sendReceipt emails the customer their completed-trip receipt. Best-effort:
// runs detached so it never blocks or fails the transition.
func (s *Service) sendReceipt(order *models.Order) {
	if s.emailer == nil || s.templates == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		customer, err := s.users.FindByID(ctx, order.CustomerID)
		if err != nil {
			s.logger.Warn("receipt email: customer lookup failed", "order_id", order.ID, "error", err)
			return
		}

		html, err := s.templates.GenerateReceiptEmailHTML(emailSvc.ReceiptData{
			Name:           customer.FirstName,
			OrderID:        order.ID,
			PickupAddress:  order.PickupAddress,
			DropoffAddress: order.DropoffAddress,
			Price:          order.Price,
		})
		if err != nil {
			s.logger.Warn("receipt email: template failed", "order_id", order.ID, "error", err)
			return
		}

		subject := fmt.Sprintf("Your MotoGo receipt for order #%d", order.ID)
		plain := fmt.Sprintf("Thanks for riding with MotoGo! Order #%d from %s to %s, total RD$%d.",
			order.ID, order.PickupAddress, order.DropoffAddress, order.Price)
		if err := s.emailer.SendEmail(ctx, customer.Email, subject, plain, html); err != nil {
			s.logger.Warn("receipt email: send failed", "order_id", order.ID, "error", err)
		}
	}()
}
