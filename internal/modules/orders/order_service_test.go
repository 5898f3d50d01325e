package orders

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"motogo-backend/internal/config"
	"motogo-backend/internal/models"
	"motogo-backend/internal/modules/pricing"
)

// fakeOrderRepo is an in-memory RepositoryInterface. ConditionalUpdateStatus
// holds the mutex across check and write, mirroring the atomicity the SQL
// conditional UPDATE provides.
type fakeOrderRepo struct {
	mu     sync.Mutex
	nextID int
	orders map[int]*models.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[int]*models.Order)}
}

func (r *fakeOrderRepo) Create(_ context.Context, customerID string, req models.CreateOrderRequest, price int) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := time.Now()
	order := &models.Order{
		ID:             r.nextID,
		CustomerID:     customerID,
		Type:           req.Type,
		Status:         models.StatusPending,
		PickupAddress:  req.PickupAddress,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		DropoffAddress: req.DropoffAddress,
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		Price:          price,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.orders[order.ID] = order
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) FindByID(_ context.Context, orderID int) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListForDriver(_ context.Context, driverID string) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Order
	for _, o := range r.orders {
		mine := o.DriverID != nil && *o.DriverID == driverID &&
			(o.Status == models.StatusAccepted || o.Status == models.StatusInProgress)
		if o.Status == models.StatusPending || mine {
			out = append(out, cloneOrder(o))
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) ListAll(_ context.Context) ([]*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Order
	for _, o := range r.orders {
		out = append(out, cloneOrder(o))
	}
	return out, nil
}

func (r *fakeOrderRepo) ConditionalUpdateStatus(_ context.Context, orderID int, expected, next models.OrderStatus, driverID *string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.orders[orderID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if order.Status != expected {
		return nil, models.ErrConflict
	}
	order.Status = next
	if driverID != nil {
		id := *driverID
		order.DriverID = &id
	}
	order.UpdatedAt = time.Now()
	return cloneOrder(order), nil
}

func cloneOrder(o *models.Order) *models.Order {
	c := *o
	if o.DriverID != nil {
		id := *o.DriverID
		c.DriverID = &id
	}
	return &c
}

type fakeUserDirectory struct{}

func (fakeUserDirectory) FindByID(_ context.Context, userID string) (*models.User, error) {
	return &models.User{ID: userID, Email: userID + "@example.com"}, nil
}

// fixedResolver always reports the same distance.
type fixedResolver struct{ km float64 }

func (r fixedResolver) DistanceKm(_ context.Context, _, _, _, _ float64) float64 {
	return r.km
}

func testPricingConfig() config.PricingConfig {
	return config.PricingConfig{
		BaseFare:     30,
		DistanceRate: 12,
		MinimumFare:  50,
		DriverShare:  0.85,
		CardFeeRate:  0.03,
		RoundingUnit: 5,
	}
}

func newTestService(repo RepositoryInterface, km float64, quoteTTL time.Duration) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := pricing.NewEngine(testPricingConfig())
	return NewService(repo, fakeUserDirectory{}, fixedResolver{km: km}, engine, nil, nil, logger, quoteTTL)
}

func createTestOrder(t *testing.T, svc *Service, customerID string) *models.Order {
	t.Helper()
	order, err := svc.CreateOrder(context.Background(), customerID, models.CreateOrderRequest{
		Type:           models.TypeRide,
		PickupAddress:  "Av. Winston Churchill 100",
		PickupLat:      18.4861,
		PickupLng:      -69.9312,
		DropoffAddress: "Calle El Conde 5",
		DropoffLat:     18.5001,
		DropoffLng:     -69.9886,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	return order
}

func TestCreateOrderComputesServerPrice(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 10, time.Minute)

	order := createTestOrder(t, svc, "customer-1")
	if order.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", order.Status)
	}
	// 30 + 10*12 = 150.
	if order.Price != 150 {
		t.Fatalf("expected price 150, got %d", order.Price)
	}
	if order.DriverID != nil {
		t.Fatalf("new order must have no driver, got %v", *order.DriverID)
	}
}

func TestCreateOrderAppliesMinimumFare(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 0, time.Minute)

	order := createTestOrder(t, svc, "customer-1")
	if order.Price != 50 {
		t.Fatalf("expected minimum fare 50, got %d", order.Price)
	}
}

func TestCreateOrderHonorsQuote(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 10, time.Minute)

	quote, err := svc.Quote(context.Background(), models.QuoteRequest{
		PickupLat: 18.4861, PickupLng: -69.9312, DropoffLat: 18.5001, DropoffLng: -69.9886,
	})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	order, err := svc.CreateOrder(context.Background(), "customer-1", models.CreateOrderRequest{
		Type:           models.TypeFood,
		PickupAddress:  "a",
		DropoffAddress: "b",
		QuoteID:        quote.ID,
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if order.Price != quote.Breakdown.Price {
		t.Fatalf("expected quoted price %d, got %d", quote.Breakdown.Price, order.Price)
	}

	// A quote is single-use.
	_, err = svc.CreateOrder(context.Background(), "customer-1", models.CreateOrderRequest{
		Type: models.TypeFood, PickupAddress: "a", DropoffAddress: "b", QuoteID: quote.ID,
	})
	if !errors.Is(err, models.ErrQuoteExpired) {
		t.Fatalf("expected ErrQuoteExpired on reuse, got %v", err)
	}
}

func TestCreateOrderRejectsExpiredQuote(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 10, -time.Minute)

	quote, err := svc.Quote(context.Background(), models.QuoteRequest{})
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}

	_, err = svc.CreateOrder(context.Background(), "customer-1", models.CreateOrderRequest{
		Type: models.TypeRide, PickupAddress: "a", DropoffAddress: "b", QuoteID: quote.ID,
	})
	if !errors.Is(err, models.ErrQuoteExpired) {
		t.Fatalf("expected ErrQuoteExpired, got %v", err)
	}
}

func TestAcceptPendingOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	accepted, err := svc.AcceptOrder(context.Background(), order.ID, "driver-1", models.RoleDriver)
	if err != nil {
		t.Fatalf("AcceptOrder: %v", err)
	}
	if accepted.Status != models.StatusAccepted {
		t.Fatalf("expected accepted, got %s", accepted.Status)
	}
	if accepted.DriverID == nil || *accepted.DriverID != "driver-1" {
		t.Fatalf("expected driver-1 bound, got %v", accepted.DriverID)
	}
	if accepted.Price != order.Price {
		t.Fatalf("price changed on transition: %d -> %d", order.Price, accepted.Price)
	}
}

func TestAcceptRequiresDriverRole(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	_, err := svc.AcceptOrder(context.Background(), order.ID, "customer-1", models.RoleCustomer)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAcceptAlreadyAcceptedOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	if _, err := svc.AcceptOrder(context.Background(), order.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("first accept: %v", err)
	}
	_, err := svc.AcceptOrder(context.Background(), order.ID, "driver-2", models.RoleDriver)
	if !errors.Is(err, models.ErrOrderNotAvailable) {
		t.Fatalf("expected ErrOrderNotAvailable, got %v", err)
	}
}

func TestAcceptMissingOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)

	_, err := svc.AcceptOrder(context.Background(), 404, "driver-1", models.RoleDriver)
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConcurrentAcceptsOneWinner(t *testing.T) {
	repo := newFakeOrderRepo()
	svc := newTestService(repo, 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	const drivers = 16
	var wg sync.WaitGroup
	errs := make([]error, drivers)
	for i := 0; i < drivers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			driverID := "driver-" + string(rune('a'+i))
			_, errs[i] = svc.AcceptOrder(context.Background(), order.ID, driverID, models.RoleDriver)
		}(i)
	}
	wg.Wait()

	wins := 0
	for i, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, models.ErrOrderNotAvailable):
		default:
			t.Fatalf("driver %d got unexpected error: %v", i, err)
		}
	}
	if wins != 1 {
		t.Fatalf("expected exactly one winning accept, got %d", wins)
	}

	final, err := repo.FindByID(context.Background(), order.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	if final.Status != models.StatusAccepted || final.DriverID == nil {
		t.Fatalf("expected accepted order with a driver, got %s %v", final.Status, final.DriverID)
	}
}

func TestFullLifecycle(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	if _, err := svc.AcceptOrder(context.Background(), order.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	started, err := svc.UpdateStatus(context.Background(), order.ID, "driver-1", models.RoleDriver, models.StatusInProgress)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if started.Status != models.StatusInProgress {
		t.Fatalf("expected in_progress, got %s", started.Status)
	}
	done, err := svc.UpdateStatus(context.Background(), order.ID, "driver-1", models.RoleDriver, models.StatusCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if done.Status != models.StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}
	if !done.Status.Terminal() {
		t.Fatalf("completed must be terminal")
	}
}

func TestStartFromPendingFails(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	// No driver is bound yet, so nobody can be the assigned driver.
	_, err := svc.UpdateStatus(context.Background(), order.ID, "driver-1", models.RoleDriver, models.StatusInProgress)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCompleteByUnassignedDriver(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	if _, err := svc.AcceptOrder(context.Background(), order.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), order.ID, "driver-1", models.RoleDriver, models.StatusInProgress); err != nil {
		t.Fatalf("start: %v", err)
	}

	_, err := svc.UpdateStatus(context.Background(), order.ID, "driver-2", models.RoleDriver, models.StatusCompleted)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateStatusRejectsOtherTargets(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	_, err := svc.UpdateStatus(context.Background(), order.ID, "driver-1", models.RoleDriver, models.StatusCancelled)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCancelPendingOrder(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	cancelled, err := svc.CancelOrder(context.Background(), order.ID, "customer-1", models.RoleCustomer)
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}
	if cancelled.Status != models.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", cancelled.Status)
	}
}

func TestCancelByNonOwnerFails(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	_, err := svc.CancelOrder(context.Background(), order.ID, "customer-2", models.RoleCustomer)
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestCancelAcceptedOrderFails(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	if _, err := svc.AcceptOrder(context.Background(), order.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	_, err := svc.CancelOrder(context.Background(), order.ID, "customer-1", models.RoleCustomer)
	if !errors.Is(err, models.ErrOrderNotCancellable) {
		t.Fatalf("expected ErrOrderNotCancellable, got %v", err)
	}
}

func TestGetOrderVisibility(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	order := createTestOrder(t, svc, "customer-1")

	if _, err := svc.GetOrder(context.Background(), order.ID, "customer-1", models.RoleCustomer); err != nil {
		t.Fatalf("owner should see their order: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), order.ID, "customer-2", models.RoleCustomer); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("other customers must get ErrNotFound, got %v", err)
	}
	// Pending orders are visible to any driver browsing for work.
	if _, err := svc.GetOrder(context.Background(), order.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("driver should see pending order: %v", err)
	}

	if _, err := svc.AcceptOrder(context.Background(), order.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), order.ID, "driver-2", models.RoleDriver); !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("unassigned driver must get ErrNotFound after acceptance, got %v", err)
	}
	if _, err := svc.GetOrder(context.Background(), order.ID, "admin-1", models.RoleAdmin); err != nil {
		t.Fatalf("admin should see any order: %v", err)
	}
}

func TestListOrdersByRole(t *testing.T) {
	svc := newTestService(newFakeOrderRepo(), 5, time.Minute)
	first := createTestOrder(t, svc, "customer-1")
	createTestOrder(t, svc, "customer-2")

	mine, err := svc.ListOrders(context.Background(), "customer-1", models.RoleCustomer)
	if err != nil {
		t.Fatalf("ListOrders customer: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != first.ID {
		t.Fatalf("expected only customer-1's order, got %d orders", len(mine))
	}

	feed, err := svc.ListOrders(context.Background(), "driver-1", models.RoleDriver)
	if err != nil {
		t.Fatalf("ListOrders driver: %v", err)
	}
	if len(feed) != 2 {
		t.Fatalf("expected 2 pending orders in driver feed, got %d", len(feed))
	}

	if _, err := svc.AcceptOrder(context.Background(), first.ID, "driver-1", models.RoleDriver); err != nil {
		t.Fatalf("accept: %v", err)
	}
	feed, err = svc.ListOrders(context.Background(), "driver-2", models.RoleDriver)
	if err != nil {
		t.Fatalf("ListOrders driver-2: %v", err)
	}
	if len(feed) != 1 {
		t.Fatalf("accepted order must leave other drivers' feeds, got %d orders", len(feed))
	}

	all, err := svc.ListOrders(context.Background(), "admin-1", models.RoleAdmin)
	if err != nil {
		t.Fatalf("ListOrders admin: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 orders for admin, got %d", len(all))
	}
}
