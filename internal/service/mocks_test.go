package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/qalamart/storeapi/internal/domain"
	"github.com/qalamart/storeapi/internal/gateway"
	"github.com/qalamart/storeapi/internal/repository"
	"github.com/qalamart/storeapi/pkg/errors"
)

// memCartStore implements repository.CartStore in memory
type memCartStore struct {
	mu    sync.Mutex
	carts map[string]*domain.Cart
}

func newMemCartStore() *memCartStore {
	return &memCartStore{carts: make(map[string]*domain.Cart)}
}

func (s *memCartStore) Get(_ context.Context, sessionID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart, ok := s.carts[sessionID]; ok {
		copied := *cart
		copied.Lines = append([]domain.CartLine{}, cart.Lines...)
		return &copied, nil
	}
	return domain.NewCart(), nil
}

func (s *memCartStore) Save(_ context.Context, sessionID string, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *cart
	copied.Lines = append([]domain.CartLine{}, cart.Lines...)
	s.carts[sessionID] = &copied
	return nil
}

func (s *memCartStore) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
	return nil
}

// memCatalog implements repository.Catalog in memory
type memCatalog struct {
	products map[int64]*domain.Product
	nextID   int64
}

func newMemCatalog() *memCatalog {
	return &memCatalog{products: make(map[int64]*domain.Product), nextID: 1}
}

func (c *memCatalog) List(_ context.Context, _ repository.ProductFilter) ([]*domain.Product, error) {
	out := make([]*domain.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	return out, nil
}

func (c *memCatalog) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	if p, ok := c.products[id]; ok {
		return p, nil
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: fmt.Sprint(id)}
}

func (c *memCatalog) Create(_ context.Context, product *domain.Product) error {
	product.ID = c.nextID
	c.nextID++
	c.products[product.ID] = product
	return nil
}

func (c *memCatalog) Update(_ context.Context, product *domain.Product) error {
	if _, ok := c.products[product.ID]; !ok {
		return &errors.ErrNotFound{Resource: "product", ID: fmt.Sprint(product.ID)}
	}
	c.products[product.ID] = product
	return nil
}

func (c *memCatalog) Delete(_ context.Context, id int64) error {
	if _, ok := c.products[id]; !ok {
		return &errors.ErrNotFound{Resource: "product", ID: fmt.Sprint(id)}
	}
	delete(c.products, id)
	return nil
}

// memOrderLedger implements repository.OrderLedger in memory
type memOrderLedger struct {
	mu     sync.Mutex
	orders map[uuid.UUID]*domain.Order
	byRef  map[string]uuid.UUID
}

func newMemOrderLedger() *memOrderLedger {
	return &memOrderLedger{
		orders: make(map[uuid.UUID]*domain.Order),
		byRef:  make(map[string]uuid.UUID),
	}
}

func (l *memOrderLedger) Create(_ context.Context, order *domain.Order) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	l.orders[order.ID] = order
	l.byRef[order.Reference] = order.ID
	return nil
}

func (l *memOrderLedger) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if order, ok := l.orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
}

func (l *memOrderLedger) GetByReference(_ context.Context, reference string) (*domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if id, ok := l.byRef[reference]; ok {
		copied := *l.orders[id]
		return &copied, nil
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: reference}
}

func (l *memOrderLedger) List(_ context.Context, filter repository.OrderFilter) ([]*domain.Order, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*domain.Order, 0)
	for _, order := range l.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		copied := *order
		out = append(out, &copied)
	}
	return out, nil
}

func (l *memOrderLedger) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	return nil
}

func (l *memOrderLedger) UpdatePaymentStatus(_ context.Context, id uuid.UUID, status domain.PaymentStatus) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.PaymentStatus = status
	return nil
}

func (l *memOrderLedger) UpdateTracking(_ context.Context, id uuid.UUID, trackingNumber string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.TrackingNumber = &trackingNumber
	return nil
}

func (l *memOrderLedger) UpdateNotes(_ context.Context, id uuid.UUID, notes string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	order, ok := l.orders[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Notes = &notes
	return nil
}

func (l *memOrderLedger) SalesStats(_ context.Context) (*domain.SalesStats, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	stats := &domain.SalesStats{
		PaidRevenue:    decimal.Zero,
		OrdersByStatus: make(map[domain.OrderStatus]int),
		TopProducts:    []domain.ProductSales{},
	}
	for _, order := range l.orders {
		stats.TotalOrders++
		stats.OrdersByStatus[order.Status]++
		if order.PaymentStatus == domain.PaymentStatusPaid {
			stats.PaidRevenue = stats.PaidRevenue.Add(order.TotalAmount)
		}
	}
	return stats, nil
}

// memPaymentEvents implements repository.PaymentEvents in memory
type memPaymentEvents struct {
	mu      sync.Mutex
	applied map[string]*domain.PaymentEvent
}

func newMemPaymentEvents() *memPaymentEvents {
	return &memPaymentEvents{applied: make(map[string]*domain.PaymentEvent)}
}

func (e *memPaymentEvents) Record(_ context.Context, event *domain.PaymentEvent) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	key := event.OrderReference + "|" + string(event.Status)
	if _, ok := e.applied[key]; ok {
		return false, nil
	}
	e.applied[key] = event
	return true, nil
}

func (e *memPaymentEvents) ListByOrder(_ context.Context, orderReference string) ([]*domain.PaymentEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*domain.PaymentEvent, 0)
	for _, event := range e.applied {
		if event.OrderReference == orderReference {
			out = append(out, event)
		}
	}
	return out, nil
}

// memAdminUsers implements repository.AdminUsers in memory
type memAdminUsers struct {
	users map[string]*domain.AdminUser
}

func newMemAdminUsers() *memAdminUsers {
	return &memAdminUsers{users: make(map[string]*domain.AdminUser)}
}

func (u *memAdminUsers) GetByUsername(_ context.Context, username string) (*domain.AdminUser, error) {
	if user, ok := u.users[username]; ok {
		return user, nil
	}
	return nil, &errors.ErrNotFound{Resource: "admin user", ID: username}
}

func (u *memAdminUsers) Create(_ context.Context, user *domain.AdminUser) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	u.users[user.Username] = user
	return nil
}

// memSessions implements repository.Sessions in memory
type memSessions struct {
	tokens map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{tokens: make(map[string]string)}
}

func (s *memSessions) Create(_ context.Context, username string) (string, error) {
	token := uuid.NewString()
	s.tokens[token] = username
	return token, nil
}

func (s *memSessions) Lookup(_ context.Context, token string) (string, error) {
	if username, ok := s.tokens[token]; ok {
		return username, nil
	}
	return "", &errors.ErrUnauthorized{Message: "invalid or expired session"}
}

func (s *memSessions) Delete(_ context.Context, token string) error {
	delete(s.tokens, token)
	return nil
}

// mockGateway implements BillCreator
type mockGateway struct {
	configured bool
	failCreate bool
	lastBill   *gateway.BillRequest
	bills      int
}

func (g *mockGateway) Configured() bool {
	return g.configured
}

func (g *mockGateway) CreateBill(_ context.Context, bill gateway.BillRequest) (*gateway.BillResponse, error) {
	if g.failCreate {
		return nil, fmt.Errorf("gateway unreachable")
	}
	g.lastBill = &bill
	g.bills++
	return &gateway.BillResponse{
		BillCode:   "bill-xyz",
		PaymentURL: "https://pay.example.com/bill-xyz",
	}, nil
}

// countingNotifier counts OrderPaid side effects
type countingNotifier struct {
	paid      int
	lastOrder *domain.Order
}

func (n *countingNotifier) OrderPaid(_ context.Context, order *domain.Order) {
	n.paid++
	n.lastOrder = order
}

func seedCart(t interface{ Fatalf(string, ...interface{}) }, carts *memCartStore, sessionID, unitPrice string, qty int) {
	price, err := decimal.NewFromString(unitPrice)
	if err != nil {
		t.Fatalf("bad price %q: %v", unitPrice, err)
	}
	cart := domain.NewCart()
	cart.AddItem(1, "Diwani Scroll", price, "a.jpg", qty)
	if err := carts.Save(context.Background(), sessionID, cart); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func listAll() repository.OrderFilter {
	return repository.OrderFilter{Limit: 100}
}

func testRepos(orders *memOrderLedger, events *memPaymentEvents) *repository.Repositories {
	return &repository.Repositories{
		Catalog:       newMemCatalog(),
		Orders:        orders,
		PaymentEvents: events,
		AdminUsers:    newMemAdminUsers(),
	}
}
