//go:build integration

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/el-asil/restaurant-api/internal/analytics"
	"github.com/el-asil/restaurant-api/internal/cart"
	"github.com/el-asil/restaurant-api/internal/domain"
	"github.com/el-asil/restaurant-api/internal/menu"
	"github.com/el-asil/restaurant-api/internal/messages"
	"github.com/el-asil/restaurant-api/internal/messaging"
	"github.com/el-asil/restaurant-api/internal/orders"
	"github.com/el-asil/restaurant-api/internal/worker"
)

func seedMenuItem(ctx context.Context, t *testing.T, repo *menu.MenuRepository, name string, price float64) *domain.MenuItem {
	t.Helper()

	item := &domain.MenuItem{
		Name:        name,
		ArabicName:  name,
		Description: "seeded for tests",
		Price:       price,
		Category:    domain.CategoryMains,
		Available:   true,
	}
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("failed to seed menu item %s: %v", name, err)
	}
	return item
}

func TestCheckoutFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db := OpenDB(t, pg.ConnStr)
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	menuRepo := menu.NewMenuRepository(db)
	couscous := seedMenuItem(ctx, t, menuRepo, "Couscous Royal", 1000)
	chorba := seedMenuItem(ctx, t, menuRepo, "Chorba Frik", 500)

	ordersRepo := orders.NewOrderRepository(db)
	ordersHandler := orders.NewHandler(ordersRepo, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/order", ordersHandler.HandleCreate)
	mux.HandleFunc("GET /api/v1/order/{id}", ordersHandler.HandleGet)

	// Build the order the way the storefront does: through the cart reducer.
	basket := cart.New()
	basket.AddItem(cart.Line{ID: couscous.ID, Name: couscous.Name, Price: couscous.Price})
	basket.AddItem(cart.Line{ID: couscous.ID, Name: couscous.Name, Price: couscous.Price})
	basket.AddItem(cart.Line{ID: chorba.ID, Name: chorba.Name, Price: chorba.Price})

	if basket.TotalPrice() != 2500 {
		t.Fatalf("expected cart total 2500, got %v", basket.TotalPrice())
	}

	payload := domain.OrderPayload{
		Email:  "amine@example.dz",
		Phone:  "0551234567",
		Status: domain.OrderStatusPending,
		Items:  basket.Checkout(),
	}
	reqBody, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal order payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/order", strings.NewReader(string(reqBody)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var createdOrder domain.Order
	if err := json.NewDecoder(rec.Body).Decode(&createdOrder); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if createdOrder.ID == "" {
		t.Fatal("expected order ID to be set")
	}
	if createdOrder.Status != domain.OrderStatusPending {
		t.Fatalf("expected status %s, got %s", domain.OrderStatusPending, createdOrder.Status)
	}
	if len(createdOrder.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(createdOrder.Items))
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/order/"+createdOrder.ID, nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var detail struct {
		Order     domain.Order       `json:"order"`
		TotalSum  float64            `json:"totalSum"`
		MenuItems []domain.OrderItem `json:"menuItems"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&detail); err != nil {
		t.Fatalf("failed to decode order detail: %v", err)
	}

	if detail.TotalSum != 2500 {
		t.Fatalf("expected totalSum 2500, got %v", detail.TotalSum)
	}
	if len(detail.MenuItems) != 2 {
		t.Fatalf("expected 2 menu items in detail, got %d", len(detail.MenuItems))
	}
	if detail.Order.Email != "amine@example.dz" {
		t.Fatalf("unexpected order email: %s", detail.Order.Email)
	}
}

func TestOrderStatusTransitions(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db := OpenDB(t, pg.ConnStr)
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	menuRepo := menu.NewMenuRepository(db)
	item := seedMenuItem(ctx, t, menuRepo, "Tajine Zitoune", 1200)

	ordersRepo := orders.NewOrderRepository(db)
	ordersHandler := orders.NewHandler(ordersRepo, nil, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/order/{id}", ordersHandler.HandleUpdateStatus)

	order := &domain.Order{
		Email:  "karim@example.dz",
		Phone:  "0661234567",
		Status: domain.OrderStatusPending,
	}
	items := []domain.OrderItemInput{{MenuItemID: item.ID, Quantity: 1}}
	if err := ordersRepo.Create(ctx, order, items); err != nil {
		t.Fatalf("failed to create order: %v", err)
	}

	putStatus := func(status string) *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"status": %q}`, status)
		req := httptest.NewRequest(http.MethodPut, "/api/v1/order/"+order.ID, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	if rec := putStatus("DELIVERED"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected skipping to DELIVERED to be rejected, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := putStatus("PREPARING"); rec.Code != http.StatusOK {
		t.Fatalf("expected PENDING -> PREPARING to succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := putStatus("CANCELLED"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected cancelling a PREPARING order to be rejected, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := putStatus("COMPLETED"); rec.Code != http.StatusOK {
		t.Fatalf("expected PREPARING -> COMPLETED to succeed, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec := putStatus("DELIVERED"); rec.Code != http.StatusOK {
		t.Fatalf("expected COMPLETED -> DELIVERED to succeed, got %d: %s", rec.Code, rec.Body.String())
	}

	if rec := putStatus("PREPARING"); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected transition out of DELIVERED to be rejected, got %d: %s", rec.Code, rec.Body.String())
	}

	status, found, err := ordersRepo.GetStatus(ctx, order.ID)
	if err != nil || !found {
		t.Fatalf("failed to read final status: found=%v err=%v", found, err)
	}
	if status != domain.OrderStatusDelivered {
		t.Fatalf("expected final status %s, got %s", domain.OrderStatusDelivered, status)
	}
}

func TestMenuToggleAvailability(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db := OpenDB(t, pg.ConnStr)
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	menuRepo := menu.NewMenuRepository(db)
	menuHandler := menu.NewHandler(menuRepo, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("PUT /api/v1/menu/{id}/toggle", menuHandler.HandleToggle)

	item := seedMenuItem(ctx, t, menuRepo, "Makroud", 300)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/menu/"+item.ID+"/toggle", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	toggled, err := menuRepo.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("failed to reload item: %v", err)
	}
	if toggled == nil {
		t.Fatal("item disappeared after toggle")
	}
	if toggled.Available {
		t.Fatal("expected item to be unavailable after toggle")
	}
}

func TestAnalyticsSummary(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	db := OpenDB(t, pg.ConnStr)
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	menuRepo := menu.NewMenuRepository(db)
	item := seedMenuItem(ctx, t, menuRepo, "Couscous Royal", 1000)

	ordersRepo := orders.NewOrderRepository(db)

	currentOrder := &domain.Order{Email: "a@example.dz", Phone: "0551234567", Status: domain.OrderStatusPending}
	if err := ordersRepo.Create(ctx, currentOrder, []domain.OrderItemInput{{MenuItemID: item.ID, Quantity: 2}}); err != nil {
		t.Fatalf("failed to create current month order: %v", err)
	}

	previousOrder := &domain.Order{Email: "b@example.dz", Phone: "0551234568", Status: domain.OrderStatusPending}
	if err := ordersRepo.Create(ctx, previousOrder, []domain.OrderItemInput{{MenuItemID: item.ID, Quantity: 1}}); err != nil {
		t.Fatalf("failed to create previous month order: %v", err)
	}
	if _, err := db.ExecContext(ctx, `
		UPDATE orders SET created_at = NOW() - interval '1 month' WHERE id = $1
	`, previousOrder.ID); err != nil {
		t.Fatalf("failed to backdate order: %v", err)
	}

	analyticsHandler := analytics.NewHandler(analytics.NewAnalyticsRepository(db), logger)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analytics/summary", nil)
	rec := httptest.NewRecorder()
	analyticsHandler.HandleSummary(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var summary struct {
		RevenueThisMonth float64 `json:"revenueThisMonth"`
		RevenueRatio     float64 `json:"revenueRatio"`
		NumberMenuItems  int     `json:"numberMenuItems"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&summary); err != nil {
		t.Fatalf("failed to decode summary: %v", err)
	}

	if summary.RevenueThisMonth != 2000 {
		t.Fatalf("expected revenueThisMonth 2000, got %v", summary.RevenueThisMonth)
	}
	if summary.RevenueRatio != 100 {
		t.Fatalf("expected revenueRatio 100, got %v", summary.RevenueRatio)
	}
	if summary.NumberMenuItems != 1 {
		t.Fatalf("expected 1 menu item, got %d", summary.NumberMenuItems)
	}
}

func TestKafkaConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	brokers, cleanup := SetupKafka(ctx, t)
	defer cleanup()

	if len(brokers) == 0 {
		t.Fatal("expected at least one broker")
	}

	t.Logf("kafka brokers: %v", brokers)
}

type sentEmail struct {
	to      string
	subject string
	body    string
}

type channelSender struct {
	emails chan sentEmail
}

func (s *channelSender) Send(to, subject, body string) error {
	s.emails <- sentEmail{to: to, subject: subject, body: body}
	return nil
}

func TestReplyEmailFlow(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	pg := SetupPostgres(ctx, t)
	defer pg.Cleanup()

	brokers, cleanupKafka := SetupKafka(ctx, t)
	defer cleanupKafka()

	db := OpenDB(t, pg.ConnStr)
	defer func() { _ = db.Close() }()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	messagesRepo := messages.NewMessageRepository(db)
	producer := messaging.NewReplyCreatedProducer(brokers)
	defer func() { _ = producer.Close() }()
	messagesHandler := messages.NewHandler(messagesRepo, producer, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/message", messagesHandler.HandleCreate)
	mux.HandleFunc("POST /api/v1/message/{id}/reply", messagesHandler.HandleReply)

	createBody := `{
		"firstname": "Nadia",
		"lastname": "B",
		"email_sender": "nadia@example.dz",
		"location": "Oran",
		"content": "Are you open on Fridays?"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/message", strings.NewReader(createBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var msg domain.Message
	if err := json.NewDecoder(rec.Body).Decode(&msg); err != nil {
		t.Fatalf("failed to decode message: %v", err)
	}

	replyBody := `{"content": "Yes, from noon onwards."}`
	req = httptest.NewRequest(http.MethodPost, "/api/v1/message/"+msg.ID+"/reply", strings.NewReader(replyBody))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	sender := &channelSender{emails: make(chan sentEmail, 1)}
	emailHandler := worker.NewEmailHandler(sender, logger)

	consumer := messaging.NewReplyCreatedConsumer(brokers, "email-worker-test")
	defer func() { _ = consumer.Close() }()

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	go func() {
		_ = consumer.Consume(consumerCtx, emailHandler.HandleReplyCreated)
	}()

	select {
	case email := <-sender.emails:
		if email.to != "nadia@example.dz" {
			t.Fatalf("expected reply email to the message sender, got %s", email.to)
		}
		if !strings.Contains(email.body, "noon") {
			t.Fatalf("expected reply content in email body, got %q", email.body)
		}
	case <-time.After(90 * time.Second):
		t.Fatal("timed out waiting for reply email")
	}
}
