package worker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/el-asil/restaurant-api/internal/domain"
)

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newTestEmailHandler(sender *fakeSender) *EmailHandler {
	return NewEmailHandler(sender, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHandleReplyCreated(t *testing.T) {
	sender := &fakeSender{}
	handler := newTestEmailHandler(sender)

	event := domain.ReplyCreatedEvent{
		ReplyID:   "reply-1",
		MessageID: "msg-1",
		To:        "customer@example.dz",
		Content:   "We open at noon on Fridays.",
		Timestamp: time.Now().UTC(),
	}
	payload, _ := json.Marshal(event)

	if err := handler.HandleReplyCreated(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "customer@example.dz" {
		t.Errorf("unexpected recipient: %s", mail.to)
	}
	if mail.body != event.Content {
		t.Errorf("expected mail body to be the reply content, got %q", mail.body)
	}
}

func TestHandleReplyCreatedBadPayload(t *testing.T) {
	handler := newTestEmailHandler(&fakeSender{})

	if err := handler.HandleReplyCreated(context.Background(), []byte("{broken")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestHandleReplyCreatedSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	handler := newTestEmailHandler(sender)

	payload, _ := json.Marshal(domain.ReplyCreatedEvent{To: "a@b.dz"})
	if err := handler.HandleReplyCreated(context.Background(), payload); err == nil {
		t.Fatal("expected error when sending fails")
	}
}

func TestHandleOrderCreated(t *testing.T) {
	sender := &fakeSender{}
	handler := newTestEmailHandler(sender)

	event := domain.OrderCreatedEvent{
		OrderID: "order-1",
		Email:   "amine@example.dz",
		Items: []domain.OrderItem{
			{Name: "Couscous Royal", Price: 1000, Quantity: 2},
			{Name: "Chorba", Price: 500, Quantity: 1},
		},
		Total:     2500,
		Timestamp: time.Now().UTC(),
	}
	payload, _ := json.Marshal(event)

	if err := handler.HandleOrderCreated(context.Background(), payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("expected 1 mail, got %d", len(sender.sent))
	}
	mail := sender.sent[0]
	if mail.to != "amine@example.dz" {
		t.Errorf("unexpected recipient: %s", mail.to)
	}
	if !strings.Contains(mail.subject, "order-1") {
		t.Errorf("expected subject to carry the order id, got %q", mail.subject)
	}
	if !strings.Contains(mail.body, "Couscous Royal") || !strings.Contains(mail.body, "2500.00") {
		t.Errorf("unexpected mail body: %q", mail.body)
	}
}
