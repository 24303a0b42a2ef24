package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/el-asil/restaurant-api/internal/domain"
	"github.com/el-asil/restaurant-api/internal/mailer"
)

// EmailHandler turns order and reply events into outbound mail.
type EmailHandler struct {
	sender mailer.Sender
	logger *slog.Logger
}

func NewEmailHandler(sender mailer.Sender, logger *slog.Logger) *EmailHandler {
	return &EmailHandler{
		sender: sender,
		logger: logger,
	}
}

// HandleReplyCreated sends the admin's reply to the message sender.
func (h *EmailHandler) HandleReplyCreated(ctx context.Context, payload []byte) error {
	var event domain.ReplyCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal reply created event: %w", err)
	}

	h.logger.Info("processing reply created event", "reply_id", event.ReplyID, "message_id", event.MessageID)

	if err := h.sender.Send(event.To, "Reply to your message", event.Content); err != nil {
		h.logger.Error("failed to send reply email", "error", err, "reply_id", event.ReplyID)
		return fmt.Errorf("send reply email: %w", err)
	}

	h.logger.Info("reply email sent", "reply_id", event.ReplyID, "to", event.To)
	return nil
}

// HandleOrderCreated sends the order confirmation to the customer.
func (h *EmailHandler) HandleOrderCreated(ctx context.Context, payload []byte) error {
	var event domain.OrderCreatedEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("unmarshal order created event: %w", err)
	}

	h.logger.Info("processing order created event", "order_id", event.OrderID)

	subject := "Order confirmation: " + event.OrderID
	if err := h.sender.Send(event.Email, subject, confirmationBody(event)); err != nil {
		h.logger.Error("failed to send confirmation email", "error", err, "order_id", event.OrderID)
		return fmt.Errorf("send confirmation email: %w", err)
	}

	h.logger.Info("confirmation email sent", "order_id", event.OrderID, "to", event.Email)
	return nil
}

func confirmationBody(event domain.OrderCreatedEvent) string {
	var b strings.Builder
	b.WriteString("Thank you for your order at Restaurant El-Asil.\n\n")
	for _, item := range event.Items {
		fmt.Fprintf(&b, "  %d x %s - %.2f\n", item.Quantity, item.Name, item.Price*float64(item.Quantity))
	}
	fmt.Fprintf(&b, "\nTotal: %.2f\n", event.Total)
	b.WriteString("\nWe will let you know as soon as it is on its way.\n")
	return b.String()
}
