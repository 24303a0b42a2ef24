package messages

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/el-asil/restaurant-api/internal/domain"
	"github.com/el-asil/restaurant-api/internal/messaging"
)

type Handler struct {
	repo     *MessageRepository
	producer *messaging.Producer
	logger   *slog.Logger
}

func NewHandler(repo *MessageRepository, producer *messaging.Producer, logger *slog.Logger) *Handler {
	return &Handler{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

type messageRequest struct {
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	EmailSender string `json:"email_sender"`
	Location    string `json:"location"`
	Content     string `json:"content"`
}

func (req *messageRequest) validate() string {
	if req.Firstname == "" {
		return "firstname is required"
	}
	if req.EmailSender == "" || !strings.Contains(req.EmailSender, "@") {
		return "A valid email_sender is required"
	}
	if req.Content == "" {
		return "content is required"
	}
	return ""
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.repo.ListUnarchived(r.Context())
	if err != nil {
		h.logger.Error("failed to list messages", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("messages listed", "count", len(messages))
	h.writeJSON(w, http.StatusOK, messages)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if reason := req.validate(); reason != "" {
		h.writeError(w, http.StatusBadRequest, reason)
		return
	}

	msg := &domain.Message{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		EmailSender: req.EmailSender,
		Location:    req.Location,
		Content:     req.Content,
	}

	if err := h.repo.Create(r.Context(), msg); err != nil {
		h.logger.Error("failed to create message", "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("message created", "message_id", msg.ID, "from", msg.EmailSender)
	h.writeJSON(w, http.StatusCreated, msg)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing message id")
		return
	}

	msg, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get message", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if msg == nil {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	h.writeJSON(w, http.StatusOK, msg)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing message id")
		return
	}

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if reason := req.validate(); reason != "" {
		h.writeError(w, http.StatusBadRequest, reason)
		return
	}

	msg := &domain.Message{
		ID:          id,
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		EmailSender: req.EmailSender,
		Location:    req.Location,
		Content:     req.Content,
	}

	found, err := h.repo.Update(r.Context(), msg)
	if err != nil {
		h.logger.Error("failed to update message", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !found {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	updated, err := h.repo.GetByID(r.Context(), id)
	if err != nil || updated == nil {
		h.logger.Error("failed to reload message", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("message updated", "message_id", id)
	h.writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing message id")
		return
	}

	found, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to delete message", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if !found {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	h.logger.Info("message deleted", "message_id", id)
	h.writeJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing message id")
		return
	}

	msg, err := h.repo.Archive(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to archive message", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if msg == nil {
		h.writeError(w, http.StatusNotFound, "Not found")
		return
	}

	h.logger.Info("message archived", "message_id", id)
	h.writeJSON(w, http.StatusOK, map[string]any{"message": "Archived", "updated": msg})
}

type replyRequest struct {
	Content string `json:"content"`
}

// HandleReply persists the reply and publishes a reply.created event; the
// email worker delivers the actual mail.
func (h *Handler) HandleReply(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		h.writeError(w, http.StatusBadRequest, "missing message id")
		return
	}

	var req replyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Content == "" {
		h.writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	msg, err := h.repo.GetByID(r.Context(), id)
	if err != nil {
		h.logger.Error("failed to get message", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if msg == nil {
		h.writeError(w, http.StatusNotFound, "Message not found")
		return
	}

	reply, err := h.repo.AddReply(r.Context(), id, req.Content)
	if err != nil {
		h.logger.Error("failed to save reply", "error", err, "message_id", id)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if h.producer != nil {
		event := domain.ReplyCreatedEvent{
			ReplyID:   reply.ID,
			MessageID: msg.ID,
			To:        msg.EmailSender,
			Content:   reply.Content,
			Timestamp: time.Now().UTC(),
		}
		if err := h.producer.PublishReplyCreated(r.Context(), event); err != nil {
			h.logger.Error("failed to publish reply created event", "error", err, "reply_id", reply.ID)
		}
	}

	h.logger.Info("reply saved", "message_id", id, "reply_id", reply.ID)
	h.writeJSON(w, http.StatusOK, map[string]any{"message": "Reply sent and saved", "reply": reply})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
