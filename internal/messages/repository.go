package messages

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/el-asil/restaurant-api/internal/domain"
)

type MessageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// ListUnarchived returns unarchived messages with their replies, newest first.
func (r *MessageRepository) ListUnarchived(ctx context.Context) ([]domain.Message, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, firstname, lastname, email_sender, location, content, archived, created_at
		FROM messages
		WHERE archived = FALSE
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	messageMap := make(map[string]*domain.Message)
	var messageIDs []string

	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.Firstname, &msg.Lastname, &msg.EmailSender,
			&msg.Location, &msg.Content, &msg.Archived, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Replies = []domain.Reply{}
		messageMap[msg.ID] = &msg
		messageIDs = append(messageIDs, msg.ID)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(messageIDs) == 0 {
		return []domain.Message{}, nil
	}

	replyRows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, content, created_at
		FROM replies
		WHERE message_id = ANY($1)
		ORDER BY created_at
	`, pq.Array(messageIDs))
	if err != nil {
		return nil, err
	}
	defer func() { _ = replyRows.Close() }()

	for replyRows.Next() {
		var reply domain.Reply
		if err := replyRows.Scan(&reply.ID, &reply.MessageID, &reply.Content, &reply.CreatedAt); err != nil {
			return nil, err
		}
		msg := messageMap[reply.MessageID]
		msg.Replies = append(msg.Replies, reply)
	}

	if err := replyRows.Err(); err != nil {
		return nil, err
	}

	messages := make([]domain.Message, 0, len(messageIDs))
	for _, id := range messageIDs {
		messages = append(messages, *messageMap[id])
	}

	return messages, nil
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	msg := &domain.Message{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, firstname, lastname, email_sender, location, content, archived, created_at
		FROM messages
		WHERE id = $1
	`, id).Scan(&msg.ID, &msg.Firstname, &msg.Lastname, &msg.EmailSender,
		&msg.Location, &msg.Content, &msg.Archived, &msg.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	msg.Replies = []domain.Reply{}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, message_id, content, created_at
		FROM replies
		WHERE message_id = $1
		ORDER BY created_at
	`, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var reply domain.Reply
		if err := rows.Scan(&reply.ID, &reply.MessageID, &reply.Content, &reply.CreatedAt); err != nil {
			return nil, err
		}
		msg.Replies = append(msg.Replies, reply)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return msg, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg *domain.Message) error {
	msg.ID = uuid.New().String()
	msg.Replies = []domain.Reply{}

	return r.db.QueryRowContext(ctx, `
		INSERT INTO messages (id, firstname, lastname, email_sender, location, content)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, msg.ID, msg.Firstname, msg.Lastname, msg.EmailSender, msg.Location, msg.Content).Scan(&msg.CreatedAt)
}

func (r *MessageRepository) Update(ctx context.Context, msg *domain.Message) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE messages
		SET firstname = $1, lastname = $2, email_sender = $3, location = $4, content = $5
		WHERE id = $6
	`, msg.Firstname, msg.Lastname, msg.EmailSender, msg.Location, msg.Content, msg.ID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *MessageRepository) Archive(ctx context.Context, id string) (*domain.Message, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE messages SET archived = TRUE WHERE id = $1
	`, id)
	if err != nil {
		return nil, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

func (r *MessageRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM messages WHERE id = $1
	`, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

func (r *MessageRepository) AddReply(ctx context.Context, messageID, content string) (*domain.Reply, error) {
	reply := &domain.Reply{MessageID: messageID, Content: content}
	reply.ID = uuid.New().String()

	err := r.db.QueryRowContext(ctx, `
		INSERT INTO replies (id, message_id, content)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, reply.ID, messageID, content).Scan(&reply.CreatedAt)
	if err != nil {
		return nil, err
	}

	return reply, nil
}
