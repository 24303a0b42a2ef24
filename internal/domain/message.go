package domain

import "time"

type Message struct {
	ID          string    `json:"id"`
	Firstname   string    `json:"firstname"`
	Lastname    string    `json:"lastname"`
	EmailSender string    `json:"email_sender"`
	Location    string    `json:"location"`
	Content     string    `json:"content"`
	Archived    bool      `json:"archived"`
	Replies     []Reply   `json:"replies"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Reply struct {
	ID        string    `json:"id"`
	MessageID string    `json:"messageId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}
