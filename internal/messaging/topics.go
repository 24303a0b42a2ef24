package messaging

// Kafka topics carrying the API's domain events.
const (
	TopicOrderCreated = "order.created"
	TopicReplyCreated = "reply.created"
)
