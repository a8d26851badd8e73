package rabbitmq

// Топология потока статусов событий.
const (
	EventsExchange      = "events"
	CompletedRoutingKey = "completed"
	CompletedQueue      = "events.completed"
)

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// EventQueues возвращает очереди, которые объявляет планировщик статусов.
func EventQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: CompletedQueue, RoutingKey: CompletedRoutingKey},
	}
}
