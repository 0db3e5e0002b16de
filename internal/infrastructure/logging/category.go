package logging

type Category string
type SubCategory string
type ExtraKey string

const (
	General    Category = "General"
	Internal   Category = "Internal"
	RabbitMQ   Category = "RabbitMQ"
	Postgres   Category = "Postgres"
	MongoDB    Category = "MongoDB"
	Topic      Category = "Topic"
	Envelope   Category = "Envelope"
	Dispatch   Category = "Dispatch"
	FanOut     Category = "FanOut"
	HTTP       Category = "HTTP"
	Prometheus Category = "Prometheus"
)

const (
	// General
	Startup  SubCategory = "Startup"
	Shutdown SubCategory = "Shutdown"

	// RabbitMQ
	Connect   SubCategory = "Connect"
	Consume   SubCategory = "Consume"
	Publish   SubCategory = "Publish"
	Subscribe SubCategory = "Subscribe"

	// Dispatch
	Request      SubCategory = "Request"
	Notification SubCategory = "Notification"
	Recover      SubCategory = "Recover"

	// Persistence
	Migration SubCategory = "Migration"
	Audit     SubCategory = "Audit"

	Decode   SubCategory = "Decode"
	Drop     SubCategory = "Drop"
	Response SubCategory = "Response"
)

const (
	AppName      ExtraKey = "AppName"
	LoggerName   ExtraKey = "Logger"
	TopicName    ExtraKey = "Topic"
	RoutingKey   ExtraKey = "RoutingKey"
	Method       ExtraKey = "Method"
	RequestID    ExtraKey = "RequestId"
	AgentID      ExtraKey = "AgentId"
	RoomID       ExtraKey = "RoomId"
	EventKind    ExtraKey = "EventKind"
	StatusCode   ExtraKey = "StatusCode"
	Path         ExtraKey = "Path"
	Latency      ExtraKey = "Latency"
	Reason       ExtraKey = "Reason"
	ErrorMessage ExtraKey = "ErrorMessage"
)
