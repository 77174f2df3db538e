// Package audit implements the one-way request/response audit side-channel.
// Every core endpoint serialises its inbound request and outbound response as
// a LogMessage and publishes it to a Redis Stream; the logging service
// consumes the stream and persists entries. Delivery is best-effort — a
// publish failure must never affect the request path.
package audit

import "time"

// Stream is the Redis Stream all services publish audit records to.
const Stream = "banking-logs"

// Message directions.
const (
	TypeRequest  = "Request"
	TypeResponse = "Response"
)

// LogMessage is the wire shape of one audit record. DateTime is ISO-8601.
type LogMessage struct {
	Message     string `json:"message"`
	MessageType string `json:"messageType"`
	Endpoint    string `json:"endpoint"`
	DateTime    string `json:"dateTime"`
}

// NewLogMessage stamps a record with the current time.
func NewLogMessage(message, messageType, endpoint string) LogMessage {
	return LogMessage{
		Message:     message,
		MessageType: messageType,
		Endpoint:    endpoint,
		DateTime:    time.Now().UTC().Format(time.RFC3339),
	}
}
