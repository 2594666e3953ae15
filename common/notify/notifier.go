// Package notify abstracts the pub/sub notification service.
package notify

import "context"

// Message is one notification. Endpoint narrows delivery to a single
// subscriber; empty means broadcast to every endpoint on the topic.
type Message struct {
	Subject  string `json:"subject"`
	Body     string `json:"body"`
	Endpoint string `json:"endpoint,omitempty"`
}

// Service is the notification service interface. Delivery fan-out is the
// service's concern, not the caller's.
type Service interface {
	Subscribe(ctx context.Context, topic, endpoint string) error
	Publish(ctx context.Context, topic string, msg Message) error
}
