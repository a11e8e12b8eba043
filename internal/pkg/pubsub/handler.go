package pubsub

import (
	"cloud.google.com/go/pubsub"
	"context"
)

type SubscriptionHandler struct {
	SubscriptionId string
	Handler        func(ctx context.Context, message *pubsub.Message)
}

// Publishable is any message that knows which topic it belongs on.
type Publishable interface {
	GetEventTopicName() string
}
