package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/fraglink/internal/messaging"
	"go.uber.org/zap"
)

// RegisterConsumers adds one consumer per analytics topic to group, each saving into store.
func RegisterConsumers(group *messaging.ConsumerGroup, subscriber message.Subscriber, store Store, logger *zap.Logger) {
	group.Add(messaging.NewConsumer(subscriber, TopicLinkCreated, store.SaveLinkCreated, logger))
	group.Add(messaging.NewConsumer(subscriber, TopicLinkResolved, store.SaveLinkResolved, logger))
}
