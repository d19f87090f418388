package analytics

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/fraglink/internal/messaging"
)

// Publishers bundles the typed publish functions for every analytics topic.
type Publishers struct {
	LinkCreated  messaging.Publish[LinkCreatedEvent]
	LinkResolved messaging.Publish[LinkResolvedEvent]
}

// NewPublishers binds typed publish functions to publisher.
func NewPublishers(publisher message.Publisher) *Publishers {
	return &Publishers{
		LinkCreated:  messaging.NewPublishFunc[LinkCreatedEvent](publisher, TopicLinkCreated),
		LinkResolved: messaging.NewPublishFunc[LinkResolvedEvent](publisher, TopicLinkResolved),
	}
}

// DiscardPublishers drops every event.
func DiscardPublishers() *Publishers {
	return &Publishers{
		LinkCreated:  messaging.Discard[LinkCreatedEvent](),
		LinkResolved: messaging.Discard[LinkResolvedEvent](),
	}
}
