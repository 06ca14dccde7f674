package application

import (
	"swertres/domain/events"
	"swertres/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// dispatchEvents publishes events collected during a committed transaction.
// Delivery failures are logged and swallowed: the state change is already
// durable and must not be reported as failed because a notification was lost.
func dispatchEvents(publisher interfaces.EventPublisher, pending []events.Event) {
	for _, event := range pending {
		if err := publisher.Publish(event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to publish event")
		}
	}
}
