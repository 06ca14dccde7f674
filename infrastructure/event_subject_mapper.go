package infrastructure

import (
	"fmt"

	"swertres/domain/events"
)

// EventSubjectMapper handles mapping between domain events and NATS subjects
type EventSubjectMapper struct{}

// NewEventSubjectMapper creates a new event subject mapper
func NewEventSubjectMapper() *EventSubjectMapper {
	return &EventSubjectMapper{}
}

// MapEventToSubject converts a domain event to its corresponding NATS subject.
// Account-targeted events carry the recipient account in the subject so
// downstream consumers can filter per account.
func (m *EventSubjectMapper) MapEventToSubject(event events.Event) string {
	switch e := event.(type) {
	case events.TicketWonEvent:
		return fmt.Sprintf("lotto.tickets.won.%d", e.TargetAccountID())
	case events.DrawSettledEvent:
		return "lotto.draws.settled"
	case events.BalanceChangeEvent:
		return fmt.Sprintf("lotto.accounts.balance_changed.%d", e.TargetAccountID())
	default:
		// Fallback for unknown event types
		return fmt.Sprintf("lotto.unknown.%s", event.Type())
	}
}

// GetAllSubjects returns all subjects that this service publishes to
func (m *EventSubjectMapper) GetAllSubjects() []string {
	return []string{
		"lotto.tickets.won.*",
		"lotto.draws.settled",
		"lotto.accounts.balance_changed.*",
	}
}
