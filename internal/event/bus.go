// Package event carries domain events emitted by workflows after a
// successful, committed transition. Delivery is best-effort: publishing never
// blocks a workflow and subscriber failures are invisible to the caller.
package event

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event type constants
const (
	ExpenseSubmitted = "EXPENSE_SUBMITTED"
	ExpenseReviewed  = "EXPENSE_REVIEWED"
	ExpenseApproved  = "EXPENSE_APPROVED"
	ExpenseRejected  = "EXPENSE_REJECTED"
	ExpensePaid      = "EXPENSE_PAID"

	POSubmitted = "PURCHASE_ORDER_SUBMITTED"
	POApproved  = "PURCHASE_ORDER_APPROVED"
	PORejected  = "PURCHASE_ORDER_REJECTED"
	POReceived  = "PURCHASE_ORDER_RECEIVED"
	POCompleted = "PURCHASE_ORDER_COMPLETED"
	POCancelled = "PURCHASE_ORDER_CANCELLED"

	DonationReceived = "DONATION_RECEIVED"
)

// Event is one committed domain fact.
type Event struct {
	Type     string                 `json:"type"`
	EntityID uuid.UUID              `json:"entity_id"`
	ActorID  uuid.UUID              `json:"actor_id"`
	At       time.Time              `json:"at"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Subscriber consumes events. Must not block for long; a slow or panicking
// subscriber never affects the publishing workflow.
type Subscriber func(Event)

// Publisher is the side workflows see.
type Publisher interface {
	Publish(e Event)
}

// Bus is a small in-process fan-out. Dispatch is asynchronous per publish.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a consumer for all future events.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish fans the event out to every subscriber on a separate goroutine.
func (b *Bus) Publish(e Event) {
	if e.At.IsZero() {
		e.At = time.Now()
	}

	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	copy(subs, b.subscribers)
	b.mu.RUnlock()

	go func() {
		for _, s := range subs {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("event: subscriber panic on %s: %v", e.Type, r)
					}
				}()
				s(e)
			}()
		}
	}()
}
