package statemachine

import (
	"errors"
	"fmt"

	"restaurant-ordering-api/models"
)

// Actor identifies who is attempting a transition
type Actor string

const (
	ActorAdmin Actor = "admin"
	ActorOwner Actor = "owner"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// validTransitions is the authoritative state machine definition.
// COMPLETED and CANCELLED are terminal; PENDING is never a settable target.
var validTransitions = []Transition{
	// Admin may settle or cancel any pending order
	{From: models.StatusPending, To: models.StatusCompleted, Actor: ActorAdmin},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorAdmin},
	// The order's owner may only cancel
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorOwner},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ErrInvalidTarget means the requested status is not one an API caller may
// ever set (only COMPLETED and CANCELLED are settable targets).
var ErrInvalidTarget = errors.New("status must be COMPLETED or CANCELLED")

// ErrActorNotAllowed means the transition exists but not for this actor.
var ErrActorNotAllowed = errors.New("actor is not allowed to perform this transition")

// TransitionError reports an attempt to move an order out of a state that
// permits no such move. It names the order's current status.
type TransitionError struct {
	Current models.OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("order is already %s and cannot be updated", e.Current)
}

// IsTerminal reports whether no outbound transition exists from the status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusCompleted || status == models.StatusCancelled
}

// CanTransition checks whether actor may move an order from one status to
// another. The error distinguishes a bad target (validation), a terminal
// current state (invalid transition) and an unauthorized actor (forbidden).
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if to != models.StatusCompleted && to != models.StatusCancelled {
		return ErrInvalidTarget
	}
	if IsTerminal(from) {
		return &TransitionError{Current: from}
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return ErrActorNotAllowed
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}
