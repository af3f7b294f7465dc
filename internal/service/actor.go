package service

import "github.com/google/uuid"

// Actor identifies the already-authenticated caller of a workflow operation.
// Identity and role come from the auth layer; services treat them as facts.
type Actor struct {
	ID   uuid.UUID
	Role string
}
