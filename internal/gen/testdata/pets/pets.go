// Package pets is generator test data.
package pets

import "time"

// Species of a pet.
type Species string

const (
	Dog Species = "dog"
	Cat Species = "cat"
)

// Pet is an animal with an owner.
type Pet struct {
	Name    string    `json:"name" validate:"required"`
	Species Species   `json:"species"`
	Born    time.Time `json:"born"`
	Owner   *Owner    `json:"owner,omitempty"`
}

// Owner looks after pets.
type Owner struct {
	Name string `json:"name"`
	Pets []Pet  `json:"pets"`
}
