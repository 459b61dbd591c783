// Package billing is orchestrator test data.
package billing

// Payment is how an order is paid.
type Payment interface {
	Amount() int
}

// Card pays by card.
type Card struct {
	Number string `json:"number"`
	Cents  int    `json:"cents"`
}

func (c Card) Amount() int { return c.Cents }

// Cash pays on delivery.
type Cash struct {
	Cents int `json:"cents"`
}

func (c Cash) Amount() int { return c.Cents }
