// Package animals is loader test data.
package animals

// Animal lives in the zoo.
type Animal struct {
	Name string `json:"name"`
	Legs int    `json:"legs"`
}
