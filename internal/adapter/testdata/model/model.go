// Package model is adapter test data.
package model

import "time"

// Point is a location on a plane.
type Point struct {
	// X is the horizontal position.
	X       int       `json:"x"`
	Y       int       `json:"y"` // vertical position
	Label   *string   `json:"label,omitempty"`
	Hidden  string    `json:"-"`
	secret  string
	Tags    []string  `json:"tags" validate:"required"`
	Created time.Time `json:"created"`
	Kind    string    `json:"kind" validate:"oneof=a b"`
	Weight  float64   `json:"weight" default:"1.5"`
	Ignored string    `json:"ignored" jsonschema:"-"`
}

// Color of a shape.
type Color string

const (
	// Red is warm.
	Red     Color = "red"
	Green   Color = "green" // the middle one
	Blue    Color = "blue"
	Crimson Color = "red"
)

// Level is ordered.
type Level int

const (
	Low Level = iota
	High
)

// Node is a tree node.
type Node struct {
	Value    int     `json:"value"`
	Children []*Node `json:"children"`
}

// Shape is the base of all shapes.
type Shape struct {
	Name string `json:"name"`
}

// Circle is a shape.
type Circle struct {
	Shape
	Radius float64 `json:"radius"`
}

// Box holds one value.
type Box[T any] struct {
	Value T `json:"value"`
}

// Holder uses two instantiations.
type Holder struct {
	Ints    Box[int]    `json:"ints"`
	Strings Box[string] `json:"strings"`
}

// Animal is sealed.
type Animal interface {
	isAnimal()
}

// Named is implemented by anything with a name.
type Named interface {
	Name() string
}

// Cat is an animal.
type Cat struct {
	Lives int `json:"lives"`
}

func (Cat) isAnimal() {}

// Name implements Named.
func (Cat) Name() string { return "cat" }

// Dog is an animal.
type Dog struct {
	Good bool `json:"good"`
}

func (*Dog) isAnimal() {}

// Name implements Named.
func (*Dog) Name() string { return "dog" }

// Weird holds members without a JSON form.
type Weird struct {
	Events   chan int    `json:"events"`
	Callback func()      `json:"callback"`
	Any      interface{} `json:"any"`
	Err      error       `json:"err"`
}

// Registry maps names to points.
type Registry map[string]Point

// Plain has no json tags.
type Plain struct {
	FirstName string
	URLPath   string
}
