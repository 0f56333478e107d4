package domain

import (
	"iter"

	"go.trai.ch/zerr"
)

// Graph represents a dependency graph of analysis units.
// Insertion order is preserved so that layering and batching are deterministic.
type Graph struct {
	units map[InternedString]Unit
	order []InternedString
}

// NewGraph creates a new empty Graph.
func NewGraph() *Graph {
	return &Graph{
		units: make(map[InternedString]Unit),
	}
}

// AddUnit adds a unit to the graph.
// It returns an error if a unit with the same name already exists.
func (g *Graph) AddUnit(u *Unit) error {
	if _, exists := g.units[u.Name]; exists {
		return zerr.With(ErrUnitAlreadyExists, "unit", u.Name.String())
	}
	g.units[u.Name] = *u
	g.order = append(g.order, u.Name)
	return nil
}

// Unit returns the unit with the given name.
func (g *Graph) Unit(name InternedString) (Unit, bool) {
	u, ok := g.units[name]
	return u, ok
}

// UnitCount returns the number of units in the graph.
func (g *Graph) UnitCount() int {
	return len(g.units)
}

// Units returns an iterator over units in insertion order.
func (g *Graph) Units() iter.Seq[Unit] {
	return func(yield func(Unit) bool) {
		for _, name := range g.order {
			if !yield(g.units[name]) {
				return
			}
		}
	}
}
