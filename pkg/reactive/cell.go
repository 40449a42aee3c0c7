package reactive

import "github.com/vango-dev/vbind/internal/util"

// Cell is a reactive storage slot: a value plus the Dep of subscribers that
// read it.
type Cell struct {
	value any
	dep   *Dep
}

// NewCell creates a Cell holding v whose reads are collected by t.
func NewCell(t *Tracker, v any) *Cell {
	return &Cell{value: v, dep: NewDep(t)}
}

// Read returns the current value, subscribing the Tracker's active
// subscriber if one is collecting.
func (c *Cell) Read() any {
	c.dep.Depend()
	return c.value
}

// Peek returns the current value without subscribing anyone.
func (c *Cell) Peek() any {
	return c.value
}

// Write stores v and notifies subscribers, unless v is strictly the same
// value already stored.
func (c *Cell) Write(v any) {
	if util.Same(c.value, v) {
		return
	}
	c.value = v
	c.dep.Notify()
}

// Dep returns the Cell's subscriber registry.
func (c *Cell) Dep() *Dep {
	return c.dep
}
