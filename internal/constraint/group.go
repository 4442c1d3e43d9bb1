package constraint

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Joint is anything a Group can step.
type Joint interface {
	Step(dt float32) error
	Broken() bool
}

// Group steps the joints acting on one body in a fixed order. Impulses are
// additive and each joint sees the velocity left by the previous one, so
// the order must not change between steps.
type Group struct {
	joints *orderedmap.OrderedMap[string, Joint]
}

func NewGroup() *Group {
	return &Group{joints: orderedmap.NewOrderedMap[string, Joint]()}
}

// Add appends j under name. Replacing an existing name keeps its slot.
func (g *Group) Add(name string, j Joint) {
	g.joints.Set(name, j)
}

func (g *Group) Remove(name string) bool {
	return g.joints.Delete(name)
}

func (g *Group) Get(name string) (Joint, bool) {
	return g.joints.Get(name)
}

func (g *Group) Len() int {
	return g.joints.Len()
}

// Names returns joint names in solve order.
func (g *Group) Names() []string {
	names := make([]string, 0, g.joints.Len())
	for el := g.joints.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

// Step solves every joint once, then removes the ones that broke. It
// returns the names of removed joints. A failing joint does not stop the
// others.
func (g *Group) Step(dt float32) ([]string, error) {
	var broken []string
	var errs []error
	for el := g.joints.Front(); el != nil; el = el.Next() {
		if err := el.Value.Step(dt); err != nil {
			errs = append(errs, fmt.Errorf("joint %q: %w", el.Key, err))
		}
		if el.Value.Broken() {
			broken = append(broken, el.Key)
		}
	}
	for _, name := range broken {
		g.joints.Delete(name)
	}
	return broken, errors.Join(errs...)
}
