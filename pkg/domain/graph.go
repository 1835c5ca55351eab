package domain

import (
	"fmt"
	"strings"
)

// Graph holds the conversation states keyed by name, with a single
// distinguished entry point. It is built once at startup and treated as
// immutable afterwards.
type Graph struct {
	start  string
	states map[string]*State
	order  []string
}

// NewGraph creates an empty graph whose entry point is start.
func NewGraph(start string) *Graph {
	return &Graph{
		start:  start,
		states: make(map[string]*State),
	}
}

// Start returns the name of the entry-point state.
func (g *Graph) Start() string {
	return g.start
}

// Add registers a state. Adding two states with the same name is a
// programming error and panics, mirroring duplicate route registration.
func (g *Graph) Add(s *State) *Graph {
	if _, dup := g.states[s.Name]; dup {
		panic(fmt.Sprintf("domain: duplicate state %q", s.Name))
	}
	g.states[s.Name] = s
	g.order = append(g.order, s.Name)
	return g
}

// Get returns the state with the given name.
func (g *Graph) Get(name string) (*State, error) {
	s, ok := g.states[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownState, name)
	}
	return s, nil
}

// Names returns the state names in registration order.
func (g *Graph) Names() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Validate checks referential completeness: the entry point exists and
// every statically declared transition target (menu routes, fallbacks,
// fixed free-input targets, terminal resume targets) resolves to a
// registered state. Handler-resolved targets are checked at runtime.
func (g *Graph) Validate() error {
	var problems []string

	check := func(from, target string) {
		if target == "" {
			return
		}
		if _, ok := g.states[target]; !ok {
			problems = append(problems, fmt.Sprintf("state %q references missing state %q", from, target))
		}
	}

	if _, ok := g.states[g.start]; !ok {
		problems = append(problems, fmt.Sprintf("entry point %q is not registered", g.start))
	}

	for _, name := range g.order {
		s := g.states[name]
		for _, target := range s.Routes {
			check(name, target)
		}
		check(name, s.Fallback)
		check(name, s.Next)
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid graph: %s", strings.Join(problems, "; "))
	}
	return nil
}
