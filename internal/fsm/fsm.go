// Package fsm holds the order lifecycle transition tables.
package fsm

import (
	"xchain-backend/internal/errs"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusCreated   Status = "created"
	StatusSent      Status = "sent"
	StatusConfirmed Status = "confirmed"
	StatusChecked   Status = "checked"
	StatusCanceled  Status = "canceled"
)

// Machine validates transitions against a fixed table.
type Machine struct {
	name  string
	edges map[Status][]Status
}

// New builds a machine; states absent from edges are terminal.
func New(name string, edges map[Status][]Status) *Machine {
	return &Machine{name: name, edges: edges}
}

var (
	// Xin is the inbound order lifecycle.
	Xin = New("xin", map[Status][]Status{
		StatusCreated: {StatusChecked, StatusCanceled},
	})

	// Xout is the outbound order lifecycle.
	Xout = New("xout", map[Status][]Status{
		StatusCreated:   {StatusSent, StatusCanceled},
		StatusSent:      {StatusConfirmed, StatusCanceled},
		StatusConfirmed: {StatusChecked, StatusCanceled},
	})
)

// Name returns the order kind the machine governs.
func (m *Machine) Name() string {
	return m.name
}

// Can reports whether from -> to is an edge.
func (m *Machine) Can(from, to Status) bool {
	for _, s := range m.edges[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition returns STATUS_INVALID unless from -> to is an edge.
func (m *Machine) Transition(from, to Status) error {
	if !m.Can(from, to) {
		return errs.StatusInvalid("%s order cannot move from %s to %s", m.name, from, to)
	}
	return nil
}

// Sources lists the states that may move to `to`, in table order.
func (m *Machine) Sources(to Status) []Status {
	var out []Status
	for _, from := range []Status{StatusCreated, StatusSent, StatusConfirmed, StatusChecked, StatusCanceled} {
		if m.Can(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// IsTerminal reports a state with no outgoing edges.
func (m *Machine) IsTerminal(s Status) bool {
	return len(m.edges[s]) == 0
}
