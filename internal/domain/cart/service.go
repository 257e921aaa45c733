// internal/domain/cart/service.go
package cart

import "sync"

// Apply evaluates a single transition and returns the resulting state. It is
// a pure function: the input state is never mutated, transitions never fail,
// and unknown codes are ignored. The total is recomputed from the lines on
// every call so it cannot drift from the line data.
func Apply(state State, action Action) State {
	var lines []Line

	switch a := action.(type) {
	case AddItem:
		existing := -1
		for i, line := range state.Lines {
			if line.Code == a.Item.Code {
				existing = i
				break
			}
		}

		lines = copyLines(state.Lines)
		if existing >= 0 {
			lines[existing].Quantity++
		} else {
			lines = append(lines, Line{
				Code:      a.Item.Code,
				Name:      a.Item.Name,
				UnitPrice: a.Item.UnitPrice,
				Image:     a.Item.Image,
				SKU:       a.Item.SKU,
				Quantity:  1,
			})
		}

	case RemoveItem:
		lines = make([]Line, 0, len(state.Lines))
		for _, line := range state.Lines {
			if line.Code != a.Code {
				lines = append(lines, line)
			}
		}

	case IncrementQty:
		lines = copyLines(state.Lines)
		for i := range lines {
			if lines[i].Code == a.Code {
				lines[i].Quantity++
				break
			}
		}

	case DecrementQty:
		lines = make([]Line, 0, len(state.Lines))
		for _, line := range state.Lines {
			if line.Code == a.Code {
				line.Quantity--
			}
			if line.Quantity > 0 {
				lines = append(lines, line)
			}
		}

	case Clear:
		return Empty()

	default:
		return state
	}

	return State{Lines: lines, Total: sumLines(lines)}
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}

func sumLines(lines []Line) float64 {
	total := 0.0
	for _, line := range lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}

// Store keeps one cart state per session. All mutation goes through Apply so
// the per-session state can only move between valid states.
type Store struct {
	mu    sync.Mutex
	carts map[string]State
}

// NewStore creates an empty session cart store
func NewStore() *Store {
	return &Store{carts: make(map[string]State)}
}

// Get returns the current state for a session, or the empty state if the
// session has no cart yet
func (s *Store) Get(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[sessionID]
	if !ok {
		return Empty()
	}
	return state
}

// Dispatch applies an action to the session's cart and returns the new state
func (s *Store) Dispatch(sessionID string, action Action) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.carts[sessionID]
	if !ok {
		state = Empty()
	}

	next := Apply(state, action)
	s.carts[sessionID] = next
	return next
}

// Clear resets the session's cart to the empty state
func (s *Store) Clear(sessionID string) State {
	return s.Dispatch(sessionID, Clear{})
}
