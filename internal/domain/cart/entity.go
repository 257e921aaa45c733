// internal/domain/cart/entity.go
package cart

// Line represents one scanned product inside the cart
type Line struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image"`
	SKU       string  `json:"sku"`
	Quantity  int     `json:"quantity"`
}

// Candidate represents a product about to enter the cart (no quantity yet)
type Candidate struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image"`
	SKU       string  `json:"sku"`
}

// State is the full cart: lines in insertion order plus the derived total.
// Total always equals the sum of unit_price * quantity over the lines; it is
// recomputed from scratch after every transition.
type State struct {
	Lines []Line  `json:"lines"`
	Total float64 `json:"total"`
}

// Empty returns the initial cart state
func Empty() State {
	return State{Lines: []Line{}, Total: 0}
}

// TotalItems returns the sum of quantities across all lines
func (s State) TotalItems() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no lines
func (s State) IsEmpty() bool {
	return len(s.Lines) == 0
}

// Action is the closed set of cart transitions. Implementations live in this
// package only.
type Action interface {
	isAction()
}

// AddItem appends a new line with quantity 1, or increments the quantity of
// an existing line with the same code
type AddItem struct {
	Item Candidate
}

// RemoveItem deletes the line with the given code; no-op if absent
type RemoveItem struct {
	Code string
}

// IncrementQty increments the matching line's quantity by 1; no-op if absent
type IncrementQty struct {
	Code string
}

// DecrementQty decrements the matching line's quantity by 1; a line that
// would reach zero is removed entirely
type DecrementQty struct {
	Code string
}

// Clear resets the cart to its initial empty state
type Clear struct{}

func (AddItem) isAction()      {}
func (RemoveItem) isAction()   {}
func (IncrementQty) isAction() {}
func (DecrementQty) isAction() {}
func (Clear) isAction()        {}
