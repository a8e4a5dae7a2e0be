package expense

import (
	"slices"
	"strings"

	"barinalp/internal/core/apperror"
	"barinalp/internal/core/types"
)

// Field names accepted by Ledger.Update.
type Field string

const (
	FieldDescription Field = "description"
	FieldQuantity    Field = "quantity"
	FieldUnitPrice   Field = "unitPrice"
	FieldCostObject  Field = "costObjectId"
)

// Position is one invoice line in the draft.
type Position struct {
	// ID is assigned on creation and stable for the life of the draft
	ID string
	// Number is the 1-based row number at creation, used only for placeholders
	Number int

	Description string
	Quantity    types.Quantity
	UnitPrice   types.Money

	// CostObjectID is the per-line allocation; empty means unassigned
	CostObjectID string
}

// LineTotal is quantity × unit price.
func (p Position) LineTotal() types.Money {
	return p.Quantity.Mul(p.UnitPrice)
}

// IsValid reports whether the position has a description and a positive unit price.
// Only valid positions are submitted.
func (p Position) IsValid() bool {
	return strings.TrimSpace(p.Description) != "" && p.UnitPrice.IsPositive()
}

// Label is the description, or the placeholder when it is empty.
func (p Position) Label() string {
	if strings.TrimSpace(p.Description) == "" {
		return PositionPlaceholder
	}
	return p.Description
}

// Ledger is the ordered list of positions. It is never empty.
type Ledger struct {
	positions []Position
	newID     func() string
}

// NewLedger creates a ledger holding one blank position.
func NewLedger() *Ledger {
	return newLedger(newPositionID)
}

func newLedger(newID func() string) *Ledger {
	l := &Ledger{newID: newID}
	l.Add()
	return l
}

// Add appends a blank position (quantity 1, price 0).
func (l *Ledger) Add() Position {
	p := Position{
		ID:        l.newID(),
		Number:    len(l.positions) + 1,
		Quantity:  types.One(),
		UnitPrice: types.Zero(),
	}
	l.positions = append(l.positions, p)
	return p
}

// Update sets one field of a position from raw form input. Quantity and
// unit price are parsed leniently: malformed input becomes zero.
func (l *Ledger) Update(positionID string, field Field, raw string) (Position, error) {
	i := l.index(positionID)
	if i < 0 {
		return Position{}, apperror.NewNotFound("position", positionID)
	}

	p := &l.positions[i]
	switch field {
	case FieldDescription:
		p.Description = raw
	case FieldQuantity:
		p.Quantity = types.ParseDecimalLenient(raw)
	case FieldUnitPrice:
		p.UnitPrice = types.ParseDecimalLenient(raw)
	case FieldCostObject:
		p.CostObjectID = strings.TrimSpace(raw)
	default:
		return Position{}, apperror.NewValidation("unknown position field").
			WithDetail("field", field)
	}

	return *p, nil
}

// Remove deletes a position. Removing the last one is refused with LAST_POSITION.
func (l *Ledger) Remove(positionID string) error {
	i := l.index(positionID)
	if i < 0 {
		return apperror.NewNotFound("position", positionID)
	}

	if len(l.positions) == 1 {
		return apperror.NewBusinessRule(apperror.CodeLastPosition, MsgLastPosition).
			WithDetail("positionId", positionID)
	}

	l.positions = slices.Delete(l.positions, i, i+1)
	return nil
}

// Get returns the position with the given id.
func (l *Ledger) Get(positionID string) (Position, bool) {
	i := l.index(positionID)
	if i < 0 {
		return Position{}, false
	}
	return l.positions[i], true
}

// Positions returns a copy of the positions in entry order.
func (l *Ledger) Positions() []Position {
	return slices.Clone(l.positions)
}

// Len returns the number of positions.
func (l *Ledger) Len() int {
	return len(l.positions)
}

// ValidPositions returns copies of the positions eligible for submission.
func (l *Ledger) ValidPositions() []Position {
	valid := make([]Position, 0, len(l.positions))
	for _, p := range l.positions {
		if p.IsValid() {
			valid = append(valid, p)
		}
	}
	return valid
}

// Total sums the line totals of valid positions.
func (l *Ledger) Total() types.Money {
	total := types.Zero()
	for _, p := range l.positions {
		if p.IsValid() {
			total = total.Add(p.LineTotal())
		}
	}
	return total
}

func (l *Ledger) clone() *Ledger {
	return &Ledger{
		positions: slices.Clone(l.positions),
		newID:     l.newID,
	}
}

func (l *Ledger) index(positionID string) int {
	return slices.IndexFunc(l.positions, func(p Position) bool {
		return p.ID == positionID
	})
}
