package billing

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// ItemField names an editable line item field
type ItemField string

const (
	FieldDescription ItemField = "description"
	FieldQuantity    ItemField = "quantity"
	FieldUnitPrice   ItemField = "unitPrice"
)

// ParseItemField accepts the camelCase form names and their snake_case JSON equivalents
func ParseItemField(s string) (ItemField, error) {
	switch s {
	case "description":
		return FieldDescription, nil
	case "quantity":
		return FieldQuantity, nil
	case "unitPrice", "unit_price":
		return FieldUnitPrice, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownItemField, s)
}

// Editor maintains the ordered line items of a document being edited.
// Every mutation installs a fresh slice, so slices returned by Items stay unchanged.
type Editor struct {
	items []entity.LineItem
}

// NewEditor starts an editor from existing items, or from a single default row when empty
func NewEditor(items []entity.LineItem) *Editor {
	if len(items) == 0 {
		return &Editor{items: []entity.LineItem{entity.NewLineItem()}}
	}
	return &Editor{items: append([]entity.LineItem(nil), items...)}
}

// Items returns the current collection
func (e *Editor) Items() []entity.LineItem {
	return e.items
}

// Len returns the number of rows
func (e *Editor) Len() int {
	return len(e.items)
}

// AddItem appends a default row
func (e *Editor) AddItem() {
	next := make([]entity.LineItem, len(e.items), len(e.items)+1)
	copy(next, e.items)
	e.items = append(next, entity.NewLineItem())
}

// RemoveItem deletes the row at index. The last remaining row is never removed.
func (e *Editor) RemoveItem(index int) error {
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("%w: %d", ErrItemIndexOutOfRange, index)
	}
	if len(e.items) <= 1 {
		return nil
	}

	next := make([]entity.LineItem, 0, len(e.items)-1)
	next = append(next, e.items[:index]...)
	next = append(next, e.items[index+1:]...)
	e.items = next
	return nil
}

// UpdateItem sets one field of the row at index from its text form.
// Empty numeric input counts as zero.
func (e *Editor) UpdateItem(index int, field ItemField, value string) error {
	if index < 0 || index >= len(e.items) {
		return fmt.Errorf("%w: %d", ErrItemIndexOutOfRange, index)
	}

	item := e.items[index]
	switch field {
	case FieldDescription:
		item.Description = value
	case FieldQuantity:
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		item.Quantity = n
	case FieldUnitPrice:
		n, err := parseNumber(value)
		if err != nil {
			return err
		}
		item.UnitPrice = n
	default:
		return fmt.Errorf("%w: %s", ErrUnknownItemField, field)
	}

	next := make([]entity.LineItem, len(e.items))
	copy(next, e.items)
	next[index] = item
	e.items = next
	return nil
}

// SetItems replaces the whole collection, keeping at least one row
func (e *Editor) SetItems(items []entity.LineItem) {
	if len(items) == 0 {
		e.items = []entity.LineItem{entity.NewLineItem()}
		return
	}
	e.items = append([]entity.LineItem(nil), items...)
}

func parseNumber(value string) (float64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(value, 64)
	// ParseFloat accepts NaN and Inf spellings; neither is a usable amount
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidNumber, value)
	}
	return n, nil
}
