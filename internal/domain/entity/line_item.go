package entity

import "encoding/json"

// LineItem is one billable row of a document.
// Amount is derived from quantity and unit price and is never stored.
type LineItem struct {
	ID          int64   `json:"id,omitempty"`
	DocumentID  int64   `json:"document_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// NewLineItem returns the default row appended by the editor
func NewLineItem() LineItem {
	return LineItem{Quantity: 1}
}

// Amount returns quantity * unit price
func (li LineItem) Amount() float64 {
	return li.Quantity * li.UnitPrice
}

type lineItemJSON struct {
	ID          int64   `json:"id,omitempty"`
	DocumentID  int64   `json:"document_id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
	Amount      float64 `json:"amount"`
}

// MarshalJSON includes the derived amount
func (li LineItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(lineItemJSON{
		ID:          li.ID,
		DocumentID:  li.DocumentID,
		Description: li.Description,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		Amount:      li.Amount(),
	})
}

// UnmarshalJSON ignores any client-supplied amount
func (li *LineItem) UnmarshalJSON(data []byte) error {
	var raw lineItemJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*li = LineItem{
		ID:          raw.ID,
		DocumentID:  raw.DocumentID,
		Description: raw.Description,
		Quantity:    raw.Quantity,
		UnitPrice:   raw.UnitPrice,
	}
	return nil
}
