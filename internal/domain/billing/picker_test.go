package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

func TestFilterClients(t *testing.T) {
	clients := []*entity.Client{
		{ID: 1, Name: "Rahim Uddin", Email: "rahim@example.com", Company: "Padma Traders"},
		{ID: 2, Name: "Acme", Email: "ops@acme.io", Company: "Acme Ltd"},
		{ID: 3, Name: "Karim", Email: "karim@jamuna.bd", Company: ""},
	}

	tests := []struct {
		name      string
		query     string
		wantIDs   []int64
		canCreate bool
	}{
		{"empty query returns all", "", []int64{1, 2, 3}, false},
		{"name match ignores case", "RAHIM", []int64{1}, false},
		{"email match", "jamuna", []int64{3}, false},
		{"company match", "padma", []int64{1}, false},
		{"shared substring keeps input order", "a", []int64{1, 2, 3}, false},
		{"no match offers create", "zeta", []int64{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := FilterClients(clients, tt.query)

			ids := make([]int64, 0, len(res.Matches))
			for _, c := range res.Matches {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.canCreate, res.CanCreate)
		})
	}
}
