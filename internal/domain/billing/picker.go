package billing

import (
	"strings"

	"github.com/techvibe/backoffice/internal/domain/entity"
)

// PickResult is the outcome of filtering clients for the picker
type PickResult struct {
	Matches []*entity.Client `json:"matches"`
	// CanCreate is set when nothing matched, offering "create new client"
	CanCreate bool `json:"can_create"`
}

// FilterClients keeps candidates whose name, email or company contains the query,
// ignoring case. An empty query keeps everyone. Input order is preserved.
func FilterClients(candidates []*entity.Client, query string) PickResult {
	q := strings.ToLower(strings.TrimSpace(query))

	matches := make([]*entity.Client, 0, len(candidates))
	for _, c := range candidates {
		if q == "" || strings.Contains(searchText(c), q) {
			matches = append(matches, c)
		}
	}

	return PickResult{
		Matches:   matches,
		CanCreate: len(matches) == 0,
	}
}

func searchText(c *entity.Client) string {
	return strings.ToLower(c.Name + " " + c.Email + " " + c.Company)
}
