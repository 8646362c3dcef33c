package audit

import (
	"net/url"
	"strings"

	"github.com/JaimeStill/douane/internal/features"
	"github.com/JaimeStill/douane/pkg/query"
	"github.com/JaimeStill/douane/pkg/repository"
)

const table = "prediction_logs"

var projection = newProjection()

var defaultSort = query.SortField{
	Field:      "ID",
	Descending: true,
}

func newProjection() *query.ProjectionMap {
	p := query.
		NewProjectionMap("", table, "l").
		Project("id", "ID").
		Project("logged_at", "Timestamp").
		Project("client_ip", "ClientIP")

	for _, f := range features.Fields() {
		p.Project(f.Column(), f.String())
	}

	return p.
		Project("prediction", "Prediction").
		Project("probability", "Probability")
}

// Filters contains optional filtering criteria for record queries. Nil fields are ignored.
type Filters struct {
	Prediction *string `json:"prediction,omitempty"`
	ClientIP   *string `json:"client_ip,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Prediction", f.Prediction).
		WhereEquals("ClientIP", f.ClientIP)
}

// FiltersFromQuery extracts filter values from URL query parameters.
// The prediction label is matched case-insensitively.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if p := strings.TrimSpace(values.Get("prediction")); p != "" {
		p = strings.ToUpper(p)
		f.Prediction = &p
	}

	if ip := strings.TrimSpace(values.Get("client_ip")); ip != "" {
		f.ClientIP = &ip
	}

	return f
}

func scanRecord(s repository.Scanner) (Record, error) {
	var r Record
	dest := make([]any, 0, features.Count+5)
	dest = append(dest, &r.ID, &r.Timestamp, &r.ClientIP)
	for _, f := range features.Fields() {
		dest = append(dest, &r.Inputs[f])
	}
	dest = append(dest, &r.Prediction, &r.Probability)

	if err := s.Scan(dest...); err != nil {
		return Record{}, err
	}
	r.Timestamp = r.Timestamp.UTC()
	return r, nil
}
