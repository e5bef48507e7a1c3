package primary

import (
	"context"
	"io"
)

// FixtureService defines the primary port for dumping and loading data files.
type FixtureService interface {
	// Dump writes every tour and product as a YAML fixture document.
	Dump(ctx context.Context, w io.Writer) (*FixtureSummary, error)

	// Load reads a fixture document and upserts each object by primary key.
	// Objects are validated with the same forms as the web and CLI.
	Load(ctx context.Context, r io.Reader) (*FixtureSummary, error)
}

// FixtureSummary counts objects per model label.
type FixtureSummary struct {
	Counts map[string]int
}

// Total is the number of objects across all models.
func (s *FixtureSummary) Total() int {
	n := 0
	for _, c := range s.Counts {
		n += c
	}
	return n
}
