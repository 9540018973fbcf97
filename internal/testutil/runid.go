package testutil

// StaticRunID returns the same run ID on every call, for tests that drive
// one emit.Driver through any number of runs. Safe for concurrent use.
type StaticRunID struct {
	id string
}

// NewStaticRunID creates a generator for id. An empty id yields "test-run-default".
func NewStaticRunID(id string) *StaticRunID {
	if id == "" {
		id = "test-run-default"
	}
	return &StaticRunID{id: id}
}

// Generate returns the fixed run ID.
func (g *StaticRunID) Generate() string {
	return g.id
}
