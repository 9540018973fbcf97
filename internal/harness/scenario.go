package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/odsgen/internal/binding"
	"github.com/roach88/odsgen/internal/compiler"
	"github.com/roach88/odsgen/internal/ods"
)

// Scenario defines a binding conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Dialect overrides the dialect taken from the operation name prefix.
	Dialect string `yaml:"dialect,omitempty"`

	// Operation is the definition under test, in the same shape the CUE
	// loader decodes.
	Operation compiler.OperationDef `yaml:"operation"`

	// Probes are evaluated in order against the synthesized accessors.
	Probes []Probe `yaml:"probes,omitempty"`

	// ExpectError is the synthesis error code the operation must fail with,
	// e.g. "UNSUPPORTED_SLOT_SHAPE". Empty means synthesis must succeed.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// Probe is one runtime shape and the selections it must produce.
type Probe struct {
	// Kind is "operand" or "result".
	Kind string `yaml:"kind"`

	// Count is the runtime element count.
	Count int `yaml:"count"`

	// SegmentSizes is the runtime segment-size attribute, for segment-sized kinds.
	SegmentSizes []int `yaml:"segment_sizes,omitempty"`

	// Expect maps declared slot names to the expected selection.
	Expect map[string]Expectation `yaml:"expect,omitempty"`

	// Fails means every probed accessor must reject this shape.
	Fails bool `yaml:"fails,omitempty"`
}

// Expectation is the range an accessor must select. Unwrap marks a
// selection the accessor returns as the bare element rather than a slice.
type Expectation struct {
	Start  int  `yaml:"start"`
	End    int  `yaml:"end"`
	Absent bool `yaml:"absent,omitempty"`
	Unwrap bool `yaml:"unwrap,omitempty"`
}

func (e Expectation) String() string {
	return fmt.Sprintf("[%d, %d) absent=%t unwrap=%t", e.Start, e.End, e.Absent, e.Unwrap)
}

// Runtime returns the probe's runtime shape.
func (p Probe) Runtime() binding.Runtime {
	return binding.Runtime{Count: p.Count, SegmentSizes: p.SegmentSizes}
}

// slotNames returns the expectation keys in sorted order.
func (p Probe) slotNames() []string {
	names := make([]string, 0, len(p.Expect))
	for name := range p.Expect {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field checking.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted.
// A non-empty filter is a glob matched against the file name without extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})
	sort.Strings(files)
	return files, err
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Operation.Name == "" {
		return fmt.Errorf("operation.name is required")
	}

	if s.ExpectError != "" && len(s.Probes) > 0 {
		return fmt.Errorf("probes cannot be combined with expect_error")
	}

	for i, p := range s.Probes {
		if err := validateProbe(i, &p); err != nil {
			return err
		}
	}

	return nil
}

// validateProbe validates a single probe.
func validateProbe(index int, p *Probe) error {
	if _, err := ods.ParseKind(p.Kind); err != nil {
		return fmt.Errorf("probes[%d]: %w", index, err)
	}
	if p.Count < 0 {
		return fmt.Errorf("probes[%d]: count must be non-negative", index)
	}
	if len(p.Expect) == 0 {
		return fmt.Errorf("probes[%d]: expect is required and must be non-empty", index)
	}
	if p.Fails {
		return nil
	}
	for _, name := range p.slotNames() {
		e := p.Expect[name]
		if e.Start < 0 || e.End < e.Start {
			return fmt.Errorf("probes[%d].expect.%s: invalid range [%d, %d)", index, name, e.Start, e.End)
		}
		if e.Absent && e.End != e.Start {
			return fmt.Errorf("probes[%d].expect.%s: absent selection must be empty", index, name)
		}
		if e.Unwrap && e.End != e.Start+1 {
			return fmt.Errorf("probes[%d].expect.%s: unwrapped selection must hold exactly one element", index, name)
		}
	}
	return nil
}
