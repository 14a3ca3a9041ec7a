package assembly

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type Vec3Spec struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

type PartSpec struct {
	ID             string    `yaml:"id"`
	Name           string    `yaml:"name"`
	Position       Vec3Spec  `yaml:"position"`
	Approach       *Vec3Spec `yaml:"approach,omitempty"`
	ApproachOffset float64   `yaml:"approach_offset,omitempty"`
	BoundingHeight float64   `yaml:"bounding_height,omitempty"`
}

type StepSpec struct {
	ID   string `yaml:"id"`
	Part string `yaml:"part"`
}

type AssemblySpec struct {
	ID    string     `yaml:"id"`
	Name  string     `yaml:"name"`
	Parts []PartSpec `yaml:"parts"`
	Steps []StepSpec `yaml:"steps"`
}

// LoadSpec reads and unmarshals a YAML definition by file name.
func LoadSpec(filename string) (AssemblySpec, error) {
	var zero AssemblySpec
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("assembly: load %s: %w", filename, err)
	}

	var spec AssemblySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("assembly: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// FromSpec builds a runtime Assembly from a decoded spec.
func FromSpec(spec AssemblySpec) (*Assembly, error) {
	parts := make([]Part, 0, len(spec.Parts))
	for _, ps := range spec.Parts {
		p := Part{
			ID:             ps.ID,
			Name:           ps.Name,
			ApproachOffset: ps.ApproachOffset,
			BoundingHeight: ps.BoundingHeight,
		}
		p.AssembledPosition.X = ps.Position.X
		p.AssembledPosition.Y = ps.Position.Y
		p.AssembledPosition.Z = ps.Position.Z
		if ps.Approach != nil {
			p.ApproachVector.X = ps.Approach.X
			p.ApproachVector.Y = ps.Approach.Y
			p.ApproachVector.Z = ps.Approach.Z
		}
		parts = append(parts, p)
	}

	steps := make([]Step, 0, len(spec.Steps))
	for i, ss := range spec.Steps {
		id := ss.ID
		if id == "" {
			id = fmt.Sprintf("step-%d", i)
		}
		steps = append(steps, Step{ID: id, PartID: ss.Part})
	}

	return New(spec.ID, spec.Name, parts, steps)
}

// LoadAssembly loads a definition by name ("gearbox" or "gearbox.yaml").
func LoadAssembly(name string) (*Assembly, error) {
	filename := name
	if !strings.HasSuffix(filename, ".yaml") && !strings.HasSuffix(filename, ".yml") {
		filename += ".yaml"
	}
	spec, err := LoadSpec(filename)
	if err != nil {
		return nil, err
	}
	if spec.ID == "" {
		spec.ID = strings.TrimSuffix(strings.TrimSuffix(filename, ".yaml"), ".yml")
	}
	return FromSpec(spec)
}

// List returns the names of all embedded definitions, sorted.
func List() []string {
	names, err := listEmbedded()
	if err != nil {
		return nil
	}
	sort.Strings(names)
	return names
}
