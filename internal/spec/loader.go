package spec

import (
	"fmt"
	"os"
	"slices"

	"go.yaml.in/yaml/v3"
)

// MalformedSpecificationError reports the first structural problem found in
// a specification document. The loader never attempts partial recovery.
type MalformedSpecificationError struct {
	// Field locates the problem, e.g. "schema[2].producer".
	Field string

	// Reason is a human-readable description of the problem.
	Reason string
}

func (e *MalformedSpecificationError) Error() string {
	if e.Field == "" {
		return "malformed specification: " + e.Reason
	}
	return fmt.Sprintf("malformed specification: %s: %s", e.Field, e.Reason)
}

// document mirrors the YAML shape of a specification file.
type document struct {
	Name         string       `yaml:"name"`
	Requirements string       `yaml:"requirements,omitempty"`
	Pattern      string       `yaml:"pattern,omitempty"`
	Steps        []stepDoc    `yaml:"steps,omitempty"`
	Utilities    []utilityDoc `yaml:"utilities,omitempty"`
	Schema       []fieldDoc   `yaml:"schema,omitempty"`
}

type stepDoc struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Kind        string `yaml:"kind,omitempty"`
	After       string `yaml:"after,omitempty"`
	Before      string `yaml:"before,omitempty"`
}

type utilityDoc struct {
	Name           string `yaml:"name"`
	Input          string `yaml:"input,omitempty"`
	Output         string `yaml:"output,omitempty"`
	ExternalSystem string `yaml:"external_system,omitempty"`
}

type fieldDoc struct {
	Name      string   `yaml:"name"`
	Type      string   `yaml:"type,omitempty"`
	Producer  string   `yaml:"producer"`
	Consumers []string `yaml:"consumers,omitempty"`
}

// Load reads and parses a specification file.
func Load(path string, known Known) (*Specification, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading specification %s: %w", path, err)
	}
	return Parse(data, known)
}

// Parse validates raw YAML bytes against the specification schema, applies
// the semantic checks the schema cannot express, and returns the immutable
// Specification model. The first problem found is returned as a
// *MalformedSpecificationError.
func Parse(data []byte, known Known) (*Specification, error) {
	issues, err := checkSchema(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &MalformedSpecificationError{
			Field:  issues[0].Path,
			Reason: issues[0].Message,
		}
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing specification YAML: %w", err)
	}

	if err := checkSemantics(&doc, known); err != nil {
		return nil, err
	}

	return build(&doc), nil
}

// checkSemantics applies the reference checks the JSON Schema cannot
// express. The first violation wins.
func checkSemantics(doc *document, known Known) error {
	if doc.Pattern != "" && !slices.Contains(known.PatternNames, doc.Pattern) {
		return &MalformedSpecificationError{
			Field:  "pattern",
			Reason: fmt.Sprintf("unknown pattern %q", doc.Pattern),
		}
	}

	stepNames := make(map[string]bool, len(doc.Steps))
	for i, s := range doc.Steps {
		if stepNames[s.Name] {
			return &MalformedSpecificationError{
				Field:  fmt.Sprintf("steps[%d].name", i),
				Reason: fmt.Sprintf("duplicate step name %q", s.Name),
			}
		}
		stepNames[s.Name] = true
	}

	for i, s := range doc.Steps {
		if s.After != "" && !stepNames[s.After] {
			return &MalformedSpecificationError{
				Field:  fmt.Sprintf("steps[%d].after", i),
				Reason: fmt.Sprintf("references unknown step %q", s.After),
			}
		}
		if s.Before != "" && !stepNames[s.Before] {
			return &MalformedSpecificationError{
				Field:  fmt.Sprintf("steps[%d].before", i),
				Reason: fmt.Sprintf("references unknown step %q", s.Before),
			}
		}
	}

	utilNames := make(map[string]bool, len(doc.Utilities))
	for i, u := range doc.Utilities {
		if utilNames[u.Name] {
			return &MalformedSpecificationError{
				Field:  fmt.Sprintf("utilities[%d].name", i),
				Reason: fmt.Sprintf("duplicate utility name %q", u.Name),
			}
		}
		utilNames[u.Name] = true
	}

	fieldNames := make(map[string]bool, len(doc.Schema))
	for i, f := range doc.Schema {
		if fieldNames[f.Name] {
			return &MalformedSpecificationError{
				Field:  fmt.Sprintf("schema[%d].name", i),
				Reason: fmt.Sprintf("duplicate field name %q", f.Name),
			}
		}
		fieldNames[f.Name] = true

		// A producer must be a declared step or a pattern-default role
		// placeholder the engine is allowed to inject later.
		if !stepNames[f.Producer] && !slices.Contains(known.RoleNames, f.Producer) {
			return &MalformedSpecificationError{
				Field:  fmt.Sprintf("schema[%d].producer", i),
				Reason: fmt.Sprintf("producer %q is neither a declared step nor a pattern-default role", f.Producer),
			}
		}
	}

	return nil
}

// build converts the validated document into the Specification model.
func build(doc *document) *Specification {
	s := &Specification{
		Name:            doc.Name,
		Requirements:    doc.Requirements,
		ExplicitPattern: doc.Pattern,
	}

	for _, st := range doc.Steps {
		kind := NodeKind(st.Kind)
		if st.Kind == "" {
			kind = KindSync
		}
		s.Nodes = append(s.Nodes, NodeSpec{
			Name:        st.Name,
			Description: st.Description,
			Kind:        kind,
			After:       st.After,
			Before:      st.Before,
		})
	}

	for _, u := range doc.Utilities {
		s.Utilities = append(s.Utilities, UtilitySpec{
			Name:           u.Name,
			InputContract:  u.Input,
			OutputContract: u.Output,
			ExternalSystem: u.ExternalSystem,
		})
	}

	for _, f := range doc.Schema {
		typ := SemanticType(f.Type)
		if f.Type == "" {
			typ = TypeString
		}
		s.SchemaFields = append(s.SchemaFields, SchemaField{
			Name:      f.Name,
			Type:      typ,
			Producer:  f.Producer,
			Consumers: slices.Clone(f.Consumers),
		})
	}

	return s
}
