package spec

import (
	"errors"
	"testing"
)

// testKnown mirrors the taxonomy names the pattern package supplies at
// runtime, kept local so the loader tests stay self-contained.
var testKnown = Known{
	PatternNames: []string{"linear-workflow", "retrieval-augmented", "autonomous-agent"},
	RoleNames:    []string{"index", "retrieve", "generate", "ingest", "transform", "deliver"},
}

func TestParseValidDocument(t *testing.T) {
	doc := []byte(`
name: report-builder
requirements: collect data and produce a weekly report
steps:
  - name: collect
    description: Pull raw data
    kind: batch
  - name: summarize
utilities:
  - name: fetch_metrics
    input: "query: str"
    output: "rows: list"
    external_system: postgres database
schema:
  - name: raw_rows
    type: collection
    producer: collect
    consumers: [summarize]
`)

	s, err := Parse(doc, testKnown)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if s.Name != "report-builder" {
		t.Errorf("Name = %q, want %q", s.Name, "report-builder")
	}
	if len(s.Nodes) != 2 {
		t.Fatalf("len(Nodes) = %d, want 2", len(s.Nodes))
	}
	if s.Nodes[0].Kind != KindBatch {
		t.Errorf("Nodes[0].Kind = %q, want %q", s.Nodes[0].Kind, KindBatch)
	}
	if s.Nodes[1].Kind != KindSync {
		t.Errorf("Nodes[1].Kind = %q, want synchronous default", s.Nodes[1].Kind)
	}
	if len(s.Utilities) != 1 || s.Utilities[0].ExternalSystem != "postgres database" {
		t.Errorf("Utilities = %+v, want one postgres utility", s.Utilities)
	}
	if len(s.SchemaFields) != 1 || s.SchemaFields[0].Producer != "collect" {
		t.Errorf("SchemaFields = %+v, want one field produced by collect", s.SchemaFields)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{
			name: "missing name",
			doc:  `requirements: something`,
		},
		{
			name: "bad node kind",
			doc: `
name: x
steps:
  - name: a
    kind: sometimes
`,
		},
		{
			name: "duplicate step name",
			doc: `
name: x
steps:
  - name: a
  - name: a
`,
		},
		{
			name: "duplicate field name",
			doc: `
name: x
steps:
  - name: a
schema:
  - name: f
    producer: a
  - name: f
    producer: a
`,
		},
		{
			name: "unknown explicit pattern",
			doc: `
name: x
pattern: spiral-model
`,
		},
		{
			name: "after references unknown step",
			doc: `
name: x
steps:
  - name: a
    after: ghost
`,
		},
		{
			name: "producer neither step nor default role",
			doc: `
name: x
steps:
  - name: a
  - name: b
  - name: c
schema:
  - name: f
    producer: nobody
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.doc), testKnown)
			if err == nil {
				t.Fatal("Parse() succeeded, want MalformedSpecificationError")
			}
			var malformed *MalformedSpecificationError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %v, want MalformedSpecificationError", err)
			}
		})
	}
}

func TestParseAcceptsDefaultRoleProducer(t *testing.T) {
	doc := []byte(`
name: echo-bot
requirements: answer questions
schema:
  - name: answer
    producer: generate
`)

	s, err := Parse(doc, testKnown)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if s.SchemaFields[0].Producer != "generate" {
		t.Errorf("Producer = %q, want pattern-default role accepted", s.SchemaFields[0].Producer)
	}
}

func TestParseReportsFirstProblemOnly(t *testing.T) {
	// Two problems: duplicate step and bad producer. The duplicate comes
	// first in document order and must win.
	doc := []byte(`
name: x
steps:
  - name: a
  - name: a
schema:
  - name: f
    producer: nobody
`)

	_, err := Parse(doc, testKnown)
	var malformed *MalformedSpecificationError
	if !errors.As(err, &malformed) {
		t.Fatalf("error = %v, want MalformedSpecificationError", err)
	}
	if malformed.Field != "steps[1].name" {
		t.Errorf("Field = %q, want steps[1].name (first problem wins)", malformed.Field)
	}
}
