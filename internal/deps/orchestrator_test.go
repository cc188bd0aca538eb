package deps

import (
	"errors"
	"testing"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
	"github.com/forgeflow-labs/forgeflow/internal/spec"
)

func def(t *testing.T, name pattern.Name) pattern.Definition {
	t.Helper()
	d, ok := pattern.Lookup(name)
	if !ok {
		t.Fatalf("%s missing from taxonomy", name)
	}
	return d
}

func names(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func contains(entries []Entry, name string) bool {
	for _, e := range entries {
		if e.Name == name {
			return true
		}
	}
	return false
}

func TestResolveBaseTooling(t *testing.T) {
	cfg, err := Resolve(def(t, pattern.LinearWorkflow), nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	for _, want := range []string{"pytest", "ruff", "mypy"} {
		if !contains(cfg.Tools, want) {
			t.Errorf("Tools = %v, want %s included", names(cfg.Tools), want)
		}
	}
	if contains(cfg.Tools, "pytest-xdist") {
		t.Errorf("Tools = %v, pytest-xdist belongs to parallel-mapreduce only", names(cfg.Tools))
	}
}

func TestResolvePatternTooling(t *testing.T) {
	cfg, err := Resolve(def(t, pattern.ParallelMapReduce), nil)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if !contains(cfg.Tools, "pytest-xdist") {
		t.Errorf("Tools = %v, want pytest-xdist", names(cfg.Tools))
	}
	if !contains(cfg.Packages, "aiofiles") {
		t.Errorf("Packages = %v, want the pattern package aiofiles", names(cfg.Packages))
	}
}

func TestResolveImpliesUtilityPackages(t *testing.T) {
	utilities := []spec.UtilitySpec{
		{Name: "store_rows", ExternalSystem: "postgres database"},
		{Name: "fetch_page", ExternalSystem: "HTTP api"},
	}

	cfg, err := Resolve(def(t, pattern.LinearWorkflow), utilities)
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	// postgres implies psycopg, database implies sqlalchemy, http and api
	// both imply requests and merge into one entry.
	for _, want := range []string{"psycopg", "sqlalchemy", "requests"} {
		if !contains(cfg.Packages, want) {
			t.Errorf("Packages = %v, want %s included", names(cfg.Packages), want)
		}
	}
	count := 0
	for _, e := range cfg.Packages {
		if e.Name == "requests" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("requests appears %d times, want merged to one", count)
	}
}

func TestResolveConflict(t *testing.T) {
	// "database" implies sqlalchemy >=2.0 while "legacy orm" pins the 1.4
	// line; no version satisfies both.
	utilities := []spec.UtilitySpec{
		{Name: "write_rows", ExternalSystem: "postgres database"},
		{Name: "read_rows", ExternalSystem: "legacy orm"},
	}

	_, err := Resolve(def(t, pattern.LinearWorkflow), utilities)
	var conflict *DependencyConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want DependencyConflictError", err)
	}
	if conflict.Name != "sqlalchemy" {
		t.Errorf("Name = %q, want sqlalchemy", conflict.Name)
	}
	if conflict.First.Source == conflict.Second.Source {
		t.Errorf("both entries report source %q, want distinct utilities", conflict.First.Source)
	}
}

func TestCompatible(t *testing.T) {
	cases := []struct {
		a, b string
		want bool
	}{
		{">=8.0, <9.0", ">=8.0, <9.0", true},
		{">=2.0, <3.0", ">=2.2", true},
		{">=1.4, <2.0", ">=2.0, <3.0", false},
		{">=1.30, <2.0", ">=1.0", true},
		{"<1.0", ">=2.0", false},
	}
	for _, tc := range cases {
		if got := compatible(tc.a, tc.b); got != tc.want {
			t.Errorf("compatible(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestCompact(t *testing.T) {
	if got := Compact(">=8.0, <9.0"); got != ">=8.0,<9.0" {
		t.Errorf("Compact() = %q", got)
	}
}
