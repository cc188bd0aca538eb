package engine

import (
	"embed"
	"fmt"
	"io/fs"
	"text/template"

	"github.com/forgeflow-labs/forgeflow/internal/pattern"
)

//go:embed templates
var templateFS embed.FS

// requiredTemplates is the complete template set every bundle must carry.
var requiredTemplates = []string{
	"node.py.tmpl",
	"flow.py.tmpl",
	"schema.py.tmpl",
	"utility.py.tmpl",
	"pyproject.toml.tmpl",
}

// TemplateSetMissingError reports a configuration defect: a pattern's
// template bundle, or one of its required templates, is absent from the
// embedded set. Fatal; re-running with the same input cannot succeed.
type TemplateSetMissingError struct {
	Pattern pattern.Name
	Bundle  string

	// Missing names the absent template, empty when the whole bundle
	// directory is absent.
	Missing string
}

func (e *TemplateSetMissingError) Error() string {
	if e.Missing == "" {
		return fmt.Sprintf("template set missing for pattern %s: bundle %q not found", e.Pattern, e.Bundle)
	}
	return fmt.Sprintf("template set missing for pattern %s: bundle %q lacks %s", e.Pattern, e.Bundle, e.Missing)
}

// loadBundle verifies the bundle is complete and parses its template set.
func loadBundle(p pattern.Name, bundle string) (*template.Template, error) {
	dir := "templates/" + bundle
	if _, err := fs.Stat(templateFS, dir); err != nil {
		return nil, &TemplateSetMissingError{Pattern: p, Bundle: bundle}
	}
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(templateFS, dir+"/"+name); err != nil {
			return nil, &TemplateSetMissingError{Pattern: p, Bundle: bundle, Missing: name}
		}
	}

	t, err := template.ParseFS(templateFS, dir+"/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing template bundle %q: %w", bundle, err)
	}
	return t, nil
}
