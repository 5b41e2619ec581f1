package render

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"os"

	"github.com/myoung/opds-shelf/templates"
)

var (
	// templateOverrideFS points at the developer-provided filesystem (usually the local templates directory).
	templateOverrideFS fs.FS = os.DirFS("templates")
	// templateFallbackFS is the embedded filesystem baked into the binary.
	templateFallbackFS fs.FS = templates.EmbeddedTemplates
)

// SetTemplateOverrideFS switches the primary filesystem used when loading templates.
func SetTemplateOverrideFS(f fs.FS) {
	templateOverrideFS = f
}

// SetTemplateFallbackFS overrides the embedded filesystem used when no override file is available.
func SetTemplateFallbackFS(f fs.FS) {
	templateFallbackFS = f
}

// loadTemplate parses the named template file, preferring the override
// filesystem and falling back to the embedded copy.
func loadTemplate(name string) (*template.Template, error) {
	filename := name + ".tmpl"

	content, err := fs.ReadFile(templateOverrideFS, filename)
	if err != nil {
		content, err = fs.ReadFile(templateFallbackFS, filename)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", filename, err)
		}
	} else {
		slog.Debug("Using override template", "name", name)
	}

	tmpl, err := template.New(name).Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", filename, err)
	}
	return tmpl, nil
}
