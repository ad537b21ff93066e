package mailevent

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

const (
	TemplateVerificationCode = "verification_code"
	TemplateWelcome          = "welcome"
)

//go:embed templates
var templatesFS embed.FS

// Templates renders the branded HTML and plain text bodies of each mail.
type Templates struct {
	html map[string]*htmltemplate.Template
	text map[string]*texttemplate.Template
}

func ParseTemplates() (*Templates, error) {
	t := &Templates{
		html: make(map[string]*htmltemplate.Template),
		text: make(map[string]*texttemplate.Template),
	}

	for _, name := range []string{TemplateVerificationCode, TemplateWelcome} {
		h, err := htmltemplate.ParseFS(templatesFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse html template %s: %w", name, err)
		}
		txt, err := texttemplate.ParseFS(templatesFS, "templates/"+name+".txt")
		if err != nil {
			return nil, fmt.Errorf("failed to parse text template %s: %w", name, err)
		}

		t.html[name] = h
		t.text[name] = txt
	}

	return t, nil
}

// MustParseTemplates is ParseTemplates for embedded templates that are known to be valid.
func MustParseTemplates() *Templates {
	t, err := ParseTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) Render(name string, data any) (text string, html string, err error) {
	h, ok := t.html[name]
	if !ok {
		return "", "", fmt.Errorf("unknown mail template %q", name)
	}

	var textBuf, htmlBuf bytes.Buffer
	if err := t.text[name].Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to render text template %s: %w", name, err)
	}
	if err := h.ExecuteTemplate(&htmlBuf, "layout", data); err != nil {
		return "", "", fmt.Errorf("failed to render html template %s: %w", name, err)
	}

	return textBuf.String(), htmlBuf.String(), nil
}
