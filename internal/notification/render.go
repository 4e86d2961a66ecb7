package notification

import (
	"bytes"
	"embed"
	"fmt"
	htmltmpl "html/template"
	"sync"
	texttmpl "text/template"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

type compiled struct {
	text *texttmpl.Template
	html *htmltmpl.Template
}

var (
	mu    sync.RWMutex
	cache = make(map[string]*compiled)
)

// render materializes the subject and HTML body of a template by id.
// Each template file declares a "subject" text block and an "email_html"
// HTML block; substitutions fill both.
func render(id string, subs map[string]string) (subject, body string, err error) {
	c, err := getCompiled(id)
	if err != nil {
		return "", "", err
	}

	var buf bytes.Buffer
	if err := c.text.ExecuteTemplate(&buf, "subject", subs); err != nil {
		return "", "", fmt.Errorf("render subject (%s): %w", id, err)
	}
	subject = buf.String()

	buf.Reset()
	if err := c.html.ExecuteTemplate(&buf, "email_html", subs); err != nil {
		return "", "", fmt.Errorf("render email_html (%s): %w", id, err)
	}
	return subject, buf.String(), nil
}

func getCompiled(id string) (*compiled, error) {
	mu.RLock()
	cached, ok := cache[id]
	mu.RUnlock()
	if ok {
		return cached, nil
	}

	path := "templates/" + id + ".tmpl"
	b, err := templateFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read embedded template %q: %w", path, err)
	}

	tText, err := texttmpl.New(id).Option("missingkey=error").Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("parse text blocks (%s): %w", id, err)
	}
	tHTML, err := htmltmpl.New(id).Option("missingkey=error").Parse(string(b))
	if err != nil {
		return nil, fmt.Errorf("parse html block (%s): %w", id, err)
	}

	c := &compiled{text: tText, html: tHTML}
	mu.Lock()
	cache[id] = c
	mu.Unlock()
	return c, nil
}
