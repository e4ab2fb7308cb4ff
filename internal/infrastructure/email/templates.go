// Copyright The OpenLMS Authors.
// SPDX-License-Identifier: MIT

package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*
var templateFS embed.FS

// TemplateSet holds HTML and text versions of a template
type TemplateSet struct {
	HTML *template.Template
	Text *template.Template
}

// Templates holds all notification templates
type Templates struct {
	SessionStarted TemplateSet
}

// templateConfig defines a template to be loaded
type templateConfig struct {
	name string
	path string
}

// loadTemplates parses all embedded notification templates
func loadTemplates() (Templates, error) {
	templateConfigs := map[string]templateConfig{
		"sessionStartedHTML": {"session_started.html", "templates/session_started.html"},
		"sessionStartedText": {"session_started.txt", "templates/session_started.txt"},
	}

	loadedTemplates := make(map[string]*template.Template)
	for key, cfg := range templateConfigs {
		tmpl, err := loadTemplate(cfg)
		if err != nil {
			return Templates{}, err
		}
		loadedTemplates[key] = tmpl
	}

	return Templates{
		SessionStarted: TemplateSet{
			HTML: loadedTemplates["sessionStartedHTML"],
			Text: loadedTemplates["sessionStartedText"],
		},
	}, nil
}

// loadTemplate loads a single template
func loadTemplate(config templateConfig) (*template.Template, error) {
	tmpl, err := template.New(config.name).ParseFS(templateFS, config.path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s template: %w", config.name, err)
	}
	return tmpl, nil
}

// renderTemplate renders any template with the provided data
func renderTemplate(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	err := tmpl.Execute(&buf, data)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
