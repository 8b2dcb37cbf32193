// Package messaging sends templated bulk email to leads. Templates live in
// a YAML file so campaign copy can change without a deploy.
package messaging

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"admissions_crm_backend/platform/apperr"
)

// Template is one reusable message with {{placeholder}} substitution.
// Supported placeholders: firstName, lastName, fullName, advisorName.
type Template struct {
	Key     string `yaml:"key" json:"key"`
	Name    string `yaml:"name" json:"name"`
	Subject string `yaml:"subject" json:"subject"`
	Body    string `yaml:"body" json:"body"`
}

type templateFile struct {
	Templates []Template `yaml:"templates"`
}

// LoadTemplates parses the template catalog from the given YAML file.
func LoadTemplates(path string) ([]Template, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message templates: %w", err)
	}

	var file templateFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse message templates: %w", err)
	}

	seen := make(map[string]bool, len(file.Templates))
	for _, tpl := range file.Templates {
		if tpl.Key == "" || tpl.Subject == "" || tpl.Body == "" {
			return nil, fmt.Errorf("message template %q is missing key, subject or body", tpl.Key)
		}
		if seen[tpl.Key] {
			return nil, fmt.Errorf("duplicate message template key %q", tpl.Key)
		}
		seen[tpl.Key] = true
	}
	return file.Templates, nil
}

// Placeholders is the per-lead substitution set.
type Placeholders struct {
	FirstName   string
	LastName    string
	FullName    string
	AdvisorName string
}

// Render substitutes placeholders into the subject and body.
func (t Template) Render(p Placeholders) (subject, body string) {
	replacer := strings.NewReplacer(
		"{{firstName}}", p.FirstName,
		"{{lastName}}", p.LastName,
		"{{fullName}}", p.FullName,
		"{{advisorName}}", p.AdvisorName,
	)
	return replacer.Replace(t.Subject), replacer.Replace(t.Body)
}

func findTemplate(templates []Template, key string) (Template, error) {
	for _, tpl := range templates {
		if tpl.Key == key {
			return tpl, nil
		}
	}
	return Template{}, apperr.NotFound("message template not found")
}
