// Package prompts holds the versioned prompt templates compiled into the binary.
//
// Each template is a YAML file with a system and a user part. Placeholders use
// the {{name}} form and are substituted literally; unknown placeholders are
// replaced with an empty string.
package prompts

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Template names.
const (
	Router            = "router"
	ResumeParser      = "resume_parser"
	JobParser         = "job_parser"
	CandidatesFromJob = "search_candidates_from_job"
	JobsFromResume    = "search_jobs_from_resume"
	ChatCandidate     = "chat_candidate"
	ChatRecruiter     = "chat_recruiter"
)

//go:embed templates/*.yaml
var templates embed.FS

var placeholderRegex = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Vars are placeholder values keyed by name.
type Vars map[string]string

// Prompt is one versioned template.
type Prompt struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	System  string `yaml:"system"`
	User    string `yaml:"user"`
}

// Render substitutes vars into both parts of the template.
func (p Prompt) Render(vars Vars) (system, user string) {
	return Render(p.System, vars), Render(p.User, vars)
}

// Render substitutes {{name}} placeholders in tmpl.
func Render(tmpl string, vars Vars) string {
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(m string) string {
		key := placeholderRegex.FindStringSubmatch(m)[1]
		return vars[key]
	})
}

// Catalog is an immutable set of parsed templates.
type Catalog struct {
	prompts map[string]Prompt
}

// Load parses every embedded template.
func Load() (*Catalog, error) {
	return load(templates, "templates")
}

// MustLoad parses the embedded templates or panics.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

func load(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read prompt dir: %w", err)
	}

	c := &Catalog{prompts: make(map[string]Prompt, len(entries))}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".yaml" {
			continue
		}

		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read prompt %s: %w", e.Name(), err)
		}

		var p Prompt
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("parse prompt %s: %w", e.Name(), err)
		}
		if p.Name == "" {
			p.Name = strings.TrimSuffix(e.Name(), ".yaml")
		}
		if strings.TrimSpace(p.System) == "" {
			return nil, fmt.Errorf("prompt %s: system part is empty", p.Name)
		}
		if _, dup := c.prompts[p.Name]; dup {
			return nil, fmt.Errorf("prompt %s: duplicate name", p.Name)
		}
		c.prompts[p.Name] = p
	}
	return c, nil
}

// Get returns the template with the given name.
func (c *Catalog) Get(name string) (Prompt, error) {
	p, ok := c.prompts[name]
	if !ok {
		return Prompt{}, fmt.Errorf("prompt %q not found", name)
	}
	return p, nil
}

// Names lists the loaded templates in sorted order.
func (c *Catalog) Names() []string {
	out := make([]string, 0, len(c.prompts))
	for name := range c.prompts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
