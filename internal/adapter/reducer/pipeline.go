// Package reducer rewrites Doxygen-generated HTML into the markup the VCS
// documentation theme expects. Each pass maps a whole document to a new
// document; the Pipeline runs the selected passes in their fixed order.
package reducer

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"doxreduce/internal/adapter/dom"
)

// Bump when a pass changes its output for the same input.
const pipelineVersion = 1

const (
	PassRemoveNonBreakingSpaces      = "remove-non-breaking-spaces"
	PassStripUnwantedWhitespace      = "strip-unwanted-whitespace"
	PassStandardizeCodeElements      = "standardize-code-elements"
	PassSimplifyEnumDeclarations     = "simplify-enum-declarations"
	PassRemoveUnwantedElements       = "remove-unwanted-elements"
	PassRecreateReferencePageTitle   = "recreate-reference-page-title"
	PassSinglyCapitalize             = "singly-capitalize"
	PassBetterizeMemnames            = "betterize-memnames"
	PassFooterizeSeeSection          = "footerize-see-section"
	PassSpecializeEventDocumentation = "specialize-event-documentation"
)

// Pass is one step of the reduction pipeline.
type Pass struct {
	Name        string
	Description string
	Apply       func(html string) (string, error)
}

type Options struct {
	// EventMarker is the template name wrapping event-typed variables,
	// e.g. "vcs_event_c" for "vcs_event_c<int>".
	EventMarker string
}

func DefaultOptions() Options {
	return Options{EventMarker: "vcs_event_c"}
}

// Passes returns every pass in pipeline order.
func Passes(opts Options) []Pass {
	events := eventSpecializer{marker: opts.EventMarker}

	return []Pass{
		{
			Name:        PassRemoveNonBreakingSpaces,
			Description: "drop &nbsp; and &#160; entities",
			Apply:       RemoveNonBreakingSpaces,
		},
		{
			Name:        PassStripUnwantedWhitespace,
			Description: "compact spacing in type signatures and before parameter lists",
			Apply:       domPass(PassStripUnwantedWhitespace, stripUnwantedWhitespace),
		},
		{
			Name:        PassStandardizeCodeElements,
			Description: "turn div.fragment/div.line into pre/code",
			Apply:       domPass(PassStandardizeCodeElements, standardizeCodeElements),
		},
		{
			Name:        PassSimplifyEnumDeclarations,
			Description: "drop Enum:: qualifiers from enum member links",
			Apply:       domPass(PassSimplifyEnumDeclarations, simplifyEnumDeclarations),
		},
		{
			Name:        PassRemoveUnwantedElements,
			Description: "remove strong/virtual labels and (void) parameter lists",
			Apply:       domPass(PassRemoveUnwantedElements, removeUnwantedElements),
		},
		{
			Name:        PassRecreateReferencePageTitle,
			Description: "split \"<name> <Kind> Reference\" titles into referent and referrer",
			Apply:       domPass(PassRecreateReferencePageTitle, recreateReferencePageTitle),
		},
		{
			Name:        PassSinglyCapitalize,
			Description: "sentence-case section headings",
			Apply:       domPass(PassSinglyCapitalize, singlyCapitalize),
		},
		{
			Name:        PassBetterizeMemnames,
			Description: "rebuild function prototypes as styled spans",
			Apply:       domPass(PassBetterizeMemnames, betterizeMemnames),
		},
		{
			Name:        PassFooterizeSeeSection,
			Description: "move \"See also\" sections to the end of their member block",
			Apply:       domPass(PassFooterizeSeeSection, footerizeSeeSection),
		},
		{
			Name:        PassSpecializeEventDocumentation,
			Description: "give " + opts.EventMarker + "<...> variables their own Events sections",
			Apply:       domPass(PassSpecializeEventDocumentation, events.apply),
		},
	}
}

// PassNames returns the name of every pass in pipeline order.
func PassNames() []string {
	passes := Passes(DefaultOptions())
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name
	}
	return names
}

// domPass adapts a tree mutation to a string pass. The input is returned
// untouched when the mutation reports no change.
func domPass(name string, fn func(d *dom.Document) (bool, error)) func(string) (string, error) {
	return func(input string) (string, error) {
		d, err := dom.Parse(input)
		if err != nil {
			return "", fmt.Errorf("%s: %w", name, err)
		}
		changed, err := fn(d)
		if err != nil {
			return "", err
		}
		if !changed {
			return input, nil
		}
		out, err := d.Render()
		if err != nil {
			return "", fmt.Errorf("%s: render: %w", name, err)
		}
		return out, nil
	}
}

// Pipeline applies a fixed sequence of passes.
type Pipeline struct {
	passes      []Pass
	fingerprint string
}

// NewPipeline selects the named passes, keeping pipeline order. An empty
// selection means every pass.
func NewPipeline(names []string, opts Options) (*Pipeline, error) {
	if opts.EventMarker == "" {
		opts.EventMarker = DefaultOptions().EventMarker
	}

	all := Passes(opts)
	selected := all
	if len(names) > 0 {
		include := make(map[string]struct{}, len(names))
		for _, n := range names {
			include[n] = struct{}{}
		}
		selected = nil
		for _, p := range all {
			if _, ok := include[p.Name]; ok {
				selected = append(selected, p)
				delete(include, p.Name)
			}
		}
		for n := range include {
			return nil, fmt.Errorf("%w: %q", ErrUnknownPass, n)
		}
	}

	return &Pipeline{
		passes:      selected,
		fingerprint: fingerprint(selected, opts),
	}, nil
}

// Passes returns the pipeline's passes in execution order.
func (p *Pipeline) Passes() []Pass {
	return append([]Pass(nil), p.passes...)
}

// Reduce runs every pass over html.
func (p *Pipeline) Reduce(html string) (string, error) {
	out := html
	for _, pass := range p.passes {
		next, err := pass.Apply(out)
		if err != nil {
			var se *StructuralError
			if errors.As(err, &se) {
				return "", err
			}
			return "", fmt.Errorf("%s: %w", pass.Name, err)
		}
		out = next
	}
	return out, nil
}

// Fingerprint identifies the pipeline's pass selection and options.
func (p *Pipeline) Fingerprint() string {
	return p.fingerprint
}

func fingerprint(passes []Pass, opts Options) string {
	names := make([]string, len(passes))
	for i, p := range passes {
		names[i] = p.Name
	}
	relevant := struct {
		Version     int      `json:"version"`
		Passes      []string `json:"passes"`
		EventMarker string   `json:"event_marker"`
	}{
		Version:     pipelineVersion,
		Passes:      names,
		EventMarker: opts.EventMarker,
	}

	data, _ := json.Marshal(relevant)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:8])
}
