package llm

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Format describes a structured JSON reply. Create it once and share it;
// the schema is compiled on first use.
type Format struct {
	// Name is sent to the vendor as the schema or tool name, e.g.
	// "answer-evaluation".
	Name        string
	Description string

	// Schema is a JSON Schema document.
	Schema map[string]any

	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

func (f *Format) compile() (*jsonschema.Schema, error) {
	f.once.Do(func() {
		// Round-trip through JSON so the compiler sees plain decoded values.
		raw, err := json.Marshal(f.Schema)
		if err != nil {
			f.err = fmt.Errorf("marshal schema %q: %w", f.Name, err)
			return
		}
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
		if err != nil {
			f.err = fmt.Errorf("decode schema %q: %w", f.Name, err)
			return
		}

		c := jsonschema.NewCompiler()
		url := "mem://" + f.Name + ".json"
		if err := c.AddResource(url, doc); err != nil {
			f.err = fmt.Errorf("add schema %q: %w", f.Name, err)
			return
		}
		f.compiled, f.err = c.Compile(url)
	})
	return f.compiled, f.err
}

// Validate checks that text is a JSON document satisfying the schema.
func (f *Format) Validate(text string) error {
	sch, err := f.compile()
	if err != nil {
		return &FormatError{Format: f.Name, Text: text, Err: err}
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(text))
	if err != nil {
		return &FormatError{Format: f.Name, Text: text, Err: fmt.Errorf("invalid JSON: %w", err)}
	}
	if err := sch.Validate(doc); err != nil {
		return &FormatError{Format: f.Name, Text: text, Err: err}
	}
	return nil
}

// finish validates text against p.Format, if any, and builds the Completion.
func finish(p Prompt, text string, c Completion) (*Completion, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyCompletion
	}
	if p.Format != nil {
		if err := p.Format.Validate(text); err != nil {
			return nil, err
		}
	}
	c.Text = text
	return &c, nil
}
