// Package parser loads raw schema documents from JSON files or strings.
//
// The parser produces an untyped Document tree and nothing else; all
// structural checking happens in the validator, and conversion into the
// typed model happens in the schema builder. Load failures are reported
// as *ParseError so callers can tell them apart from validation errors.
package parser

import (
	"encoding/json"
	"fmt"
	"os"
)

// Document is the raw, untyped schema document as decoded from JSON.
type Document map[string]any

// ParseError reports a failure to load or decode a schema document.
// It is a distinct error kind from validation errors: a ParseError means
// no document could be produced at all.
type ParseError struct {
	Path string // source file, empty when parsing a string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse schema %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to parse schema: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseFile reads and decodes a JSON schema document from disk.
func ParseFile(path string) (Document, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("%s is a directory, not a file", path)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	doc, err := decode(data)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return doc, nil
}

// ParseString decodes a JSON schema document from an in-memory string.
func ParseString(data string) (Document, error) {
	doc, err := decode([]byte(data))
	if err != nil {
		return nil, &ParseError{Err: err}
	}
	return doc, nil
}

func decode(data []byte) (Document, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	// A top-level array or scalar is well-formed JSON but not a usable
	// document. Rejecting it is the validator's job, so it comes back as
	// a nil Document rather than a parse error.
	doc, _ := raw.(map[string]any)
	return doc, nil
}
