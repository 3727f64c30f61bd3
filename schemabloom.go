// Package schemabloom generates ORM source artifacts from declarative
// JSON schema documents.
//
// A schema document describes tables, fields, relationships, indexes
// and metadata. SchemaBloom validates the document exhaustively,
// resolves type aliases and relationship directions into a canonical
// model, and renders that model for one of several ORM targets (Prisma,
// Django, SQLAlchemy, GORM).
//
// # Quick Start
//
// The simplest way to use this package is Generate:
//
//	result, err := schemabloom.Generate("schema.json", "models/", "prisma")
//
// # Validation
//
// Validate inspects a document without generating anything. The result
// collects every violation found, not just the first:
//
//	res, err := schemabloom.ValidateFile("schema.json")
//	if err != nil {
//		// the document could not be loaded at all
//	}
//	for _, msg := range res.Errors {
//		fmt.Println(msg)
//	}
//
// Load failures (missing file, malformed JSON) are reported through the
// error return as *parser.ParseError; validation findings are data on
// the Result and never an error.
package schemabloom

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/schemabloom/schemabloom/internal/generator"
	"github.com/schemabloom/schemabloom/internal/parser"
	"github.com/schemabloom/schemabloom/internal/schema"
	"github.com/schemabloom/schemabloom/internal/validator"
)

// Version is the module version reported by the CLI.
const Version = "1.0.0"

// GenerateResult reports one completed generation run.
type GenerateResult struct {
	// FilesCreated lists the paths of every file written.
	FilesCreated []string

	// OutputDir is the directory the files were written into.
	OutputDir string

	// Duration is the wall-clock time of the whole run, including
	// parsing and validation.
	Duration time.Duration
}

// Generate loads a schema document, validates it, builds the canonical
// model and renders it with the named format generator.
//
// Validation failure aborts the run before any file is written; the
// returned error carries every validation message.
func Generate(inputFile, outputDir, format string) (*GenerateResult, error) {
	start := time.Now()

	gen, err := generator.New(format)
	if err != nil {
		return nil, err
	}

	doc, err := parser.ParseFile(inputFile)
	if err != nil {
		return nil, err
	}

	res := validator.New().Validate(doc)
	if !res.IsValid {
		return nil, validationError(res)
	}

	files, err := gen.Generate(schema.Build(doc), outputDir)
	if err != nil {
		return nil, err
	}

	return &GenerateResult{
		FilesCreated: files,
		OutputDir:    outputDir,
		Duration:     time.Since(start),
	}, nil
}

// ValidateFile loads and validates a schema document from disk. The
// error return covers load failures only; validation findings are on
// the Result.
func ValidateFile(path string) (*validator.Result, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	res := validator.New().Validate(doc)
	return &res, nil
}

// ValidateString validates a schema document held in memory.
func ValidateString(data string) (*validator.Result, error) {
	doc, err := parser.ParseString(data)
	if err != nil {
		return nil, err
	}
	res := validator.New().Validate(doc)
	return &res, nil
}

// BuildSchema loads, validates and compiles a document into the
// canonical model in one call. Use it to inspect the resolved schema
// without generating files.
func BuildSchema(path string) (*schema.Schema, error) {
	doc, err := parser.ParseFile(path)
	if err != nil {
		return nil, err
	}
	res := validator.New().Validate(doc)
	if !res.IsValid {
		return nil, validationError(res)
	}
	return schema.Build(doc), nil
}

// Export re-encodes a validated schema document as YAML or indented
// JSON and writes it to w. The document must validate first; export is
// not a repair tool.
func Export(inputFile string, w io.Writer, format string) error {
	doc, err := parser.ParseFile(inputFile)
	if err != nil {
		return err
	}
	res := validator.New().Validate(doc)
	if !res.IsValid {
		return validationError(res)
	}

	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(doc)); err != nil {
			return fmt.Errorf("failed to encode schema as yaml: %w", err)
		}
		return enc.Close()
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any(doc)); err != nil {
			return fmt.Errorf("failed to encode schema as json: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported export format: %s (must be 'yaml' or 'json')", format)
	}
}

// Formats lists the supported generation formats.
func Formats() []generator.FormatInfo {
	return generator.Formats()
}

func validationError(res validator.Result) error {
	msg := fmt.Sprintf("schema validation failed with %d error(s)", len(res.Errors))
	for _, e := range res.Errors {
		msg += "\n  - " + e
	}
	return fmt.Errorf("%s", msg)
}
