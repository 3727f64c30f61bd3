// Package generator renders a canonical schema into source files for a
// target ORM framework.
//
// Generators are pure consumers: they receive a validated, resolved
// *schema.Schema and write files, with no validation or relationship
// logic of their own. Formats are selected by name through New.
package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schemabloom/schemabloom/internal/schema"
)

// Generator renders a schema into one or more files under outputDir and
// returns the paths it created.
type Generator interface {
	Generate(s *schema.Schema, outputDir string) ([]string, error)
	FileExtension() string
}

// FormatInfo describes one supported output format.
type FormatInfo struct {
	Name        string
	Description string
	Extension   string
	Framework   string
}

// New returns the generator for the given format name.
func New(format string) (Generator, error) {
	switch format {
	case "prisma":
		return NewPrisma(), nil
	case "django":
		return NewDjango(), nil
	case "sqlalchemy":
		return NewSQLAlchemy(), nil
	case "gorm":
		return NewGorm(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Formats lists the supported output formats in registration order.
func Formats() []FormatInfo {
	return []FormatInfo{
		{Name: "prisma", Description: "Prisma schema with client and datasource configuration", Extension: ".prisma", Framework: "Prisma ORM"},
		{Name: "django", Description: "Django models with relationships and Meta classes", Extension: ".py", Framework: "Django ORM"},
		{Name: "sqlalchemy", Description: "SQLAlchemy declarative models with relationships", Extension: ".py", Framework: "SQLAlchemy ORM"},
		{Name: "gorm", Description: "GORM model structs with association fields", Extension: ".go", Framework: "GORM"},
	}
}

// writeFile creates outputDir if needed and writes one generated file,
// returning its full path.
func writeFile(outputDir, name string, content []byte) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(outputDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// foreignKeyColumn returns the relationship's declared foreign key, or
// the conventional <singular-other>_id when none was declared.
func foreignKeyColumn(rel schema.Relationship, other string) string {
	if rel.ForeignKey != "" {
		return rel.ForeignKey
	}
	return singularize(snakeCase(other)) + "_id"
}

// referencedColumn returns the declared referenced key, defaulting to id.
func referencedColumn(rel schema.Relationship) string {
	if rel.ReferencedKey != "" {
		return rel.ReferencedKey
	}
	return "id"
}
