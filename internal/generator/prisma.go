package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/schemabloom/schemabloom/internal/schema"
)

const prismaTemplate = `{{- range .Header }}
// {{ . }}
{{- end }}
generator client {
  provider = "prisma-client-js"
}

datasource db {
  provider = "postgresql"
  url      = env("DATABASE_URL")
}
{{ range .Models }}
model {{ .Name }} {
{{- range .Fields }}
  {{ .Name }} {{ .Type }}{{ .Attributes }}
{{- end }}

  @@map("{{ .TableName }}")
}
{{ end -}}
`

// PrismaGenerator renders a single schema.prisma file.
type PrismaGenerator struct {
	tmpl *template.Template
}

// NewPrisma returns a Prisma schema generator.
func NewPrisma() *PrismaGenerator {
	return &PrismaGenerator{
		tmpl: template.Must(template.New("prisma").Parse(prismaTemplate)),
	}
}

type prismaModel struct {
	Name      string
	TableName string
	Fields    []prismaField
}

type prismaField struct {
	Name       string
	Type       string
	Attributes string
}

// Generate writes schema.prisma into outputDir.
func (g *PrismaGenerator) Generate(s *schema.Schema, outputDir string) ([]string, error) {
	data := struct {
		Header []string
		Models []prismaModel
	}{
		Header: metadataHeader(s.Metadata),
	}
	for _, table := range s.Tables {
		data.Models = append(data.Models, g.buildModel(table))
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render prisma schema: %w", err)
	}

	path, err := writeFile(outputDir, "schema"+g.FileExtension(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (g *PrismaGenerator) buildModel(table schema.Table) prismaModel {
	model := prismaModel{
		Name:      modelName(table.Name),
		TableName: table.Name,
	}

	for _, field := range table.Fields {
		model.Fields = append(model.Fields, prismaField{
			Name:       field.Name,
			Type:       prismaFieldType(field),
			Attributes: prismaAttributes(field),
		})
	}

	for _, rel := range table.Relationships {
		model.Fields = append(model.Fields, g.relationField(table.Name, rel))
	}

	return model
}

// relationField emits the relation member for this table's view of rel.
// The many side carries the list field; the owning one side carries the
// fk-annotated reference field.
func (g *PrismaGenerator) relationField(tableName string, rel schema.Relationship) prismaField {
	other := rel.Other(tableName)

	switch rel.Type {
	case schema.OneToMany, schema.ManyToMany:
		name := rel.FieldName
		if name == "" {
			name = camelCase(pluralize(singularize(other)))
		}
		return prismaField{Name: name, Type: modelName(other) + "[]"}
	default:
		name := rel.FieldName
		if name == "" {
			name = camelCase(singularize(other))
		}
		typ := modelName(other)
		if rel.Type == schema.OneToOne && rel.RelatedTable == tableName && rel.Table != tableName {
			// Non-owning side of a one_to_one: optional back-reference.
			return prismaField{Name: name, Type: typ + "?"}
		}
		attr := fmt.Sprintf(" @relation(fields: [%s], references: [%s])",
			foreignKeyColumn(rel, other), referencedColumn(rel))
		return prismaField{Name: name, Type: typ, Attributes: attr}
	}
}

func prismaFieldType(field schema.Field) string {
	typ := prismaTypes[field.Type]
	if typ == "" {
		typ = "String"
	}
	if field.IsNullable && !field.IsPrimaryKey {
		typ += "?"
	}
	return typ
}

func prismaAttributes(field schema.Field) string {
	var attrs []string
	if field.IsPrimaryKey {
		attrs = append(attrs, "@id")
	}
	if field.IsUnique {
		attrs = append(attrs, "@unique")
	}
	if field.IsAutoIncrement {
		attrs = append(attrs, "@default(autoincrement())")
	} else if field.DefaultValue != nil {
		attrs = append(attrs, fmt.Sprintf("@default(%s)", prismaLiteral(field)))
	}
	if len(attrs) == 0 {
		return ""
	}
	return " " + strings.Join(attrs, " ")
}

func prismaLiteral(field schema.Field) string {
	switch v := field.DefaultValue.(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case bool:
		return fmt.Sprintf("%t", v)
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

var prismaTypes = map[schema.FieldType]string{
	schema.TypeString:   "String",
	schema.TypeInteger:  "Int",
	schema.TypeFloat:    "Float",
	schema.TypeBoolean:  "Boolean",
	schema.TypeDatetime: "DateTime",
	schema.TypeDate:     "DateTime",
	schema.TypeTime:     "DateTime",
	schema.TypeText:     "String",
	schema.TypeUUID:     "String",
	schema.TypeJSON:     "Json",
	schema.TypeArray:    "Json",
	schema.TypeEnum:     "String",
	schema.TypeDecimal:  "Decimal",
	schema.TypeBinary:   "Bytes",
	schema.TypePoint:    "String",
	schema.TypeGeometry: "String",
	schema.TypeEmail:    "String",
	schema.TypeURL:      "String",
	schema.TypeIP:       "String",
	schema.TypeMAC:      "String",
	schema.TypePhone:    "String",
	schema.TypeCurrency: "Decimal",
}

// FileExtension returns the Prisma schema file extension.
func (g *PrismaGenerator) FileExtension() string { return ".prisma" }

// metadataHeader renders document metadata as header comment lines.
func metadataHeader(m schema.Metadata) []string {
	var lines []string
	if m.Description != "" {
		lines = append(lines, m.Description)
	}
	if m.Version != "" {
		lines = append(lines, "Schema version: "+m.Version)
	}
	if m.Author != "" {
		lines = append(lines, "Author: "+m.Author)
	}
	if len(m.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(m.Tags, ", "))
	}
	return lines
}
