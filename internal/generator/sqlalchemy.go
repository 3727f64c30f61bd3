package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/schemabloom/schemabloom/internal/schema"
)

const sqlalchemyTemplate = `{{- range .Header }}
# {{ . }}
{{- end }}
from sqlalchemy import Boolean, Column, Date, DateTime, Float, ForeignKey, Integer, LargeBinary, Numeric, String, Text, Time
from sqlalchemy.dialects.postgresql import JSONB
from sqlalchemy.orm import declarative_base, relationship

Base = declarative_base()

{{ range .Models }}
class {{ .Name }}(Base):
    __tablename__ = "{{ .TableName }}"

{{- range .Columns }}
    {{ .Name }} = {{ .Definition }}
{{- end }}
{{- if .Relationships }}

{{- range .Relationships }}
    {{ .Name }} = {{ .Definition }}
{{- end }}
{{- end }}

{{ end -}}
`

// SQLAlchemyGenerator renders a single models.py with declarative
// SQLAlchemy models.
type SQLAlchemyGenerator struct {
	tmpl *template.Template
}

// NewSQLAlchemy returns a SQLAlchemy models generator.
func NewSQLAlchemy() *SQLAlchemyGenerator {
	return &SQLAlchemyGenerator{
		tmpl: template.Must(template.New("sqlalchemy").Parse(sqlalchemyTemplate)),
	}
}

type sqlalchemyModel struct {
	Name          string
	TableName     string
	Columns       []sqlalchemyMember
	Relationships []sqlalchemyMember
}

type sqlalchemyMember struct {
	Name       string
	Definition string
}

// Generate writes models.py into outputDir.
func (g *SQLAlchemyGenerator) Generate(s *schema.Schema, outputDir string) ([]string, error) {
	data := struct {
		Header []string
		Models []sqlalchemyModel
	}{
		Header: metadataHeader(s.Metadata),
	}
	for _, table := range s.Tables {
		data.Models = append(data.Models, g.buildModel(table))
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render sqlalchemy models: %w", err)
	}

	path, err := writeFile(outputDir, "models"+g.FileExtension(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (g *SQLAlchemyGenerator) buildModel(table schema.Table) sqlalchemyModel {
	model := sqlalchemyModel{
		Name:      modelName(table.Name),
		TableName: table.Name,
	}

	// Foreign key columns are annotated in place when a many_to_one view
	// matches a declared column, so collect them first.
	fkRefs := make(map[string]string)
	for _, rel := range table.Relationships {
		if rel.Type != schema.ManyToOne && !(rel.Type == schema.OneToOne && rel.Table == table.Name) {
			continue
		}
		other := rel.Other(table.Name)
		fkRefs[foreignKeyColumn(rel, other)] = fmt.Sprintf("%s.%s", other, referencedColumn(rel))
	}

	for _, field := range table.Fields {
		model.Columns = append(model.Columns, sqlalchemyMember{
			Name:       field.Name,
			Definition: sqlalchemyColumn(field, fkRefs[field.Name]),
		})
	}

	for _, rel := range table.Relationships {
		if m, ok := g.relationshipMember(table.Name, rel); ok {
			model.Relationships = append(model.Relationships, m)
		}
	}

	return model
}

func (g *SQLAlchemyGenerator) relationshipMember(tableName string, rel schema.Relationship) (sqlalchemyMember, bool) {
	other := rel.Other(tableName)

	name := rel.FieldName
	switch rel.Type {
	case schema.OneToMany, schema.ManyToMany:
		if name == "" {
			name = snakeCase(pluralize(singularize(other)))
		}
		def := fmt.Sprintf("relationship(%q, back_populates=%q)",
			modelName(other), snakeCase(singularize(tableName)))
		return sqlalchemyMember{Name: name, Definition: def}, true
	case schema.ManyToOne, schema.OneToOne:
		if name == "" {
			name = snakeCase(singularize(other))
		}
		def := fmt.Sprintf("relationship(%q, back_populates=%q)",
			modelName(other), snakeCase(pluralize(singularize(tableName))))
		return sqlalchemyMember{Name: name, Definition: def}, true
	}
	return sqlalchemyMember{}, false
}

func sqlalchemyColumn(field schema.Field, fkRef string) string {
	args := []string{sqlalchemyType(field)}
	if fkRef != "" {
		args = append(args, fmt.Sprintf("ForeignKey(%q)", fkRef))
	}
	if field.IsPrimaryKey {
		args = append(args, "primary_key=True")
	}
	if field.IsAutoIncrement {
		args = append(args, "autoincrement=True")
	}
	if field.IsUnique {
		args = append(args, "unique=True")
	}
	if !field.IsNullable && !field.IsPrimaryKey {
		args = append(args, "nullable=False")
	}
	if field.DefaultValue != nil {
		args = append(args, "default="+pythonLiteral(field.DefaultValue))
	}
	return fmt.Sprintf("Column(%s)", strings.Join(args, ", "))
}

func sqlalchemyType(field schema.Field) string {
	if field.Type == schema.TypeString && field.MaxLength > 0 {
		return fmt.Sprintf("String(%d)", field.MaxLength)
	}
	if (field.Type == schema.TypeDecimal || field.Type == schema.TypeCurrency) && field.Precision > 0 {
		return fmt.Sprintf("Numeric(%d, %d)", field.Precision, field.Scale)
	}
	if t, ok := sqlalchemyTypes[field.Type]; ok {
		return t
	}
	return "String"
}

var sqlalchemyTypes = map[schema.FieldType]string{
	schema.TypeString:   "String",
	schema.TypeInteger:  "Integer",
	schema.TypeFloat:    "Float",
	schema.TypeBoolean:  "Boolean",
	schema.TypeDatetime: "DateTime",
	schema.TypeDate:     "Date",
	schema.TypeTime:     "Time",
	schema.TypeText:     "Text",
	schema.TypeUUID:     "String",
	schema.TypeJSON:     "JSONB",
	schema.TypeArray:    "JSONB",
	schema.TypeEnum:     "String",
	schema.TypeDecimal:  "Numeric",
	schema.TypeBinary:   "LargeBinary",
	schema.TypePoint:    "String",
	schema.TypeGeometry: "String",
	schema.TypeEmail:    "String",
	schema.TypeURL:      "String",
	schema.TypeIP:       "String",
	schema.TypeMAC:      "String",
	schema.TypePhone:    "String",
	schema.TypeCurrency: "Numeric",
}

// FileExtension returns the SQLAlchemy models file extension.
func (g *SQLAlchemyGenerator) FileExtension() string { return ".py" }
