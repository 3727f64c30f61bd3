package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/schemabloom/schemabloom/internal/schema"
)

const djangoTemplate = `{{- range .Header }}
# {{ . }}
{{- end }}
from django.db import models

{{ range .Models }}
class {{ .Name }}(models.Model):
{{- range .Fields }}
    {{ .Name }} = {{ .Definition }}
{{- end }}

    class Meta:
        db_table = "{{ .TableName }}"
{{- if .Indexes }}
        indexes = [
{{- range .Indexes }}
            models.Index(fields=[{{ .Fields }}], name="{{ .Name }}"),
{{- end }}
        ]
{{- end }}

{{ end -}}
`

// DjangoGenerator renders a single models.py with Django model classes.
type DjangoGenerator struct {
	tmpl *template.Template
}

// NewDjango returns a Django models generator.
func NewDjango() *DjangoGenerator {
	return &DjangoGenerator{
		tmpl: template.Must(template.New("django").Parse(djangoTemplate)),
	}
}

type djangoModel struct {
	Name      string
	TableName string
	Fields    []djangoField
	Indexes   []djangoIndex
}

type djangoField struct {
	Name       string
	Definition string
}

type djangoIndex struct {
	Name   string
	Fields string
}

// Generate writes models.py into outputDir.
func (g *DjangoGenerator) Generate(s *schema.Schema, outputDir string) ([]string, error) {
	data := struct {
		Header []string
		Models []djangoModel
	}{
		Header: metadataHeader(s.Metadata),
	}
	for _, table := range s.Tables {
		data.Models = append(data.Models, g.buildModel(table))
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render django models: %w", err)
	}

	path, err := writeFile(outputDir, "models"+g.FileExtension(), buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (g *DjangoGenerator) buildModel(table schema.Table) djangoModel {
	model := djangoModel{
		Name:      modelName(table.Name),
		TableName: table.Name,
	}

	for _, field := range table.Fields {
		model.Fields = append(model.Fields, djangoField{
			Name:       field.Name,
			Definition: djangoDefinition(field),
		})
	}

	for _, rel := range table.Relationships {
		if f, ok := g.relationField(table.Name, rel); ok {
			model.Fields = append(model.Fields, f)
		}
	}

	for _, idx := range table.Indexes {
		quoted := make([]string, len(idx.Fields))
		for i, name := range idx.Fields {
			quoted[i] = fmt.Sprintf("%q", name)
		}
		model.Indexes = append(model.Indexes, djangoIndex{
			Name:   idx.Name,
			Fields: strings.Join(quoted, ", "),
		})
	}

	return model
}

// relationField emits the Django field for this table's view of rel.
// Django declares relations on one side only: the many side of an
// asymmetric relation carries the ForeignKey, the declaring side carries
// OneToOneField / ManyToManyField, and the remaining views are reverse
// accessors Django derives on its own.
func (g *DjangoGenerator) relationField(tableName string, rel schema.Relationship) (djangoField, bool) {
	other := rel.Other(tableName)

	name := rel.FieldName
	if name == "" {
		name = snakeCase(singularize(other))
	}

	switch rel.Type {
	case schema.ManyToOne:
		def := fmt.Sprintf("models.ForeignKey(%q, on_delete=%s, related_name=%q)",
			modelName(other), djangoOnDelete(rel.OnDelete), pluralize(singularize(tableName)))
		return djangoField{Name: name, Definition: def}, true
	case schema.OneToOne:
		if rel.Table != tableName {
			return djangoField{}, false
		}
		def := fmt.Sprintf("models.OneToOneField(%q, on_delete=%s)",
			modelName(other), djangoOnDelete(rel.OnDelete))
		return djangoField{Name: name, Definition: def}, true
	case schema.ManyToMany:
		if rel.Table != tableName {
			return djangoField{}, false
		}
		def := fmt.Sprintf("models.ManyToManyField(%q, related_name=%q)",
			modelName(other), pluralize(singularize(tableName)))
		return djangoField{Name: pluralize(name), Definition: def}, true
	default:
		// one_to_many: the foreign key lives on the other table.
		return djangoField{}, false
	}
}

func djangoDefinition(field schema.Field) string {
	if field.IsPrimaryKey && field.Type == schema.TypeInteger {
		return "models.AutoField(primary_key=True)"
	}

	fieldClass := djangoTypes[field.Type]
	if fieldClass == "" {
		fieldClass = "CharField"
	}
	if field.Type == schema.TypeString && field.MaxLength == 0 {
		fieldClass = "TextField"
	}

	var kwargs []string
	if field.IsPrimaryKey {
		kwargs = append(kwargs, "primary_key=True")
	}
	if field.MaxLength > 0 {
		kwargs = append(kwargs, fmt.Sprintf("max_length=%d", field.MaxLength))
	}
	if field.Type == schema.TypeDecimal || field.Type == schema.TypeCurrency {
		if field.Precision > 0 {
			kwargs = append(kwargs, fmt.Sprintf("max_digits=%d", field.Precision))
		}
		kwargs = append(kwargs, fmt.Sprintf("decimal_places=%d", field.Scale))
	}
	if field.IsUnique {
		kwargs = append(kwargs, "unique=True")
	}
	if field.IsNullable && !field.IsPrimaryKey {
		kwargs = append(kwargs, "null=True")
	}
	if field.DefaultValue != nil {
		kwargs = append(kwargs, "default="+pythonLiteral(field.DefaultValue))
	}
	if len(field.EnumValues) > 0 {
		choices := make([]string, len(field.EnumValues))
		for i, v := range field.EnumValues {
			choices[i] = fmt.Sprintf("(%q, %q)", v, v)
		}
		kwargs = append(kwargs, "choices=["+strings.Join(choices, ", ")+"]")
	}

	return fmt.Sprintf("models.%s(%s)", fieldClass, strings.Join(kwargs, ", "))
}

func djangoOnDelete(action schema.CascadeAction) string {
	switch action {
	case schema.SetNull:
		return "models.SET_NULL"
	case schema.Restrict:
		return "models.RESTRICT"
	case schema.NoAction:
		return "models.DO_NOTHING"
	default:
		return "models.CASCADE"
	}
}

func pythonLiteral(v any) string {
	switch val := v.(type) {
	case string:
		return fmt.Sprintf("%q", val)
	case bool:
		if val {
			return "True"
		}
		return "False"
	case float64:
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

var djangoTypes = map[schema.FieldType]string{
	schema.TypeString:   "CharField",
	schema.TypeInteger:  "IntegerField",
	schema.TypeFloat:    "FloatField",
	schema.TypeBoolean:  "BooleanField",
	schema.TypeDatetime: "DateTimeField",
	schema.TypeDate:     "DateField",
	schema.TypeTime:     "TimeField",
	schema.TypeText:     "TextField",
	schema.TypeUUID:     "UUIDField",
	schema.TypeJSON:     "JSONField",
	schema.TypeArray:    "JSONField",
	schema.TypeEnum:     "CharField",
	schema.TypeDecimal:  "DecimalField",
	schema.TypeBinary:   "BinaryField",
	schema.TypePoint:    "CharField",
	schema.TypeGeometry: "CharField",
	schema.TypeEmail:    "EmailField",
	schema.TypeURL:      "URLField",
	schema.TypeIP:       "GenericIPAddressField",
	schema.TypeMAC:      "CharField",
	schema.TypePhone:    "CharField",
	schema.TypeCurrency: "DecimalField",
}

// FileExtension returns the Django models file extension.
func (g *DjangoGenerator) FileExtension() string { return ".py" }
