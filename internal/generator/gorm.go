package generator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/schemabloom/schemabloom/internal/schema"
)

// GormGenerator emits Go model structs with GORM struct tags. Unlike
// the text-template generators it builds the output programmatically,
// so the emitted source is always gofmt-clean.
type GormGenerator struct{}

// NewGorm returns a GORM models generator.
func NewGorm() *GormGenerator { return &GormGenerator{} }

// Generate writes models.go into outputDir.
func (g *GormGenerator) Generate(s *schema.Schema, outputDir string) ([]string, error) {
	f := jen.NewFile("models")
	f.HeaderComment("Code generated by schemabloom. DO NOT EDIT.")
	for _, line := range metadataHeader(s.Metadata) {
		f.HeaderComment(line)
	}

	for _, table := range s.Tables {
		g.addModel(f, table)
	}

	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return nil, fmt.Errorf("failed to render gorm models: %w", err)
	}

	path, err := writeFile(outputDir, "models.go", buf.Bytes())
	if err != nil {
		return nil, err
	}
	return []string{path}, nil
}

func (g *GormGenerator) addModel(f *jen.File, table schema.Table) {
	name := modelName(table.Name)

	var members []jen.Code
	for _, field := range table.Fields {
		members = append(members, g.structField(field))
	}
	for _, rel := range table.Relationships {
		if m, ok := g.associationField(table.Name, rel); ok {
			members = append(members, m)
		}
	}

	f.Commentf("%s maps the %s table.", name, table.Name)
	f.Type().Id(name).Struct(members...)
	f.Line()

	// TableName pins the mapping so GORM's own pluralization cannot
	// drift from the document.
	f.Func().Params(jen.Id(name)).Id("TableName").Params().String().Block(
		jen.Return(jen.Lit(table.Name)),
	)
	f.Line()
}

func (g *GormGenerator) structField(field schema.Field) jen.Code {
	stmt := jen.Id(goFieldName(field.Name))
	stmt = stmt.Add(g.goType(field))
	return stmt.Tag(map[string]string{
		"gorm": g.gormTag(field),
		"json": field.Name,
	})
}

func (g *GormGenerator) goType(field schema.Field) jen.Code {
	var base *jen.Statement
	switch field.Type {
	case schema.TypeInteger:
		base = jen.Int64()
	case schema.TypeFloat, schema.TypeDecimal, schema.TypeCurrency:
		base = jen.Float64()
	case schema.TypeBoolean:
		base = jen.Bool()
	case schema.TypeDatetime, schema.TypeDate, schema.TypeTime:
		base = jen.Qual("time", "Time")
	case schema.TypeJSON, schema.TypeArray:
		return jen.Qual("encoding/json", "RawMessage")
	case schema.TypeBinary:
		return jen.Index().Byte()
	default:
		base = jen.String()
	}

	if field.IsNullable && !field.IsPrimaryKey {
		return jen.Op("*").Add(base)
	}
	return base
}

func (g *GormGenerator) gormTag(field schema.Field) string {
	parts := []string{"column:" + field.Name}
	if field.IsPrimaryKey {
		parts = append(parts, "primaryKey")
	}
	if field.IsAutoIncrement {
		parts = append(parts, "autoIncrement")
	}
	if field.IsUnique {
		parts = append(parts, "unique")
	}
	if field.MaxLength > 0 {
		parts = append(parts, fmt.Sprintf("size:%d", field.MaxLength))
	}
	if field.Precision > 0 {
		parts = append(parts, fmt.Sprintf("precision:%d", field.Precision))
		parts = append(parts, fmt.Sprintf("scale:%d", field.Scale))
	}
	if !field.IsNullable && !field.IsPrimaryKey {
		parts = append(parts, "not null")
	}
	if field.DefaultValue != nil {
		parts = append(parts, fmt.Sprintf("default:%v", field.DefaultValue))
	}
	return strings.Join(parts, ";")
}

// associationField emits the association member for this table's view
// of rel: the many side holds a slice, the owning one side holds the
// referenced struct next to its foreign key column.
func (g *GormGenerator) associationField(tableName string, rel schema.Relationship) (jen.Code, bool) {
	other := rel.Other(tableName)
	otherModel := modelName(other)

	switch rel.Type {
	case schema.OneToMany:
		fieldName := pascalCase(pluralize(singularize(other)))
		tag := "foreignKey:" + goFieldName(foreignKeyColumn(rel, tableName))
		return jen.Id(fieldName).Index().Id(otherModel).Tag(map[string]string{"gorm": tag}), true
	case schema.ManyToOne:
		fieldName := pascalCase(singularize(other))
		tag := "foreignKey:" + goFieldName(foreignKeyColumn(rel, other))
		return jen.Id(fieldName).Op("*").Id(otherModel).Tag(map[string]string{"gorm": tag}), true
	case schema.OneToOne:
		fieldName := pascalCase(singularize(other))
		if rel.Table != tableName {
			tag := "foreignKey:" + goFieldName(foreignKeyColumn(rel, tableName))
			return jen.Id(fieldName).Op("*").Id(otherModel).Tag(map[string]string{"gorm": tag}), true
		}
		tag := "foreignKey:" + goFieldName(foreignKeyColumn(rel, other))
		return jen.Id(fieldName).Op("*").Id(otherModel).Tag(map[string]string{"gorm": tag}), true
	case schema.ManyToMany:
		fieldName := pascalCase(pluralize(singularize(other)))
		join := rel.Name
		if join == "" {
			join = joinTableName(rel.Table, rel.RelatedTable)
		}
		return jen.Id(fieldName).Index().Id(otherModel).Tag(map[string]string{"gorm": "many2many:" + join}), true
	}
	return nil, false
}

// joinTableName builds the conventional join table name for a
// many_to_many relationship without a declared name.
func joinTableName(a, b string) string {
	return snakeCase(singularize(a)) + "_" + snakeCase(pluralize(singularize(b)))
}

// goFieldName converts a column name to an exported Go field name,
// keeping the ID initialism idiomatic (id → ID, author_id → AuthorID).
func goFieldName(column string) string {
	name := pascalCase(column)
	if strings.HasSuffix(name, "Id") {
		name = name[:len(name)-2] + "ID"
	}
	return name
}

// FileExtension returns the Go source file extension.
func (g *GormGenerator) FileExtension() string { return ".go" }
