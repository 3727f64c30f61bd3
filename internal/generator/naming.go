package generator

import (
	"strings"

	"github.com/go-openapi/inflect"
)

// Naming helpers shared by all generators. These replace the jinja-style
// casing filters the template data used to rely on: table names arrive
// as snake_case plurals ("order_items") and generators need model names
// ("OrderItem"), relation field names ("orderItems"), and column names.

func normalizeSeparators(s string) string {
	s = strings.ReplaceAll(s, "-", "_")
	return strings.ReplaceAll(s, " ", "_")
}

func pascalCase(s string) string {
	return inflect.Camelize(normalizeSeparators(s))
}

func camelCase(s string) string {
	return inflect.CamelizeDownFirst(normalizeSeparators(s))
}

func snakeCase(s string) string {
	return strings.ToLower(inflect.Underscore(normalizeSeparators(s)))
}

func pluralize(s string) string {
	return inflect.Pluralize(s)
}

func singularize(s string) string {
	return inflect.Singularize(s)
}

// modelName derives a class/struct name from a table name: users →
// User, order_items → OrderItem.
func modelName(table string) string {
	return pascalCase(singularize(table))
}
