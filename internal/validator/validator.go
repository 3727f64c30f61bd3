// Package validator checks raw schema documents against the structural
// and referential rules the canonical builder assumes.
//
// Validation is exhaustive, not fail-fast: apart from two document-level
// preconditions (the document must be an object and must carry a
// 'tables' array), every violation found anywhere in the document is
// accumulated and reported together. Errors are human-readable
// sentences; callers doing automated triage match on substrings such as
// "Duplicate table name" or "Unsupported field type". Warnings cover
// tolerated conditions (empty schema, fieldless table) and never affect
// validity.
package validator

import (
	"fmt"
	"strings"

	"github.com/schemabloom/schemabloom/internal/parser"
	"github.com/schemabloom/schemabloom/internal/schema"
)

// Result is the outcome of validating one schema document. TableCount
// and RelationshipCount are raw sequence lengths regardless of validity,
// so callers can report partial figures even for broken documents.
type Result struct {
	IsValid           bool
	TableCount        int
	RelationshipCount int
	Errors            []string
	Warnings          []string
}

// SchemaValidator validates raw schema documents. The zero value is
// ready to use; New exists for symmetry with the rest of the module.
type SchemaValidator struct{}

// New returns a SchemaValidator.
func New() *SchemaValidator { return &SchemaValidator{} }

var relationshipTypes = []schema.RelationshipType{
	schema.OneToOne, schema.OneToMany, schema.ManyToOne, schema.ManyToMany,
}

var cascadeActions = []schema.CascadeAction{
	schema.Cascade, schema.SetNull, schema.Restrict, schema.NoAction,
}

var indexTypes = []schema.IndexType{
	schema.Btree, schema.Hash, schema.Gin, schema.Gist, schema.Spgist, schema.Brin,
}

// Validate checks a raw document and returns the accumulated result.
func (v *SchemaValidator) Validate(doc parser.Document) Result {
	if doc == nil {
		return Result{Errors: []string{"Schema must be a JSON object"}}
	}

	rawRelationships, hasRelationships := doc["relationships"]
	relationshipCount := len(asSlice(rawRelationships))

	rawTables, ok := doc["tables"]
	if !ok {
		return Result{
			RelationshipCount: relationshipCount,
			Errors:            []string{"Schema must contain a 'tables' field"},
		}
	}
	tables, ok := rawTables.([]any)
	if !ok {
		return Result{
			RelationshipCount: relationshipCount,
			Errors:            []string{"Schema field 'tables' must be an array"},
		}
	}

	var errs, warnings []string

	tableNames := v.validateTables(tables, &errs, &warnings)

	if hasRelationships {
		relationships, ok := rawRelationships.([]any)
		if !ok {
			errs = append(errs, "Relationships must be an array")
		} else {
			v.validateRelationships(relationships, tableNames, &errs)
		}
	}

	if rawMetadata, ok := doc["metadata"]; ok {
		v.validateMetadata(rawMetadata, &errs)
	}

	return Result{
		IsValid:           len(errs) == 0,
		TableCount:        len(tables),
		RelationshipCount: relationshipCount,
		Errors:            errs,
		Warnings:          warnings,
	}
}

// validateTables checks every table entry and returns the set of
// declared table names for the relationship cross-reference check.
// Duplicates are reported but do not abort validation of later tables.
func (v *SchemaValidator) validateTables(tables []any, errs, warnings *[]string) map[string]bool {
	tableNames := make(map[string]bool)

	if len(tables) == 0 {
		*warnings = append(*warnings, "Schema contains no tables")
		return tableNames
	}

	for i, raw := range tables {
		table, ok := raw.(map[string]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Table at index %d must be an object", i))
			continue
		}

		rawName, ok := table["name"]
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Table at index %d must have a 'name' field", i))
			continue
		}
		name, ok := rawName.(string)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Table name at index %d must be a string", i))
			continue
		}

		if tableNames[name] {
			*errs = append(*errs, fmt.Sprintf("Duplicate table name: %s", name))
		} else {
			tableNames[name] = true
		}

		if rawFields, ok := table["fields"]; ok {
			v.validateFields(rawFields, name, errs, warnings)
		} else {
			*warnings = append(*warnings, fmt.Sprintf("Table '%s' has no fields", name))
		}

		if rawIndexes, ok := table["indexes"]; ok {
			v.validateIndexes(rawIndexes, name, errs)
		}
	}

	return tableNames
}

func (v *SchemaValidator) validateFields(rawFields any, tableName string, errs, warnings *[]string) {
	fields, ok := rawFields.([]any)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("Fields in table '%s' must be an array", tableName))
		return
	}
	if len(fields) == 0 {
		*warnings = append(*warnings, fmt.Sprintf("Table '%s' has no fields", tableName))
		return
	}

	fieldNames := make(map[string]bool)
	for i, raw := range fields {
		field, ok := raw.(map[string]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Field at index %d in table '%s' must be an object", i, tableName))
			continue
		}

		rawName, ok := field["name"]
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Field at index %d in table '%s' must have a 'name' field", i, tableName))
			continue
		}
		name, ok := rawName.(string)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Field name at index %d in table '%s' must be a string", i, tableName))
			continue
		}

		if fieldNames[name] {
			*errs = append(*errs, fmt.Sprintf("Duplicate field name '%s' in table '%s'", name, tableName))
		} else {
			fieldNames[name] = true
		}

		if rawType, ok := field["type"]; ok {
			v.validateFieldType(rawType, name, tableName, errs)
		} else {
			*errs = append(*errs, fmt.Sprintf("Field '%s' in table '%s' must have a 'type' field", name, tableName))
		}

		v.validateFieldConstraints(field, name, tableName, errs)
	}
}

func (v *SchemaValidator) validateFieldType(rawType any, fieldName, tableName string, errs *[]string) {
	token, ok := rawType.(string)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("Field type for '%s' in table '%s' must be a string", fieldName, tableName))
		return
	}
	if _, ok := schema.Canonicalize(token); !ok {
		*errs = append(*errs, fmt.Sprintf(
			"Unsupported field type '%s' for field '%s' in table '%s'. Supported types: %s",
			token, fieldName, tableName, strings.Join(schema.SupportedTypes(), ", ")))
	}
}

var booleanConstraints = []string{"is_primary_key", "is_unique", "is_nullable", "is_auto_increment"}

func (v *SchemaValidator) validateFieldConstraints(field map[string]any, fieldName, tableName string, errs *[]string) {
	for _, constraint := range booleanConstraints {
		if value, ok := field[constraint]; ok {
			if _, isBool := value.(bool); !isBool {
				*errs = append(*errs, fmt.Sprintf(
					"Constraint '%s' for field '%s' in table '%s' must be a boolean",
					constraint, fieldName, tableName))
			}
		}
	}

	if value, ok := field["default_value"]; ok && !isPrimitive(value) {
		*errs = append(*errs, fmt.Sprintf(
			"Default value for field '%s' in table '%s' must be a primitive type", fieldName, tableName))
	}

	if value, ok := field["max_length"]; ok {
		if n, isInt := asIntExact(value); !isInt || n <= 0 {
			*errs = append(*errs, fmt.Sprintf(
				"Max length for field '%s' in table '%s' must be a positive integer", fieldName, tableName))
		}
	}

	if value, ok := field["precision"]; ok {
		if n, isInt := asIntExact(value); !isInt || n <= 0 {
			*errs = append(*errs, fmt.Sprintf(
				"Precision for field '%s' in table '%s' must be a positive integer", fieldName, tableName))
		}
	}

	if value, ok := field["scale"]; ok {
		if n, isInt := asIntExact(value); !isInt || n < 0 {
			*errs = append(*errs, fmt.Sprintf(
				"Scale for field '%s' in table '%s' must be a non-negative integer", fieldName, tableName))
		}
	}

	if value, ok := field["enum_values"]; ok {
		values, isSlice := value.([]any)
		if !isSlice {
			*errs = append(*errs, fmt.Sprintf(
				"Enum values for field '%s' in table '%s' must be an array", fieldName, tableName))
			return
		}
		for i, member := range values {
			if _, isString := member.(string); isString {
				continue
			}
			if _, isInt := asIntExact(member); isInt {
				continue
			}
			*errs = append(*errs, fmt.Sprintf(
				"Enum value at index %d for field '%s' in table '%s' must be a string or integer",
				i, fieldName, tableName))
		}
	}
}

func (v *SchemaValidator) validateIndexes(rawIndexes any, tableName string, errs *[]string) {
	indexes, ok := rawIndexes.([]any)
	if !ok {
		*errs = append(*errs, fmt.Sprintf("Indexes in table '%s' must be an array", tableName))
		return
	}

	for i, raw := range indexes {
		index, ok := raw.(map[string]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Index at index %d in table '%s' must be an object", i, tableName))
			continue
		}

		if _, ok := index["name"]; !ok {
			*errs = append(*errs, fmt.Sprintf("Index at index %d in table '%s' must have a 'name' field", i, tableName))
		}

		if rawFields, ok := index["fields"]; !ok {
			*errs = append(*errs, fmt.Sprintf("Index at index %d in table '%s' must have a 'fields' field", i, tableName))
		} else if _, isSlice := rawFields.([]any); !isSlice {
			*errs = append(*errs, fmt.Sprintf("Index fields at index %d in table '%s' must be an array", i, tableName))
		}

		if rawType, ok := index["type"]; ok {
			token, _ := rawType.(string)
			if !containsIndexType(token) {
				*errs = append(*errs, fmt.Sprintf(
					"Invalid index type '%v' at index %d in table '%s'. Valid types: %s",
					rawType, i, tableName, joinIndexTypes()))
			}
		}
	}
}

// validateRelationships checks each relationship declaration: one of the
// two endpoint conventions must be supplied in full, the type and
// cascade actions must come from their fixed vocabularies, and both
// endpoints must name declared tables.
func (v *SchemaValidator) validateRelationships(relationships []any, tableNames map[string]bool, errs *[]string) {
	for i, raw := range relationships {
		rel, ok := raw.(map[string]any)
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Relationship at index %d must be an object", i))
			continue
		}

		var from, to any
		if f, okFrom := rel["from"]; okFrom {
			if t, okTo := rel["to"]; okTo {
				from, to = f, t
			}
		}
		if from == nil && to == nil {
			if f, okFrom := rel["table"]; okFrom {
				if t, okTo := rel["related_table"]; okTo {
					from, to = f, t
				}
			}
		}
		if from == nil && to == nil {
			*errs = append(*errs, fmt.Sprintf(
				"Relationship at index %d must have either 'from'/'to' or 'table'/'related_table' fields", i))
			continue
		}

		for _, endpoint := range []any{from, to} {
			name, isString := endpoint.(string)
			if !isString {
				*errs = append(*errs, fmt.Sprintf("Relationship at index %d endpoint names must be strings", i))
				continue
			}
			if !tableNames[name] {
				*errs = append(*errs, fmt.Sprintf("Relationship at index %d references unknown table '%s'", i, name))
			}
		}

		rawType, ok := rel["type"]
		if !ok {
			*errs = append(*errs, fmt.Sprintf("Relationship at index %d must have a 'type' field", i))
		} else {
			token, _ := rawType.(string)
			if !containsRelationshipType(token) {
				*errs = append(*errs, fmt.Sprintf(
					"Invalid relationship type '%v' at index %d. Valid types: %s",
					rawType, i, joinRelationshipTypes()))
			}
		}

		for _, action := range []string{"on_delete", "on_update"} {
			rawAction, ok := rel[action]
			if !ok {
				continue
			}
			token, _ := rawAction.(string)
			if !containsCascadeAction(token) {
				*errs = append(*errs, fmt.Sprintf(
					"Invalid %s action '%v' at index %d. Valid actions: %s",
					action, rawAction, i, joinCascadeActions()))
			}
		}
	}
}

func (v *SchemaValidator) validateMetadata(rawMetadata any, errs *[]string) {
	metadata, ok := rawMetadata.(map[string]any)
	if !ok {
		*errs = append(*errs, "Metadata must be an object")
		return
	}

	stringFields := []struct {
		key     string
		message string
	}{
		{"version", "Schema version must be a string"},
		{"author", "Schema author must be a string"},
		{"description", "Schema description must be a string"},
	}
	for _, sf := range stringFields {
		if value, ok := metadata[sf.key]; ok {
			if _, isString := value.(string); !isString {
				*errs = append(*errs, sf.message)
			}
		}
	}

	if rawTags, ok := metadata["tags"]; ok {
		tags, isSlice := rawTags.([]any)
		if !isSlice {
			*errs = append(*errs, "Schema tags must be an array")
			return
		}
		for i, tag := range tags {
			if _, isString := tag.(string); !isString {
				*errs = append(*errs, fmt.Sprintf("Tag at index %d must be a string", i))
			}
		}
	}
}

// isPrimitive reports whether a default value is a JSON primitive:
// string, number, boolean, or null.
func isPrimitive(v any) bool {
	switch v.(type) {
	case string, bool, float64, int, nil:
		return true
	}
	return false
}

// asIntExact accepts native ints and float64 values without a fractional
// part (how encoding/json represents integers).
func asIntExact(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func containsRelationshipType(token string) bool {
	for _, t := range relationshipTypes {
		if string(t) == token {
			return true
		}
	}
	return false
}

func containsCascadeAction(token string) bool {
	for _, a := range cascadeActions {
		if string(a) == token {
			return true
		}
	}
	return false
}

func containsIndexType(token string) bool {
	for _, t := range indexTypes {
		if string(t) == token {
			return true
		}
	}
	return false
}

func joinRelationshipTypes() string {
	parts := make([]string, len(relationshipTypes))
	for i, t := range relationshipTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}

func joinCascadeActions() string {
	parts := make([]string, len(cascadeActions))
	for i, a := range cascadeActions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

func joinIndexTypes() string {
	parts := make([]string, len(indexTypes))
	for i, t := range indexTypes {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
