package validator

import (
	"strings"
	"testing"

	"github.com/schemabloom/schemabloom/internal/parser"
)

func validate(doc parser.Document) Result {
	return New().Validate(doc)
}

func table(name string, fields ...any) map[string]any {
	return map[string]any{"name": name, "fields": fields}
}

func field(name, typ string) map[string]any {
	return map[string]any{"name": name, "type": typ}
}

func assertOneErrorContaining(t *testing.T, res Result, substr string) {
	t.Helper()
	if res.IsValid {
		t.Error("expected invalid result")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected exactly 1 error, got %d: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0], substr) {
		t.Errorf("error %q does not contain %q", res.Errors[0], substr)
	}
}

func assertHasErrorContaining(t *testing.T, res Result, substr string) {
	t.Helper()
	if res.IsValid {
		t.Error("expected invalid result")
	}
	for _, e := range res.Errors {
		if strings.Contains(e, substr) {
			return
		}
	}
	t.Errorf("no error contains %q; errors: %v", substr, res.Errors)
}

func TestValidateDocumentLevel(t *testing.T) {
	t.Run("nil document", func(t *testing.T) {
		assertOneErrorContaining(t, validate(nil), "must be a JSON object")
	})

	t.Run("missing tables key", func(t *testing.T) {
		res := validate(parser.Document{"metadata": map[string]any{}})
		assertOneErrorContaining(t, res, "must contain a 'tables' field")
		if res.TableCount != 0 {
			t.Errorf("table count = %d, want 0", res.TableCount)
		}
	})

	t.Run("tables is not an array", func(t *testing.T) {
		res := validate(parser.Document{"tables": "oops"})
		assertOneErrorContaining(t, res, "'tables' must be an array")
	})

	t.Run("empty tables is valid with a warning", func(t *testing.T) {
		res := validate(parser.Document{"tables": []any{}})
		if !res.IsValid {
			t.Errorf("expected valid, errors: %v", res.Errors)
		}
		if len(res.Errors) != 0 {
			t.Errorf("expected no errors, got %v", res.Errors)
		}
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "no tables") {
			t.Errorf("expected an empty-schema warning, got %v", res.Warnings)
		}
	})
}

func TestValidateTables(t *testing.T) {
	t.Run("valid minimal schema", func(t *testing.T) {
		doc := parser.Document{
			"tables": []any{
				table("users",
					map[string]any{"name": "id", "type": "integer", "is_primary_key": true},
					map[string]any{"name": "email", "type": "string", "is_unique": true},
				),
			},
			"relationships": []any{},
		}
		res := validate(doc)
		if !res.IsValid {
			t.Fatalf("expected valid, errors: %v", res.Errors)
		}
		if res.TableCount != 1 || res.RelationshipCount != 0 {
			t.Errorf("counts = %d/%d, want 1/0", res.TableCount, res.RelationshipCount)
		}
	})

	tests := []struct {
		name      string
		tables    []any
		wantError string
	}{
		{
			name:      "table not an object",
			tables:    []any{"users"},
			wantError: "Table at index 0 must be an object",
		},
		{
			name:      "table without name",
			tables:    []any{map[string]any{"fields": []any{}}},
			wantError: "must have a 'name' field",
		},
		{
			name:      "table name not a string",
			tables:    []any{map[string]any{"name": 7}},
			wantError: "Table name at index 0 must be a string",
		},
		{
			name:      "duplicate table name",
			tables:    []any{table("users"), table("users")},
			wantError: "Duplicate table name: users",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(parser.Document{"tables": tt.tables})
			assertHasErrorContaining(t, res, tt.wantError)
		})
	}

	t.Run("duplicate does not abort later tables", func(t *testing.T) {
		doc := parser.Document{"tables": []any{
			table("users"),
			table("users"),
			table("posts", field("id", "bogus")),
		}}
		res := validate(doc)
		assertHasErrorContaining(t, res, "Duplicate table name: users")
		assertHasErrorContaining(t, res, "bogus")
	})

	t.Run("fieldless table warns", func(t *testing.T) {
		res := validate(parser.Document{"tables": []any{map[string]any{"name": "empty"}}})
		if !res.IsValid {
			t.Fatalf("expected valid, errors: %v", res.Errors)
		}
		if len(res.Warnings) != 1 || !strings.Contains(res.Warnings[0], "has no fields") {
			t.Errorf("expected fieldless warning, got %v", res.Warnings)
		}
	})
}

func TestValidateFields(t *testing.T) {
	tests := []struct {
		name      string
		fields    []any
		wantError string
	}{
		{
			name:      "field not an object",
			fields:    []any{"id"},
			wantError: "Field at index 0 in table 'users' must be an object",
		},
		{
			name:      "field without name",
			fields:    []any{map[string]any{"type": "integer"}},
			wantError: "must have a 'name' field",
		},
		{
			name:      "field name not a string",
			fields:    []any{map[string]any{"name": 1, "type": "integer"}},
			wantError: "Field name at index 0 in table 'users' must be a string",
		},
		{
			name:      "duplicate field name",
			fields:    []any{field("id", "integer"), field("id", "string")},
			wantError: "Duplicate field name 'id' in table 'users'",
		},
		{
			name:      "field without type",
			fields:    []any{map[string]any{"name": "id"}},
			wantError: "Field 'id' in table 'users' must have a 'type' field",
		},
		{
			name:      "field type not a string",
			fields:    []any{map[string]any{"name": "id", "type": 3}},
			wantError: "Field type for 'id' in table 'users' must be a string",
		},
		{
			name:      "unsupported field type",
			fields:    []any{field("id", "bogus")},
			wantError: "Unsupported field type 'bogus' for field 'id' in table 'users'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(parser.Document{"tables": []any{table("users", tt.fields...)}})
			assertHasErrorContaining(t, res, tt.wantError)
		})
	}

	t.Run("unsupported type is exactly one error naming supported set", func(t *testing.T) {
		res := validate(parser.Document{"tables": []any{table("users", field("id", "bogus"))}})
		assertOneErrorContaining(t, res, "bogus")
		if !strings.Contains(res.Errors[0], "Supported types:") {
			t.Errorf("error should list supported types: %q", res.Errors[0])
		}
	})

	t.Run("alias types are accepted", func(t *testing.T) {
		res := validate(parser.Document{"tables": []any{
			table("docs",
				field("uid", "guid"),
				field("payload", "jsonb"),
				field("amount", "numeric"),
				field("raw", "blob"),
				field("link", "uri"),
			),
		}})
		if !res.IsValid {
			t.Errorf("aliases must validate, errors: %v", res.Errors)
		}
	})
}

func TestValidateFieldConstraints(t *testing.T) {
	tests := []struct {
		name      string
		field     map[string]any
		wantError string
	}{
		{
			name:      "non-boolean is_primary_key",
			field:     map[string]any{"name": "id", "type": "integer", "is_primary_key": "yes"},
			wantError: "Constraint 'is_primary_key' for field 'id' in table 'users' must be a boolean",
		},
		{
			name:      "non-boolean is_nullable",
			field:     map[string]any{"name": "id", "type": "integer", "is_nullable": 1},
			wantError: "Constraint 'is_nullable'",
		},
		{
			name:      "non-boolean is_auto_increment",
			field:     map[string]any{"name": "id", "type": "integer", "is_auto_increment": "true"},
			wantError: "Constraint 'is_auto_increment'",
		},
		{
			name:      "default value not primitive",
			field:     map[string]any{"name": "id", "type": "integer", "default_value": map[string]any{}},
			wantError: "Default value for field 'id' in table 'users' must be a primitive type",
		},
		{
			name:      "zero max_length",
			field:     map[string]any{"name": "name", "type": "string", "max_length": 0},
			wantError: "Max length for field 'name' in table 'users' must be a positive integer",
		},
		{
			name:      "fractional max_length",
			field:     map[string]any{"name": "name", "type": "string", "max_length": 3.5},
			wantError: "Max length",
		},
		{
			name:      "string max_length",
			field:     map[string]any{"name": "name", "type": "string", "max_length": "long"},
			wantError: "Max length",
		},
		{
			name:      "zero precision",
			field:     map[string]any{"name": "amount", "type": "decimal", "precision": 0},
			wantError: "Precision for field 'amount' in table 'users' must be a positive integer",
		},
		{
			name:      "negative scale",
			field:     map[string]any{"name": "amount", "type": "decimal", "scale": -1},
			wantError: "Scale for field 'amount' in table 'users' must be a non-negative integer",
		},
		{
			name:      "enum_values not an array",
			field:     map[string]any{"name": "status", "type": "enum", "enum_values": "open"},
			wantError: "Enum values for field 'status' in table 'users' must be an array",
		},
		{
			name:      "enum member not string or integer",
			field:     map[string]any{"name": "status", "type": "enum", "enum_values": []any{"open", true}},
			wantError: "Enum value at index 1 for field 'status' in table 'users' must be a string or integer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := validate(parser.Document{"tables": []any{table("users", any(tt.field))}})
			assertHasErrorContaining(t, res, tt.wantError)
		})
	}

	t.Run("legal constraints validate", func(t *testing.T) {
		f := map[string]any{
			"name": "amount", "type": "decimal",
			"is_nullable": false, "is_unique": true,
			"default_value": 0, "precision": 10, "scale": 2,
		}
		res := validate(parser.Document{"tables": []any{table("users", any(f))}})
		if !res.IsValid {
			t.Errorf("expected valid, errors: %v", res.Errors)
		}
	})

	t.Run("zero scale is legal", func(t *testing.T) {
		f := map[string]any{"name": "amount", "type": "decimal", "scale": 0}
		res := validate(parser.Document{"tables": []any{table("users", any(f))}})
		if !res.IsValid {
			t.Errorf("expected valid, errors: %v", res.Errors)
		}
	})
}

func TestValidateIndexes(t *testing.T) {
	tests := []struct {
		name      string
		indexes   any
		wantError string
	}{
		{
			name:      "indexes not an array",
			indexes:   "idx",
			wantError: "Indexes in table 'users' must be an array",
		},
		{
			name:      "index not an object",
			indexes:   []any{"idx"},
			wantError: "Index at index 0 in table 'users' must be an object",
		},
		{
			name:      "index without name",
			indexes:   []any{map[string]any{"fields": []any{"id"}}},
			wantError: "Index at index 0 in table 'users' must have a 'name' field",
		},
		{
			name:      "index without fields",
			indexes:   []any{map[string]any{"name": "idx"}},
			wantError: "Index at index 0 in table 'users' must have a 'fields' field",
		},
		{
			name:      "index fields not an array",
			indexes:   []any{map[string]any{"name": "idx", "fields": "id"}},
			wantError: "Index fields at index 0 in table 'users' must be an array",
		},
		{
			name:      "invalid index type",
			indexes:   []any{map[string]any{"name": "idx", "fields": []any{"id"}, "type": "btrie"}},
			wantError: "Invalid index type 'btrie' at index 0 in table 'users'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parser.Document{"tables": []any{
				map[string]any{"name": "users", "fields": []any{field("id", "integer")}, "indexes": tt.indexes},
			}}
			assertHasErrorContaining(t, validate(doc), tt.wantError)
		})
	}

	t.Run("every index type is accepted", func(t *testing.T) {
		for _, typ := range []string{"btree", "hash", "gin", "gist", "spgist", "brin"} {
			doc := parser.Document{"tables": []any{
				map[string]any{
					"name":    "users",
					"fields":  []any{field("id", "integer")},
					"indexes": []any{map[string]any{"name": "idx", "fields": []any{"id"}, "type": typ}},
				},
			}}
			if res := validate(doc); !res.IsValid {
				t.Errorf("index type %s rejected: %v", typ, res.Errors)
			}
		}
	})
}

func TestValidateRelationships(t *testing.T) {
	twoTables := []any{
		table("users", field("id", "integer")),
		table("posts", field("id", "integer")),
	}

	tests := []struct {
		name      string
		rel       any
		wantError string
	}{
		{
			name:      "not an object",
			rel:       "users-posts",
			wantError: "Relationship at index 0 must be an object",
		},
		{
			name:      "missing endpoint pair",
			rel:       map[string]any{"type": "one_to_many"},
			wantError: "must have either 'from'/'to' or 'table'/'related_table' fields",
		},
		{
			name:      "missing type",
			rel:       map[string]any{"from": "users", "to": "posts"},
			wantError: "Relationship at index 0 must have a 'type' field",
		},
		{
			name:      "invalid type",
			rel:       map[string]any{"from": "users", "to": "posts", "type": "one_to_lots"},
			wantError: "Invalid relationship type 'one_to_lots' at index 0",
		},
		{
			name:      "invalid on_delete",
			rel:       map[string]any{"from": "users", "to": "posts", "type": "one_to_many", "on_delete": "explode"},
			wantError: "Invalid on_delete action 'explode' at index 0",
		},
		{
			name:      "invalid on_update",
			rel:       map[string]any{"from": "users", "to": "posts", "type": "one_to_many", "on_update": "explode"},
			wantError: "Invalid on_update action 'explode' at index 0",
		},
		{
			name:      "unknown endpoint table",
			rel:       map[string]any{"from": "users", "to": "comments", "type": "one_to_many"},
			wantError: "Relationship at index 0 references unknown table 'comments'",
		},
		{
			name:      "non-string endpoint",
			rel:       map[string]any{"from": 1, "to": "posts", "type": "one_to_many"},
			wantError: "Relationship at index 0 endpoint names must be strings",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parser.Document{"tables": twoTables, "relationships": []any{tt.rel}}
			assertHasErrorContaining(t, validate(doc), tt.wantError)
		})
	}

	t.Run("relationships not an array", func(t *testing.T) {
		doc := parser.Document{"tables": twoTables, "relationships": "nope"}
		assertHasErrorContaining(t, validate(doc), "Relationships must be an array")
	})

	t.Run("both endpoint conventions validate", func(t *testing.T) {
		rels := []any{
			map[string]any{"from": "users", "to": "posts", "type": "one_to_many", "on_delete": "cascade"},
			map[string]any{"table": "posts", "related_table": "users", "type": "many_to_one", "on_update": "set_null"},
		}
		doc := parser.Document{"tables": twoTables, "relationships": rels}
		res := validate(doc)
		if !res.IsValid {
			t.Fatalf("expected valid, errors: %v", res.Errors)
		}
		if res.RelationshipCount != 2 {
			t.Errorf("relationship count = %d, want 2", res.RelationshipCount)
		}
	})
}

func TestValidateMetadata(t *testing.T) {
	base := []any{table("users", field("id", "integer"))}

	tests := []struct {
		name      string
		metadata  any
		wantError string
	}{
		{name: "not an object", metadata: "v1", wantError: "Metadata must be an object"},
		{name: "version not a string", metadata: map[string]any{"version": 1}, wantError: "Schema version must be a string"},
		{name: "author not a string", metadata: map[string]any{"author": 1}, wantError: "Schema author must be a string"},
		{name: "description not a string", metadata: map[string]any{"description": 1}, wantError: "Schema description must be a string"},
		{name: "tags not an array", metadata: map[string]any{"tags": "a"}, wantError: "Schema tags must be an array"},
		{name: "tag not a string", metadata: map[string]any{"tags": []any{"a", 2}}, wantError: "Tag at index 1 must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := parser.Document{"tables": base, "metadata": tt.metadata}
			assertHasErrorContaining(t, validate(doc), tt.wantError)
		})
	}

	t.Run("valid metadata", func(t *testing.T) {
		doc := parser.Document{"tables": base, "metadata": map[string]any{
			"version": "1.0", "author": "me", "description": "d", "tags": []any{"a"},
		}}
		if res := validate(doc); !res.IsValid {
			t.Errorf("expected valid, errors: %v", res.Errors)
		}
	})
}

// Validation is exhaustive: one pass reports every problem in the
// document, not just the first.
func TestValidateAccumulatesAllErrors(t *testing.T) {
	doc := parser.Document{
		"tables": []any{
			table("users", field("id", "bogus"), field("id", "integer")),
			table("users"),
		},
		"relationships": []any{
			map[string]any{"type": "sideways", "from": "users", "to": "ghosts"},
		},
		"metadata": map[string]any{"version": 2},
	}

	res := validate(doc)
	if res.IsValid {
		t.Fatal("expected invalid result")
	}
	for _, want := range []string{
		"Unsupported field type 'bogus'",
		"Duplicate field name 'id'",
		"Duplicate table name: users",
		"Invalid relationship type 'sideways'",
		"references unknown table 'ghosts'",
		"Schema version must be a string",
	} {
		assertHasErrorContaining(t, res, want)
	}
	if res.TableCount != 2 || res.RelationshipCount != 1 {
		t.Errorf("counts = %d/%d, want 2/1", res.TableCount, res.RelationshipCount)
	}
}
