package schema

import "strconv"

// Build assembles the canonical schema from a raw document that has
// already passed validation. It applies field defaults (nullable true,
// primary key / unique / auto increment false, default value nil),
// normalizes both relationship endpoint conventions into one, and
// attaches each table's resolved relationship views.
//
// Build performs no validation of its own and trusts its input; callers
// must check the validator result first. Tables, fields and
// relationships come out in document order.
func Build(doc map[string]any) *Schema {
	relationships := normalizeRelationships(asSlice(doc["relationships"]))

	s := &Schema{Metadata: buildMetadata(doc["metadata"])}
	for _, raw := range asSlice(doc["tables"]) {
		t, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		table := Table{Name: asString(t["name"])}
		for _, rawField := range asSlice(t["fields"]) {
			f, ok := rawField.(map[string]any)
			if !ok {
				continue
			}
			table.Fields = append(table.Fields, buildField(f))
		}
		for _, rawIndex := range asSlice(t["indexes"]) {
			idx, ok := rawIndex.(map[string]any)
			if !ok {
				continue
			}
			table.Indexes = append(table.Indexes, Index{
				Name:   asString(idx["name"]),
				Fields: asStringSlice(idx["fields"]),
				Type:   IndexType(asString(idx["type"])),
			})
		}
		table.Relationships = RelationshipsFor(table.Name, relationships)
		s.Tables = append(s.Tables, table)
	}
	return s
}

func buildField(f map[string]any) Field {
	token := asString(f["type"])
	canonical, _ := Canonicalize(token)
	return Field{
		Name:            asString(f["name"]),
		Type:            canonical,
		RawType:         token,
		IsPrimaryKey:    asBool(f["is_primary_key"], false),
		IsUnique:        asBool(f["is_unique"], false),
		IsNullable:      asBool(f["is_nullable"], true),
		IsAutoIncrement: asBool(f["is_auto_increment"], false),
		DefaultValue:    f["default_value"],
		MaxLength:       asInt(f["max_length"]),
		Precision:       asInt(f["precision"]),
		Scale:           asInt(f["scale"]),
		EnumValues:      asStringSlice(f["enum_values"]),
	}
}

// normalizeRelationships collapses the two endpoint conventions
// ({from,to} and {table,related_table}) into Table/RelatedTable so no
// downstream consumer ever sees both spellings.
func normalizeRelationships(raw []any) []Relationship {
	var relationships []Relationship
	for _, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			continue
		}
		rel := Relationship{
			Name:          asString(m["name"]),
			Type:          RelationshipType(asString(m["type"])),
			FieldName:     asString(m["field_name"]),
			ForeignKey:    asString(m["foreign_key"]),
			ReferencedKey: asString(m["referenced_key"]),
			OnDelete:      CascadeAction(asString(m["on_delete"])),
			OnUpdate:      CascadeAction(asString(m["on_update"])),
		}
		if _, ok := m["from"]; ok {
			rel.Table = asString(m["from"])
			rel.RelatedTable = asString(m["to"])
		} else {
			rel.Table = asString(m["table"])
			rel.RelatedTable = asString(m["related_table"])
		}
		relationships = append(relationships, rel)
	}
	return relationships
}

func buildMetadata(raw any) Metadata {
	m, ok := raw.(map[string]any)
	if !ok {
		return Metadata{}
	}
	return Metadata{
		Version:     asString(m["version"]),
		Author:      asString(m["author"]),
		Description: asString(m["description"]),
		Tags:        asStringSlice(m["tags"]),
	}
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any, fallback bool) bool {
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// asInt accepts both decoded JSON numbers (float64) and native ints,
// which documents assembled in Go code carry.
func asInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return 0
}

// asStringSlice converts a raw sequence to strings, rendering integer
// members (legal in enum_values) through strconv.
func asStringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		switch val := item.(type) {
		case string:
			out = append(out, val)
		case float64:
			out = append(out, strconv.FormatFloat(val, 'f', -1, 64))
		case int:
			out = append(out, strconv.Itoa(val))
		}
	}
	return out
}
