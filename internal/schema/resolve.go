package schema

// RelationshipsFor computes the relationship views a table sees: every
// relationship touching tableName, with Type translated to that table's
// point of view.
//
// A table on the "from" side sees the declared type verbatim. A table on
// the "to" side sees the cardinality-inverse: one_to_many reads as
// many_to_one and vice versa, while one_to_one and many_to_many are
// symmetric and pass through unchanged. Name, foreign key, referenced
// key and field name are preserved verbatim regardless of viewing side.
//
// Views are emitted in declaration order. A self-referential
// relationship (both endpoints equal to tableName) matches both sides
// but is emitted exactly once, with the from-side interpretation:
// inverting a self-join would need disambiguating data the document
// format does not carry.
func RelationshipsFor(tableName string, relationships []Relationship) []Relationship {
	var views []Relationship
	for _, rel := range relationships {
		switch tableName {
		case rel.Table:
			views = append(views, rel)
		case rel.RelatedTable:
			view := rel
			view.Type = rel.Type.Invert()
			views = append(views, view)
		}
	}
	return views
}
