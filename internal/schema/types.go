// Package schema defines the canonical data model produced from a
// validated schema document, along with the relationship resolution and
// document-to-model build steps.
//
// The canonical model is the sole contract handed to generators: by the
// time a Schema exists, type aliases are resolved, both relationship
// key-naming conventions are collapsed into one, field defaults are
// applied, and every table carries its own directional view of the
// relationships that touch it. Generators never re-validate.
package schema

// FieldType is a canonical field type name. Alias spellings in input
// documents (e.g. "guid", "jsonb", "numeric") resolve to one of these.
type FieldType string

const (
	TypeString   FieldType = "string"
	TypeInteger  FieldType = "integer"
	TypeFloat    FieldType = "float"
	TypeBoolean  FieldType = "boolean"
	TypeDatetime FieldType = "datetime"
	TypeDate     FieldType = "date"
	TypeTime     FieldType = "time"
	TypeText     FieldType = "text"
	TypeUUID     FieldType = "uuid"
	TypeJSON     FieldType = "json"
	TypeArray    FieldType = "array"
	TypeEnum     FieldType = "enum"
	TypeDecimal  FieldType = "decimal"
	TypeBinary   FieldType = "binary"
	TypePoint    FieldType = "point"
	TypeGeometry FieldType = "geometry"
	TypeEmail    FieldType = "email"
	TypeURL      FieldType = "url"
	TypeIP       FieldType = "ip"
	TypeMAC      FieldType = "mac"
	TypePhone    FieldType = "phone"
	TypeCurrency FieldType = "currency"
)

// RelationshipType is the declared cardinality of a relationship, seen
// from its "from" side.
type RelationshipType string

const (
	OneToOne   RelationshipType = "one_to_one"
	OneToMany  RelationshipType = "one_to_many"
	ManyToOne  RelationshipType = "many_to_one"
	ManyToMany RelationshipType = "many_to_many"
)

// Invert returns the cardinality as seen from the opposite endpoint.
// Only the two asymmetric cardinalities flip; one_to_one and
// many_to_many read the same from both sides.
func (t RelationshipType) Invert() RelationshipType {
	switch t {
	case OneToMany:
		return ManyToOne
	case ManyToOne:
		return OneToMany
	default:
		return t
	}
}

// CascadeAction is a referential action for on_delete / on_update.
type CascadeAction string

const (
	Cascade  CascadeAction = "cascade"
	SetNull  CascadeAction = "set_null"
	Restrict CascadeAction = "restrict"
	NoAction CascadeAction = "no_action"
)

// IndexType names an index access method.
type IndexType string

const (
	Btree  IndexType = "btree"
	Hash   IndexType = "hash"
	Gin    IndexType = "gin"
	Gist   IndexType = "gist"
	Spgist IndexType = "spgist"
	Brin   IndexType = "brin"
)

// Schema is the canonical, generator-agnostic model. It is constructed
// fresh per generation request and never mutated afterwards.
type Schema struct {
	Tables   []Table
	Metadata Metadata
}

// Metadata carries the optional document-level descriptive fields.
type Metadata struct {
	Version     string
	Author      string
	Description string
	Tags        []string
}

// Table is a processed table with defaults applied and its resolved,
// table-relative relationship views attached.
type Table struct {
	Name          string
	Fields        []Field
	Indexes       []Index
	Relationships []Relationship
}

// Field is a table column with all optional attributes defaulted.
type Field struct {
	Name            string
	Type            FieldType
	RawType         string // type token as written in the document
	IsPrimaryKey    bool
	IsUnique        bool
	IsNullable      bool
	IsAutoIncrement bool
	DefaultValue    any // string, int, float64, bool, or nil
	MaxLength       int
	Precision       int
	Scale           int
	EnumValues      []string
}

// Index is a named index over one or more fields.
type Index struct {
	Name   string
	Fields []string
	Type   IndexType // empty when the document does not specify one
}

// Relationship links two tables. Table is always the "from" side after
// endpoint-convention normalization. When attached to a table as a
// resolved view, Type reflects the cardinality as seen from that table;
// every other attribute is preserved verbatim from the declaration.
type Relationship struct {
	Name          string
	Type          RelationshipType
	Table         string
	RelatedTable  string
	FieldName     string
	ForeignKey    string
	ReferencedKey string
	OnDelete      CascadeAction
	OnUpdate      CascadeAction
}

// Other returns the endpoint opposite to tableName. For self-referential
// relationships both endpoints are the same table, so Other returns it.
func (r Relationship) Other(tableName string) string {
	if r.Table == tableName {
		return r.RelatedTable
	}
	return r.Table
}
