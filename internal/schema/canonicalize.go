package schema

import "sort"

// canonicalTypes is the supported field type vocabulary. Generators must
// handle every entry; the validator rejects anything that is neither a
// member nor an alias of a member.
var canonicalTypes = map[FieldType]bool{
	TypeString:   true,
	TypeInteger:  true,
	TypeFloat:    true,
	TypeBoolean:  true,
	TypeDatetime: true,
	TypeDate:     true,
	TypeTime:     true,
	TypeText:     true,
	TypeUUID:     true,
	TypeJSON:     true,
	TypeArray:    true,
	TypeEnum:     true,
	TypeDecimal:  true,
	TypeBinary:   true,
	TypePoint:    true,
	TypeGeometry: true,
	TypeEmail:    true,
	TypeURL:      true,
	TypeIP:       true,
	TypeMAC:      true,
	TypePhone:    true,
	TypeCurrency: true,
}

// typeAliases maps legacy and alternate type spellings to canonical
// types. The table is flat: one token, one canonical type.
var typeAliases = map[string]FieldType{
	"guid":             TypeUUID,
	"uniqueidentifier": TypeUUID,
	"jsonb":            TypeJSON,
	"json_type":        TypeJSON,
	"list":             TypeArray,
	"set":              TypeArray,
	"choice":           TypeEnum,
	"select":           TypeEnum,
	"numeric":          TypeDecimal,
	"money":            TypeDecimal,
	"blob":             TypeBinary,
	"bytea":            TypeBinary,
	"varbinary":        TypeBinary,
	"geography":        TypeGeometry,
	"line":             TypeGeometry,
	"polygon":          TypeGeometry,
	"mail":             TypeEmail,
	"uri":              TypeURL,
	"link":             TypeURL,
	"inet":             TypeIP,
	"ipaddress":        TypeIP,
	"macaddress":       TypeMAC,
	"telephone":        TypePhone,
	"price":            TypeCurrency,
}

// Canonicalize resolves a field type token to its canonical type.
// Canonical names resolve to themselves; alias spellings resolve through
// the alias table; anything else reports false.
func Canonicalize(token string) (FieldType, bool) {
	if canonicalTypes[FieldType(token)] {
		return FieldType(token), true
	}
	if t, ok := typeAliases[token]; ok {
		return t, true
	}
	return "", false
}

// SupportedTypes returns the canonical type names in sorted order, for
// use in diagnostics.
func SupportedTypes() []string {
	names := make([]string, 0, len(canonicalTypes))
	for t := range canonicalTypes {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}
