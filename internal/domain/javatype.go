package domain

import "strings"

// JSON schema kinds produced by JSONSchemaKind.
const (
	KindInteger = "integer"
	KindNumber  = "number"
	KindBoolean = "boolean"
	KindArray   = "array"
	KindObject  = "object"
	KindString  = "string"
)

var integerAliases = map[string]struct{}{
	"int": {}, "Integer": {}, "long": {}, "Long": {},
	"short": {}, "Short": {}, "byte": {}, "Byte": {},
}

var numberAliases = map[string]struct{}{
	"double": {}, "Double": {}, "float": {}, "Float": {}, "BigDecimal": {},
}

var booleanAliases = map[string]struct{}{
	"boolean": {}, "Boolean": {},
}

var collectionAliases = map[string]struct{}{
	"List": {}, "ArrayList": {}, "Set": {}, "HashSet": {}, "Collection": {},
}

var mapAliases = map[string]struct{}{
	"Map": {}, "HashMap": {}, "TreeMap": {},
}

// JSONSchemaKind maps a Java type name to a JSON schema kind. The
// classification is total: anything unrecognized (custom classes included)
// falls back to "string". Checks run in priority order, so a generic type
// such as Map<String, Long> classifies as array because the generic marker
// is tested before the map aliases.
func JSONSchemaKind(javaType string) string {
	switch {
	case contains(integerAliases, javaType):
		return KindInteger
	case contains(numberAliases, javaType):
		return KindNumber
	case contains(booleanAliases, javaType):
		return KindBoolean
	case contains(collectionAliases, javaType) || strings.Contains(javaType, "<"):
		return KindArray
	case contains(mapAliases, javaType):
		return KindObject
	default:
		return KindString
	}
}

func contains(set map[string]struct{}, key string) bool {
	_, ok := set[key]
	return ok
}
