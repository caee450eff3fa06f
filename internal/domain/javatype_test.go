package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/brsantos/springmcp/internal/domain"
)

func TestJSONSchemaKind(t *testing.T) {
	assert := assert.New(t)

	tests := []struct {
		javaType string
		want     string
	}{
		// Integer aliases
		{"int", domain.KindInteger},
		{"Integer", domain.KindInteger},
		{"long", domain.KindInteger},
		{"Long", domain.KindInteger},
		{"short", domain.KindInteger},
		{"Short", domain.KindInteger},
		{"byte", domain.KindInteger},
		{"Byte", domain.KindInteger},
		// Number aliases
		{"double", domain.KindNumber},
		{"Double", domain.KindNumber},
		{"float", domain.KindNumber},
		{"Float", domain.KindNumber},
		{"BigDecimal", domain.KindNumber},
		// Boolean aliases
		{"boolean", domain.KindBoolean},
		{"Boolean", domain.KindBoolean},
		// Collections and generics
		{"List", domain.KindArray},
		{"ArrayList", domain.KindArray},
		{"Set", domain.KindArray},
		{"HashSet", domain.KindArray},
		{"Collection", domain.KindArray},
		{"List<String>", domain.KindArray},
		// Generic marker wins over the map aliases by priority order.
		{"Map<String, Long>", domain.KindArray},
		// Raw map aliases
		{"Map", domain.KindObject},
		{"HashMap", domain.KindObject},
		{"TreeMap", domain.KindObject},
		// Everything else is a string
		{"String", domain.KindString},
		{"UserDto", domain.KindString},
		{"", domain.KindString},
		{"com.example.Thing", domain.KindString},
	}

	for _, tt := range tests {
		assert.Equal(tt.want, domain.JSONSchemaKind(tt.javaType), "JSONSchemaKind(%q)", tt.javaType)
	}
}

func TestJSONSchemaKindIsDeterministic(t *testing.T) {
	// Same input, same output, every time.
	for range 3 {
		assert.Equal(t, domain.KindInteger, domain.JSONSchemaKind("Long"))
		assert.Equal(t, domain.KindString, domain.JSONSchemaKind("Widget"))
	}
}
