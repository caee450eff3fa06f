package domain

// Schema is the normalized, framework-agnostic description of a scanned
// Spring Boot application. It is the sole artifact handed from the scanning
// pipeline to the proxy; once assembled it is treated as immutable.
type Schema struct {
	// Name identifies the server the schema was generated for.
	Name string `json:"name"`

	// Endpoints lists every discovered operation in extraction order.
	// Duplicate (method, path) pairs are preserved as-is.
	Endpoints []Endpoint `json:"endpoints"`

	// Models maps a model class name to its field descriptors.
	// Consumers must treat this as advisory; it is never used to validate
	// requests.
	Models map[string][]Field `json:"models"`
}

// Endpoint describes one externally reachable operation recovered from a
// controller class.
type Endpoint struct {
	// Path is the absolute route (class-level prefix + method-level path).
	// Always starts with "/".
	Path string `json:"path"`

	// Method is the HTTP verb: GET, POST, PUT, DELETE or PATCH.
	Method string `json:"method"`

	// MethodName is the Java method identifier. Only used for
	// documentation lookup, never for routing.
	MethodName string `json:"methodName"`

	// Parameters lists the method arguments relevant to the call shape,
	// in declaration order.
	Parameters []Parameter `json:"parameters"`

	// ResponseType is the best-effort Java return type name. Defaults to
	// "Object" when it could not be resolved.
	ResponseType string `json:"responseType"`

	// Description is the text mined from the preceding Javadoc comment, or
	// a generated "<METHOD> endpoint for <path>" fallback.
	Description string `json:"description"`
}

// Parameter describes one method argument. At most one of PathVariable and
// RequestParam is set; IsBody may coexist with neither.
type Parameter struct {
	// Name is the Java identifier with any trailing ";" stripped.
	Name string `json:"name"`

	// Type is the raw Java type token. It is not schema-mapped at this
	// stage.
	Type string `json:"type"`

	// IsBody is true when the argument carries @RequestBody.
	IsBody bool `json:"isBody"`

	// PathVariable holds the path-template variable name when the argument
	// carries @PathVariable. It defaults to Name when the annotation omits
	// an explicit name.
	PathVariable string `json:"pathVariable,omitempty"`

	// RequestParam holds the query parameter name when the argument
	// carries @RequestParam.
	RequestParam string `json:"requestParam,omitempty"`

	// Required reports whether a query parameter is mandatory. Defaults to
	// true unless the annotation says required = false. Only meaningful
	// when RequestParam is set.
	Required *bool `json:"required,omitempty"`
}

// Field is one schema-mapped model field.
type Field struct {
	Name string `json:"name"`
	// Type is a JSON schema kind: integer, number, boolean, array, object
	// or string.
	Type string `json:"type"`
}

// ScanResult aggregates everything a project scan recovered.
type ScanResult struct {
	// BasePackage is the application's base Java package, derived from the
	// @SpringBootApplication entry point. Empty when no entry point was
	// found; informational only.
	BasePackage string

	Endpoints []Endpoint
	Models    map[string][]Field
}

// NewSchema assembles the schema document from scan output. No validation
// is performed; a schema with zero endpoints is valid and simply means no
// controllers were discovered.
func NewSchema(name string, endpoints []Endpoint, models map[string][]Field) Schema {
	if endpoints == nil {
		endpoints = []Endpoint{}
	}
	if models == nil {
		models = map[string][]Field{}
	}
	return Schema{
		Name:      name,
		Endpoints: endpoints,
		Models:    models,
	}
}
