package javasrc

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/brsantos/springmcp/internal/domain"
)

var (
	controllerRe = regexp.MustCompile(`@(RestController|Controller)\b`)

	classMappingRe = regexp.MustCompile(`@RequestMapping\s*\(\s*(?:value\s*=)?\s*"([^"]+)"\s*\)`)

	// Verb-specific route annotations, matched in this fixed order. The
	// order determines endpoint ordering within a file.
	verbPatterns = []struct {
		re     *regexp.Regexp
		method string
	}{
		{regexp.MustCompile(`@GetMapping\s*\(\s*(?:value\s*=)?\s*"([^"]+)"\s*\)`), "GET"},
		{regexp.MustCompile(`@PostMapping\s*\(\s*(?:value\s*=)?\s*"([^"]+)"\s*\)`), "POST"},
		{regexp.MustCompile(`@PutMapping\s*\(\s*(?:value\s*=)?\s*"([^"]+)"\s*\)`), "PUT"},
		{regexp.MustCompile(`@DeleteMapping\s*\(\s*(?:value\s*=)?\s*"([^"]+)"\s*\)`), "DELETE"},
		{regexp.MustCompile(`@PatchMapping\s*\(\s*(?:value\s*=)?\s*"([^"]+)"\s*\)`), "PATCH"},
	}

	javadocRe = regexp.MustCompile(`(?s)/\*\*(.*?)\*/`)

	methodNameRe = regexp.MustCompile(`(?:public|private|protected)?\s+\w+\s+(\w+)\s*\(`)
	returnTypeRe = regexp.MustCompile(`(?:public|private|protected)?\s+(\w+(?:<.*?>)?)\s+\w+\s*\(`)

	pathVariableRe = regexp.MustCompile(`@PathVariable\s*(?:\(\s*(?:name|value)\s*=\s*"([^"]+)"\s*\))?`)
	requestParamRe = regexp.MustCompile(`@RequestParam\s*(?:\(\s*(?:name|value)\s*=\s*"([^"]+)"\s*(?:,\s*required\s*=\s*(true|false))?\s*\))?`)
)

// IsController reports whether the file text declares a Spring controller.
// Files without the marker never reach the endpoint extractor.
func IsController(content string) bool {
	return controllerRe.MatchString(content)
}

// EndpointExtractor recovers endpoint metadata from one controller file's
// text.
type EndpointExtractor struct {
	logger *slog.Logger
}

// NewEndpointExtractor creates an EndpointExtractor.
func NewEndpointExtractor(logger *slog.Logger) *EndpointExtractor {
	return &EndpointExtractor{
		logger: logger.With("component", "endpoint_extractor"),
	}
}

// Extract returns every endpoint declared in the file, in verb-pattern
// order first and left-to-right occurrence within each verb. A match that
// cannot be turned into an endpoint is logged and skipped; extraction
// continues with the remaining matches.
func (e *EndpointExtractor) Extract(content string) []domain.Endpoint {
	classPrefix := classLevelPrefix(content)
	descriptions := javadocDescriptions(content)

	var endpoints []domain.Endpoint
	for _, vp := range verbPatterns {
		for _, loc := range vp.re.FindAllStringSubmatchIndex(content, -1) {
			methodPath := content[loc[2]:loc[3]]
			ep, err := e.buildEndpoint(content, loc[1], vp.method, methodPath, classPrefix, descriptions)
			if err != nil {
				e.logger.Error("Skipping route mapping.",
					slog.String("method", vp.method),
					slog.String("path", methodPath),
					slog.Any("error", err))
				continue
			}
			endpoints = append(endpoints, ep)
		}
	}
	return endpoints
}

// buildEndpoint turns one route-annotation match into an Endpoint. scopeFrom
// is the offset just past the annotation; the method's signature and body
// are isolated with a depth-aware brace scan starting there.
func (e *EndpointExtractor) buildEndpoint(content string, scopeFrom int, method, methodPath, classPrefix string, descriptions map[string]string) (domain.Endpoint, error) {
	scope := methodScope(content, scopeFrom)

	nameMatch := methodNameRe.FindStringSubmatchIndex(scope)
	if nameMatch == nil {
		return domain.Endpoint{}, fmt.Errorf("no method signature after annotation")
	}
	methodName := scope[nameMatch[2]:nameMatch[3]]

	responseType := "Object"
	if rt := returnTypeRe.FindStringSubmatch(scope); rt != nil {
		responseType = rt[1]
	}

	params := extractParameters(scope, nameMatch[1])

	if !strings.HasPrefix(methodPath, "/") {
		methodPath = "/" + methodPath
	}
	fullPath := methodPath
	if classPrefix != "" {
		fullPath = classPrefix + methodPath
	}

	description, ok := descriptions[methodName]
	if !ok {
		description = fmt.Sprintf("%s endpoint for %s", method, fullPath)
	}

	return domain.Endpoint{
		Path:         fullPath,
		Method:       method,
		MethodName:   methodName,
		Parameters:   params,
		ResponseType: responseType,
		Description:  description,
	}, nil
}

// classLevelPrefix resolves the class-scoped @RequestMapping path, if any,
// normalized to start with "/".
func classLevelPrefix(content string) string {
	m := classMappingRe.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	prefix := m[1]
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

// javadocDescriptions maps method names to the flattened text of the
// Javadoc block immediately preceding them. Each block binds to the first
// method signature that follows its end offset; blocks without a
// non-directive description line are ignored.
func javadocDescriptions(content string) map[string]string {
	descriptions := make(map[string]string)
	for _, loc := range javadocRe.FindAllStringSubmatchIndex(content, -1) {
		block := content[loc[2]:loc[3]]

		var sb strings.Builder
		for _, line := range strings.Split(block, "\n") {
			line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*"))
			if line != "" && !strings.HasPrefix(line, "@") {
				sb.WriteString(line)
				sb.WriteString(" ")
			}
		}
		description := strings.TrimSpace(sb.String())
		if description == "" {
			continue
		}

		if m := methodNameRe.FindStringSubmatch(content[loc[1]:]); m != nil {
			descriptions[m[1]] = description
		}
	}
	return descriptions
}

// methodScope slices the text covering one method's signature and body,
// starting just past its route annotation. The body is delimited with a
// depth-aware brace scan, so nested blocks inside the method do not
// truncate the scope. When no opening brace follows (abstract or truncated
// source), the scope runs to the end of the text.
func methodScope(content string, from int) string {
	open := strings.IndexByte(content[from:], '{')
	if open < 0 {
		return content[from:]
	}
	end := matchingBrace(content, from+open+1)
	return content[from:end]
}

// matchingBrace returns the offset just past the brace closing the block
// whose body starts at start (depth already one). String, char and comment
// regions are ignored while counting.
func matchingBrace(content string, start int) int {
	depth := 1
	inString := false
	inChar := false
	inLineComment := false
	inBlockComment := false
	escaped := false

	for i := start; i < len(content); i++ {
		c := content[i]

		switch {
		case inLineComment:
			if c == '\n' {
				inLineComment = false
			}
		case inBlockComment:
			if c == '*' && i+1 < len(content) && content[i+1] == '/' {
				inBlockComment = false
				i++
			}
		case inString:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
		case inChar:
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '\'':
				inChar = false
			}
		default:
			switch c {
			case '/':
				if i+1 < len(content) {
					switch content[i+1] {
					case '/':
						inLineComment = true
						i++
					case '*':
						inBlockComment = true
						i++
					}
				}
			case '"':
				inString = true
				escaped = false
			case '\'':
				inChar = true
				escaped = false
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	}
	return len(content)
}

// extractParameters parses the argument list that starts at the opening
// parenthesis at parenFrom within scope. Tokens are split on commas; this
// is a simple split, not generic-aware, so a Map<String, String> argument
// splits incorrectly. Each non-empty token contributes its last two
// whitespace-separated words as type and name.
func extractParameters(scope string, parenFrom int) []domain.Parameter {
	open := strings.IndexByte(scope[parenFrom-1:], '(')
	if open < 0 {
		return nil
	}
	start := parenFrom - 1 + open + 1

	depth := 1
	end := len(scope)
scan:
	for i := start; i < len(scope); i++ {
		switch scope[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
				break scan
			}
		}
	}
	paramText := strings.TrimSpace(scope[start:end])
	if paramText == "" {
		return nil
	}

	var params []domain.Parameter
	for _, token := range strings.Split(paramText, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		words := strings.Fields(token)
		if len(words) < 2 {
			continue
		}
		paramType := words[len(words)-2]
		paramName := strings.ReplaceAll(words[len(words)-1], ";", "")

		param := domain.Parameter{
			Name:   paramName,
			Type:   paramType,
			IsBody: strings.Contains(token, "@RequestBody"),
		}

		if pv := pathVariableRe.FindStringSubmatch(token); pv != nil {
			param.PathVariable = pv[1]
			if param.PathVariable == "" {
				param.PathVariable = paramName
			}
		} else if rp := requestParamRe.FindStringSubmatch(token); rp != nil {
			param.RequestParam = rp[1]
			if param.RequestParam == "" {
				param.RequestParam = paramName
			}
			required := rp[2] != "false"
			param.Required = &required
		}

		params = append(params, param)
	}
	return params
}
