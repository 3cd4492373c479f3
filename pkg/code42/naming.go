package code42

import (
	"strings"
	"unicode"
)

// NamingConvention converts attribute names between the internal form used by
// resources and the form used on the wire. It only renames keys; deciding which
// keys survive is the Schema's job.
type NamingConvention struct {
	ToWire     func(name string) string
	ToInternal func(name string) string
}

// SnakeCamel maps snake_case internal names to lowerCamelCase wire names.
var SnakeCamel = NamingConvention{
	ToWire:     LowerCamel,
	ToInternal: Snake,
}

// Identity leaves names untouched in both directions.
var Identity = NamingConvention{
	ToWire:     func(name string) string { return name },
	ToInternal: func(name string) string { return name },
}

// Snake converts an identifier to snake_case.
//
//	"parentOrgId" -> "parent_org_id"
//	"XMLParser"   -> "xml_parser"
func Snake(name string) string {
	tokens := splitWords(name)
	for i, token := range tokens {
		tokens[i] = strings.ToLower(token)
	}

	return strings.Join(tokens, "_")
}

// LowerCamel converts an identifier to lowerCamelCase.
//
//	"parent_org_id" -> "parentOrgId"
func LowerCamel(name string) string {
	tokens := splitWords(name)
	if len(tokens) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString(strings.ToLower(tokens[0]))

	for _, token := range tokens[1:] {
		b.WriteString(capitalize(token))
	}

	return b.String()
}

// Camel converts an identifier to UpperCamelCase.
//
//	"invalid_token" -> "InvalidToken"
func Camel(name string) string {
	var b strings.Builder

	for _, token := range splitWords(name) {
		b.WriteString(capitalize(token))
	}

	return b.String()
}

func capitalize(token string) string {
	runes := []rune(strings.ToLower(token))
	if len(runes) == 0 {
		return ""
	}

	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// splitWords splits an identifier on separators and case transitions.
//
//	"orgUid"        -> ["org", "Uid"]
//	"getHTTPStatus" -> ["get", "HTTP", "Status"]
//	"parent_org-id" -> ["parent", "org", "id"]
func splitWords(s string) []string {
	if s == "" {
		return nil
	}

	var (
		tokens  []string
		current strings.Builder
	)

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsWord(runes, i) && current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' ' || r == '.'
}

func startsWord(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]

	if !unicode.IsUpper(r) || isSeparator(prev) {
		return false
	}

	// lower -> Upper: "orgUid"
	if !unicode.IsUpper(prev) {
		return true
	}

	// end of an acronym: "HTTPStatus" splits before 'S'
	return i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
