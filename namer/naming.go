package namer

import (
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// Namer is the function that change the name with some prepared formatting.
type Namer func(string) string

// Naming conventions names.
const (
	Snake      = "snake"
	Kebab      = "kebab"
	Camel      = "camel"
	LowerCamel = "lowercamel"
)

// NamingSnake is a Namer function that converts the 'raw' into the 'snake_case_field'.
func NamingSnake(raw string) string {
	return strcase.ToSnake(raw)
}

// NamingKebab is a Namer function that converts the 'raw' into the 'kebab-case-field'.
func NamingKebab(raw string) string {
	return strcase.ToKebab(raw)
}

// NamingCamel is a Namer function that converts the 'raw' into the 'CamelCaseField'.
func NamingCamel(raw string) string {
	return strcase.ToCamel(raw)
}

// NamingLowerCamel is a Namer function that converts the 'raw' into the 'camelCaseField'.
func NamingLowerCamel(raw string) string {
	return strcase.ToLowerCamel(raw)
}

// ByConvention gets the Namer for provided naming 'convention'.
// An empty convention resolves to the snake case. The second value reports if the convention is known.
func ByConvention(convention string) (Namer, bool) {
	switch strings.ToLower(convention) {
	case Snake, "":
		return NamingSnake, true
	case Kebab:
		return NamingKebab, true
	case Camel:
		return NamingCamel, true
	case LowerCamel:
		return NamingLowerCamel, true
	}
	return nil, false
}

// Collection gets the collection name for given datatype 'tag' - i.e. 'TimeSeriesRegion' -> 'time_series_regions'.
func Collection(n Namer, tag string) string {
	return n(inflection.Plural(tag))
}
