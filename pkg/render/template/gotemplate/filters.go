package gotemplate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
)

func registerDefaultFilters() {
	defaults := map[string]pongo2.FilterFunction{
		"trim":       filterTrim,
		"lowerfirst": filterLowerFirst,
		"snakecase":  filterSnakeCase,
		"kebabcase":  filterKebabCase,
	}
	for name, fn := range defaults {
		if !pongo2.FilterExists(name) {
			_ = pongo2.RegisterFilter(name, fn)
		}
	}
}

func filterTrim(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	if in.Len() <= 0 {
		return pongo2.AsValue(""), nil
	}
	return pongo2.AsValue(strings.TrimSpace(in.String())), nil
}

func filterLowerFirst(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	t := in.String()
	trimmed := strings.TrimLeft(t, " \t\n\r")
	if trimmed == "" {
		return pongo2.AsValue(t), nil
	}
	first, size := utf8.DecodeRuneInString(trimmed)
	prefix := t[:len(t)-len(trimmed)]
	return pongo2.AsValue(prefix + string(unicode.ToLower(first)) + trimmed[size:]), nil
}

func filterSnakeCase(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(joinWords(in.String(), "_")), nil
}

func filterKebabCase(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsValue(joinWords(in.String(), "-")), nil
}

// joinWords lowercases s and joins its words with sep. Word boundaries are
// non alphanumeric runs and lower-to-upper case transitions.
func joinWords(s, sep string) string {
	var words []string
	var current []rune
	flush := func() {
		if len(current) > 0 {
			words = append(words, strings.ToLower(string(current)))
			current = current[:0]
		}
	}

	var prev rune
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r) && !unicode.IsDigit(r):
			flush()
		case unicode.IsUpper(r) && (unicode.IsLower(prev) || unicode.IsDigit(prev)):
			flush()
			current = append(current, r)
		default:
			current = append(current, r)
		}
		prev = r
	}
	flush()
	return strings.Join(words, sep)
}
