// Package syntax implements Harmony's line-based syntax highlighting engine.
// A Highlighter takes one line of text plus the block state carried from the
// previous line and produces formatting spans and the state for the next line.
package syntax

// Category is one of the recognized lexical classes. The set is closed:
// anything else in a grammar or theme file is a configuration error.
type Category int

const (
	CategoryKeyword Category = iota
	CategoryOperator
	CategoryBrace
	CategorySpecial
	CategoryDefinition
	CategoryString
	CategoryComment
	CategoryMultiline

	categoryCount
)

// String returns the category name as it appears in theme files.
func (c Category) String() string {
	switch c {
	case CategoryKeyword:
		return "keyword"
	case CategoryOperator:
		return "operator"
	case CategoryBrace:
		return "brace"
	case CategorySpecial:
		return "special"
	case CategoryDefinition:
		return "definition"
	case CategoryString:
		return "string"
	case CategoryComment:
		return "comment"
	case CategoryMultiline:
		return "multiline"
	default:
		return "unknown"
	}
}

// ParseCategory maps a theme-file category name to its Category.
func ParseCategory(name string) (Category, bool) {
	switch name {
	case "keyword":
		return CategoryKeyword, true
	case "operator":
		return CategoryOperator, true
	case "brace":
		return CategoryBrace, true
	case "special":
		return CategorySpecial, true
	case "definition":
		return CategoryDefinition, true
	case "string":
		return CategoryString, true
	case "comment":
		return CategoryComment, true
	case "multiline":
		return CategoryMultiline, true
	default:
		return 0, false
	}
}

// Categories returns every recognized category in application order.
// Later categories overwrite earlier ones where spans overlap, so comment
// and multiline always visually dominate nested matches.
func Categories() []Category {
	return []Category{
		CategoryKeyword,
		CategoryOperator,
		CategoryBrace,
		CategorySpecial,
		CategoryDefinition,
		CategoryString,
		CategoryComment,
		CategoryMultiline,
	}
}
