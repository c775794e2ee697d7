package toolchain

import "strings"

// Keyword is a logical low-level intent that each compiler spells differently.
type Keyword string

const (
	KeywordNoReturn     Keyword = "noreturn"
	KeywordWeak         Keyword = "weak"
	KeywordNoInline     Keyword = "noinline"
	KeywordAlwaysInline Keyword = "always_inline"
	KeywordLikely       Keyword = "likely"
	KeywordUnlikely     Keyword = "unlikely"
	KeywordRestrict     Keyword = "restrict"
	KeywordInline       Keyword = "inline"
	KeywordAlignOf      Keyword = "alignof"
)

// RequiredKeywords lists every keyword the resolved configuration references.
// Each must have an entry (possibly empty) in a compiler's keyword map.
var RequiredKeywords = []Keyword{
	KeywordNoReturn,
	KeywordWeak,
	KeywordNoInline,
	KeywordAlwaysInline,
	KeywordLikely,
	KeywordUnlikely,
	KeywordRestrict,
	KeywordInline,
	KeywordAlignOf,
}

// hintPlaceholder is the argument slot in hint templates.
const hintPlaceholder = "(x)"

// expand substitutes cond into a hint template such as "__builtin_expect((x), 1)".
func expand(template, cond string) string {
	if template == "" {
		return "(" + cond + ")"
	}
	return strings.ReplaceAll(template, hintPlaceholder, "("+cond+")")
}
