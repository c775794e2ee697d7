package toolchain

// Dialect expresses low-level intents for one compiler family. Code
// generators call the dialect instead of emitting raw keywords.
type Dialect interface {
	Family() Family
	NoReturn() string
	Weak() string
	NoInline() string
	ForceInline() string
	Likely(cond string) string
	Unlikely(cond string) string
	// HasWeakSymbols reports whether Weak() produces a real attribute.
	HasWeakSymbols() bool
	// HasBranchHints reports whether Likely/Unlikely reach the optimizer.
	HasBranchHints() bool
}

// gnuDialect spells intents as GNU attributes and builtins.
type gnuDialect struct {
	keywords map[Keyword]string
}

func (d gnuDialect) Family() Family { return FamilyGNU }
func (d gnuDialect) NoReturn() string { return d.keywords[KeywordNoReturn] }
func (d gnuDialect) Weak() string { return d.keywords[KeywordWeak] }
func (d gnuDialect) NoInline() string { return d.keywords[KeywordNoInline] }
func (d gnuDialect) ForceInline() string { return d.keywords[KeywordAlwaysInline] }
func (d gnuDialect) Likely(cond string) string { return expand(d.keywords[KeywordLikely], cond) }
func (d gnuDialect) Unlikely(cond string) string { return expand(d.keywords[KeywordUnlikely], cond) }
func (d gnuDialect) HasWeakSymbols() bool { return d.keywords[KeywordWeak] != "" }
func (d gnuDialect) HasBranchHints() bool { return d.keywords[KeywordLikely] != hintPlaceholder }

// vendorDialect spells intents as declspecs. Branch hints are advisory and
// degrade to the bare condition.
type vendorDialect struct {
	keywords map[Keyword]string
}

func (d vendorDialect) Family() Family { return FamilyVendor }
func (d vendorDialect) NoReturn() string { return d.keywords[KeywordNoReturn] }
func (d vendorDialect) Weak() string { return d.keywords[KeywordWeak] }
func (d vendorDialect) NoInline() string { return d.keywords[KeywordNoInline] }
func (d vendorDialect) ForceInline() string { return d.keywords[KeywordAlwaysInline] }
func (d vendorDialect) Likely(cond string) string { return "(" + cond + ")" }
func (d vendorDialect) Unlikely(cond string) string { return "(" + cond + ")" }
func (d vendorDialect) HasWeakSymbols() bool { return d.keywords[KeywordWeak] != "" }
func (d vendorDialect) HasBranchHints() bool { return false }
