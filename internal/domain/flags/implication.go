package flags

// Implication constrains a dependent value whenever a flag is enabled.
// Require is a boolean expr-lang expression over the Env.
type Implication struct {
	When    string
	Require string
	Message string
}

// Implies builds an Implication.
func Implies(when, require, message string) Implication {
	return Implication{When: when, Require: require, Message: message}
}
