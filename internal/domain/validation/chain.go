// Package validation holds the ordered request checks that gate the talker
// and login endpoints.
//
// A Chain evaluates its rules in declaration order and stops at the first
// rule that rejects the input. Order and messages are part of the public
// API contract: clients match on the exact message text.
package validation

// Failure is produced by the first rule of a chain that rejects its input.
type Failure struct {
	Chain   string
	Rule    string
	Status  int
	Message string
}

func (f *Failure) Error() string { return f.Message }

// Rule is one check of a chain. Reject reports whether the input fails it.
type Rule[T any] struct {
	Name    string
	Status  int
	Message string
	Reject  func(T) bool
}

// Chain is an ordered, short-circuiting sequence of rules.
type Chain[T any] struct {
	name  string
	rules []Rule[T]
}

// NewChain builds a chain named name from rules, evaluated in the given order.
func NewChain[T any](name string, rules ...Rule[T]) *Chain[T] {
	return &Chain[T]{name: name, rules: rules}
}

// Name returns the chain name.
func (c *Chain[T]) Name() string { return c.name }

// RuleNames lists rule names in evaluation order.
func (c *Chain[T]) RuleNames() []string {
	names := make([]string, len(c.rules))
	for i, r := range c.rules {
		names[i] = r.Name
	}
	return names
}

// Validate returns the failure of the first rejecting rule, or nil.
func (c *Chain[T]) Validate(in T) *Failure {
	for _, r := range c.rules {
		if r.Reject(in) {
			return &Failure{Chain: c.name, Rule: r.Name, Status: r.Status, Message: r.Message}
		}
	}
	return nil
}
