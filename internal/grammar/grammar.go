// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     grammar
// Description: Operator, keyword and function tables of one interpreter
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package grammar holds the extensible dispatch tables the interpreter
// consults: operators with explicit precedence and associativity, the
// control-flow keywords and the built-in functions. Each interpreter owns
// its own Grammar, so registering an extension in one instance never
// affects another.
package grammar

// Grammar bundles the three dispatch tables
type Grammar struct {
	Operators *OperatorTable
	Keywords  *KeywordTable
	Functions *FunctionTable
}

// Default returns a fresh grammar with the standard operators, the
// if/while/for keywords and the println/sqrt/abs/max/min built-ins.
func Default() *Grammar {
	return &Grammar{
		Operators: defaultOperators(),
		Keywords:  defaultKeywords(),
		Functions: defaultFunctions(),
	}
}

// OperatorSymbols lists operator symbols longest first
func (g *Grammar) OperatorSymbols() []string {
	return g.Operators.Symbols()
}

// KeywordNames lists keyword names
func (g *Grammar) KeywordNames() []string {
	return g.Keywords.Names()
}
