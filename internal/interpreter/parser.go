package interpreter

import (
	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/env"
	"github.com/msto63/rhl/internal/grammar"
	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
)

// parser evaluates a token sequence while parsing it. Loops re-enter
// already parsed input by moving the cursor back. It implements
// grammar.Cursor for keyword handlers.
type parser struct {
	in     *Interpreter
	tokens []token.Token
	pos    int
	out    *effectWriter

	// matching '}' index per '{' index
	blockEnds map[int]int

	steps int
}

var _ grammar.Cursor = (*parser)(nil)

func newParser(in *Interpreter, tokens []token.Token, out *effectWriter) *parser {
	return &parser{
		in:        in,
		tokens:    normalize(tokens),
		out:       out,
		blockEnds: make(map[int]int),
	}
}

// normalize drops comments and guarantees an EOF sentinel
func normalize(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens)+1)
	for _, t := range tokens {
		if t.Kind == token.Comment {
			continue
		}
		out = append(out, t)
		if t.Kind == token.EOF {
			return out
		}
	}
	var end token.Position
	if n := len(out); n > 0 {
		last := out[n-1]
		end = last.Pos
		end.Offset += last.Len
		end.Col += last.Len
	} else {
		end = token.Position{Line: 1, Col: 1}
	}
	return append(out, token.Token{Kind: token.EOF, Pos: end})
}

// Cursor

func (p *parser) Current() token.Token { return p.tokens[p.pos] }

func (p *parser) Advance() token.Token {
	t := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return t
}

func (p *parser) Index() int { return p.pos }

func (p *parser) Seek(index int) {
	switch {
	case index < 0:
		index = 0
	case index >= len(p.tokens):
		index = len(p.tokens) - 1
	}
	p.pos = index
}

func (p *parser) peek(n int) token.Token {
	i := p.pos + n
	if i >= len(p.tokens) {
		i = len(p.tokens) - 1
	}
	return p.tokens[i]
}

func (p *parser) atEOF() bool { return p.Current().Kind == token.EOF }

func (p *parser) Env() *env.Environment { return p.in.env }

func (p *parser) Tick() error {
	p.steps++
	if p.in.maxSteps > 0 && p.steps > p.in.maxSteps {
		return at(p.Current(), grammar.Errorf(rhlerr.CodeStepLimit,
			"step limit of %d exceeded", p.in.maxSteps).WithDetail("max_steps", p.in.maxSteps))
	}
	return nil
}

// checkText rejects text results longer than the configured bound
func (p *parser) checkText(opTok token.Token, v value.Value) error {
	t, ok := v.(value.Text)
	if !ok || p.in.maxTextLen <= 0 || len(t) <= p.in.maxTextLen {
		return nil
	}
	return at(opTok, grammar.Errorf(rhlerr.CodeTextLimit,
		"text of %d bytes exceeds the limit of %d", len(t), p.in.maxTextLen).
		WithDetail("max_text_len", p.in.maxTextLen))
}

func (p *parser) Expect(group token.Group) (token.Token, error) {
	cur := p.Current()
	if cur.IsGroup(group) {
		return p.Advance(), nil
	}
	if cur.Kind == token.EOF {
		return cur, endOfInput(cur, "expected '%s'", group.Symbol())
	}
	return cur, syntaxError(cur, "expected '%s', got %s", group.Symbol(), describe(cur))
}

func (p *parser) ExpectIdentifier(name string) (token.Token, error) {
	cur := p.Current()
	if cur.Kind == token.Identifier && (name == "" || cur.Text() == name) {
		return p.Advance(), nil
	}
	want := "identifier"
	if name != "" {
		want = "'" + name + "'"
	}
	if cur.Kind == token.EOF {
		return cur, endOfInput(cur, "expected %s", want)
	}
	return cur, syntaxError(cur, "expected %s, got %s", want, describe(cur))
}

func (p *parser) ParseExpression() (value.Value, error) {
	v, _, err := p.statement()
	return v, err
}

// blockEnd finds the '}' matching the '{' at index open by counting brace
// tokens. Braces inside strings and comments are separate tokens kinds and
// never counted.
func (p *parser) blockEnd(open int) (int, error) {
	if end, ok := p.blockEnds[open]; ok {
		return end, nil
	}
	depth := 0
	for i := open; i < len(p.tokens); i++ {
		t := p.tokens[i]
		switch {
		case t.IsGroup(token.LBrace):
			depth++
		case t.IsGroup(token.RBrace):
			depth--
			if depth == 0 {
				p.blockEnds[open] = i
				return i, nil
			}
		case t.Kind == token.EOF:
			return 0, endOfInput(p.tokens[open], "unterminated block")
		}
	}
	return 0, endOfInput(p.tokens[open], "unterminated block")
}

func (p *parser) ExecBlock() error {
	if _, err := p.Expect(token.LBrace); err != nil {
		return err
	}
	open := p.pos - 1
	end, err := p.blockEnd(open)
	if err != nil {
		return err
	}
	for p.pos < end {
		if p.Current().Kind == token.Semicolon {
			p.Advance()
			continue
		}
		if err := p.Tick(); err != nil {
			return err
		}
		if _, _, err := p.statement(); err != nil {
			return err
		}
		if p.pos > end {
			return syntaxError(p.tokens[end], "statement runs past the end of its block")
		}
	}
	p.pos = end + 1
	return nil
}

func (p *parser) SkipBlock() error {
	cur := p.Current()
	if !cur.IsGroup(token.LBrace) {
		_, err := p.Expect(token.LBrace)
		return err
	}
	end, err := p.blockEnd(p.pos)
	if err != nil {
		return err
	}
	p.pos = end + 1
	return nil
}

// Expressions

// statement parses one expression, including assignment, and evaluates
// it. A non-nil Assignment is returned when the statement assigned.
func (p *parser) statement() (value.Value, *Assignment, error) {
	name := p.Current()
	if name.Kind == token.Identifier {
		if op, ok := p.assignOperator(p.peek(1)); ok {
			return p.assignment(name, op)
		}
	}

	v, err := p.binary(grammar.PrecOr)
	if err != nil {
		return nil, nil, err
	}
	if _, ok := p.assignOperator(p.Current()); ok {
		return nil, nil, syntaxError(p.Current(), "left side of '%s' must be a variable", p.Current().Text())
	}
	return v, nil, nil
}

func (p *parser) assignOperator(t token.Token) (*grammar.Operator, bool) {
	if t.Kind != token.Operator {
		return nil, false
	}
	op, ok := p.in.grammar.Operators.Lookup(t.Text())
	if !ok || !op.Assign {
		return nil, false
	}
	return op, true
}

// assignment handles name OP rhs; assignment is right-associative, so
// the right side is itself a statement.
func (p *parser) assignment(name token.Token, op *grammar.Operator) (value.Value, *Assignment, error) {
	p.Advance()
	opTok := p.Advance()

	rhs, _, err := p.statement()
	if err != nil {
		return nil, nil, err
	}

	if op.Compound != "" {
		old, err := p.in.env.Get(name.Text())
		if err != nil {
			return nil, nil, at(name, err)
		}
		bin, ok := p.in.grammar.Operators.Lookup(op.Compound)
		if !ok || bin.Binary == nil {
			return nil, nil, unknownOperator(opTok, op.Compound)
		}
		if rhs, err = bin.Binary(old, rhs); err != nil {
			return nil, nil, at(opTok, err)
		}
		if err := p.checkText(opTok, rhs); err != nil {
			return nil, nil, err
		}
	}

	p.in.env.Set(name.Text(), rhs)
	return rhs, &Assignment{Name: name.Text(), Value: rhs}, nil
}

// binary is precedence climbing over the operator table
func (p *parser) binary(minPrec int) (value.Value, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}

	for {
		opTok := p.Current()
		if opTok.Kind != token.Operator {
			return left, nil
		}
		op, ok := p.in.grammar.Operators.Lookup(opTok.Text())
		if !ok {
			return nil, unknownOperator(opTok, opTok.Text())
		}
		if !op.IsBinary() || op.Precedence < minPrec {
			return left, nil
		}
		p.Advance()

		next := op.Precedence + 1
		if op.Assoc == grammar.RightAssoc {
			next = op.Precedence
		}
		right, err := p.binary(next)
		if err != nil {
			return nil, err
		}
		if left, err = op.Binary(left, right); err != nil {
			return nil, at(opTok, err)
		}
		if err := p.checkText(opTok, left); err != nil {
			return nil, err
		}
	}
}

func (p *parser) unary() (value.Value, error) {
	opTok := p.Current()
	if opTok.Kind != token.Operator {
		return p.primary()
	}
	op, ok := p.in.grammar.Operators.Lookup(opTok.Text())
	if !ok {
		return nil, unknownOperator(opTok, opTok.Text())
	}
	if op.Unary == nil {
		return nil, syntaxError(opTok, "unexpected operator '%s'", opTok.Text())
	}
	p.Advance()
	operand, err := p.unary()
	if err != nil {
		return nil, err
	}
	v, err := op.Unary(operand)
	if err != nil {
		return nil, at(opTok, err)
	}
	return v, nil
}

func (p *parser) primary() (value.Value, error) {
	t := p.Current()
	switch t.Kind {
	case token.EOF:
		return nil, endOfInput(t, "expected an expression")

	case token.Integer, token.Float, token.String, token.Boolean:
		p.Advance()
		return t.Value, nil

	case token.Identifier:
		p.Advance()
		if p.Current().IsGroup(token.LParen) {
			return p.call(t)
		}
		v, err := p.in.env.Get(t.Text())
		if err != nil {
			return nil, at(t, err)
		}
		return v, nil

	case token.Keyword:
		p.Advance()
		h, ok := p.in.grammar.Keywords.Lookup(t.Text())
		if !ok {
			return nil, at(t, grammar.UnknownKeyword(t.Text()))
		}
		v, err := h.Execute(p)
		if err != nil {
			return nil, at(t, err)
		}
		if v == nil {
			v = value.Null{}
		}
		return v, nil

	case token.Paren:
		switch t.Group {
		case token.LParen:
			p.Advance()
			v, err := p.ParseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.Expect(token.RParen); err != nil {
				return nil, err
			}
			return v, nil
		case token.LBracket:
			p.Advance()
			elems, err := p.arguments(token.RBracket)
			if err != nil {
				return nil, err
			}
			return value.List(elems), nil
		}
	}
	return nil, syntaxError(t, "unexpected %s", describe(t))
}

// arguments parses "e1, e2, ..." up to and including the closing bracket.
// The opening bracket has been consumed.
func (p *parser) arguments(closer token.Group) ([]value.Value, error) {
	args := []value.Value{}
	if p.Current().IsGroup(closer) {
		p.Advance()
		return args, nil
	}
	for {
		v, err := p.ParseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, v)
		if p.Current().Kind != token.Comma {
			break
		}
		p.Advance()
	}
	if _, err := p.Expect(closer); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) call(name token.Token) (value.Value, error) {
	fn, ok := p.in.grammar.Functions.Lookup(name.Text())
	if !ok {
		return nil, at(name, grammar.Errorf(rhlerr.CodeUnknownFunction,
			"unknown function '%s'", name.Text()).WithDetail("function", name.Text()))
	}
	p.Advance()
	args, err := p.arguments(token.RParen)
	if err != nil {
		return nil, err
	}

	v, err := fn.Call(&grammar.CallContext{
		Name:   name.Text(),
		Output: p.out,
		Logger: p.in.logger,
	}, args)
	if err != nil {
		return nil, at(name, err)
	}
	if v == nil {
		v = value.Null{}
	}
	return v, nil
}
