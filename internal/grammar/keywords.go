package grammar

import (
	"sort"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/internal/env"
	"github.com/msto63/rhl/internal/token"
	"github.com/msto63/rhl/internal/value"
)

// Cursor is the view of the running parser a keyword handler works with.
// Handlers are invoked with the cursor just past the keyword token and
// must leave it just past the construct they consumed.
type Cursor interface {
	// Current returns the token under the cursor
	Current() token.Token
	// Advance consumes and returns the current token
	Advance() token.Token
	// Index is the cursor position in the token sequence
	Index() int
	// Seek moves the cursor; rewinding re-enters already lexed input
	Seek(index int)

	// Expect consumes a bracket of the given group or fails
	Expect(group token.Group) (token.Token, error)
	// ExpectIdentifier consumes an identifier, optionally with a fixed name
	ExpectIdentifier(name string) (token.Token, error)

	// ParseExpression parses and evaluates one expression
	ParseExpression() (value.Value, error)
	// ExecBlock executes the {...} block at the cursor
	ExecBlock() error
	// SkipBlock moves past the {...} block at the cursor without executing it
	SkipBlock() error

	// Env is the interpreter's variable scope
	Env() *env.Environment
	// Tick charges one unit against the step budget
	Tick() error
}

// KeywordHandler implements a control-flow keyword
type KeywordHandler interface {
	Execute(c Cursor) (value.Value, error)
}

// KeywordFunc adapts a function to KeywordHandler
type KeywordFunc func(c Cursor) (value.Value, error)

// Execute calls f(c)
func (f KeywordFunc) Execute(c Cursor) (value.Value, error) { return f(c) }

// KeywordTable maps keyword names to handlers
type KeywordTable struct {
	entries map[string]KeywordHandler
}

// NewKeywordTable returns an empty table
func NewKeywordTable() *KeywordTable {
	return &KeywordTable{entries: make(map[string]KeywordHandler)}
}

// Register adds or replaces a keyword
func (t *KeywordTable) Register(name string, h KeywordHandler) {
	t.entries[name] = h
}

// Lookup returns the handler for name
func (t *KeywordTable) Lookup(name string) (KeywordHandler, bool) {
	h, ok := t.entries[name]
	return h, ok
}

// Names returns the registered keywords in lexical order
func (t *KeywordTable) Names() []string {
	names := make([]string, 0, len(t.entries))
	for name := range t.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func defaultKeywords() *KeywordTable {
	t := NewKeywordTable()
	t.Register("if", KeywordFunc(ifKeyword))
	t.Register("while", KeywordFunc(whileKeyword))
	t.Register("for", KeywordFunc(forKeyword))
	return t
}

// condition parses "( expr )" and requires a Boolean result
func condition(c Cursor, keyword string) (bool, error) {
	if _, err := c.Expect(token.LParen); err != nil {
		return false, err
	}
	start := c.Current()
	v, err := c.ParseExpression()
	if err != nil {
		return false, err
	}
	b, ok := v.(value.Bool)
	if !ok {
		return false, typeError("%s condition must be Boolean, got %s", keyword, value.TypeOf(v)).
			WithPosition(start.Pos.Line, start.Pos.Col)
	}
	if _, err := c.Expect(token.RParen); err != nil {
		return false, err
	}
	return bool(b), nil
}

// if (cond) { ... }
func ifKeyword(c Cursor) (value.Value, error) {
	ok, err := condition(c, "if")
	if err != nil {
		return nil, err
	}
	if ok {
		return value.Null{}, c.ExecBlock()
	}
	return value.Null{}, c.SkipBlock()
}

// while (cond) { ... }
//
// The condition is re-parsed from its source tokens on every iteration so
// assignments made in the body are visible to the next test.
func whileKeyword(c Cursor) (value.Value, error) {
	condStart := c.Index()
	for {
		if err := c.Tick(); err != nil {
			return nil, err
		}
		ok, err := condition(c, "while")
		if err != nil {
			return nil, err
		}
		if !ok {
			return value.Null{}, c.SkipBlock()
		}
		if err := c.ExecBlock(); err != nil {
			return nil, err
		}
		c.Seek(condStart)
	}
}

// for (name in list) { ... }
func forKeyword(c Cursor) (value.Value, error) {
	if _, err := c.Expect(token.LParen); err != nil {
		return nil, err
	}
	name, err := c.ExpectIdentifier("")
	if err != nil {
		return nil, err
	}
	if _, err := c.ExpectIdentifier("in"); err != nil {
		return nil, err
	}

	start := c.Current()
	v, err := c.ParseExpression()
	if err != nil {
		return nil, err
	}
	list, ok := v.(value.List)
	if !ok {
		return nil, typeError("for expects a List to iterate, got %s", value.TypeOf(v)).
			WithPosition(start.Pos.Line, start.Pos.Col)
	}
	if _, err := c.Expect(token.RParen); err != nil {
		return nil, err
	}

	blockStart := c.Index()
	for _, elem := range list {
		if err := c.Tick(); err != nil {
			return nil, err
		}
		c.Env().Set(name.Text(), elem)
		c.Seek(blockStart)
		if err := c.ExecBlock(); err != nil {
			return nil, err
		}
	}
	c.Seek(blockStart)
	return value.Null{}, c.SkipBlock()
}

// UnknownKeyword builds the error for a keyword token without handler
func UnknownKeyword(name string) *rhlerr.Error {
	return Errorf(rhlerr.CodeUnknownKeyword, "unknown keyword '%s'", name).WithDetail("keyword", name)
}
