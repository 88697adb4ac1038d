package lexer

import (
	"github.com/msto63/rhl/internal/token"
)

// Handler recognizes one lexical category. CanStart must not move the
// scanner; Consume must advance it past the text it turns into a token.
type Handler interface {
	Name() string
	CanStart(s *Scanner) bool
	Consume(s *Scanner) (token.Token, error)
}

// Registry is the ordered handler chain. The first handler whose
// CanStart succeeds wins.
type Registry struct {
	handlers []Handler
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends h to the chain
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// InsertBefore places h in front of the handler called name, or appends
// it when no such handler exists.
func (r *Registry) InsertBefore(name string, h Handler) {
	for i, existing := range r.handlers {
		if existing.Name() == name {
			r.handlers = append(r.handlers[:i], append([]Handler{h}, r.handlers[i:]...)...)
			return
		}
	}
	r.Register(h)
}

// Handlers returns the chain in dispatch order
func (r *Registry) Handlers() []Handler {
	out := make([]Handler, len(r.handlers))
	copy(out, r.handlers)
	return out
}

func (r *Registry) dispatch(s *Scanner) Handler {
	for _, h := range r.handlers {
		if h.CanStart(s) {
			return h
		}
	}
	return nil
}
