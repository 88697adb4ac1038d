// ============================================================================
// RHL - Scripting Language Toolkit
// ============================================================================
//
// Package:     lsp
// Description: Language server over stdio JSON-RPC
// Created:     2026-10-18
// License:     MIT
// ============================================================================

// Package lsp implements a minimal language server for RHL. It keeps the
// open documents in memory and publishes a diagnostic for the first
// error a document produces when it is run. Definition, hover,
// references, code actions, completion and document symbols are
// announced but answer null.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	rhllog "github.com/msto63/rhl/foundation/core/log"
	"github.com/msto63/rhl/internal/interpreter"
	"github.com/msto63/rhl/pkg/core/config"
	"github.com/msto63/rhl/pkg/core/version"
)

const (
	// DefaultMaxSteps bounds a diagnostic run so a looping buffer cannot
	// stall the server
	DefaultMaxSteps = 100000

	// DefaultMaxTextLen bounds text built during a diagnostic run
	DefaultMaxTextLen = 1 << 20
)

// Options configures a Server
type Options struct {
	Logger *rhllog.Logger

	// MaxSteps for each diagnostic run; <= 0 selects DefaultMaxSteps
	MaxSteps int

	// MaxTextLen for each diagnostic run; <= 0 selects DefaultMaxTextLen
	MaxTextLen int

	WordBoundary bool
	CacheSize    int
}

// OptionsFromConfig derives server options from the loaded configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MaxSteps:     cfg.LSP.MaxSteps,
		MaxTextLen:   cfg.LSP.MaxTextLen,
		WordBoundary: cfg.Lexer.WordBoundary,
		CacheSize:    cfg.Lexer.TokenCacheSize,
	}
}

// Server answers LSP requests read from one stream
type Server struct {
	in     *bufio.Reader
	out    io.Writer
	logger *rhllog.Logger
	opts   Options

	wmu  sync.Mutex
	mu   sync.RWMutex
	docs map[string]string

	shutdown bool
}

// NewServer creates a server reading requests from in and writing
// responses and notifications to out
func NewServer(in io.Reader, out io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = rhllog.GetDefault()
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}
	if opts.MaxTextLen <= 0 {
		opts.MaxTextLen = DefaultMaxTextLen
	}
	return &Server{
		in:     bufio.NewReader(in),
		out:    out,
		logger: logger.WithField("component", "lsp"),
		opts:   opts,
		docs:   make(map[string]string),
	}
}

// Serve processes messages until exit, end of input or cancellation
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("language server started")
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		body, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Info("input closed")
				return nil
			}
			return err
		}

		var req Request
		if err := json.Unmarshal(body, &req); err != nil {
			s.logger.WarnWithErr("malformed message", err)
			s.sendError(nil, codeParseError, "parse error")
			continue
		}
		if s.handle(req) {
			s.logger.Info("exit requested", rhllog.Fields{"clean": s.shutdown})
			return nil
		}
	}
}

// handle dispatches one message and reports whether the loop must stop
func (s *Server) handle(req Request) bool {
	s.logger.Debug("message", rhllog.Fields{"method": req.Method})

	switch req.Method {
	case "initialize":
		s.sendResult(req.ID, InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync:       1,
				DefinitionProvider:     true,
				HoverProvider:          true,
				ReferencesProvider:     true,
				CodeActionProvider:     true,
				CompletionProvider:     map[string]any{},
				DocumentSymbolProvider: true,
			},
			ServerInfo: map[string]string{"name": "rhl-lsp", "version": version.LanguageServer},
		})
	case "initialized":
	case "shutdown":
		s.shutdown = true
		s.sendResult(req.ID, nil)
	case "exit":
		return true

	case "textDocument/didOpen":
		var p DidOpenParams
		if s.decode(req, &p) {
			s.update(p.TextDocument.URI, p.TextDocument.Text)
		}
	case "textDocument/didChange":
		var p DidChangeParams
		if s.decode(req, &p) && len(p.ContentChanges) > 0 {
			// full sync: the last change holds the whole document
			s.update(p.TextDocument.URI, p.ContentChanges[len(p.ContentChanges)-1].Text)
		}
	case "textDocument/didSave":
		var p DidSaveParams
		if s.decode(req, &p) {
			if text, ok := s.Document(p.TextDocument.URI); ok {
				s.publish(p.TextDocument.URI, s.Diagnose(text))
			}
		}
	case "textDocument/didClose":
		var p DidCloseParams
		if s.decode(req, &p) {
			s.mu.Lock()
			delete(s.docs, p.TextDocument.URI)
			s.mu.Unlock()
			s.publish(p.TextDocument.URI, []Diagnostic{})
		}

	case "textDocument/definition",
		"textDocument/hover",
		"textDocument/references",
		"textDocument/codeAction",
		"textDocument/completion",
		"textDocument/documentSymbol":
		s.sendResult(req.ID, nil)

	default:
		if !req.isNotification() {
			s.sendError(req.ID, codeMethodNotFound, "method not found: "+req.Method)
		}
	}
	return false
}

// Document returns the stored text of an open document
func (s *Server) Document(uri string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.docs[uri]
	return text, ok
}

func (s *Server) update(uri, text string) {
	s.mu.Lock()
	s.docs[uri] = text
	s.mu.Unlock()
	s.publish(uri, s.Diagnose(text))
}

func (s *Server) decode(req Request, v any) bool {
	if err := json.Unmarshal(req.Params, v); err != nil {
		s.logger.WarnWithErr("invalid params", err, rhllog.Fields{"method": req.Method})
		if !req.isNotification() {
			s.sendError(req.ID, codeInvalidParams, err.Error())
		}
		return false
	}
	return true
}

// Diagnose runs text on a fresh interpreter and converts its errors
func (s *Server) Diagnose(text string) []Diagnostic {
	in := interpreter.New(interpreter.Options{
		Logger:       s.logger,
		MaxSteps:     s.opts.MaxSteps,
		MaxTextLen:   s.opts.MaxTextLen,
		WordBoundary: s.opts.WordBoundary,
		CacheSize:    s.opts.CacheSize,
	})

	diags := []Diagnostic{}
	tokens, err := in.Tokenize(text)
	if err != nil {
		return append(diags, toDiagnostic(text, err))
	}
	for _, d := range in.Run(tokens).Diagnostics {
		diags = append(diags, toDiagnostic(text, d))
	}
	return diags
}

func (s *Server) publish(uri string, diags []Diagnostic) {
	s.write(notification{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  PublishDiagnosticsParams{URI: uri, Diagnostics: diags},
	})
}

func (s *Server) sendResult(id json.RawMessage, result any) {
	raw := json.RawMessage("null")
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			s.sendError(id, codeParseError, err.Error())
			return
		}
		raw = b
	}
	s.write(Response{JSONRPC: "2.0", ID: normalizeID(id), Result: raw})
}

func (s *Server) sendError(id json.RawMessage, code int, message string) {
	s.write(Response{JSONRPC: "2.0", ID: normalizeID(id), Error: &ResponseError{Code: code, Message: message}})
}

func (s *Server) write(v any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := writeMessage(s.out, v); err != nil {
		s.logger.ErrorWithErr("write failed", err)
	}
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(id) == 0 {
		return json.RawMessage("null")
	}
	return id
}
