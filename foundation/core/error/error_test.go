// File: error_test.go
// Title: Error Module Tests
// Description: Tests for error creation, wrapping, codes, severity and
//              source positions.
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2026-10-18
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive test coverage
// - 2026-10-18 v0.2.0: Position and language code coverage

package error

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	msg := "test error message"
	err := New(msg)

	if err == nil {
		t.Fatal("New() returned nil")
	}
	if err.Error() != msg {
		t.Errorf("Error() = %q, want %q", err.Error(), msg)
	}
	if err.Code() != CodeUnknown {
		t.Errorf("Code() = %v, want %v", err.Code(), CodeUnknown)
	}
	if err.Severity() != SeverityMedium {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityMedium)
	}
	if got := Newf("line %d", 3).Error(); got != "line 3" {
		t.Errorf("Newf() = %q", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		message  string
		wantNil  bool
		wantMsg  string
		wantCode Code
	}{
		{
			name:    "wrap nil error",
			err:     nil,
			message: "wrapper message",
			wantNil: true,
		},
		{
			name:     "wrap standard error",
			err:      errors.New("original error"),
			message:  "wrapper message",
			wantMsg:  "wrapper message: original error",
			wantCode: CodeUnknown,
		},
		{
			name:     "wrap coded error",
			err:      New("bad config").WithCode(CodeConfigInvalid),
			message:  "loading rhl.toml",
			wantMsg:  "loading rhl.toml: bad config",
			wantCode: CodeConfigInvalid,
		},
		{
			name:     "wrap positioned error",
			err:      New("unexpected token").WithCode(CodeSyntax).WithPosition(2, 5),
			message:  "script.rhl",
			wantMsg:  "script.rhl: 2:5: unexpected token",
			wantCode: CodeSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := Wrap(tt.err, tt.message)

			if tt.wantNil {
				if wrapped != nil {
					t.Errorf("Wrap() = %v, want nil", wrapped)
				}
				return
			}
			if wrapped == nil {
				t.Fatal("Wrap() returned nil")
			}
			if wrapped.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", wrapped.Error(), tt.wantMsg)
			}
			if wrapped.Code() != tt.wantCode {
				t.Errorf("Code() = %v, want %v", wrapped.Code(), tt.wantCode)
			}
		})
	}
}

func TestErrorChaining(t *testing.T) {
	original := errors.New("root cause")
	middle := Wrap(original, "middle layer")
	top := Wrap(middle, "top layer")

	expected := "top layer: middle layer: root cause"
	if top.Error() != expected {
		t.Errorf("Error() = %q, want %q", top.Error(), expected)
	}
	if !errors.Is(top, middle) {
		t.Error("errors.Is() should find middle layer")
	}
	if !errors.Is(top, original) {
		t.Error("errors.Is() should find original error")
	}
}

func TestWrapChainTruncation(t *testing.T) {
	var err error = errors.New("root")
	for i := 0; i < MaxErrorChainDepth+2; i++ {
		err = Wrap(err, fmt.Sprintf("layer %d", i))
	}
	e, ok := As(err)
	if !ok {
		t.Fatal("As() did not find *Error")
	}
	if truncated, _ := e.Detail("truncated"); truncated != true {
		t.Errorf("expected truncated chain, got details %v", e.Details())
	}
}

func TestWithCodeSetsSeverity(t *testing.T) {
	tests := []struct {
		code Code
		want Severity
	}{
		{CodeSyntax, SeverityLow},
		{CodeArithmetic, SeverityLow},
		{CodeConfigInvalid, SeverityHigh},
		{CodeInternal, SeverityCritical},
		{CodeUnknown, SeverityMedium},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := New("x").WithCode(tt.code).Severity(); got != tt.want {
				t.Errorf("Severity() = %v, want %v", got, tt.want)
			}
		})
	}

	explicit := New("x").WithSeverity(SeverityHigh).WithCode(CodeSyntax)
	if explicit.Severity() != SeverityHigh {
		t.Errorf("explicit severity overwritten: %v", explicit.Severity())
	}
}

func TestPosition(t *testing.T) {
	err := New("division by zero").WithCode(CodeArithmetic).WithPosition(3, 7)

	if got := err.Error(); got != "3:7: division by zero" {
		t.Errorf("Error() = %q", got)
	}
	if got := err.Message(); got != "division by zero" {
		t.Errorf("Message() = %q", got)
	}
	line, col, ok := err.Position()
	if !ok || line != 3 || col != 7 {
		t.Errorf("Position() = %d, %d, %v", line, col, ok)
	}

	line, col, ok = Wrap(err, "outer").Position()
	if !ok || line != 3 || col != 7 {
		t.Errorf("wrapped Position() = %d, %d, %v", line, col, ok)
	}

	if _, _, ok := New("plain").Position(); ok {
		t.Error("Position() reported a position for an unpositioned error")
	}
}

func TestHasCodeAndGetCode(t *testing.T) {
	inner := New("x undefined").WithCode(CodeUndefinedVariable)
	outer := fmt.Errorf("running script: %w", inner)

	if !HasCode(outer, CodeUndefinedVariable) {
		t.Error("HasCode() should see through fmt.Errorf wrapping")
	}
	if HasCode(outer, CodeType) {
		t.Error("HasCode() matched the wrong code")
	}
	if HasCode(errors.New("plain"), CodeUnknown) {
		t.Error("HasCode() matched a non-*Error")
	}
	if got := GetCode(outer); got != CodeUndefinedVariable {
		t.Errorf("GetCode() = %v", got)
	}
	if got := GetCode(errors.New("plain")); got != CodeUnknown {
		t.Errorf("GetCode(plain) = %v", got)
	}
}

func TestCodeCategory(t *testing.T) {
	tests := []struct {
		code     Code
		category string
	}{
		{CodeLex, "language"},
		{CodeArgument, "language"},
		{CodeStepLimit, "execution"},
		{CodeTextLimit, "execution"},
		{CodeConfigInvalid, "config"},
		{CodeIO, "generic"},
		{Code("NOPE"), "unknown"},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			if got := tt.code.Category(); got != tt.category {
				t.Errorf("Category() = %q, want %q", got, tt.category)
			}
			if got := tt.code.IsValid(); got != (tt.category != "unknown") {
				t.Errorf("IsValid() = %v", got)
			}
		})
	}
}

func TestStringAndJSON(t *testing.T) {
	err := New("bad operand").
		WithCode(CodeType).
		WithOperation("binary +").
		WithDetail("left", "bool").
		WithPosition(1, 4)

	s := err.String()
	for _, want := range []string{"Error: bad operand", "Code: TYPE_ERROR", "Position: 1:4", "Operation: binary +", "left=bool"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}

	data, jerr := json.Marshal(err)
	if jerr != nil {
		t.Fatalf("MarshalJSON() error = %v", jerr)
	}
	var decoded map[string]interface{}
	if jerr := json.Unmarshal(data, &decoded); jerr != nil {
		t.Fatalf("unmarshal: %v", jerr)
	}
	if _, ok := decoded["timestamp"]; ok {
		t.Errorf("unexpected timestamp in JSON: %s", data)
	}
	if decoded["code"] != "TYPE_ERROR" || decoded["line"] != float64(1) {
		t.Errorf("unexpected JSON: %s", data)
	}
}
