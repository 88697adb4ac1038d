package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
	"github.com/msto63/rhl/pkg/core/version"
)

func writeScript(t *testing.T, name, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("RHL_CONFIG", "")
	cfgFile, verbose, logFormat = "", false, ""
	runTokens, runWatch, replTUI = false, false, false
	tokensPositions, tokensColor = false, "auto"

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	err := Execute()
	return out.String(), errOut.String(), err
}

func TestRunScript(t *testing.T) {
	path := writeScript(t, "ok.rhl", "x = 2\nprintln(\"{}\", x * 3)\n")

	for _, args := range [][]string{{path}, {"run", path}} {
		out, _, err := execute(t, "", args...)
		if err != nil {
			t.Fatalf("%v: %v", args, err)
		}
		if out != "6\n" {
			t.Errorf("%v: stdout = %q, want %q", args, out, "6\n")
		}
	}
}

func TestRunScriptFromStdin(t *testing.T) {
	out, _, err := execute(t, `println("{}", 1 + 1)`, "run", "-")
	if err != nil {
		t.Fatal(err)
	}
	if out != "2\n" {
		t.Errorf("stdout = %q", out)
	}
}

func TestRunWithTokens(t *testing.T) {
	path := writeScript(t, "tok.rhl", `println("hi")`)
	out, _, err := execute(t, "", "run", "--tokens", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "INDEX") || !strings.HasSuffix(out, "\nhi\n") {
		t.Errorf("stdout = %q, want token table followed by program output", out)
	}
}

func TestRunScriptError(t *testing.T) {
	path := writeScript(t, "bad.rhl", "println(\"before\")\ny = z\nprintln(\"after\")\n")
	out, errOut, err := execute(t, "", path)
	if !rhlerr.HasCode(err, rhlerr.CodeUndefinedVariable) {
		t.Fatalf("err = %v, want %s", err, rhlerr.CodeUndefinedVariable)
	}
	if out != "before\n" {
		t.Errorf("stdout = %q, want only output before the error", out)
	}
	if !strings.Contains(errOut, "error: 2:5: ") {
		t.Errorf("stderr = %q, want positioned error", errOut)
	}
}

func TestRunMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "run", filepath.Join(t.TempDir(), "missing.rhl"))
	if !rhlerr.HasCode(err, rhlerr.CodeNotFound) {
		t.Errorf("err = %v, want %s", err, rhlerr.CodeNotFound)
	}
}

func TestEchoAssignmentsFromConfig(t *testing.T) {
	conf := writeScript(t, "rhl.toml", "[interpreter]\necho_assignments = true\n")
	path := writeScript(t, "a.rhl", "x = 2\ny = x ^ 3\n")
	out, errOut, err := execute(t, "", "--config", conf, "run", path)
	if err != nil {
		t.Fatal(err)
	}
	if out != "" {
		t.Errorf("stdout = %q, want empty", out)
	}
	if !strings.Contains(errOut, "x = 2\ny = 8.0\n") {
		t.Errorf("stderr = %q, want echoed assignments", errOut)
	}
}

func TestInvalidLogFormat(t *testing.T) {
	_, _, err := execute(t, "", "--log-format", "xml", "version")
	if !rhlerr.HasCode(err, rhlerr.CodeConfigInvalid) {
		t.Errorf("err = %v, want %s", err, rhlerr.CodeConfigInvalid)
	}
}

func TestTokensCommand(t *testing.T) {
	out, _, err := execute(t, "a = 1", "tokens", "--color", "never", "--positions", "-")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header + 4 tokens:\n%s", len(lines), out)
	}
	if !strings.HasSuffix(lines[0], "POS") || strings.Contains(out, "\x1b[") {
		t.Errorf("unexpected table:\n%s", out)
	}

	_, _, err = execute(t, "a", "tokens", "--color", "sometimes", "-")
	if !rhlerr.HasCode(err, rhlerr.CodeInvalidInput) {
		t.Errorf("err = %v, want %s", err, rhlerr.CodeInvalidInput)
	}
}

func TestREPLFromStdin(t *testing.T) {
	out, _, err := execute(t, "x = 1\nif (x == 1) {\n  x = x + 1\n}\nx * 10\nexit\nx = 99\n", "repl")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"x = 1", "20"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "99") {
		t.Errorf("input after exit was evaluated:\n%s", out)
	}
}

func TestREPLEchoFromConfig(t *testing.T) {
	conf := writeScript(t, "rhl.toml", "[interpreter]\necho_assignments = false\n")
	out, _, err := execute(t, "x = 1\nx + 1\nexit\n", "--config", conf, "repl")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "x = 1") {
		t.Errorf("assignment echoed despite echo_assignments = false:\n%s", out)
	}
	if !strings.Contains(out, "2") {
		t.Errorf("expression value not echoed:\n%s", out)
	}
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "rhl v"+version.Toolkit+"\n") {
		t.Errorf("stdout = %q", out)
	}
}
