package interpreter

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	rhlerr "github.com/msto63/rhl/foundation/core/error"
)

// goldenCase is one script with its expected observable behavior
type goldenCase struct {
	Name   string            `yaml:"name"`
	Source string            `yaml:"source"`
	Output []string          `yaml:"output"`
	Vars   map[string]string `yaml:"vars"`
	Value  string            `yaml:"value"`
	Error  string            `yaml:"error"`
}

func loadGolden(t *testing.T) map[string][]goldenCase {
	t.Helper()
	files, err := filepath.Glob(filepath.Join("testdata", "*.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(files) == 0 {
		t.Fatal("no golden files in testdata")
	}

	suites := make(map[string][]goldenCase)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatal(err)
		}
		var cases []goldenCase
		if err := yaml.Unmarshal(data, &cases); err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		suites[strings.TrimSuffix(filepath.Base(f), ".yaml")] = cases
	}
	return suites
}

func TestGolden(t *testing.T) {
	for suite, cases := range loadGolden(t) {
		for _, tc := range cases {
			tc := tc
			t.Run(suite+"/"+tc.Name, func(t *testing.T) {
				var out bytes.Buffer
				in := newTest(&out)
				res := in.Exec(tc.Source)

				if tc.Error != "" {
					if !rhlerr.HasCode(res.Err(), rhlerr.Code(tc.Error)) {
						t.Fatalf("error = %v, want %s", res.Err(), tc.Error)
					}
				} else if res.Err() != nil {
					t.Fatalf("unexpected error: %v", res.Err())
				}

				got := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
				if out.Len() == 0 {
					got = nil
				}
				if strings.Join(got, "\n") != strings.Join(tc.Output, "\n") {
					t.Errorf("output:\n%s\nwant:\n%s", strings.Join(got, "\n"), strings.Join(tc.Output, "\n"))
				}

				for name, want := range tc.Vars {
					v, ok := in.Env().Lookup(name)
					if !ok {
						t.Errorf("variable %s not set", name)
						continue
					}
					if v.String() != want {
						t.Errorf("%s = %s, want %s", name, v, want)
					}
				}

				if tc.Value != "" {
					if res.Value == nil || res.Value.String() != tc.Value {
						t.Errorf("value = %v, want %s", res.Value, tc.Value)
					}
				}
			})
		}
	}
}
