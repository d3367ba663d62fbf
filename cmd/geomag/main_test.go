package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunSelfCheck(t *testing.T) {
	var buf bytes.Buffer
	if err := runSelfCheck(&buf); err != nil {
		t.Fatalf("runSelfCheck: %v", err)
	}
	out := buf.String()
	if strings.Count(out, "ok") < 4 {
		t.Fatalf("expected one ok line per probe position, got:\n%s", out)
	}
}

func TestLoadModelFile(t *testing.T) {
	const cof = `    2020.0            TEST-2020       12/10/2019
  1  0  -29404.5       0.0        6.7        0.0
  1  1   -1450.7    4652.9        7.7      -25.1
999999999999999999999999999999999999999999999999
999999999999999999999999999999999999999999999999
`
	path := filepath.Join(t.TempDir(), "test.cof")
	if err := os.WriteFile(path, []byte(cof), 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}

	set, err := loadModelFile(path)
	if err != nil {
		t.Fatalf("loadModelFile: %v", err)
	}
	if set.Name() != "TEST-2020" || set.MaxDegree() != 1 {
		t.Fatalf("unexpected model %q degree %d", set.Name(), set.MaxDegree())
	}

	if _, err := loadModelFile(filepath.Join(t.TempDir(), "missing.cof")); err == nil {
		t.Fatal("missing file should fail")
	}
}
