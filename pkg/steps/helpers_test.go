package steps

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/systemstart/expose-env/pkg/build"
)

// writeTestFile writes content to a file in dir, failing the test on error.
func writeTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

// newVarsBuild creates a build in dir whose only contribution is vars.
func newVarsBuild(dir string, vars map[string]string) *build.Build {
	b := build.New("test", dir, nil, nil)
	b.AddEnvironment(vars)
	return b
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not in PATH")
	}
}
