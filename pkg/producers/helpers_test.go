package producers

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
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func newTestBuild(t *testing.T, base map[string]string) *build.Build {
	t.Helper()
	return build.New(t.Name(), t.TempDir(), base, nil)
}

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath(shell); err != nil {
		t.Skip("sh not in PATH")
	}
}
