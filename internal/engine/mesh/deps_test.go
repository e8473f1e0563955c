package mesh

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/Faultbox/midgard-ocean"

// moduleRoot walks up from the package directory to the go.mod.
func moduleRoot(t *testing.T) string {
	t.Helper()
	dir, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("go.mod not found")
		}
		dir = parent
	}
}

// The mesh generators and everything they pull in from this module must
// build without SDL or cgo.
func TestNoPlatformDependencies(t *testing.T) {
	root := moduleRoot(t)
	seen := map[string]bool{}
	queue := []string{modulePath + "/internal/engine/mesh"}

	for len(queue) > 0 {
		pkg := queue[0]
		queue = queue[1:]
		if seen[pkg] {
			continue
		}
		seen[pkg] = true

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(pkg, modulePath)))
		p, err := build.ImportDir(dir, 0)
		if err != nil {
			t.Fatalf("import %s: %v", pkg, err)
		}
		if len(p.CgoFiles) > 0 {
			t.Errorf("%s uses cgo: %v", pkg, p.CgoFiles)
		}
		for _, imp := range p.Imports {
			switch {
			case imp == "C" || strings.HasPrefix(imp, "github.com/veandco/go-sdl2"):
				t.Errorf("%s imports %s", pkg, imp)
			case strings.HasPrefix(imp, modulePath+"/"):
				queue = append(queue, imp)
			}
		}
	}

	for _, want := range []string{"/internal/engine/camera", "/internal/engine/input/action"} {
		if !seen[modulePath+want] {
			t.Errorf("expected %s in the dependency walk", want)
		}
	}
}
