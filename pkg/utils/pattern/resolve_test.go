package pattern_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/ghrelease/pkg/domain/types"
	"github.com/m-mizutani/ghrelease/pkg/utils/pattern"
)

func TestResolve_FixtureDirectory(t *testing.T) {
	result, err := pattern.Resolve([]string{"testdata/**/*"})
	gt.NoError(t, err)
	gt.A(t, result.Paths).Length(1)
	gt.Value(t, result.Paths[0]).Equal(filepath.Join("testdata", "foo", "bar.txt"))
	gt.A(t, result.Unmatched).Length(0)
}

func TestResolve_UnmatchedPatterns(t *testing.T) {
	result, err := pattern.Resolve([]string{"testdata/**/*", "testdata/does/not/exist/*"})
	gt.NoError(t, err)
	gt.A(t, result.Paths).Length(1)
	gt.A(t, result.Unmatched).Length(1)
	gt.Value(t, result.Unmatched[0]).Equal("testdata/does/not/exist/*")
}

func TestResolve_ExcludesDirectories(t *testing.T) {
	dir := t.TempDir()
	gt.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "nested"), 0755))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "a.bin"), []byte("a"), 0644))
	gt.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.bin"), []byte("b"), 0644))

	result, err := pattern.Resolve([]string{filepath.Join(dir, "*"), filepath.Join(dir, "**")})
	gt.NoError(t, err)

	for _, p := range result.Paths {
		info, err := os.Stat(p)
		gt.NoError(t, err)
		gt.Value(t, info.IsDir()).Equal(false)
	}
	gt.A(t, result.Paths).Length(2)
}

func TestResolve_DeduplicatesOverlappingPatterns(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"app.tar.gz", "app.zip", "notes.txt"} {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}

	result, err := pattern.Resolve([]string{
		filepath.Join(dir, "app.*"),
		filepath.Join(dir, "*"),
		filepath.Join(dir, "*.zip"),
		filepath.Join(dir, "app.zip"),
	})
	gt.NoError(t, err)
	gt.A(t, result.Paths).Length(3)

	seen := map[string]bool{}
	for _, p := range result.Paths {
		gt.Value(t, seen[p]).Equal(false)
		seen[p] = true
	}

	// first pattern's matches come first, in lexical order
	gt.Value(t, result.Paths[0]).Equal(filepath.Join(dir, "app.tar.gz"))
	gt.Value(t, result.Paths[1]).Equal(filepath.Join(dir, "app.zip"))
	gt.Value(t, result.Paths[2]).Equal(filepath.Join(dir, "notes.txt"))
	gt.A(t, result.Unmatched).Length(0)
}

func TestResolve_Deterministic(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c", "a", "b", "d"} {
		gt.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}

	first, err := pattern.Resolve([]string{filepath.Join(dir, "*")})
	gt.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := pattern.Resolve([]string{filepath.Join(dir, "*")})
		gt.NoError(t, err)
		gt.Value(t, again.Paths).Equal(first.Paths)
	}
}

func TestResolve_InvalidPatternFailsWholeStep(t *testing.T) {
	result, err := pattern.Resolve([]string{"testdata/**/*", "testdata/[", "*.md"})
	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.Value(t, goerr.HasTag(err, types.ErrTagConfig)).Equal(true)
}

func TestResolve_EmptyInput(t *testing.T) {
	for _, patterns := range [][]string{nil, {}, {"", "  "}} {
		result, err := pattern.Resolve(patterns)
		gt.NoError(t, err)
		gt.A(t, result.Paths).Length(0)
		gt.A(t, result.Unmatched).Length(0)
	}
}

func TestResolve_RelativeAndAbsoluteSpellingsDeduplicate(t *testing.T) {
	abs, err := filepath.Abs(filepath.Join("testdata", "foo", "bar.txt"))
	gt.NoError(t, err)

	result, err := pattern.Resolve([]string{
		filepath.Join("testdata", "foo", "*.txt"),
		abs,
	})
	gt.NoError(t, err)
	gt.A(t, result.Paths).Length(1)
	gt.A(t, result.Unmatched).Length(0)
	gt.Value(t, pattern.Key(result.Paths[0])).Equal(abs)
}
