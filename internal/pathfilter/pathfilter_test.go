package pathfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcceptsDefaultExtensions(t *testing.T) {
	f := New(nil, nil)
	assert.True(t, f.Accept("src/App.svelte"))
	assert.True(t, f.Accept("src/util.ts"))
	assert.False(t, f.Accept("src/README.md"))
}

func TestExcludesDefaultSubstringsButNotSpecFiles(t *testing.T) {
	f := New(nil, nil)
	assert.False(t, f.Accept("src/foo.test.ts"))
	assert.False(t, f.Accept("src/tests/foo.ts"))
	assert.True(t, f.Accept("src/foo.spec.ts"), ".spec. is deliberately not excluded by default")
}

func TestCustomIncludeGlobsOverrideDefaultExtensionSet(t *testing.T) {
	f := New([]string{"src/**/*.go"}, nil)
	assert.True(t, f.Accept("src/pkg/main.go"))
	assert.False(t, f.Accept("src/App.svelte"), "an include glob list replaces the default extension check entirely")
}

func TestCustomExcludeGlobsAppendToDefaults(t *testing.T) {
	f := New(nil, []string{"**/vendor/**"})
	assert.False(t, f.Accept("vendor/lib/thing.ts"))
	assert.True(t, f.Accept("src/thing.ts"))
}

func TestExcludeGlobsTakePrecedenceOverIncludeGlobs(t *testing.T) {
	f := New([]string{"**/*.ts"}, []string{"**/generated/**"})
	assert.False(t, f.Accept("src/generated/thing.ts"))
}
