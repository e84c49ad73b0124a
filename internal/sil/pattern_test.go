package sil

// Test Plan for function patterns:
// - FindFunction returns the full region including declaration and trailer lines
// - FindFunction returns ErrFunctionNotFound for an absent name
// - Only the first (lowest-offset) region is returned when a name has two regions
// - A declaration that merely contains the name as a substring can start the region
// - The declaration must begin a line with "sil"
// - Names with regex metacharacters are matched literally
// - FunctionPattern returns the cached pattern for repeated names

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadExampleDump(t *testing.T) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "sil", "Example.sil"))
	require.NoError(t, err)
	return string(data)
}

func TestFindFunction_ExampleDump(t *testing.T) {
	t.Parallel()

	dump := loadExampleDump(t)

	tests := []struct {
		name      string
		function  string
		firstLine string
	}{
		{
			name:      "autodiff gradient",
			function:  "test_autodiff_gradient_apply",
			firstLine: "sil hidden @test_autodiff_gradient_apply : $@convention(thin) () -> () {",
		},
		{
			name:      "manual gradient",
			function:  "test_manual_gradient_apply",
			firstLine: "sil hidden @test_manual_gradient_apply : $@convention(thin) () -> () {",
		},
		{
			name:      "mangled name",
			function:  "$s7Example7consumeyyxlF",
			firstLine: "sil hidden [noinline] @$s7Example7consumeyyxlF : $@convention(thin) <T> (@in_guaranteed T) -> () {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fragment, err := FindFunction(dump, tt.function)
			require.NoError(t, err)

			lines := strings.Split(fragment, "\n")
			assert.Equal(t, tt.firstLine, lines[0])
			assert.Equal(t, "} "+EndMarker(tt.function), lines[len(lines)-1])
			assert.True(t, strings.Contains(dump, fragment), "fragment must be a verbatim substring of the dump")
		})
	}
}

func TestFindFunction_NotFound(t *testing.T) {
	t.Parallel()

	dump := loadExampleDump(t)

	_, err := FindFunction(dump, "does_not_exist")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFunctionNotFound)
	assert.Contains(t, err.Error(), "does_not_exist")
}

func TestFindFunction_FirstMatchOnly(t *testing.T) {
	t.Parallel()

	first := "sil @dup : $@convention(thin) () -> () {\nbb0:\n  %0 = tuple ()\n  return %0 : $()\n} // end sil function 'dup'"
	second := "sil @dup : $@convention(thin) () -> () {\nbb0:\n  unreachable\n} // end sil function 'dup'"
	dump := "sil_stage canonical\n\n" + first + "\n\n" + second + "\n"

	fragment, err := FindFunction(dump, "dup")
	require.NoError(t, err)
	assert.Equal(t, first, fragment)
}

func TestFindFunction_SubstringDeclarationStartsRegion(t *testing.T) {
	t.Parallel()

	// Textual matching: "apply" appears in the first declaration, so the region
	// for "apply" starts there and runs to the first 'apply' trailer.
	outer := "sil @test_apply_outer : $@convention(thin) () -> () {\nbb0:\n  unreachable\n} // end sil function 'test_apply_outer'"
	inner := "sil @apply : $@convention(thin) () -> () {\nbb0:\n  unreachable\n} // end sil function 'apply'"
	dump := outer + "\n\n" + inner + "\n"

	fragment, err := FindFunction(dump, "apply")
	require.NoError(t, err)
	assert.Equal(t, outer+"\n\n"+inner, fragment)
}

func TestFindFunction_DeclarationMustStartLine(t *testing.T) {
	t.Parallel()

	dump := "  sil @f : $() -> () {\n} // end sil function 'f'\n"

	_, err := FindFunction(dump, "f")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestFindFunction_BraceMustFollowNameOnSameLine(t *testing.T) {
	t.Parallel()

	dump := "sil @f : $() -> ()\n{\n} // end sil function 'f'\n"

	_, err := FindFunction(dump, "f")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestFindFunction_QuotesMetacharacters(t *testing.T) {
	t.Parallel()

	dump := "sil @a.b : $() -> () {\n} // end sil function 'a.b'\n" +
		"sil @axb : $() -> () {\n} // end sil function 'axb'\n"

	fragment, err := FindFunction(dump, "a.b")
	require.NoError(t, err)
	assert.Contains(t, fragment, "@a.b")

	_, err = FindFunction("sil @axb : $() -> () {\n} // end sil function 'axb'\n", "a.b")
	assert.ErrorIs(t, err, ErrFunctionNotFound)
}

func TestFunctionPattern_Cached(t *testing.T) {
	t.Parallel()

	first := FunctionPattern("cached_function")
	second := FunctionPattern("cached_function")
	assert.Same(t, first, second)
}
