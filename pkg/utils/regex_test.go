package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRegexPatterns(t *testing.T) {
	t.Run("all valid", func(t *testing.T) {
		compiled, sources, errs := CompileRegexPatterns([]string{`secret[A-Z]+`, `api_key=\w+`})
		assert.Empty(t, errs)
		require.Len(t, compiled, 2)
		assert.Equal(t, []string{`secret[A-Z]+`, `api_key=\w+`}, sources)
	})

	t.Run("invalid pattern skipped", func(t *testing.T) {
		compiled, sources, errs := CompileRegexPatterns([]string{`([unclosed`, `token-\d+`})
		require.Len(t, errs, 1)
		assert.True(t, errors.Is(errs[0], ErrInvalidPattern))
		assert.Contains(t, errs[0].Error(), "pattern #1")
		require.Len(t, compiled, 1)
		assert.Equal(t, []string{`token-\d+`}, sources)
		assert.True(t, compiled[0].MatchString("token-42"))
	})

	t.Run("empty patterns ignored", func(t *testing.T) {
		compiled, sources, errs := CompileRegexPatterns([]string{"", "a"})
		assert.Empty(t, errs)
		assert.Len(t, compiled, 1)
		assert.Equal(t, []string{"a"}, sources)
	})
}
