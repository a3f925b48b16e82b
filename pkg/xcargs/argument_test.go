package xcargs

import (
	"path/filepath"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// splitUnescaped tokenizes the way a shell would: whitespace splits
// unless it is preceded by a backslash.
func splitUnescaped(line string) []string {
	var tokens []string
	var current []rune
	escaped := false

	for _, chr := range line {
		if unicode.IsSpace(chr) && !escaped {
			if len(current) > 0 {
				tokens = append(tokens, string(current))
				current = current[:0]
			}
			continue
		}

		escaped = chr == '\\'
		current = append(current, chr)
	}

	if len(current) > 0 {
		tokens = append(tokens, string(current))
	}

	return tokens
}

func TestRenderBare(t *testing.T) {
	arg := NewBare("-quiet")
	assert.Equal(t, []string{"-quiet"}, arg.Render(RenderOptions{}))
	assert.Equal(t, []string{"-quiet"}, arg.Render(RenderOptions{EscapeValue: true}))
}

func TestRenderValue(t *testing.T) {
	arg := NewArgument("-scheme", "App")
	assert.Equal(t, []string{"-scheme", "App"}, arg.Render(RenderOptions{}))
}

func TestRenderEscaping(t *testing.T) {
	t.Run("escapes plain whitespace", func(t *testing.T) {
		arg := NewArgument("-destination", "platform=iOS Simulator,name=iPhone 15")
		tokens := arg.Render(RenderOptions{EscapeValue: true})
		assert.Equal(t, []string{"-destination", `platform=iOS\ Simulator,name=iPhone\ 15`}, tokens)
	})

	t.Run("leaves already escaped whitespace alone", func(t *testing.T) {
		arg := NewArgument("-scheme", `My\ App`)
		tokens := arg.Render(RenderOptions{EscapeValue: true})
		assert.Equal(t, []string{"-scheme", `My\ App`}, tokens)
	})

	t.Run("escapes every character of a whitespace run", func(t *testing.T) {
		arg := NewArgument("-scheme", "a  b")
		tokens := arg.Render(RenderOptions{EscapeValue: true})
		assert.Equal(t, []string{"-scheme", `a\ \ b`}, tokens)
	})

	t.Run("escapes tabs", func(t *testing.T) {
		arg := NewArgument("-scheme", "a\tb")
		tokens := arg.Render(RenderOptions{EscapeValue: true})
		assert.Equal(t, []string{"-scheme", "a\\\tb"}, tokens)
	})

	t.Run("re-splitting reproduces the token count", func(t *testing.T) {
		args := []Argument{
			NewBare("xcodebuild"),
			NewArgument("-destination", "platform=iOS Simulator, name=iPhone 15 Pro"),
			NewArgument("-scheme", "My App"),
			NewBare("build"),
		}

		line := Line(args, RenderOptions{EscapeValue: true})
		assert.Len(t, splitUnescaped(line), 6)
	})
}

func TestRenderVariants(t *testing.T) {
	arg, err := NewPathArgument("-project", "App.xcodeproj")
	require.NoError(t, err)

	wd, err := filepath.Abs(".")
	require.NoError(t, err)

	assert.Equal(t, []string{"-project", "App.xcodeproj"}, arg.Render(RenderOptions{UseOriginal: true}))
	assert.Equal(t, []string{"-project", filepath.Join(wd, "App.xcodeproj")}, arg.Render(RenderOptions{}))
}

func TestPathValueKeepsOriginal(t *testing.T) {
	value, err := NewPathValue("sub/dir/file.xcconfig")
	require.NoError(t, err)

	wd, err := filepath.Abs(".")
	require.NoError(t, err)

	assert.Equal(t, "sub/dir/file.xcconfig", value.Original)
	assert.Equal(t, filepath.Join(wd, "sub", "dir", "file.xcconfig"), value.Resolved)
}

func TestRenderAllPreservesOrder(t *testing.T) {
	args := []Argument{
		NewBare("xcodebuild"),
		NewArgument("-scheme", "App"),
		NewBare("-quiet"),
		NewBare("build"),
	}

	tokens := RenderAll(args, RenderOptions{})
	assert.Equal(t, []string{"xcodebuild", "-scheme", "App", "-quiet", "build"}, tokens)
}
