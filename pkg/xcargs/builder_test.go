package xcargs

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() Options {
	return Options{
		Project: "App.xcodeproj",
		Scheme:  "App",
		Action:  "build",
	}
}

func findArgument(t *testing.T, args []Argument, name string) []Argument {
	t.Helper()

	var found []Argument
	for _, arg := range args {
		if arg.Name == name {
			found = append(found, arg)
		}
	}

	return found
}

func TestValidateSelectors(t *testing.T) {
	// every combination of the three selectors; exactly one set passes
	for mask := 0; mask < 8; mask++ {
		mask := mask
		t.Run(fmt.Sprintf("combination %03b", mask), func(t *testing.T) {
			opts := Options{Scheme: "App", Action: "build"}
			count := 0
			if mask&1 != 0 {
				opts.Workspace = "App.xcworkspace"
				count++
			}
			if mask&2 != 0 {
				opts.Project = "App.xcodeproj"
				count++
			}
			if mask&4 != 0 {
				opts.SPMPackage = "pkg"
				count++
			}

			err := opts.Validate()
			if count == 1 {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "Exactly one of")
			}
		})
	}
}

func TestValidateScheme(t *testing.T) {
	t.Run("workspace requires a scheme", func(t *testing.T) {
		opts := Options{Workspace: "App.xcworkspace", Action: "build"}
		require.Error(t, opts.Validate())
	})

	t.Run("package requires a scheme", func(t *testing.T) {
		opts := Options{SPMPackage: "pkg", Action: "build"}
		require.Error(t, opts.Validate())
	})

	t.Run("project does not", func(t *testing.T) {
		opts := Options{Project: "App.xcodeproj", Action: "build"}
		assert.NoError(t, opts.Validate())
	})
}

func TestValidateAction(t *testing.T) {
	opts := Options{Project: "App.xcodeproj"}
	require.Error(t, opts.Validate())
	assert.Contains(t, opts.Validate().Error(), "action")
}

func TestValidateBooleans(t *testing.T) {
	opts := validOptions()
	opts.Quiet = "yes please"
	require.Error(t, opts.Validate())

	opts.Quiet = "true"
	assert.NoError(t, opts.Validate())
}

func TestPathResolution(t *testing.T) {
	opts := validOptions()
	opts.XCConfig = "configs/ci.xcconfig"

	args, err := opts.Arguments()
	require.NoError(t, err)

	wd, err := filepath.Abs(".")
	require.NoError(t, err)

	found := findArgument(t, args, "-xcconfig")
	require.Len(t, found, 1)
	require.NotNil(t, found[0].Value)
	assert.Equal(t, "configs/ci.xcconfig", found[0].Value.Original)
	assert.Equal(t, filepath.Join(wd, "configs", "ci.xcconfig"), found[0].Value.Resolved)
}

func TestListInput(t *testing.T) {
	opts := validOptions()
	opts.OnlyTesting = "\n  AppTests/LoginTests  \nAppTests/SignupTests"

	args, err := opts.Arguments()
	require.NoError(t, err)

	found := findArgument(t, args, "-only-testing")
	require.Len(t, found, 2)
	assert.Equal(t, "AppTests/LoginTests", found[0].Value.Original)
	assert.Equal(t, "AppTests/SignupTests", found[1].Value.Original)
}

func TestBooleanInput(t *testing.T) {
	t.Run("false renders as NO", func(t *testing.T) {
		opts := validOptions()
		opts.EnableCodeCoverage = "false"

		args, err := opts.Arguments()
		require.NoError(t, err)

		found := findArgument(t, args, "-enableCodeCoverage")
		require.Len(t, found, 1)
		assert.Equal(t, "NO", found[0].Value.Original)
	})

	t.Run("unset emits nothing", func(t *testing.T) {
		opts := validOptions()
		args, err := opts.Arguments()
		require.NoError(t, err)
		assert.Empty(t, findArgument(t, args, "-enableCodeCoverage"))
	})

	t.Run("true renders as YES", func(t *testing.T) {
		opts := validOptions()
		opts.ParallelTestingEnabled = "true"

		args, err := opts.Arguments()
		require.NoError(t, err)

		found := findArgument(t, args, "-parallel-testing-enabled")
		require.Len(t, found, 1)
		assert.Equal(t, "YES", found[0].Value.Original)
	})
}

func TestFlagInput(t *testing.T) {
	t.Run("true emits a bare name", func(t *testing.T) {
		opts := validOptions()
		opts.Quiet = "true"

		args, err := opts.Arguments()
		require.NoError(t, err)

		found := findArgument(t, args, "-quiet")
		require.Len(t, found, 1)
		assert.Nil(t, found[0].Value)
	})

	t.Run("false emits nothing", func(t *testing.T) {
		opts := validOptions()
		opts.Quiet = "false"

		args, err := opts.Arguments()
		require.NoError(t, err)
		assert.Empty(t, findArgument(t, args, "-quiet"))
	})
}

func TestBuildSettingTokens(t *testing.T) {
	opts := validOptions()
	opts.CodeSignIdentity = "-"
	opts.CodeSigningRequired = "false"
	opts.BuildSettings = "FOO=bar BAZ=qux"

	args, err := opts.Arguments()
	require.NoError(t, err)

	require.Len(t, findArgument(t, args, "CODE_SIGN_IDENTITY=-"), 1)
	require.Len(t, findArgument(t, args, "CODE_SIGNING_REQUIRED=NO"), 1)
	require.Len(t, findArgument(t, args, "FOO=bar"), 1)
	require.Len(t, findArgument(t, args, "BAZ=qux"), 1)
}

func TestActionTokens(t *testing.T) {
	opts := validOptions()
	opts.Action = "clean test"

	args, err := opts.Arguments()
	require.NoError(t, err)

	tokens := RenderAll(args, RenderOptions{UseOriginal: true})
	require.GreaterOrEqual(t, len(tokens), 2)
	assert.Equal(t, []string{"clean", "test"}, tokens[len(tokens)-2:])
}

func TestComposedCommandLine(t *testing.T) {
	opts := validOptions()

	args, err := opts.Arguments()
	require.NoError(t, err)

	display := append([]Argument{NewBare("xcodebuild")}, args...)

	unresolved := Line(display, RenderOptions{UseOriginal: true, EscapeValue: true})
	assert.True(t, strings.HasPrefix(unresolved, "xcodebuild -project App.xcodeproj -scheme App"), unresolved)
	assert.True(t, strings.HasSuffix(unresolved, "build"), unresolved)

	wd, err := filepath.Abs(".")
	require.NoError(t, err)

	resolved := Line(display, RenderOptions{EscapeValue: true})
	expected := escapeWhitespace(filepath.Join(wd, "App.xcodeproj"))
	assert.Contains(t, resolved, "-project "+expected)
}

func TestPackageSelectorEmitsNoArgument(t *testing.T) {
	opts := Options{SPMPackage: "pkg", Scheme: "App", Action: "build"}
	require.NoError(t, opts.Validate())

	args, err := opts.Arguments()
	require.NoError(t, err)

	tokens := RenderAll(args, RenderOptions{UseOriginal: true})
	assert.Equal(t, []string{"-scheme", "App", "build"}, tokens)
}
