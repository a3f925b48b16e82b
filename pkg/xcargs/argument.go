// Package xcargs composes and renders xcodebuild command lines from
// declarative build inputs.
package xcargs

import (
	"path/filepath"
	"strings"
	"unicode"

	"github.com/rotisserie/eris"
)

// Value holds both forms of an argument value: Original is the string
// exactly as supplied by configuration, Resolved is the deterministically
// transformed form (identity, or filesystem-absolute path). Both are kept
// so the pre- and post-resolution renderings can be produced from one
// argument list without recomputing the resolution.
type Value struct {
	Original string
	Resolved string
}

// NewValue returns a Value whose resolved form equals the original.
func NewValue(raw string) Value {
	return Value{Original: raw, Resolved: raw}
}

// NewPathValue resolves raw to an absolute path relative to the current
// working directory. The original string is kept unchanged.
func NewPathValue(raw string) (Value, error) {
	abs, err := filepath.Abs(raw)
	if err != nil {
		return Value{}, eris.Wrapf(err, "Failed to resolve path %s", raw)
	}

	return Value{Original: raw, Resolved: abs}, nil
}

// Argument is a single command-line argument: a name plus an optional
// value. The name carries whatever prefix convention the caller decided
// on (leading dash, NAME= setting, pipe marker); the model itself is
// prefix-agnostic. Arguments are immutable once constructed.
type Argument struct {
	Name  string
	Value *Value
}

// NewBare returns an argument without a value.
func NewBare(name string) Argument {
	return Argument{Name: name}
}

// NewArgument returns an argument whose value needs no resolution.
func NewArgument(name, raw string) Argument {
	value := NewValue(raw)
	return Argument{Name: name, Value: &value}
}

// NewPathArgument returns an argument whose value is resolved to an
// absolute path.
func NewPathArgument(name, raw string) (Argument, error) {
	value, err := NewPathValue(raw)
	if err != nil {
		return Argument{}, err
	}

	return Argument{Name: name, Value: &value}, nil
}

// RenderOptions control how arguments are turned into string tokens.
type RenderOptions struct {
	// UseOriginal renders the value exactly as configured instead of the
	// resolved form.
	UseOriginal bool
	// EscapeValue inserts an escape marker before every whitespace
	// character inside the value that is not already escaped, so the
	// rendered tokens can be joined with spaces and re-split by a shell.
	EscapeValue bool
}

// Render returns the tokens a shell would read as this argument: the
// name followed by the value, if present.
func (a Argument) Render(opts RenderOptions) []string {
	if a.Value == nil {
		return []string{a.Name}
	}

	value := a.Value.Resolved
	if opts.UseOriginal {
		value = a.Value.Original
	}

	if opts.EscapeValue {
		value = escapeWhitespace(value)
	}

	return []string{a.Name, value}
}

// RenderAll flattens an ordered argument list into tokens, preserving
// argument order and name-then-value order within each argument.
func RenderAll(args []Argument, opts RenderOptions) []string {
	tokens := make([]string, 0, len(args)*2)
	for _, arg := range args {
		tokens = append(tokens, arg.Render(opts)...)
	}

	return tokens
}

// Line renders an ordered argument list into a single display string.
func Line(args []Argument, opts RenderOptions) string {
	return strings.Join(RenderAll(args, opts), " ")
}

// escapeWhitespace prefixes every whitespace character that is not
// already preceded by a backslash in the input with a backslash.
func escapeWhitespace(value string) string {
	var out strings.Builder
	escaped := false
	for _, chr := range value {
		if unicode.IsSpace(chr) && !escaped {
			out.WriteByte('\\')
		}

		escaped = chr == '\\'
		out.WriteRune(chr)
	}

	return out.String()
}
