package cmd

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/syntax"
)

// echoCommand re-formats the composed pipeline through the shell printer
// and logs it instead of executing anything.
func echoCommand(logger *zerolog.Logger, line string) error {
	parser := syntax.NewParser()
	file, err := parser.Parse(strings.NewReader(line), "dry-run")
	if err != nil {
		return eris.Wrap(err, "Failed to parse the composed command")
	}

	printer := syntax.NewPrinter(
		syntax.Minify(true),
	)
	strBuffer := strings.Builder{}

	for _, stmt := range file.Stmts {
		strBuffer.Reset()
		printer.Print(&strBuffer, stmt)
		logger.Info().
			Bool("command", true).
			Msg(strBuffer.String())
	}

	return nil
}
