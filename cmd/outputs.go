package cmd

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
)

// publishOutputs makes both rendered command lines available to the
// caller: on the console and, when the environment provides a GitHub
// Actions output file, as step outputs.
func publishOutputs(unresolved, resolved string) error {
	printSubtask(fmt.Sprintf("unresolved-command: %s", unresolved))
	printSubtask(fmt.Sprintf("executed-command: %s", resolved))

	outPath := os.Getenv("GITHUB_OUTPUT")
	if outPath == "" {
		return nil
	}

	file, err := os.OpenFile(outPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, os.FileMode(0644))
	if err != nil {
		return eris.Wrapf(err, "Could not open output file %s.", outPath)
	}
	defer file.Close()

	_, err = fmt.Fprintf(file, "unresolved-command=%s\nexecuted-command=%s\n", unresolved, resolved)
	if err != nil {
		return eris.Wrapf(err, "Failed to write outputs to %s.", outPath)
	}

	return nil
}
