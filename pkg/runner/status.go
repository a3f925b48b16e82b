package runner

// Status captures how a process settled: with an exit code, killed by a
// signal, or neither. A status carrying neither field has historically
// been treated as a successful exit and that behavior is kept, so the
// zero value reports code 0.
type Status struct {
	ExitCode *int
	Signal   string
}

// ExitStatus returns a Status for a plain exit code.
func ExitStatus(code int) Status {
	return Status{ExitCode: &code}
}

// SignalStatus returns a Status for a process killed by the named signal.
func SignalStatus(name string) Status {
	return Status{Signal: name}
}

// Code reduces the status to a single non-negative integer: the exit
// code if present, otherwise the mapped signal number, otherwise 0.
// Signal names missing from the table count as a generic failure.
func (s Status) Code() int {
	if s.ExitCode != nil {
		return *s.ExitCode
	}

	if s.Signal != "" {
		if num, ok := SignalNumber(s.Signal); ok {
			return num
		}

		return 1
	}

	return 0
}

// Combine merges the primary and formatter results into the final code:
// a failing primary always wins, a successful primary defers entirely to
// the formatter.
func Combine(primary, secondary Status) int {
	if code := primary.Code(); code != 0 {
		return code
	}

	return secondary.Code()
}
