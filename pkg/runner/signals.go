package runner

// signalNumbers maps signal names to their conventional numeric values.
// The numbers follow the classic Linux/x86 layout. SIGIOT/SIGABRT and
// SIGPOLL/SIGIO share a number, as they historically did. SIGINFO and
// SIGEMT exist only on BSD-derived systems and have no Linux number; 63
// and 64 are conventional placeholders, not real kernel values.
var signalNumbers = map[string]int{
	"SIGHUP":    1,
	"SIGINT":    2,
	"SIGQUIT":   3,
	"SIGILL":    4,
	"SIGTRAP":   5,
	"SIGABRT":   6,
	"SIGIOT":    6,
	"SIGBUS":    7,
	"SIGFPE":    8,
	"SIGKILL":   9,
	"SIGUSR1":   10,
	"SIGSEGV":   11,
	"SIGUSR2":   12,
	"SIGPIPE":   13,
	"SIGALRM":   14,
	"SIGTERM":   15,
	"SIGSTKFLT": 16,
	"SIGCHLD":   17,
	"SIGCONT":   18,
	"SIGSTOP":   19,
	"SIGTSTP":   20,
	"SIGTTIN":   21,
	"SIGTTOU":   22,
	"SIGURG":    23,
	"SIGXCPU":   24,
	"SIGXFSZ":   25,
	"SIGVTALRM": 26,
	"SIGPROF":   27,
	"SIGWINCH":  28,
	"SIGIO":     29,
	"SIGPOLL":   29,
	"SIGPWR":    30,
	"SIGSYS":    31,
	"SIGUNUSED": 31,
	"SIGINFO":   63,
	"SIGEMT":    64,
}

// SignalNumber returns the conventional numeric value for a signal name.
func SignalNumber(name string) (int, bool) {
	num, ok := signalNumbers[name]
	return num, ok
}
