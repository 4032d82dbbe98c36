package command

import (
	"strings"
)

// Call records a single invocation made against a Fake.
type Call struct {
	Dir  string
	Name string
	Args []string
}

// String returns the command line without the working directory, e.g.
// "git push alice master".
func (c Call) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// Fake is a Runner that returns scripted results. It's used by tests in
// packages that shell out.
type Fake struct {
	// Handler, if set, decides the result of every call.
	Handler func(Call) Result

	// Responses maps a command line (see Call.String) to its result. Calls
	// without a response succeed with empty output.
	Responses map[string]Result

	Calls []Call
}

// Run implements Runner.
func (f *Fake) Run(dir, name string, args ...string) Result {
	call := Call{Dir: dir, Name: name, Args: args}
	f.Calls = append(f.Calls, call)

	if f.Handler != nil {
		return f.Handler(call)
	}
	if res, ok := f.Responses[call.String()]; ok {
		return res
	}
	return Result{}
}

// CommandLines returns the command line of every call made so far.
func (f *Fake) CommandLines() []string {
	var lines []string
	for _, call := range f.Calls {
		lines = append(lines, call.String())
	}
	return lines
}
