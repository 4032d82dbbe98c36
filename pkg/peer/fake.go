package peer

// FakeRemote is a RemoteExecutor that returns scripted results.
type FakeRemote struct {
	// Handler, if set, decides the result of every call.
	Handler func(host, cmd string) (string, error)

	// Outputs and Errors are keyed by command. Commands without an entry
	// succeed with no output.
	Outputs map[string]string
	Errors  map[string]error

	Calls []string
}

// Execute implements RemoteExecutor.
func (f *FakeRemote) Execute(host, cmd string) (string, error) {
	f.Calls = append(f.Calls, cmd)
	if f.Handler != nil {
		return f.Handler(host, cmd)
	}
	if err, ok := f.Errors[cmd]; ok {
		return "", err
	}
	return f.Outputs[cmd], nil
}
