package peer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFakeRemote(t *testing.T) {
	remote := &FakeRemote{
		Outputs: map[string]string{"echo hi": "hi"},
		Errors:  map[string]error{"false": CommandError{Command: "false", ExitCode: 1}},
	}

	out, err := remote.Execute("orion.lan", "echo hi")
	assert.NoError(t, err)
	assert.Equal(t, "hi", out)

	_, err = remote.Execute("orion.lan", "false")
	assert.Equal(t, CommandError{Command: "false", ExitCode: 1}, err)

	out, err = remote.Execute("orion.lan", "true")
	assert.NoError(t, err)
	assert.Empty(t, out)

	remote.Handler = func(host, cmd string) (string, error) { return host, nil }
	out, _ = remote.Execute("orion.lan", "echo hi")
	assert.Equal(t, "orion.lan", out)

	assert.Equal(t, []string{"echo hi", "false", "true", "echo hi"}, remote.Calls)
}
