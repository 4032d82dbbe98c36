package rsync

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/uncaged-coder/echogit/pkg/command"
)

func TestMirror(t *testing.T) {
	runner := &command.Fake{}
	client := New(runner)

	client.Mirror("/data/photos", "orion:/srv/git/photos.rsync")
	client.Mirror("orion:/srv/git/photos.rsync/", "/data/photos")

	assert.Equal(t, []string{
		"rsync -a -z -u -r --exclude=.echogit/ /data/photos/ orion:/srv/git/photos.rsync",
		"rsync -a -z -u -r --exclude=.echogit/ orion:/srv/git/photos.rsync/ /data/photos",
	}, runner.CommandLines())
}
