// Package statuscache persists the outcome of the last synchronization of a
// branch, so that it can be displayed without syncing again.
package statuscache

import (
	"bytes"
	"encoding/base64"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-ini/ini"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/config"
	"github.com/uncaged-coder/echogit/pkg/errors"
)

// Step names a tracked step of a synchronization.
type Step string

const (
	RemoteAdd Step = "remote_add"
	Push      Step = "push"
	Pull      Step = "pull"
	Status    Step = "status"
)

// Steps lists the tracked steps in execution order.
var Steps = []Step{RemoteAdd, Push, Pull, Status}

// Flag returns the single letter used for the step in status strings.
func (s Step) Flag() string {
	switch s {
	case RemoteAdd:
		return "R"
	case Push:
		return "P"
	case Pull:
		return "L"
	case Status:
		return "D"
	}
	return "?"
}

// StepResult is the captured outcome of one step.
type StepResult struct {
	ExitCode int
	Stdout   string
	Stderr   string

	// Dirty is set on the status step when the working tree still had
	// changes after pushing and pulling. The tool itself exits with 0 in
	// that case.
	Dirty bool
}

// Failed returns whether the step should be reported as an error.
func (r StepResult) Failed() bool {
	return r.ExitCode != 0 || r.Dirty
}

// Results maps each tracked step to its outcome.
type Results map[Step]StepResult

// NewResults returns successful, empty results for every tracked step.
func NewResults() Results {
	results := Results{}
	for _, step := range Steps {
		results[step] = StepResult{}
	}
	return results
}

// Failures returns the steps that failed.
func (r Results) Failures() Results {
	failures := Results{}
	for step, res := range r {
		if res.Failed() {
			failures[step] = res
		}
	}
	return failures
}

// Snapshot is a cached synchronization outcome.
type Snapshot struct {
	Results  Results
	PeerDown bool
	Date     time.Time
}

const (
	errorsSection = "Errors"
	stdoutSection = "Stdout"
	stderrSection = "Stderr"
	dirtySection  = "Dirty"
	metaSection   = "Meta"

	cacheDirName = "status_cache"
)

// Command outputs are stored base64 encoded, since INI values can't hold
// arbitrary text such as lines containing triple quotes.
func encodeText(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

func decodeText(value string) (string, error) {
	text, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", errors.WithContext(err, "decode output")
	}
	return string(text), nil
}

// Cache reads and writes the status file of one synced unit.
type Cache struct {
	fs    afero.Fs
	clock clockwork.Clock
	path  string
}

// New returns the cache of the unit `name` synced against `peer` in the
// project at `projectPath`. The file lives in the project's hidden config
// directory, e.g. `.echogit/status_cache/alice/master.ini`.
func New(fs afero.Fs, clock clockwork.Clock, projectPath, peer, name string) *Cache {
	return &Cache{
		fs:    fs,
		clock: clock,
		path: filepath.Join(projectPath, config.DirName, cacheDirName,
			url.PathEscape(peer), url.PathEscape(name)+".ini"),
	}
}

// Path returns the location of the cache file.
func (c *Cache) Path() string {
	return c.path
}

// Save writes `results` and the peer liveness to disk, stamped with the
// current time.
func (c *Cache) Save(results Results, peerDown bool) (Snapshot, error) {
	st := Snapshot{
		Results:  results,
		PeerDown: peerDown,
		Date:     c.clock.Now(),
	}

	f := ini.Empty()
	errorsSec, _ := f.NewSection(errorsSection)
	stderrSec, _ := f.NewSection(stderrSection)
	stdoutSec, _ := f.NewSection(stdoutSection)
	dirtySec, _ := f.NewSection(dirtySection)
	for _, step := range Steps {
		res := results[step]
		errorsSec.Key(string(step)).SetValue(strconv.Itoa(res.ExitCode))
		stderrSec.Key(string(step)).SetValue(encodeText(res.Stderr))
		stdoutSec.Key(string(step)).SetValue(encodeText(res.Stdout))
		dirtySec.Key(string(step)).SetValue(strconv.FormatBool(res.Dirty))
	}

	meta, _ := f.NewSection(metaSection)
	meta.Key("peer_down").SetValue(strconv.FormatBool(peerDown))
	meta.Key("cache_date").SetValue(st.Date.Format(time.RFC3339Nano))

	if err := c.fs.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return Snapshot{}, errors.WithContext(err, "create cache directory")
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return Snapshot{}, errors.WithContext(err, "encode")
	}
	if err := afero.WriteFile(c.fs, c.path, buf.Bytes(), 0644); err != nil {
		return Snapshot{}, errors.WithContext(err, "write")
	}
	return st, nil
}

// Load reads the cached status. The boolean is false when there's no usable
// cache: the file is missing or unreadable, or the last sync happened while
// the peer was down. The returned Snapshot is still populated in the latter
// case.
func (c *Cache) Load() (Snapshot, bool) {
	data, err := afero.ReadFile(c.fs, c.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.WithError(err).WithField("path", c.path).Warn("Failed to read status cache")
		}
		return Snapshot{}, false
	}

	f, err := ini.Load(data)
	if err != nil {
		log.WithError(err).WithField("path", c.path).Warn("Ignoring unparsable status cache")
		return Snapshot{}, false
	}

	st := Snapshot{Results: Results{}}
	for _, step := range Steps {
		res, err := readStep(f, step)
		if err != nil {
			log.WithError(err).WithField("path", c.path).Warn("Ignoring unparsable status cache")
			return Snapshot{}, false
		}
		st.Results[step] = res
	}

	meta := f.Section(metaSection)
	st.PeerDown = meta.Key("peer_down").MustBool(false)
	if date := meta.Key("cache_date").String(); date != "" {
		if st.Date, err = time.Parse(time.RFC3339Nano, date); err != nil {
			log.WithError(err).WithField("path", c.path).Debug("Bad cache_date")
		}
	}

	if st.PeerDown {
		return st, false
	}
	return st, true
}

func readStep(f *ini.File, step Step) (StepResult, error) {
	key := string(step)
	stderr, err := decodeText(f.Section(stderrSection).Key(key).String())
	if err != nil {
		return StepResult{}, err
	}

	stdout, err := decodeText(f.Section(stdoutSection).Key(key).String())
	if err != nil {
		return StepResult{}, err
	}

	return StepResult{
		ExitCode: f.Section(errorsSection).Key(key).MustInt(0),
		Stdout:   stdout,
		Stderr:   stderr,
		Dirty:    f.Section(dirtySection).Key(key).MustBool(false),
	}, nil
}
