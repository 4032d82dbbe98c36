package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/errors"
)

const (
	// DirName is the hidden directory that marks a managed project and holds
	// its configuration and status caches.
	DirName = ".echogit"

	// FileName is the name of the configuration file inside DirName.
	FileName = "config.ini"
)

// parseConfigErrTemplate is a template for when a configuration file can't be
// parsed as INI.
const parseConfigErrTemplate = "Configuration file could not be parsed. " +
	"Please review %q.\n" +
	"For reference, here is the error from the parser:\n" +
	"%s"

// loadINI reads and parses the INI file at `path`.
func loadINI(fs afero.Fs, path string) (*ini.File, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: path}
		}
		return nil, errors.WithContext(err, "read file")
	}

	f, err := ini.Load(data)
	if err != nil {
		return nil, errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}
	return f, nil
}

// writeINI writes `f` to `path`, creating the parent directory if needed.
func writeINI(fs afero.Fs, path string, f *ini.File) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.WithContext(err, "create directory")
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return errors.WithContext(err, "encode")
	}

	if err := afero.WriteFile(fs, path, buf.Bytes(), 0644); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// getList parses a comma separated list. Empty items are dropped.
func getList(sec *ini.Section, key string) []string {
	var items []string
	for _, item := range strings.Split(sec.Key(key).String(), ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
