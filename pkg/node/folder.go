package node

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/uncaged-coder/echogit/pkg/errors"
)

// Folder is a directory that contains projects, other folders, or bare
// repositories. It doesn't count towards sync totals.
type Folder struct {
	baseNode
}

func newFolder(env *Env, path string, parent Node) (*Folder, error) {
	b, _, err := newFilesystemNode(env, folderName(path), path, parent)
	if err != nil {
		return nil, err
	}
	return &Folder{baseNode: b}, nil
}

// Type implements Node.
func (f *Folder) Type() Type {
	return SyncFolder
}

// IsFolder implements Node.
func (f *Folder) IsFolder() bool {
	return true
}

// Scan builds a node for every subdirectory. Subdirectories that can't be
// classified, that fail to load, or that are folders with nothing to sync
// are left out.
func (f *Folder) Scan() error {
	entries, err := afero.ReadDir(f.env.Fs, f.path)
	if err != nil {
		return errors.WithContext(err, "list directory")
	}

	f.children = nil
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		path := filepath.Join(f.path, entry.Name())
		typ := Classify(f.env.Fs, path)
		if typ == Unknown {
			f.logger().WithField("child", entry.Name()).Debug("Skipping unmanaged directory")
			continue
		}

		child, err := build(f.env, typ, path, f)
		if err == nil {
			err = child.Scan()
		}
		if err != nil {
			f.logger().WithError(err).WithField("child", entry.Name()).Warn("Skipping child")
			continue
		}

		if child.IsFolder() && len(child.Children()) == 0 {
			continue
		}
		f.children = append(f.children, child)
	}
	return nil
}

// Sync syncs every child and returns the sum of their results.
func (f *Folder) Sync(opts SyncOptions) Result {
	return f.syncChildren(opts)
}
