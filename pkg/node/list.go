package node

import (
	"path/filepath"
)

// BareRepos returns the bare repositories of the tree rooted at `root`,
// mapping their path relative to `base`, with a trailing slash, to their
// name. This is the listing peers request with the `list` command.
func BareRepos(root Node, base string) map[string]string {
	repos := map[string]string{}
	collectBareRepos(root, base, repos)
	return repos
}

func collectBareRepos(n Node, base string, repos map[string]string) {
	switch n.Type() {
	case BareGitRepo, BareRsyncRepo:
		rel, err := filepath.Rel(base, n.Path())
		if err != nil {
			rel = n.Path()
		}
		repos[filepath.ToSlash(rel)+"/"] = n.Name()
		return
	}

	for _, child := range n.Children() {
		collectBareRepos(child, base, repos)
	}
}

// Walk calls `fn` on every node of the tree rooted at `n`, parents before
// children, with the depth of the node below `n`.
func Walk(n Node, fn func(n Node, depth int)) {
	walk(n, 0, fn)
}

func walk(n Node, depth int, fn func(Node, int)) {
	fn(n, depth)
	for _, child := range n.Children() {
		walk(child, depth+1, fn)
	}
}
