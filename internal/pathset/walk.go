package pathset

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/prn-tf/contentstore/internal/port"
)

// WalkOptions configures tree walking. ExcludePatterns adds optional
// doublestar glob filtering (e.g. "**/.git/**", "**/*.tmp") so a version
// can skip VCS directories and build artifacts; it changes which paths
// become assets and nothing else.
type WalkOptions struct {
	ExcludePatterns []string
}

// Walk produces a PathSet containing every file and directory reachable
// from root, with paths relative to root and directories carrying a
// trailing "/". Traversal is breadth-first over a growable queue of
// directories; iteration order within a directory is whatever Storage.
// Enumerate returns, since downstream components never depend on order.
func Walk(ctx context.Context, storage port.Storage, root string, opts WalkOptions) (*PathSet, error) {
	set := New()
	queue := []string{""} // paths relative to root; "" is the root itself

	for len(queue) > 0 {
		rel := queue[0]
		queue = queue[1:]

		absDir := root
		if rel != "" {
			absDir = storage.Join(root, rel)
		}

		entries, err := storage.Enumerate(ctx, absDir)
		if err != nil {
			return nil, err
		}

		for _, e := range entries {
			childRel := e.Name
			if rel != "" {
				childRel = rel + "/" + e.Name
			}

			if excluded(opts.ExcludePatterns, childRel) {
				continue
			}

			switch e.Kind {
			case port.EntryDir:
				set.Add(childRel + "/")
				queue = append(queue, childRel)
			default:
				set.Add(childRel)
			}
		}
	}

	return set, nil
}

func excluded(patterns []string, path string) bool {
	for _, pat := range patterns {
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
	}
	return false
}
