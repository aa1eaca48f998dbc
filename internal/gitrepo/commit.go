package gitrepo

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
)

// CommitPaths stages the given files and commits only them with message.
// It returns committed=false when dir is not inside a repository or when the
// files carry no changes.
func CommitPaths(ctx context.Context, dir string, paths []string, message string) (committed bool, err error) {
	dir = filepath.Clean(dir)

	st, err := GetStatus(ctx, dir)
	if err != nil {
		return false, err
	}
	if !st.IsRepo {
		return false, nil
	}
	if st.Unmerged || st.InProgress {
		return false, errors.New("git repo has an in-progress merge/rebase; resolve first")
	}
	if len(paths) == 0 {
		return false, nil
	}

	targets := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return false, err
		}
		// Temp dirs may sit behind symlinks (/var -> /private/var) while git
		// reports the resolved root.
		if v, err := filepath.EvalSymlinks(abs); err == nil {
			abs = v
		}
		targets = append(targets, abs)
	}
	if _, err := git(ctx, dir, append([]string{"add", "--"}, targets...)...); err != nil {
		return false, err
	}

	out, err := git(ctx, dir, append([]string{"diff", "--cached", "--name-only", "--"}, targets...)...)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(out) == "" {
		return false, nil
	}

	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = "Publish: skills report"
	}
	// Only the given paths are committed, whatever else is staged.
	if _, err := git(ctx, dir, append([]string{"commit", "-m", msg, "--"}, targets...)...); err != nil {
		return false, err
	}
	return true, nil
}
