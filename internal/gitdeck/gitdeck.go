// Package gitdeck clones or pulls a git-hosted deck repository into a
// local decks directory before deck sync runs. This supplements
// spec.md's local-TSV-only deck source with a shared, versioned one.
package gitdeck

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"

	"github.com/jwulff/kbsr/internal/kbrserr"
)

// Sync clones url into localPath if nothing is there yet, or pulls the
// latest changes if a repository already exists there.
func Sync(url, localPath string, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}

	_, err := os.Stat(localPath)
	switch {
	case os.IsNotExist(err):
		log.Info("cloning deck repository", "url", url, "path", localPath)
		if _, err := git.PlainClone(localPath, false, &git.CloneOptions{URL: url}); err != nil {
			return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("clone deck repository %s: %w", url, err))
		}
		return nil
	case err != nil:
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("stat deck repository path %s: %w", localPath, err))
	}

	log.Info("pulling deck repository", "path", localPath)
	repo, err := git.PlainOpen(localPath)
	if err != nil {
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("open deck repository at %s: %w", localPath, err))
	}
	wt, err := repo.Worktree()
	if err != nil {
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("get worktree for deck repository at %s: %w", localPath, err))
	}
	if err := wt.Pull(&git.PullOptions{RemoteName: "origin"}); err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return kbrserr.Wrap(kbrserr.ErrIo, fmt.Errorf("pull deck repository at %s: %w", localPath, err))
	}
	return nil
}
