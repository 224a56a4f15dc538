package gitdeck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncFailsFastOnUnreachableRemote(t *testing.T) {
	dir := t.TempDir()
	localPath := filepath.Join(dir, "decks-repo")

	err := Sync("https://example.invalid/does-not-exist.git", localPath, nil)
	assert.Error(t, err)

	_, statErr := os.Stat(localPath)
	assert.True(t, os.IsNotExist(statErr) || statErr == nil)
}
