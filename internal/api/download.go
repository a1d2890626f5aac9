package api

import (
	"fmt"
	"path/filepath"
	"strings"

	"tutorial-studio/internal/model"
	"tutorial-studio/internal/store"
)

// DownloadTutorial streams a tutorial's artifact into destDir under its
// server-assigned filename. The destination is locked for the duration so a
// second invocation against the same artifact fails fast instead of racing.
func (c *Client) DownloadTutorial(t model.Tutorial, destDir string) (string, error) {
	rel := strings.TrimSpace(t.DownloadURL)
	if rel == "" {
		rel = strings.TrimSpace(t.VideoURL)
	}
	if rel == "" {
		return "", fmt.Errorf("tutorial %s has no downloadable media", t.ID)
	}

	name := strings.TrimSpace(t.VideoFilename)
	if name == "" {
		name = filepath.Base(rel)
	}
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("tutorial %s has no usable filename", t.ID)
	}
	dest := filepath.Join(destDir, name)

	lock, err := store.AcquireDownloadLock(dest)
	if err != nil {
		return "", err
	}
	defer func() {
		_ = lock.Release()
	}()

	body, err := c.FetchMedia(rel)
	if err != nil {
		return "", err
	}
	defer body.Close()

	if _, err := store.WriteStream(dest, body); err != nil {
		return "", err
	}
	return dest, nil
}
