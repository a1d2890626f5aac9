package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const downloadLockOwnerFile = "owner.json"

// DownloadLock guards one destination file so two concurrent downloads of the
// same artifact cannot interleave their temp-rename writes.
type DownloadLock struct {
	lockDir string
}

type downloadLockOwner struct {
	PID       int    `json:"pid"`
	CreatedAt string `json:"created_at"`
	Hostname  string `json:"hostname,omitempty"`
}

func AcquireDownloadLock(destPath string) (DownloadLock, error) {
	target := strings.TrimSpace(destPath)
	if target == "" {
		return DownloadLock{}, fmt.Errorf("download destination is required")
	}

	lockDir := target + ".lock"
	if err := os.MkdirAll(filepath.Dir(lockDir), 0o755); err != nil {
		return DownloadLock{}, fmt.Errorf("create parent for %s: %w", lockDir, err)
	}
	if err := os.Mkdir(lockDir, 0o755); err != nil {
		if os.IsExist(err) {
			ownerPath := filepath.Join(lockDir, downloadLockOwnerFile)
			var owner downloadLockOwner
			if readErr := ReadJSON(ownerPath, &owner); readErr == nil && owner.PID > 0 && owner.CreatedAt != "" {
				return DownloadLock{}, fmt.Errorf(
					"download already in progress for %s (pid=%d created_at=%s host=%s)",
					target, owner.PID, owner.CreatedAt, owner.Hostname,
				)
			}
			return DownloadLock{}, fmt.Errorf("download already in progress for %s", target)
		}
		return DownloadLock{}, fmt.Errorf("acquire download lock for %s: %w", target, err)
	}

	owner := downloadLockOwner{
		PID:       os.Getpid(),
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Hostname:  hostnameOrUnknown(),
	}
	ownerPath := filepath.Join(lockDir, downloadLockOwnerFile)
	if err := WriteJSON(ownerPath, owner); err != nil {
		_ = os.Remove(lockDir)
		return DownloadLock{}, fmt.Errorf("write download lock owner for %s: %w", target, err)
	}

	return DownloadLock{lockDir: lockDir}, nil
}

func (l DownloadLock) Release() error {
	if strings.TrimSpace(l.lockDir) == "" {
		return nil
	}
	_ = os.Remove(filepath.Join(l.lockDir, downloadLockOwnerFile))
	if err := os.Remove(l.lockDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("release download lock %s: %w", l.lockDir, err)
	}
	return nil
}

func hostnameOrUnknown() string {
	host, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	host = strings.TrimSpace(host)
	if host == "" {
		return "unknown"
	}
	return host
}
