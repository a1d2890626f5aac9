package store

import (
	"path/filepath"
	"testing"
)

func TestAcquireDownloadLock_SecondAcquireFails(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "video.mp4")

	lock, err := AcquireDownloadLock(dest)
	if err != nil {
		t.Fatalf("first acquire failed: %v", err)
	}

	if _, err := AcquireDownloadLock(dest); err == nil {
		t.Fatal("expected second acquire to fail while lock held")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	lock2, err := AcquireDownloadLock(dest)
	if err != nil {
		t.Fatalf("acquire after release failed: %v", err)
	}
	if err := lock2.Release(); err != nil {
		t.Fatalf("second release failed: %v", err)
	}
}

func TestReleaseZeroValueLockIsNoop(t *testing.T) {
	var lock DownloadLock
	if err := lock.Release(); err != nil {
		t.Fatalf("zero-value release returned error: %v", err)
	}
}
