package filelock

import (
	"path/filepath"
	"sync"
	"testing"
	"time"
)

func TestLockSerializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json.lock")

	unlock, err := Lock(path)
	if err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	var (
		wg       sync.WaitGroup
		acquired time.Time
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second, err := Lock(path)
		if err != nil {
			t.Errorf("second Lock failed: %v", err)
			return
		}
		acquired = time.Now()
		_ = second()
	}()

	time.Sleep(50 * time.Millisecond)
	released := time.Now()
	if err := unlock(); err != nil {
		t.Fatalf("unlock failed: %v", err)
	}
	wg.Wait()

	if acquired.Before(released) {
		t.Error("second lock was acquired while the first was held")
	}
}
