// Package guard forces test mode on for any package that imports it, so
// binaries skip runtime startup when linked into a test process.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("STITCHDESK_TEST_MODE") == "" {
			_ = os.Setenv("STITCHDESK_TEST_MODE", "1")
		}
	})
}
