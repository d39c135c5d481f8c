package app

import (
	"os"
	"sync"
)

const testModeEnv = "LEDGERLINE_TEST_MODE"

var (
	testModeMu   sync.Mutex
	testMode     bool
	testModeRead bool
)

// InTestMode reports whether side effects such as binding sockets should
// be skipped. The LEDGERLINE_TEST_MODE flag is read once and cached.
func InTestMode() bool {
	testModeMu.Lock()
	defer testModeMu.Unlock()
	if !testModeRead {
		testMode = os.Getenv(testModeEnv) == "1"
		testModeRead = true
	}
	return testMode
}

// RefreshTestMode re-reads the flag. Tests use it after mutating the
// environment.
func RefreshTestMode() {
	testModeMu.Lock()
	defer testModeMu.Unlock()
	testMode = os.Getenv(testModeEnv) == "1"
	testModeRead = true
}
