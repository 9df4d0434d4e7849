// Package testing prepares the environment of any test binary that imports
// it: the balcao binary runs in test mode and config loading finds the
// variables it requires without a .env file.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

// Defaults are only applied to variables the caller has not set.
var Defaults = map[string]string{
	"BALCAO_TEST_MODE": "1",
	"APP_ENV":          "test",
	"LOG_FORMAT":       "json",
	"LOG_LEVEL":        "warn",
	"JWT_SECRET":       "balcao-test-secret-with-32-bytes!",
}

var once sync.Once

// Setup applies Defaults once per process.
func Setup() {
	once.Do(func() {
		for key, value := range Defaults {
			if _, set := os.LookupEnv(key); !set {
				_ = os.Setenv(key, value)
			}
		}
	})
}

func init() {
	Setup()
}

// TestMain is available to packages that declare no TestMain of their own.
func TestMain(m *stdtesting.M) {
	Setup()
	os.Exit(m.Run())
}
