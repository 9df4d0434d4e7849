package app

import (
	"os"
	"strconv"
)

// ServiceName tags logs and the PostgreSQL application_name.
const ServiceName = "balcao"

// Version is overridden at build time with
// -ldflags "-X github.com/balcao/balcao/internal/app.Version=<tag>".
var Version = "dev"

// TestModeEnv, when true, makes the binary exit before touching
// PostgreSQL or Redis.
const TestModeEnv = "BALCAO_TEST_MODE"

// InTestMode reports whether BALCAO_TEST_MODE is set to a true value.
func InTestMode() bool {
	on, err := strconv.ParseBool(os.Getenv(TestModeEnv))
	return err == nil && on
}
