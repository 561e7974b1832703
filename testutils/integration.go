package testutils

import (
	"os"
	"testing"
)

// RequireEnv returns the value of key or skips the test when it is unset.
// Integration tests use TEST_REDIS_URL, TEST_MONGO_URI and TEST_MYSQL_DSN.
func RequireEnv(t *testing.T, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set, skipping integration test", key)
	}
	return value
}
