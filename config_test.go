package archtoolkit

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithEnvOverridesTimeout(t *testing.T) {
	t.Setenv("ARCH_TOOLKIT_TIMEOUT", "45")
	cfg := Defaults().WithEnv()
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestWithEnvIgnoresUnparseableValues(t *testing.T) {
	t.Setenv("ARCH_TOOLKIT_MAX_RETRIES", "not-a-number")
	cfg := Defaults().WithEnv()
	assert.Equal(t, Defaults().MaxRetries, cfg.MaxRetries)
}

func TestWithEnvRetryEnabledBooleanGrammar(t *testing.T) {
	cases := map[string]bool{
		"true": true, "1": true, "yes": true, "ON": true,
		"false": false, "0": false, "no": false, "OFF": false,
	}
	for raw, want := range cases {
		t.Setenv("ARCH_TOOLKIT_RETRY_ENABLED", raw)
		cfg := Defaults().WithEnv()
		assert.Equal(t, want, cfg.RetryEnabled, "value %q", raw)
	}
}

func TestWithEnvUnrecognizedRetryEnabledLeavesDefault(t *testing.T) {
	t.Setenv("ARCH_TOOLKIT_RETRY_ENABLED", "maybe")
	cfg := Defaults().WithEnv()
	assert.Equal(t, Defaults().RetryEnabled, cfg.RetryEnabled)
}

func TestWithEnvValidationStrictTogglesMode(t *testing.T) {
	t.Setenv("ARCH_TOOLKIT_VALIDATION_STRICT", "false")
	cfg := Defaults().WithEnv()
	assert.Equal(t, ValidationLenient, cfg.Validation)
}

func TestWithEnvUnsetLeavesDefaults(t *testing.T) {
	os.Unsetenv("ARCH_TOOLKIT_TIMEOUT")
	cfg := Defaults().WithEnv()
	assert.Equal(t, Defaults().Timeout, cfg.Timeout)
}
