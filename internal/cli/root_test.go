package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetFlags restores the package flag vars after a test mutates them.
func resetFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		configFlag = ""
		verboseFlag = false
		intervalFlag = ""
		timeoutFlag = ""
		sshPortFlag = 0
		execFlag = ""
		outputFlag = ""
		listenFlag = ""
		consoleFlag = false
		insecureFlag = false
		maxFailuresFlag = 0
	})
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".fleetstat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	resetFlags(t)
	configFlag = writeConfigFile(t, `
hosts:
  - gpu1
  - gpu2:2222
interval: 15s
command: nvidia-smi
`)

	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"gpu1", "gpu2:2222"}, cfg.Hosts)
	assert.Equal(t, 15*time.Second, cfg.Interval)
	assert.Equal(t, "nvidia-smi", cfg.Command)
}

func TestHostArgumentsOverrideFile(t *testing.T) {
	resetFlags(t)
	configFlag = writeConfigFile(t, "hosts:\n  - filehost\n")

	cfg, err := loadConfig([]string{"arg1", "arg2:2200"})
	require.NoError(t, err)

	assert.Equal(t, []string{"arg1", "arg2:2200"}, cfg.Hosts)
}

func TestFlagsOverrideFile(t *testing.T) {
	resetFlags(t)
	configFlag = writeConfigFile(t, `
hosts:
  - gpu1
interval: 15s
output: from_file.html
`)
	intervalFlag = "30s"
	execFlag = "gpustat --no-color"
	outputFlag = "from_flag.html"
	listenFlag = ":9090"
	sshPortFlag = 2022
	maxFailuresFlag = 5
	insecureFlag = true

	cfg, err := loadConfig(nil)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Interval)
	assert.Equal(t, "gpustat --no-color", cfg.Command)
	assert.Equal(t, "from_flag.html", cfg.Output)
	assert.Equal(t, ":9090", cfg.Listen)
	assert.Equal(t, 2022, cfg.SSHPort)
	assert.Equal(t, 5, cfg.MaxFailures)
	assert.True(t, cfg.Insecure)
}

func TestLoadConfigBadInterval(t *testing.T) {
	resetFlags(t)
	configFlag = writeConfigFile(t, "hosts:\n  - gpu1\n")
	intervalFlag = "not-a-duration"

	_, err := loadConfig(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-a-duration")
}

func TestLoadConfigBadTimeout(t *testing.T) {
	resetFlags(t)
	configFlag = writeConfigFile(t, "hosts:\n  - gpu1\n")
	timeoutFlag = "bogus"

	_, err := loadConfig(nil)
	require.Error(t, err)
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	resetFlags(t)
	configFlag = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := loadConfig(nil)
	require.Error(t, err)
}

func TestFormatVersion(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dev", "dev"},
		{"", ""},
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatVersion(tt.in))
	}
}

func TestSplitHosts(t *testing.T) {
	assert.Equal(t, []string{"a", "b:2200", "c"}, splitHosts("a, b:2200 ,c"))
	assert.Equal(t, []string{"solo"}, splitHosts("solo"))
	assert.Nil(t, splitHosts(""))
	assert.Nil(t, splitHosts(" , ,"))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "head", firstLine("head\ntail"))
	assert.Equal(t, "trimmed", firstLine("  trimmed  "))
	assert.Equal(t, "", firstLine(""))
}

func TestRootCommandRegistration(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"init", "check", "version", "completion"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}
