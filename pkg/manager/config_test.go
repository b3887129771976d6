package manager

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolateConfigDirs points every config lookup at a fresh temp dir.
func isolateConfigDirs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("GWKIT_CONFIG", "")
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestConfigValidate_RejectsDuplicateUsers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Users = []string{"irteam", "irteam"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate user")
}

func TestConfigValidate_RejectsLoginCommandWithoutHost(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoginCommand = []string{"rlogin", "-l", "{user}"}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "login_command")
}

func TestConfigValidate_RejectsBadPageSizeAndLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PageSize = -1
	assert.ErrorContains(t, cfg.Validate(), "page_size")

	cfg = DefaultConfig()
	cfg.LogLevel = "chatty"
	assert.ErrorContains(t, cfg.Validate(), "log_level")
}

func TestLoadConfig_DefaultsWhenMissing(t *testing.T) {
	home := isolateConfigDirs(t)

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "", path)
	assert.Equal(t, []string{"irteam", "irteamsu"}, cfg.Users)
	assert.Equal(t, []string{"rlogin", "-l", "{user}", "{host}"}, cfg.LoginCommand)
	assert.Equal(t, 20, cfg.PageSize)
	assert.Equal(t, filepath.Join(home, "xdg", "gwkit", "server_list.json"), cfg.Catalog)
	assert.Equal(t, filepath.Join(home, ".kinit_passwd"), cfg.Auth.PasswordFile)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_FromXDG(t *testing.T) {
	home := isolateConfigDirs(t)
	p := filepath.Join(home, "xdg", "gwkit", "config.yaml")
	writeFile(t, p, `
catalog: ~/hosts.yaml
users: [admin, deploy]
login_command: [ssh, "{user}@{host}"]
page_size: 5
transcripts: true
`)

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, p, path)
	assert.Equal(t, filepath.Join(home, "hosts.yaml"), cfg.Catalog)
	assert.Equal(t, []string{"admin", "deploy"}, cfg.Users)
	assert.Equal(t, 5, cfg.PageSize)
	assert.True(t, cfg.Transcripts)
	assert.Equal(t, []string{"ssh", "deploy@web01"}, cfg.LoginArgv("deploy", "web01"))
}

func TestLoadConfig_EnvWinsOverXDG(t *testing.T) {
	home := isolateConfigDirs(t)
	writeFile(t, filepath.Join(home, "xdg", "gwkit", "config.yaml"), "users: [xdg]\n")
	envPath := filepath.Join(home, "custom.yaml")
	writeFile(t, envPath, "users: [env]\n")
	t.Setenv("GWKIT_CONFIG", envPath)

	cfg, path, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, envPath, path)
	assert.Equal(t, []string{"env"}, cfg.Users)
}

func TestLoadConfig_ExplicitPathErrors(t *testing.T) {
	home := isolateConfigDirs(t)

	_, _, err := LoadConfig(filepath.Join(home, "nope.yaml"))
	require.ErrorIs(t, err, ErrConfigNotFound)

	bad := filepath.Join(home, "bad.yaml")
	writeFile(t, bad, "users: [a, a]\n")
	_, _, err = LoadConfig(bad)
	assert.ErrorContains(t, err, "invalid config")
}

func TestLoginArgv_SubstitutesEveryArgument(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{"rlogin", "-l", "irteamsu", "db01"}, cfg.LoginArgv("irteamsu", "db01"))
	assert.Equal(t, []string{"rlogin", "-l", "{user}", "{host}"}, cfg.LoginCommand)
}

func TestUserIndex(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 1, cfg.UserIndex("irteamsu"))
	assert.Equal(t, 0, cfg.UserIndex("root"))
}
