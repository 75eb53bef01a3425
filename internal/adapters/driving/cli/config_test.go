package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	configfile "github.com/duoslide/duoslide-cli/internal/adapters/driven/config/file"
	"github.com/duoslide/duoslide-cli/internal/core/domain"
)

func execConfig(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func testConfigStore(t *testing.T) *configfile.Store {
	t.Helper()
	store, err := configfile.NewStore(t.TempDir())
	require.NoError(t, err)
	SetConfigStore(store)
	t.Cleanup(func() { SetConfigStore(nil) })
	return store
}

func TestConfigShow_Defaults(t *testing.T) {
	testConfigStore(t)

	out, err := execConfig(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget: 256 MiB")
	assert.Contains(t, out, "Pin radius: 1")
	assert.Contains(t, out, "(default "+defaultScreens+")")
}

func TestConfigSet_RoundTrip(t *testing.T) {
	store := testConfigStore(t)

	out, err := execConfig(t, "config", "set", "cache_budget_mb", "64")
	require.NoError(t, err)
	assert.Contains(t, out, "Set cache_budget_mb to 64")
	assert.Equal(t, int64(64<<20), store.EngineConfig().CacheBudgetBytes)

	out, err = execConfig(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Budget: 64 MiB")
}

func TestConfigSet_UnknownKey(t *testing.T) {
	testConfigStore(t)

	_, err := execConfig(t, "config", "set", "colour_scheme", "dark")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestConfigCmd_ListsSettableKeys(t *testing.T) {
	assert.Contains(t, configCmd.Long, "cache_budget_mb")
	assert.Contains(t, configCmd.Long, "screens")
}
