package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) (*Store, string, string) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	localPath := filepath.Join(dir, "local.toml")
	s, err := OpenStore(cfgPath, localPath, nil)
	require.NoError(t, err)
	return s, cfgPath, localPath
}

func TestStore_OptionsPersist(t *testing.T) {
	s, cfgPath, localPath := openTestStore(t)

	require.NoError(t, s.SetOption("key", "abc"))
	require.NoError(t, s.SetLocalOption("lang", "de"))
	assert.Equal(t, "abc", s.Option("key"))
	assert.Equal(t, "de", s.LocalOption("lang"))

	reopened, err := OpenStore(cfgPath, localPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", reopened.Option("key"))
	assert.Equal(t, "de", reopened.LocalOption("lang"))
}

func TestStore_EmptyValueRemoves(t *testing.T) {
	s, _, _ := openTestStore(t)
	require.NoError(t, s.SetOption("key", "abc"))
	require.NoError(t, s.SetOption("key", ""))

	_, present := s.Options()["key"]
	assert.False(t, present)
}

func TestStore_SetOptionsDropsEmpty(t *testing.T) {
	s, _, _ := openTestStore(t)
	require.NoError(t, s.SetOption("stale", "x"))

	require.NoError(t, s.SetOptions(map[string]string{"a": "", "b": "1"}))
	assert.Equal(t, map[string]string{"b": "1"}, s.Options())
}

func TestStore_OptionsIsCopy(t *testing.T) {
	s, _, _ := openTestStore(t)
	require.NoError(t, s.SetOption("a", "1"))

	opts := s.Options()
	opts["a"] = "2"
	assert.Equal(t, "1", s.Option("a"))
}

func TestStore_Socks(t *testing.T) {
	s, _, _ := openTestStore(t)

	require.NoError(t, s.SetSocks(SocksConfig{Proxy: "p:1080", Username: "u", Password: "pw"}))
	assert.Equal(t, SocksConfig{Proxy: "p:1080", Username: "u", Password: "pw"}, s.Socks())

	// Clearing the proxy clears the credentials too
	require.NoError(t, s.SetSocks(SocksConfig{Username: "u"}))
	assert.Equal(t, SocksConfig{}, s.Socks())
}

func TestStore_UIState(t *testing.T) {
	s, cfgPath, localPath := openTestStore(t)

	assert.Equal(t, []int{0, 0, DefaultWindowWidth, DefaultWindowHeight}, s.Size())

	require.NoError(t, s.SetRemoteID("987654321"))
	require.NoError(t, s.SetSize(5, 6, 700, 500))

	reopened, err := OpenStore(cfgPath, localPath, nil)
	require.NoError(t, err)
	assert.Equal(t, "987654321", reopened.RemoteID())
	assert.Equal(t, []int{5, 6, 700, 500}, reopened.Size())
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s, _, _ := openTestStore(t)

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.SetOption("k", "v")
			_ = s.Options()
			_ = s.SetSize(i, i, 100, 100)
			_ = s.Size()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, "v", s.Option("k"))
}

func TestStore_FailedSaveKeepsMemory(t *testing.T) {
	s, _, _ := openTestStore(t)
	require.NoError(t, s.SetOption("key", "abc"))
	require.NoError(t, s.SetLocalOption("lang", "de"))
	require.NoError(t, s.SetRemoteID("123456789"))

	// A regular file where the config directory should be makes every save fail.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))
	s.cfgPath = filepath.Join(blocker, "config.toml")
	s.localPath = filepath.Join(blocker, "local.toml")

	assert.Error(t, s.SetOption("key", "xyz"))
	assert.Error(t, s.SetOption("key", ""))
	assert.Error(t, s.SetOptions(map[string]string{"other": "1"}))
	assert.Error(t, s.SetSocks(SocksConfig{Proxy: "127.0.0.1:1080"}))
	assert.Error(t, s.SetLocalOption("lang", "fr"))
	assert.Error(t, s.SetRemoteID("987654321"))
	assert.Error(t, s.SetSize(1, 2, 3, 4))

	assert.Equal(t, map[string]string{"key": "abc"}, s.Options())
	assert.Empty(t, s.Socks().Proxy)
	assert.Equal(t, "de", s.LocalOption("lang"))
	assert.Equal(t, "123456789", s.RemoteID())
	assert.Equal(t, []int{0, 0, DefaultWindowWidth, DefaultWindowHeight}, s.Size())
}
