package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/labtime/pkg/browser"
	appconfig "github.com/entrhq/labtime/pkg/config"
	"github.com/entrhq/labtime/pkg/logging"
	"github.com/entrhq/labtime/pkg/reservation"
	"github.com/entrhq/labtime/pkg/store"
)

func TestMergeProfile(t *testing.T) {
	base := reservation.Profile{
		UserName:     "Taro",
		UserEmail:    "taro@example.ac.jp",
		UserPassword: "secret",
		UserLab:      "24638",
	}
	got := mergeProfile(base, reservation.Profile{UserEmail: "new@example.ac.jp", UserPhone: "1234"})

	assert.Equal(t, reservation.Profile{
		UserName:     "Taro",
		UserEmail:    "new@example.ac.jp",
		UserPhone:    "1234",
		UserPassword: "secret",
		UserLab:      "24638",
	}, got)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Hanako\nemail: hanako@example.ac.jp\nphone: \"0123\"\npassword: pw\nlab: \"24638\"\n"), 0600))

	p, err := loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "Hanako", p.UserName)
	assert.Equal(t, "0123", p.UserPhone)
	assert.Equal(t, "24638", p.UserLab)
	assert.True(t, p.Complete())

	_, err = loadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestConfigParse(t *testing.T) {
	config := &Config{}
	fs := newFlagSet("scrape", config)
	require.NoError(t, config.parse(fs, []string{"-url", "https://rsv.example.ac.jp/f/1", "-store", "memory"}))

	assert.True(t, config.isSet("url"))
	assert.True(t, config.isSet("store"))
	assert.False(t, config.isSet("headless"))
	assert.True(t, config.Headless)
	assert.Equal(t, "memory", config.Backend)

	assert.Error(t, (&Config{}).parse(newFlagSet("scrape", &Config{}), []string{"extra"}))
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"timeline", "scrape", "profile", "submit", "watch", "version"} {
		_, ok := lookup(name)
		assert.True(t, ok, name)
	}
	_, ok := lookup("book")
	assert.False(t, ok)
}

func TestSubmitterNeedsLivePage(t *testing.T) {
	a := &app{
		logger: logging.NewWriterLogger("labtime", &bytes.Buffer{}),
		store:  store.NewMemoryStore(),
	}
	report, err := a.submitter(&source{})(context.Background())
	assert.Nil(t, report)
	assert.ErrorIs(t, err, browser.ErrNoActivePage)
}

func TestRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	err := runConfig(context.Background(), &Config{}, []string{
		"-config", path,
		"-set", "page.url=https://rsv.example.ac.jp/facility/12",
		"-set", "storage.redis_db=3",
	})
	require.NoError(t, err)

	settings, err := appconfig.New(path)
	require.NoError(t, err)
	pageURL, _, _, _ := settings.Page().Settings()
	assert.Equal(t, "https://rsv.example.ac.jp/facility/12", pageURL)
	_, _, _, db := settings.Storage().Settings()
	assert.Equal(t, 3, db)

	err = runConfig(context.Background(), &Config{}, []string{"-config", path, "-set", "storage.redis_db=16"})
	assert.ErrorContains(t, err, "redis_db")

	require.NoError(t, runConfig(context.Background(), &Config{}, []string{"-config", path, "-reset"}))
	settings, err = appconfig.New(path)
	require.NoError(t, err)
	pageURL, _, _, _ = settings.Page().Settings()
	assert.Empty(t, pageURL)

	var out bytes.Buffer
	printSettings(&out, settings)
	assert.Contains(t, out.String(), "# "+path)
	assert.Contains(t, out.String(), "storage.redis_db = 0")
}

func TestAssignments(t *testing.T) {
	var a assignments
	require.NoError(t, a.Set("page.url=https://x.example/a=b"))
	assert.Error(t, a.Set("page.url"))
	assert.Equal(t, assignments{"page.url=https://x.example/a=b"}, a)
}
