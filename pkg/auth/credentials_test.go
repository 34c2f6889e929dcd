package auth

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mchmarny/textscore/pkg/ocr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestSaveAndLoad_Keychain(t *testing.T) {
	keyring.MockInit()
	s := NewStore(t.TempDir())

	require.NoError(t, s.Save(ocr.Credentials{APIKey: "key-1"}))
	assert.NoFileExists(t, s.filePath())

	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "key-1", c.APIKey)
}

func TestSave_Empty(t *testing.T) {
	keyring.MockInit()
	assert.Error(t, NewStore(t.TempDir()).Save(ocr.Credentials{}))
}

func TestSave_FileFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("no keychain"))
	s := NewStore(t.TempDir())

	require.NoError(t, s.Save(ocr.Credentials{Token: "tok-1"}))

	info, err := os.Stat(s.filePath())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(fileMode), info.Mode().Perm())

	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-1", c.Token)
}

func TestLoad_MigratesFile(t *testing.T) {
	keyring.MockInit()
	dir := t.TempDir()
	s := NewStore(dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, credentialsFileName), []byte(`{"api_key":"old"}`), fileMode))

	c, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "old", c.APIKey)
	assert.NoFileExists(t, s.filePath())

	c, err = s.Load()
	require.NoError(t, err)
	assert.Equal(t, "old", c.APIKey)
}

func TestLoad_None(t *testing.T) {
	keyring.MockInit()
	_, err := NewStore(t.TempDir()).Load()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestResolve(t *testing.T) {
	keyring.MockInit()
	s := NewStore(t.TempDir())

	c, err := s.Resolve()
	require.NoError(t, err)
	assert.True(t, c.IsZero())

	require.NoError(t, s.Save(ocr.Credentials{APIKey: "saved"}))
	c, err = s.Resolve()
	require.NoError(t, err)
	assert.Equal(t, "saved", c.APIKey)

	t.Setenv(EnvToken, "from-env")
	c, err = s.Resolve()
	require.NoError(t, err)
	assert.Equal(t, ocr.Credentials{Token: "from-env"}, c)
}

func TestDelete(t *testing.T) {
	keyring.MockInit()
	s := NewStore(t.TempDir())

	require.NoError(t, s.Save(ocr.Credentials{APIKey: "k"}))
	require.NoError(t, s.Delete())

	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNoCredentials)

	// deleting nothing is fine
	assert.NoError(t, s.Delete())
}
