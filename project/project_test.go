package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("package.json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"),
			[]byte(`{"name": "shop-e2e", "version": "3.2.1"}`), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"),
			[]byte("module example.com/ignored\n"), 0644))

		info, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, Info{Name: "shop-e2e", Version: "3.2.1"}, info)
	})

	t.Run("go.mod", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"),
			[]byte("module github.com/example/checkout-bdd\n\ngo 1.22\n"), 0644))

		info, err := Load(dir)
		require.NoError(t, err)
		assert.Equal(t, Info{Name: "checkout-bdd"}, info)
	})

	t.Run("nothing", func(t *testing.T) {
		info, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, Info{}, info)
	})

	t.Run("broken package.json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(`{`), 0644))
		_, err := Load(dir)
		assert.Error(t, err)
	})

	t.Run("go.mod without module", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("go 1.22\n"), 0644))
		_, err := Load(dir)
		assert.Error(t, err)
	})
}
