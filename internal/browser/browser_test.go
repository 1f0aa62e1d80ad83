package browser

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvbacktest/internal/grid"
)

func TestDefaultSelectStrategiesOrder(t *testing.T) {
	strategies := DefaultSelectStrategies()

	require.Len(t, strategies, 3)
	assert.Equal(t, "set-value", strategies[0].Name)
	assert.Equal(t, "js-events", strategies[1].Name)
	assert.Equal(t, "click-keys", strategies[2].Name)

	for _, s := range strategies {
		assert.NotNil(t, s.Build(`#startYear`, "1998"), s.Name)
	}
}

func TestDefaultSelectorsFallbackChains(t *testing.T) {
	sel := DefaultSelectors()

	assert.NotEmpty(t, sel.LoginEmail)
	assert.NotEmpty(t, sel.LoginPassword)
	assert.NotEmpty(t, sel.LoginSubmit)

	// the primary selector comes first, generic fallbacks after
	assert.Equal(t, `#email`, sel.LoginEmail[0])
	assert.Equal(t, `#password`, sel.LoginPassword[0])
}

func TestSelectorFormats(t *testing.T) {
	sel := DefaultSelectors()

	assert.Equal(t, "#asset4", fmt.Sprintf(sel.AssetClassFmt, 4))
	assert.Equal(t, "#allocation4_2", fmt.Sprintf(sel.AllocationFmt, 4, 2))
}

func TestEveryAssetDescriptionHasOptionValue(t *testing.T) {
	options := grid.OptionValues()

	for _, universe := range [][]grid.Asset{grid.StandardAssets, grid.TreasuryAssets} {
		for _, asset := range universe {
			option, ok := options[asset.Description]
			require.True(t, ok, asset.Description)
			assert.Equal(t, asset.OptionValue, option)
		}
	}
}

func TestListWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.xls", "c.csv", "d.xlsx.crdownload"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}

	files, err := listWorkbooks(dir)
	require.NoError(t, err)

	assert.True(t, files[filepath.Join(dir, "a.xlsx")])
	assert.True(t, files[filepath.Join(dir, "b.xls")])
	assert.False(t, files[filepath.Join(dir, "c.csv")])
	assert.False(t, files[filepath.Join(dir, "d.xlsx.crdownload")])
	assert.Len(t, files, 2)
}
