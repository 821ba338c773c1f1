package importer_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andremfs/bookline/internal/importer"
)

func TestLoadProfiles_OverridesOnlyNamedEntities(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transactions: [description, date, expense]\n"), 0o644))

	profiles, err := importer.LoadProfiles(path)
	require.NoError(t, err)

	assert.Equal(t, importer.Profile{importer.ColDescription, importer.ColDate, importer.ColExpense}, profiles.Transactions)
	assert.Equal(t, importer.DefaultProfiles().Accounts, profiles.Accounts)
}

func TestLoadProfiles_MissingFileKeepsDefaults(t *testing.T) {
	profiles, err := importer.LoadProfiles(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
	assert.Equal(t, importer.DefaultProfiles(), profiles)
}
