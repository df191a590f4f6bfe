package tracks

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tracks.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadCatalog_FileNotFound(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestLoadCatalog_InvalidJSON(t *testing.T) {
	path := writeCatalogFile(t, `[{"title": "broken"`)
	_, err := LoadCatalog(path)
	require.Error(t, err)
}

func TestLoadCatalog_TopLevelMustBeArray(t *testing.T) {
	path := writeCatalogFile(t, `{"title": "not an array"}`)
	_, err := LoadCatalog(path)
	require.Error(t, err)
}

func TestLoadCatalog_ElementsMustBeObjects(t *testing.T) {
	path := writeCatalogFile(t, `[{"title": "ok"}, 42]`)
	_, err := LoadCatalog(path)
	require.Error(t, err)
}

func TestLoadCatalog_KeepsRecordOrder(t *testing.T) {
	path := writeCatalogFile(t, `[{"title": "first"}, {"title": "second"}, {"title": "third"}]`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, catalog.Tracks, 3)

	for i, want := range []string{"first", "second", "third"} {
		title, ok := catalog.Tracks[i].StringField("title")
		require.True(t, ok)
		require.Equal(t, want, title)
	}
}

func TestCatalogStore_IndentedFieldOrderAndLiteralUnicode(t *testing.T) {
	path := writeCatalogFile(t, `[{"year":2003,"artist":"Björk","coverArt":"/a/x.mp3"}]`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.NoError(t, catalog.Store())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "[\n" +
		"  {\n" +
		"    \"year\": 2003,\n" +
		"    \"artist\": \"Björk\",\n" +
		"    \"coverArt\": \"/a/x.mp3\"\n" +
		"  }\n" +
		"]\n"
	require.Equal(t, want, string(data))
}

func TestCatalogStore_OverwritesInPlace(t *testing.T) {
	path := writeCatalogFile(t, `[{"title": "a"}, {"title": "b"}]`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.NoError(t, catalog.Tracks[0].SetCoverArt("https://example.com/Cover.jpg"))
	require.NoError(t, catalog.Store())

	reloaded, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, reloaded.Tracks, 2)

	art, ok := reloaded.Tracks[0].CoverArt()
	require.True(t, ok)
	require.Equal(t, "https://example.com/Cover.jpg", art)
}

func TestCatalogStoreAtomic_SameContentNoLeftoverTemp(t *testing.T) {
	path := writeCatalogFile(t, `[{"title": "a"}]`)

	catalog, err := LoadCatalog(path)
	require.NoError(t, err)
	require.NoError(t, catalog.StoreAtomic())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	reloaded, err := LoadCatalog(path)
	require.NoError(t, err)
	require.Len(t, reloaded.Tracks, 1)
}

func TestAcquireLock_SecondRunRejected(t *testing.T) {
	path := writeCatalogFile(t, `[]`)

	release, err := AcquireLock(path)
	require.NoError(t, err)
	defer release()

	_, err = AcquireLock(path)
	require.Error(t, err)
}

func TestAcquireLock_ReleaseAllowsReacquire(t *testing.T) {
	path := writeCatalogFile(t, `[]`)

	release, err := AcquireLock(path)
	require.NoError(t, err)
	release()

	release, err = AcquireLock(path)
	require.NoError(t, err)
	release()
}
