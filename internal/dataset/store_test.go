package dataset

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/roster-cli/internal/model"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir, "", "")
	require.NoError(t, err)
	return s, dir
}

func TestFileStore_LoadMissingIsEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	ds, found, err := s.Load()
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, ds.Men)
	assert.Empty(t, ds.Women)
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	s, dir := newTestStore(t)
	rank := 3
	ds := model.Dataset{
		Men: []model.YearSlice{{
			Year:     "2023",
			Division: model.DivisionMen,
			Players:  []model.Player{{Name: "A", TeamPosition: &rank, Lat: 1, Lng: 2}},
		}},
	}
	require.NoError(t, s.Save(ds))

	raw, err := os.ReadFile(filepath.Join(dir, "players.json"))
	require.NoError(t, err)
	var shape map[string][]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &shape))
	assert.Contains(t, shape, "men")
	assert.Contains(t, shape, "women")
	assert.Contains(t, shape["men"][0], "year")
	assert.Contains(t, shape["men"][0], "players")
	assert.NotContains(t, shape["men"][0], "division")

	loaded, found, err := s.Load()
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, ds.Men, loaded.Men)
	assert.Equal(t, []model.YearSlice{}, loaded.Women)
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, s.Save(model.Dataset{}))
	require.NoError(t, s.Save(model.Dataset{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	s, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "players.json"), []byte("{not json"), 0o644))

	_, _, err := s.Load()
	assert.Error(t, err)
}

func TestFileStore_SlicesRoundTrip(t *testing.T) {
	s, dir := newTestStore(t)

	for _, sl := range []model.YearSlice{
		slice(model.DivisionMen, "2024", "b"),
		slice(model.DivisionMen, "2023", "a"),
		slice(model.DivisionWomen, "2023", "w"),
		{Year: "2025", Division: model.DivisionWomen},
	} {
		_, err := s.WriteSlice(sl)
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "slices", "2022_player_data.json"), []byte(`{}`), 0o644))

	all, err := s.ReadSlices(model.Divisions, nil)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "2023", all[0].Year)
	assert.Equal(t, model.DivisionMen, all[0].Division)
	assert.Equal(t, "2024", all[1].Year)
	assert.Equal(t, model.DivisionWomen, all[2].Division)
	assert.Equal(t, []model.Player{}, all[3].Players)

	only, err := s.ReadSlices([]model.Division{model.DivisionWomen}, []string{"2023"})
	require.NoError(t, err)
	require.Len(t, only, 1)
	assert.Equal(t, "w", only[0].Players[0].Name)
}

func TestFileStore_SliceFileNaming(t *testing.T) {
	s, _ := newTestStore(t)
	path, err := s.WriteSlice(slice(model.DivisionWomen, "2024", "x"))
	require.NoError(t, err)
	assert.Equal(t, "2024_women_player_data.json", filepath.Base(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var f SliceFile
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, model.DivisionWomen, f.Division)
}
