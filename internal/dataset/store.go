package dataset

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/roster-cli/internal/model"
)

const sliceSuffix = "_player_data.json"

// sliceName matches "{year}_{division}_player_data.json".
var sliceName = regexp.MustCompile(`^([^_]+)_([a-z]+)` + regexp.QuoteMeta(sliceSuffix) + `$`)

// SliceFile is the on-disk form of one per-year audit snapshot.
type SliceFile struct {
	Year     string         `json:"year"`
	Division model.Division `json:"division"`
	Players  []model.Player `json:"players"`
}

// FileStore reads and writes the combined dataset and the per-year audit
// snapshots under one directory.
type FileStore struct {
	datasetPath string
	slicesDir   string
}

// NewFileStore creates the directories it needs. A leading "~/" in dir is
// expanded to the home directory.
func NewFileStore(dir, datasetFile, slicesDir string) (*FileStore, error) {
	if strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, eris.Wrap(err, "dataset: home directory")
		}
		dir = filepath.Join(home, dir[2:])
	}
	if datasetFile == "" {
		datasetFile = "players.json"
	}
	if slicesDir == "" {
		slicesDir = "slices"
	}

	s := &FileStore{
		datasetPath: filepath.Join(dir, datasetFile),
		slicesDir:   filepath.Join(dir, slicesDir),
	}
	for _, d := range []string{filepath.Dir(s.datasetPath), s.slicesDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, eris.Wrapf(err, "dataset: create directory %s", d)
		}
	}
	return s, nil
}

// DatasetPath returns the combined dataset file path.
func (s *FileStore) DatasetPath() string { return s.datasetPath }

// Load reads the combined dataset. A missing file yields an empty dataset
// and found == false.
func (s *FileStore) Load() (ds model.Dataset, found bool, err error) {
	data, err := os.ReadFile(s.datasetPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.Dataset{}, false, nil
		}
		return model.Dataset{}, false, eris.Wrap(err, "dataset: read")
	}

	if err := json.Unmarshal(data, &ds); err != nil {
		return model.Dataset{}, false, eris.Wrapf(err, "dataset: parse %s", s.datasetPath)
	}

	// Division is implied by the cohort key on disk.
	for _, div := range model.Divisions {
		cohort := ds.Cohort(div)
		for i := range cohort {
			cohort[i].Division = div
			if cohort[i].Players == nil {
				cohort[i].Players = []model.Player{}
			}
		}
	}
	return ds, true, nil
}

// Save atomically replaces the combined dataset file.
func (s *FileStore) Save(ds model.Dataset) error {
	if ds.Men == nil {
		ds.Men = []model.YearSlice{}
	}
	if ds.Women == nil {
		ds.Women = []model.YearSlice{}
	}

	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return eris.Wrap(err, "dataset: encode")
	}
	return writeAtomic(s.datasetPath, data)
}

// WriteSlice writes the audit snapshot for one slice and returns its path.
func (s *FileStore) WriteSlice(slice model.YearSlice) (string, error) {
	players := slice.Players
	if players == nil {
		players = []model.Player{}
	}
	data, err := json.MarshalIndent(SliceFile{
		Year:     slice.Year,
		Division: slice.Division,
		Players:  players,
	}, "", "    ")
	if err != nil {
		return "", eris.Wrap(err, "dataset: encode slice")
	}

	path := filepath.Join(s.slicesDir, fmt.Sprintf("%s_%s%s", slice.Year, slice.Division, sliceSuffix))
	if err := writeAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// ReadSlices loads audit snapshots for the given divisions. When years is
// non-empty only those years are returned. Results are ordered by division,
// then year ascending. Unrecognized file names are skipped with a warning.
func (s *FileStore) ReadSlices(divisions []model.Division, years []string) ([]model.YearSlice, error) {
	entries, err := os.ReadDir(s.slicesDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "dataset: list slices")
	}

	wantDiv := make(map[model.Division]int, len(divisions))
	for i, d := range divisions {
		wantDiv[d] = i
	}
	wantYear := make(map[string]bool, len(years))
	for _, y := range years {
		wantYear[y] = true
	}

	var slices []model.YearSlice
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), sliceSuffix) {
			continue
		}
		m := sliceName.FindStringSubmatch(e.Name())
		if m == nil {
			zap.L().Warn("dataset: skipping unrecognized slice file", zap.String("file", e.Name()))
			continue
		}
		div, err := model.ParseDivision(m[2])
		if err != nil {
			zap.L().Warn("dataset: skipping slice file with unknown division", zap.String("file", e.Name()))
			continue
		}
		if _, ok := wantDiv[div]; !ok {
			continue
		}
		if len(wantYear) > 0 && !wantYear[m[1]] {
			continue
		}

		slice, err := readSlice(filepath.Join(s.slicesDir, e.Name()))
		if err != nil {
			return nil, err
		}
		if slice.Year != m[1] || slice.Division != div {
			return nil, eris.Errorf("dataset: slice file %s holds %s %s", e.Name(), slice.Division, slice.Year)
		}
		slices = append(slices, slice)
	}

	sort.SliceStable(slices, func(i, j int) bool {
		if slices[i].Division != slices[j].Division {
			return wantDiv[slices[i].Division] < wantDiv[slices[j].Division]
		}
		return slices[i].Year < slices[j].Year
	})
	return slices, nil
}

func readSlice(path string) (model.YearSlice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.YearSlice{}, eris.Wrapf(err, "dataset: read slice %s", path)
	}
	var f SliceFile
	if err := json.Unmarshal(data, &f); err != nil {
		return model.YearSlice{}, eris.Wrapf(err, "dataset: parse slice %s", path)
	}
	if f.Players == nil {
		f.Players = []model.Player{}
	}
	return model.YearSlice{Year: f.Year, Division: f.Division, Players: f.Players}, nil
}

// writeAtomic writes data to a temp file next to path and renames it into place.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrap(err, "dataset: create temp file")
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		_ = tmp.Close()
		cleanup()
		return eris.Wrap(err, "dataset: write temp file")
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return eris.Wrap(err, "dataset: sync temp file")
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return eris.Wrap(err, "dataset: close temp file")
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return eris.Wrap(err, "dataset: chmod temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return eris.Wrapf(err, "dataset: replace %s", path)
	}
	return nil
}
