package snapshot

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "jobmarket-workers/internal/common/errors"
	"jobmarket-workers/internal/models"
)

//go:embed fixtures/*.json
var fixtures embed.FS

// FileSource serves <region>.json documents. A file in Directory shadows the
// embedded fixture of the same name.
type FileSource struct {
	Directory string
}

func NewFileSource(directory string) *FileSource {
	return &FileSource{Directory: directory}
}

func (s *FileSource) Load(_ context.Context, region string) (*models.Snapshot, error) {
	region = NormalizeRegion(region)
	if region == "" || strings.ContainsAny(region, `/\.`) {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}

	raw, err := s.read(region + ".json")
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, apperrors.NewSnapshotNotFoundError(region)
	}
	return Decode(raw)
}

func (s *FileSource) read(name string) ([]byte, error) {
	if s.Directory != "" {
		raw, err := os.ReadFile(filepath.Join(s.Directory, name))
		switch {
		case err == nil:
			return raw, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, apperrors.NewSnapshotSourceFailedError("file", err)
		}
	}

	raw, err := fixtures.ReadFile("fixtures/" + name)
	if err != nil {
		return nil, nil
	}
	return raw, nil
}

// Regions lists the regions available from the embedded fixtures and Directory.
func (s *FileSource) Regions() []string {
	seen := map[string]bool{}
	collect := func(entries []fs.DirEntry) {
		for _, e := range entries {
			if name := e.Name(); !e.IsDir() && strings.HasSuffix(name, ".json") {
				seen[strings.TrimSuffix(name, ".json")] = true
			}
		}
	}

	if entries, err := fixtures.ReadDir("fixtures"); err == nil {
		collect(entries)
	}
	if s.Directory != "" {
		if entries, err := os.ReadDir(s.Directory); err == nil {
			collect(entries)
		}
	}

	regions := make([]string, 0, len(seen))
	for r := range seen {
		regions = append(regions, r)
	}
	sort.Strings(regions)
	return regions
}
