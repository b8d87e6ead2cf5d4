// Package tileset is the tileset-directory external interface boundary:
// it turns a directory of named assets into the ordered tile alphabet
// the core consumes.
package tileset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kellanmoore/tessera/internal/tile"
)

var (
	// ErrEmptyDirectory is returned when the tileset directory contains
	// no files (subdirectories are skipped and do not count).
	ErrEmptyDirectory = errors.New("tileset: directory contains no tiles")
	// ErrShortStem is returned when a filename stem has fewer than the
	// four characters needed to encode edge labels.
	ErrShortStem = errors.New("tileset: filename stem shorter than 4 characters")
)

// Load reads every file in dir and builds the ordered tile alphabet.
// Tile ids are assigned by enumeration order of the directory listing;
// the filename stem's first four characters become north, south, east,
// west respectively (positions 0, 1, 2, 3), matching the reference
// reader's fixed-position parse.
func Load(dir string) ([]tile.Tile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("tileset: reading %q: %w", dir, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDirectory, dir)
	}

	tiles := make([]tile.Tile, 0, len(names))
	for id, name := range names {
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if len(stem) < 4 {
			return nil, fmt.Errorf("%w: %q in %s", ErrShortStem, name, dir)
		}
		tiles = append(tiles, tile.Tile{
			ID:    id,
			North: string(stem[0]),
			South: string(stem[1]),
			East:  string(stem[2]),
			West:  string(stem[3]),
		})
	}
	return tiles, nil
}
