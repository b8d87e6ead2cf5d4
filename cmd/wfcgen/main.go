// Command wfcgen runs one of the ten FP/WFC/NWFC algorithm variants
// against a tileset directory and prints the solved grid. It is the
// thin external-interface shell around the core solvers: flag parsing,
// config loading, tileset loading, solver dispatch, diagnostics
// persistence, live event streaming, and rendering all live here so the
// core packages stay free of I/O.
package main

import (
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/kellanmoore/tessera/internal/config"
	"github.com/kellanmoore/tessera/internal/fastprop"
	"github.com/kellanmoore/tessera/internal/grid"
	"github.com/kellanmoore/tessera/internal/logger"
	"github.com/kellanmoore/tessera/internal/nwfc"
	"github.com/kellanmoore/tessera/internal/store"
	"github.com/kellanmoore/tessera/internal/stream"
	"github.com/kellanmoore/tessera/internal/tile"
	"github.com/kellanmoore/tessera/internal/tileset"
	"github.com/kellanmoore/tessera/internal/wfc"
)

func main() {
	var (
		configPath    = flag.String("config", "", "YAML file for RunConfig (optional; flags below override it)")
		logConfigPath = flag.String("log_config", "", "YAML file for logger.Config (optional)")
		algorithm     = flag.String("algorithm", "", "FP, FP_BACKTRACK, FP_DIAGONAL, FP_DIAGONAL_BACKTRACK, WFC, WFC_BACKTRACK, WFC_DIAGONAL, WFC_DIAGONAL_BACKTRACK, NWFC, or NWFC_BACKTRACK")
		tilesetPath   = flag.String("tileset_path", "", "directory of named tile assets")
		gridSize      = flag.Int("grid_size", 0, "N for an N x N grid (or, for NWFC, N subgrids per side)")
		seed          = flag.Int64("seed", 0, "RNG seed for the first run")
		generateImage = flag.Bool("generate_image", false, "render an ASCII tile map instead of the integer matrix")
		numRuns       = flag.Int("num_runs", 0, "repeat the run this many times, seed+k on run k")
		subgridSize   = flag.Int("subgrid_size", 0, "NWFC window side length S (required for NWFC algorithms)")
		storePath     = flag.String("store", "", "optional SQLite file to persist one row of diagnostics per run")
		streamAddr    = flag.String("stream", "", "optional address (e.g. :8089) to serve a live collapse-event WebSocket")
	)
	flag.Parse()

	logCfg, err := logger.LoadConfig(*logConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wfcgen: load log config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "wfcgen: initialize logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Errorf("load config: %v", err)
		os.Exit(1)
	}
	applyFlagOverrides(cfg, *algorithm, *tilesetPath, *gridSize, *seed, *generateImage, *numRuns, *subgridSize)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "wfcgen: %v\n", err)
		flag.Usage()
		os.Exit(1)
	}

	domain, err := tileset.Load(cfg.TilesetPath)
	if err != nil {
		logger.Errorf("load tileset: %v", err)
		os.Exit(2)
	}

	var diagnostics *store.Store
	if *storePath != "" {
		diagnostics, err = store.Open(*storePath)
		if err != nil {
			logger.Errorf("open store: %v", err)
			os.Exit(1)
		}
		defer diagnostics.Close()
	}

	var hub *stream.Hub
	if *streamAddr != "" {
		hub = stream.NewHub()
		go func() {
			if err := http.ListenAndServe(*streamAddr, hub); err != nil {
				logger.Errorf("stream server: %v", err)
			}
		}()
		logger.Infof("streaming collapse events on %s", *streamAddr)
	}

	for k := 0; k < cfg.NumRuns; k++ {
		runSeed := cfg.Seed + int64(k)
		runID := uuid.NewString()
		start := time.Now()

		g, solved, backtracks, snapshotBytes, err := runOnce(cfg, domain, runSeed, hub)
		if err != nil {
			logger.Errorf("run %s: %v", runID, err)
			os.Exit(3)
		}
		elapsed := time.Since(start)

		logger.Infof("run %s: algorithm=%s seed=%d solved=%v backtracks=%d snapshot=%s elapsed=%s",
			runID, cfg.Algorithm, runSeed, solved, backtracks, humanize.Bytes(uint64(snapshotBytes)), elapsed)

		if diagnostics != nil {
			if err := diagnostics.InsertRun(store.Run{
				ID:             runID,
				Algorithm:      cfg.Algorithm,
				Seed:           runSeed,
				GridRows:       g.Rows,
				GridCols:       g.Cols,
				Solved:         solved,
				BacktrackCount: backtracks,
				SnapshotBytes:  snapshotBytes,
				ElapsedMillis:  elapsed.Milliseconds(),
			}); err != nil {
				logger.Errorf("persist run: %v", err)
			}
		}

		if hub != nil {
			hub.Done(solved)
		}

		render(g, cfg.GenerateImage)
	}
}

func applyFlagOverrides(cfg *config.RunConfig, algorithm, tilesetPath string, gridSize int, seed int64, generateImage bool, numRuns, subgridSize int) {
	if algorithm != "" {
		cfg.Algorithm = strings.ToUpper(algorithm)
	}
	if tilesetPath != "" {
		cfg.TilesetPath = tilesetPath
	}
	if gridSize != 0 {
		cfg.GridSize = gridSize
	}
	if seed != 0 {
		cfg.Seed = seed
	}
	if generateImage {
		cfg.GenerateImage = true
	}
	if numRuns != 0 {
		cfg.NumRuns = numRuns
	}
	if subgridSize != 0 {
		cfg.SubgridSize = subgridSize
	}
}

// runOnce builds and runs the solver selected by cfg.Algorithm and
// reports whether the resulting grid is fully, consistently collapsed.
// A backtracking solver exhausting its root decision frame is reported
// as an unsolved run, not a program failure: only a tileset, config, or
// internal error propagates as err.
func runOnce(cfg *config.RunConfig, domain []tile.Tile, seed int64, hub *stream.Hub) (g *grid.Grid, solved bool, backtracks, snapshotBytes int, err error) {
	var onCollapse func(row, col, tileID int)
	if hub != nil {
		onCollapse = hub.OnCollapse
	}

	switch {
	case cfg.IsNWFC():
		rows, cols := nwfc.Dims(cfg.GridSize, cfg.GridSize, cfg.SubgridSize)
		g = grid.New(rows, cols, grid.NewCell(domain))
		s := nwfc.New(g, seed, cfg.SubgridSize, domain, cfg.Backtrack())
		s.OnCollapse = onCollapse
		err = s.Solve()
		if err != nil && !errors.Is(err, wfc.ErrUnsolvable) {
			return g, false, s.BacktrackCount(), s.SnapshotBytes(), err
		}
		return g, g.AllCollapsed() && !g.HasEmptyDomain(), s.BacktrackCount(), s.SnapshotBytes(), nil

	case cfg.IsWFC():
		g = grid.New(cfg.GridSize, cfg.GridSize, grid.NewCell(domain))
		selection := wfc.MRV
		if cfg.Diagonal() {
			selection = wfc.AntiDiagonal
		}
		s := wfc.New(g, seed, selection, cfg.Backtrack())
		s.OnCollapse = onCollapse
		err = s.Solve()
		if err != nil && !errors.Is(err, wfc.ErrUnsolvable) {
			return g, false, s.BacktrackCount(), s.SnapshotBytes(), err
		}
		return g, g.AllCollapsed() && !g.HasEmptyDomain(), s.BacktrackCount(), s.SnapshotBytes(), nil

	default:
		g = grid.New(cfg.GridSize, cfg.GridSize, grid.NewCell(domain))
		order := fastprop.Raster
		if cfg.Diagonal() {
			order = fastprop.AntiDiagonal
		}
		s := fastprop.New(g, seed, order, cfg.Backtrack())
		s.OnCollapse = onCollapse
		err = s.Solve()
		if err != nil && !errors.Is(err, fastprop.ErrUnsolvable) {
			return g, false, s.BacktrackCount(), s.SnapshotBytes(), err
		}
		return g, g.AllCollapsed() && !g.HasEmptyDomain(), s.BacktrackCount(), s.SnapshotBytes(), nil
	}
}

// render prints the solved grid: the row-major integer matrix by
// default (an uncollapsed cell prints as -1), or an ASCII tile map when
// asciiArt is set. Both stand in for the spec's out-of-scope raster
// image composer, which has no place in this core.
func render(g *grid.Grid, asciiArt bool) {
	if asciiArt {
		renderASCII(g)
		return
	}
	for r := 0; r < g.Rows; r++ {
		cells := make([]string, g.Cols)
		for c := 0; c < g.Cols; c++ {
			cells[c] = strconv.Itoa(g.At(r, c).Collapsed)
		}
		fmt.Println(strings.Join(cells, " "))
	}
}

// tileGlyphs assigns one printable rune per tile id, cycling through
// the alphabet once the tileset outgrows it.
const tileGlyphs = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func renderASCII(g *grid.Grid) {
	for r := 0; r < g.Rows; r++ {
		line := make([]byte, g.Cols)
		for c := 0; c < g.Cols; c++ {
			id := g.At(r, c).Collapsed
			if id == grid.Uncollapsed {
				line[c] = '.'
				continue
			}
			line[c] = tileGlyphs[id%len(tileGlyphs)]
		}
		fmt.Println(string(line))
	}
}
