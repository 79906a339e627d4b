package main

import (
	"context"
	"fmt"
	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/hauke96/sigolo/v2"
	"os"
	"sort"
	"strings"
	"tilegrid/config"
	"tilegrid/grid"
	"tilegrid/importing"
	ownIo "tilegrid/io"
	"tilegrid/storage"
	"tilegrid/web"
)

const VERSION = "v0.1.0"

var cli struct {
	Logging string      `help:"Logging verbosity." enum:"info,debug,trace" short:"l" default:"info"`
	Version VersionFlag `help:"Print version information and quit" name:"version" short:"v"`
	Config  string      `help:"YAML config file. Defaults to tilegrid.yaml in the working directory if present." short:"c" type:"path"`

	Generate struct {
		Shape  string  `help:"Cell shape, hex or sqr. Overrides the config."`
		Layout string  `help:"Grid layout. Overrides the config."`
		Extent int     `help:"Grid extent. Overrides the config." default:"-1"`
		Size   float64 `help:"Cell size. Overrides the config." default:"0"`
		Output string  `help:"Output grid file." short:"o" default:"grid.json"`
	} `cmd:"" help:"Generates a grid and writes it as JSON file."`
	Info struct {
		Input string `help:"The grid file." placeholder:"<grid-file>" arg:"" type:"existingfile"`
	} `cmd:"" help:"Prints statistics of the given grid file."`
	Geojson struct {
		Input  string `help:"The grid file." placeholder:"<grid-file>" arg:"" type:"existingfile"`
		Output string `help:"Output GeoJSON file." short:"o" default:"grid.geojson"`
	} `cmd:"" help:"Converts the given grid file into GeoJSON polygons."`
	Import struct {
		Input  string `help:"The input file. Either .osm or .osm.pbf." placeholder:"<input-file>" arg:"" type:"existingfile"`
		Output string `help:"Output grid file." short:"o" default:"grid.json"`
	} `cmd:"" help:"Creates a node density grid from the given OSM file."`
	Serve struct {
		Grid string `help:"Grid file to serve. Without it, a new grid is generated from the config." type:"existingfile"`
		Port string `help:"Port of the HTTP server. Overrides the config." short:"p"`
	} `cmd:"" help:"Serves a grid via HTTP."`
	Snapshot struct {
		Save struct {
			Input string `help:"The grid file." placeholder:"<grid-file>" arg:"" type:"existingfile"`
			Name  string `help:"Name of the snapshot." short:"n" required:""`
		} `cmd:"" help:"Stores the given grid file as snapshot."`
		Load struct {
			ID     string `help:"The snapshot id." placeholder:"<id>" arg:""`
			Output string `help:"Output grid file." short:"o" default:"grid.json"`
		} `cmd:"" help:"Writes the snapshot into a grid file."`
		List struct {
		} `cmd:"" help:"Lists all snapshots."`
		Delete struct {
			ID string `help:"The snapshot id." placeholder:"<id>" arg:""`
		} `cmd:"" help:"Deletes the snapshot."`
	} `cmd:"" help:"Manages grid snapshots in the snapshot database."`
}

type VersionFlag string

func (v VersionFlag) Decode(ctx *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                         { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

// Grids handled by the CLI keep payloads as raw JSON, so any grid file can be processed.
type payload = web.Payload

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("tilegrid"),
		kong.Description("Hexagonal and square tile grids: generate, inspect, import OSM data and serve them via HTTP."),
		kong.Vars{
			"version": VERSION,
		},
	)

	if strings.ToLower(cli.Logging) == "debug" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_DEBUG)
	} else if strings.ToLower(cli.Logging) == "trace" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_TRACE)
	} else if strings.ToLower(cli.Logging) == "info" {
		sigolo.SetDefaultLogLevel(sigolo.LOG_INFO)
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
	} else {
		sigolo.SetDefaultFormatFunctionAll(sigolo.LogPlain)
		sigolo.Fatalf("Unknown logging level '%s'", cli.Logging)
	}

	cfg, err := config.Load(cli.Config)
	sigolo.FatalCheck(err)

	switch ctx.Command() {
	case "generate":
		settings := cfg.Grid
		if cli.Generate.Shape != "" {
			settings.CellShape = grid.Shape(cli.Generate.Shape)
		}
		if cli.Generate.Layout != "" {
			settings.Layout = grid.Layout(cli.Generate.Layout)
		}
		if cli.Generate.Extent >= 0 {
			settings.Extent = cli.Generate.Extent
		}
		if cli.Generate.Size > 0 {
			settings.CellSize = cli.Generate.Size
		}

		g, err := grid.New[payload](settings)
		sigolo.FatalCheck(err)

		err = ownIo.WriteGridFile(g, cli.Generate.Output)
		sigolo.FatalCheck(err)
		sigolo.Infof("Wrote %s %s cells to %s", humanize.Comma(int64(g.NumCells())), g.Shape(), cli.Generate.Output)
	case "info <input>":
		g, err := ownIo.ReadGridFile[payload](cli.Info.Input)
		sigolo.FatalCheck(err)
		printInfo(g, cfg.Tiles)
	case "geojson <input>":
		g, err := ownIo.ReadGridFile[payload](cli.Geojson.Input)
		sigolo.FatalCheck(err)

		err = ownIo.WriteGridAsGeoJsonFile(g, cli.Geojson.Output)
		sigolo.FatalCheck(err)
	case "import <input>":
		g, err := importing.Import(context.Background(), cli.Import.Input, cfg)
		sigolo.FatalCheck(err)

		err = ownIo.WriteGridFile(g, cli.Import.Output)
		sigolo.FatalCheck(err)
	case "serve":
		var g grid.GridIndex[payload]
		if cli.Serve.Grid != "" {
			g, err = ownIo.ReadGridFile[payload](cli.Serve.Grid)
		} else {
			g, err = grid.New[payload](cfg.Grid)
		}
		sigolo.FatalCheck(err)

		store, err := storage.Open(cfg.Storage.Path)
		sigolo.FatalCheck(err)
		defer store.Close()

		port := cfg.Server.Port
		if cli.Serve.Port != "" {
			port = cli.Serve.Port
		}
		web.NewServer(g, store).Start(port)
	case "snapshot save <input>":
		g, err := ownIo.ReadGridFile[payload](cli.Snapshot.Save.Input)
		sigolo.FatalCheck(err)

		store := openStore(cfg)
		defer store.Close()

		info, err := storage.Save(store, cli.Snapshot.Save.Name, g)
		sigolo.FatalCheck(err)
		fmt.Println(info.ID)
	case "snapshot load <id>":
		store := openStore(cfg)
		defer store.Close()

		g, _, err := storage.LoadNew[payload](store, cli.Snapshot.Load.ID)
		sigolo.FatalCheck(err)

		err = ownIo.WriteGridFile(g, cli.Snapshot.Load.Output)
		sigolo.FatalCheck(err)
	case "snapshot list":
		store := openStore(cfg)
		defer store.Close()

		snapshots, err := store.List()
		sigolo.FatalCheck(err)
		for _, snapshot := range snapshots {
			fmt.Printf("%s  %-20s  %s/%s  extent=%d  size=%g  cells=%s  %s\n", snapshot.ID, snapshot.Name, snapshot.CellShape, snapshot.Layout, snapshot.Extent, snapshot.CellSize, humanize.Comma(int64(snapshot.NumCells)), humanize.Time(snapshot.CreatedAt()))
		}
	case "snapshot delete <id>":
		store := openStore(cfg)
		defer store.Close()

		err := store.Delete(cli.Snapshot.Delete.ID)
		sigolo.FatalCheck(err)
	default:
		sigolo.Errorf("Unknown command '%s'", ctx.Command())
		os.Exit(1)
	}
}

func openStore(cfg *config.Config) *storage.Store {
	store, err := storage.Open(cfg.Storage.Path)
	sigolo.FatalCheck(err)
	return store
}

// printInfo prints the grid settings and the height buckets the tiles of this grid would share.
func printInfo(g grid.GridIndex[payload], tileSettings grid.TileSettings) {
	tiles := g.GenerateTiles(tileSettings)

	walkable := 0
	g.Traverse(func(cell *grid.Cell[payload]) {
		if cell.Walkable {
			walkable++
		}
	})

	buckets := g.CachedHeightBuckets()
	sort.Ints(buckets)

	fmt.Printf("Shape:         %s\n", g.Shape())
	fmt.Printf("Layout:        %s\n", g.Layout())
	fmt.Printf("Extent:        %d\n", g.Extent())
	fmt.Printf("Cell size:     %g\n", g.CellSize())
	fmt.Printf("Autogenerated: %t\n", g.Autogenerated())
	fmt.Printf("Cells:         %s (%s walkable)\n", humanize.Comma(int64(g.NumCells())), humanize.Comma(int64(walkable)))
	fmt.Printf("Tiles:         %s\n", humanize.Comma(int64(len(tiles))))
	fmt.Printf("Height buckets: %v\n", buckets)
}
