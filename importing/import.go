package importing

import (
	"context"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"tilegrid/config"
	"tilegrid/grid"
	"tilegrid/osm"
	"tilegrid/util"
	"time"
)

// Import creates a grid of the configured cell shape and size and fills it with the node density of the OSM file. The
// configured extent is generated first, so the result also contains empty cells around the data.
func Import(ctx context.Context, inputFile string, cfg *config.Config) (grid.GridIndex[osm.NodeDensity], error) {
	sigolo.Infof("Start import of file %s", inputFile)
	importStartTime := time.Now()

	g, err := grid.New[osm.NodeDensity](cfg.Grid)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to create grid for import")
	}

	aggregator := osm.NewDensityAggregator(g, cfg.Import.UnitsPerDegree, cfg.Import.HeightPerNode)
	err = osm.NewReader().ReadFile(ctx, inputFile, aggregator)
	if err != nil {
		return nil, err
	}

	if aggregator.Bound != nil {
		sigolo.Debugf("Imported data covers lon %f..%f and lat %f..%f", aggregator.Bound.Min.Lon(), aggregator.Bound.Max.Lon(), aggregator.Bound.Min.Lat(), aggregator.Bound.Max.Lat())
	}
	util.LogDuration("import", g.NumCells(), importStartTime)

	return g, nil
}
