package io

import (
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb/geojson"
	"github.com/pkg/errors"
	"io"
	"os"
	"tilegrid/grid"
	"tilegrid/util"
	"time"
)

func WriteGridAsGeoJsonFile[T any](g grid.GridIndex[T], filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create GeoJSON file %s", filename)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "Unable to close file handle for GeoJSON file %s", filename)
		}
	}()

	return WriteGridAsGeoJson(g, file)
}

// WriteGridAsGeoJson writes one polygon feature per cell. The grid plane is used as coordinate system, so the GeoJSON
// x is the world x and the GeoJSON y is the world z.
func WriteGridAsGeoJson[T any](g grid.GridIndex[T], writer io.Writer) error {
	sigolo.Info("Write grid to GeoJSON")
	writeStartTime := time.Now()

	featureCollection := ToFeatureCollection(g)

	geojsonBytes, err := featureCollection.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "Unable to marshal GeoJSON")
	}

	_, err = writer.Write(geojsonBytes)
	if err != nil {
		return errors.Wrap(err, "Unable to write GeoJSON")
	}

	util.LogDuration("GeoJSON export", len(featureCollection.Features), writeStartTime)

	return nil
}

// ToFeatureCollection creates the features in the persisted order of the cells.
func ToFeatureCollection[T any](g grid.GridIndex[T]) *geojson.FeatureCollection {
	featureCollection := geojson.NewFeatureCollection()

	for _, record := range g.ToJSON().Cells {
		cell, ok := g.GetCell(grid.Cube{Q: *record.Q, R: *record.R, S: *record.S})
		if !ok {
			continue
		}

		feature := geojson.NewFeature(g.CellPolygon(cell))
		feature.ID = g.CellToHash(cell.Cube())
		feature.Properties["q"] = cell.Q
		feature.Properties["r"] = cell.R
		feature.Properties["s"] = cell.S
		feature.Properties["height"] = cell.Height
		feature.Properties["walkable"] = cell.Walkable
		feature.Properties["payload"] = cell.Payload

		featureCollection.Features = append(featureCollection.Features, feature)
	}

	return featureCollection
}
