package io

import (
	"bufio"
	"github.com/dustin/go-humanize"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"os"
	"tilegrid/grid"
	"time"
)

// ReadGridFile creates a grid of the persisted cell shape from the JSON file.
func ReadGridFile[T any](filename string) (grid.GridIndex[T], error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open grid file %s", filename)
	}
	defer file.Close()

	readStartTime := time.Now()

	g, err := grid.Load[T](bufio.NewReader(file))
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to load grid file %s", filename)
	}

	sigolo.Debugf("Read %s cells from %s in %s", humanize.Comma(int64(g.NumCells())), filename, time.Since(readStartTime))

	return g, nil
}

// LoadGridFile replaces the state of the given grid with the content of the JSON file. On error, the grid stays
// unchanged.
func LoadGridFile[T any](g grid.GridIndex[T], filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to open grid file %s", filename)
	}
	defer file.Close()

	data, err := grid.Decode[T](bufio.NewReader(file))
	if err != nil {
		return errors.Wrapf(err, "Unable to decode grid file %s", filename)
	}

	return g.FromJSON(data)
}

func WriteGridFile[T any](g grid.GridIndex[T], filename string) (err error) {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Unable to create grid file %s", filename)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = errors.Wrapf(closeErr, "Unable to close grid file %s", filename)
		}
	}()

	writer := bufio.NewWriter(file)
	err = g.ToJSON().Encode(writer)
	if err != nil {
		return errors.Wrapf(err, "Unable to write grid file %s", filename)
	}

	err = writer.Flush()
	if err != nil {
		return errors.Wrapf(err, "Unable to write grid file %s", filename)
	}

	sigolo.Debugf("Wrote %s cells to %s", humanize.Comma(int64(g.NumCells())), filename)

	return nil
}
