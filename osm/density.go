package osm

import (
	"github.com/dustin/go-humanize"
	"github.com/hauke96/sigolo/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"tilegrid/common"
	"tilegrid/grid"
)

// NodeDensity is the cell payload of imported grids.
type NodeDensity struct {
	Nodes int `json:"nodes"`
	Ways  int `json:"ways"`
}

// DensityAggregator counts the nodes per grid cell. Ways are counted in the cell of their first node, which requires
// the node to have been read before. When done, every cell with data exists in the grid and its height grows with the
// amount of nodes.
type DensityAggregator struct {
	grid           grid.GridIndex[NodeDensity]
	unitsPerDegree float64
	heightPerNode  float64

	cellToDensity map[grid.Cube]*NodeDensity
	nodeToCell    map[osm.NodeID]grid.Cube
	Bound         *orb.Bound // Of all nodes in lon/lat.
	NumNodes      int
	NumWays       int
}

func NewDensityAggregator(g grid.GridIndex[NodeDensity], unitsPerDegree float64, heightPerNode float64) *DensityAggregator {
	return &DensityAggregator{
		grid:           g,
		unitsPerDegree: unitsPerDegree,
		heightPerNode:  heightPerNode,
	}
}

func (a *DensityAggregator) Name() string {
	return "DensityAggregator"
}

func (a *DensityAggregator) Init() error {
	if a.unitsPerDegree <= 0 {
		return errors.Errorf("Units per degree must be greater than zero but was %f", a.unitsPerDegree)
	}

	a.cellToDensity = map[grid.Cube]*NodeDensity{}
	a.nodeToCell = map[osm.NodeID]grid.Cube{}
	a.Bound = nil
	a.NumNodes = 0
	a.NumWays = 0
	return nil
}

// ToWorld projects lon/lat onto the grid plane.
func (a *DensityAggregator) ToWorld(point orb.Point) common.Vec3 {
	return common.Vec3{X: point.Lon() * a.unitsPerDegree, Z: point.Lat() * a.unitsPerDegree}
}

func (a *DensityAggregator) HandleNode(node *osm.Node) error {
	point := node.Point()
	cube := a.grid.PixelToCell(a.ToWorld(point))

	a.density(cube).Nodes++
	a.nodeToCell[node.ID] = cube
	a.NumNodes++

	if a.Bound == nil {
		bound := point.Bound()
		a.Bound = &bound
	} else {
		bound := a.Bound.Extend(point)
		a.Bound = &bound
	}

	return nil
}

func (a *DensityAggregator) HandleWay(way *osm.Way) error {
	if len(way.Nodes) == 0 {
		return nil
	}

	cube, ok := a.nodeToCell[way.Nodes[0].ID]
	if !ok {
		sigolo.Tracef("First node %d of way %d unknown, ignore way", way.Nodes[0].ID, way.ID)
		return nil
	}

	a.density(cube).Ways++
	a.NumWays++
	return nil
}

func (a *DensityAggregator) HandleRelation(relation *osm.Relation) error {
	return nil
}

// Done writes the collected densities into the grid. Existing cells keep their walkable state, missing cells are
// added.
func (a *DensityAggregator) Done() error {
	added := 0
	for cube, density := range a.cellToDensity {
		cell, ok := a.grid.GetCell(cube)
		if !ok {
			cell, ok = a.grid.Add(grid.NewCellAt[NodeDensity](cube))
			if !ok {
				return errors.Errorf("Unable to add cell %s to grid", cube)
			}
			added++
		}

		cell.Payload = *density
		cell.Height = float64(density.Nodes) * a.heightPerNode
	}

	sigolo.Debugf("Aggregated %s nodes and %s ways into %d cells (%d new)", humanize.Comma(int64(a.NumNodes)), humanize.Comma(int64(a.NumWays)), len(a.cellToDensity), added)
	a.nodeToCell = nil

	return nil
}

func (a *DensityAggregator) density(cube grid.Cube) *NodeDensity {
	density, ok := a.cellToDensity[cube]
	if !ok {
		density = &NodeDensity{}
		a.cellToDensity[cube] = density
	}
	return density
}
