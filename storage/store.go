package storage

import (
	"database/sql"
	"encoding/json"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/hauke96/sigolo/v2"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"tilegrid/grid"
	"time"

	_ "modernc.org/sqlite"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	cell_shape TEXT NOT NULL,
	layout TEXT NOT NULL,
	extent INTEGER NOT NULL,
	cell_size REAL NOT NULL,
	extrude_json TEXT NOT NULL,
	autogenerated INTEGER NOT NULL,
	num_cells INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	cells BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_snapshots_created_at ON snapshots(created_at);
`

// SnapshotInfo describes a stored snapshot without its cells.
type SnapshotInfo struct {
	ID            string      `db:"id" json:"id"`
	Name          string      `db:"name" json:"name"`
	CellShape     grid.Shape  `db:"cell_shape" json:"cellShape"`
	Layout        grid.Layout `db:"layout" json:"layout"`
	Extent        int         `db:"extent" json:"extent"`
	CellSize      float64     `db:"cell_size" json:"cellSize"`
	Autogenerated bool        `db:"autogenerated" json:"autogenerated"`
	NumCells      int         `db:"num_cells" json:"numCells"`
	CreatedAtMs   int64       `db:"created_at" json:"createdAt"`
}

func (i SnapshotInfo) CreatedAt() time.Time {
	return time.UnixMilli(i.CreatedAtMs)
}

type snapshotRow struct {
	SnapshotInfo
	ExtrudeJSON string `db:"extrude_json"`
	Cells       []byte `db:"cells"`
}

// Store keeps grid snapshots in a SQLite database. It is safe for concurrent use as far as the underlying connection
// pool is.
type Store struct {
	conn *sqlx.DB
}

// Open opens or creates the SQLite database at the given path and creates the schema if necessary.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to open snapshot database %s", path)
	}

	store := &Store{conn: conn}
	err = store.migrate()
	if err != nil {
		conn.Close()
		return nil, errors.Wrapf(err, "Unable to migrate snapshot database %s", path)
	}

	sigolo.Debugf("Opened snapshot database %s", path)
	return store, nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	_, err := s.conn.Exec(schema)
	return err
}

// Save stores the current state of the grid under a new id.
func Save[T any](s *Store, name string, g grid.GridIndex[T]) (*SnapshotInfo, error) {
	data := g.ToJSON()

	cells, err := grid.EncodeCells(data.Cells)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to encode cells of snapshot")
	}

	extrudeJSON := ""
	if data.ExtrudeSettings != nil {
		encoded, err := json.Marshal(data.ExtrudeSettings)
		if err != nil {
			return nil, errors.Wrap(err, "Unable to encode extrude settings of snapshot")
		}
		extrudeJSON = string(encoded)
	}

	row := snapshotRow{
		SnapshotInfo: SnapshotInfo{
			ID:            uuid.NewString(),
			Name:          name,
			CellShape:     data.CellShape,
			Layout:        data.Layout,
			Extent:        data.Extent,
			CellSize:      data.CellSize,
			Autogenerated: data.Autogenerated,
			NumCells:      len(data.Cells),
			CreatedAtMs:   time.Now().UnixMilli(),
		},
		ExtrudeJSON: extrudeJSON,
		Cells:       cells,
	}

	tx, err := s.conn.Beginx()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to begin transaction")
	}
	defer tx.Rollback()

	_, err = tx.NamedExec(`INSERT INTO snapshots
		(id, name, cell_shape, layout, extent, cell_size, extrude_json, autogenerated, num_cells, created_at, cells)
		VALUES
		(:id, :name, :cell_shape, :layout, :extent, :cell_size, :extrude_json, :autogenerated, :num_cells, :created_at, :cells)`,
		&row)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to insert snapshot '%s'", name)
	}

	err = tx.Commit()
	if err != nil {
		return nil, errors.Wrap(err, "Unable to commit snapshot")
	}

	sigolo.Infof("Saved snapshot '%s' (%s) with %s cells in %s", name, row.ID, humanize.Comma(int64(row.NumCells)), humanize.Bytes(uint64(len(cells))))

	return &row.SnapshotInfo, nil
}

// Load replaces the state of the given grid with the snapshot. The grid must have the cell shape of the snapshot. On
// any error, the grid stays unchanged.
func Load[T any](s *Store, id string, g grid.GridIndex[T]) (*SnapshotInfo, error) {
	data, info, err := loadData[T](s, id)
	if err != nil {
		return nil, err
	}

	err = g.FromJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "Unable to load snapshot %s into grid", id)
	}

	return info, nil
}

// LoadNew creates a new grid of the snapshots cell shape from the snapshot.
func LoadNew[T any](s *Store, id string) (grid.GridIndex[T], *SnapshotInfo, error) {
	data, info, err := loadData[T](s, id)
	if err != nil {
		return nil, nil, err
	}

	g, err := grid.NewFromJSON(data)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Unable to create grid from snapshot %s", id)
	}

	return g, info, nil
}

func loadData[T any](s *Store, id string) (*grid.GridJSON[T], *SnapshotInfo, error) {
	row := snapshotRow{}
	err := s.conn.Get(&row, "SELECT * FROM snapshots WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, errors.Wrapf(ErrSnapshotNotFound, "No snapshot with id '%s'", id)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Unable to read snapshot %s", id)
	}

	records, err := grid.DecodeCells[T](row.Cells)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Unable to decode cells of snapshot %s", id)
	}

	var extrudeSettings *grid.ExtrudeSettings
	if row.ExtrudeJSON != "" {
		extrudeSettings = &grid.ExtrudeSettings{}
		err = json.Unmarshal([]byte(row.ExtrudeJSON), extrudeSettings)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "Unable to decode extrude settings of snapshot %s", id)
		}
	}

	data := &grid.GridJSON[T]{
		CellShape:       row.CellShape,
		Layout:          row.Layout,
		Extent:          row.Extent,
		CellSize:        row.CellSize,
		ExtrudeSettings: extrudeSettings,
		Autogenerated:   row.Autogenerated,
		Cells:           records,
	}

	return data, &row.SnapshotInfo, nil
}

// List returns all snapshots, the newest first.
func (s *Store) List() ([]SnapshotInfo, error) {
	snapshots := []SnapshotInfo{}
	err := s.conn.Select(&snapshots, `SELECT id, name, cell_shape, layout, extent, cell_size, autogenerated, num_cells, created_at
		FROM snapshots ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to list snapshots")
	}
	return snapshots, nil
}

func (s *Store) Delete(id string) error {
	result, err := s.conn.Exec("DELETE FROM snapshots WHERE id = ?", id)
	if err != nil {
		return errors.Wrapf(err, "Unable to delete snapshot %s", id)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Wrapf(err, "Unable to delete snapshot %s", id)
	}
	if affected == 0 {
		return errors.Wrapf(ErrSnapshotNotFound, "No snapshot with id '%s'", id)
	}

	sigolo.Debugf("Deleted snapshot %s", id)
	return nil
}
