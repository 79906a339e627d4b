package web

import (
	"encoding/json"
	"fmt"
	"github.com/gorilla/mux"
	"github.com/hauke96/sigolo/v2"
	"github.com/pkg/errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"tilegrid/common"
	"tilegrid/grid"
	ownIo "tilegrid/io"
	"tilegrid/storage"
)

// Payload is the cell payload of served grids. It is kept as raw JSON, the server never interprets it.
type Payload = json.RawMessage

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func NewErrorResponse(message string, err error) ErrorResponse {
	response := ErrorResponse{
		Error: message,
	}
	if err != nil {
		response.Details = err.Error()
	}
	return response
}

type CellResponse struct {
	Hash     string      `json:"hash"`
	Q        int         `json:"q"`
	R        int         `json:"r"`
	S        int         `json:"s"`
	Height   float64     `json:"height"`
	Walkable bool        `json:"walkable"`
	Payload  Payload     `json:"payload"`
	Position common.Vec3 `json:"position"`
}

type DistanceResponse struct {
	Distance float64 `json:"distance"`
}

type CellAtResponse struct {
	Cube grid.Cube     `json:"cube"`
	Cell *CellResponse `json:"cell"`
}

type SnapshotRequest struct {
	Name string `json:"name"`
}

// Server serves a single grid. The grid is not safe for concurrent use, so every request holds the mutex.
type Server struct {
	mutex sync.Mutex
	grid  grid.GridIndex[Payload]
	store *storage.Store // Optional, the snapshot endpoints answer 404 without a store.
}

func NewServer(g grid.GridIndex[Payload], store *storage.Store) *Server {
	return &Server{
		grid:  g,
		store: store,
	}
}

func (s *Server) Start(port string) {
	sigolo.Infof("Start server on port %s", port)
	err := http.ListenAndServe(":"+port, s.Router())
	sigolo.FatalCheck(err)
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/grid", s.locked(s.handleGetGrid)).Methods(http.MethodGet)
	r.HandleFunc("/grid", s.locked(s.handlePutGrid)).Methods(http.MethodPut)
	r.HandleFunc("/grid/geojson", s.locked(s.handleGetGeoJson)).Methods(http.MethodGet)

	r.HandleFunc("/cells", s.locked(s.handlePostCell)).Methods(http.MethodPost)
	r.HandleFunc("/cells/{q}/{r}", s.locked(s.handleGetCell)).Methods(http.MethodGet)
	r.HandleFunc("/cells/{q}/{r}", s.locked(s.handleDeleteCell)).Methods(http.MethodDelete)
	r.HandleFunc("/cells/{q}/{r}/neighbors", s.locked(s.handleGetNeighbors)).Methods(http.MethodGet)

	r.HandleFunc("/cell-at", s.locked(s.handleGetCellAt)).Methods(http.MethodGet)
	r.HandleFunc("/distance", s.locked(s.handleGetDistance)).Methods(http.MethodGet)
	r.HandleFunc("/path/clear", s.locked(s.handleClearPath)).Methods(http.MethodPost)

	r.HandleFunc("/snapshots", s.locked(s.handleListSnapshots)).Methods(http.MethodGet)
	r.HandleFunc("/snapshots", s.locked(s.handleSaveSnapshot)).Methods(http.MethodPost)
	r.HandleFunc("/snapshots/{id}/load", s.locked(s.handleLoadSnapshot)).Methods(http.MethodPost)

	return r
}

func (s *Server) locked(handler http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		writer.Header().Set("Access-Control-Allow-Origin", "*")
		sigolo.Debugf("%s %s", request.Method, request.URL.String())

		handler(writer, request)
	}
}

func (s *Server) handleGetGrid(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(http.StatusOK)
	err := s.grid.ToJSON().Encode(writer)
	if err != nil {
		sigolo.Errorf("Error writing grid: %+v", err)
	}
}

func (s *Server) handlePutGrid(writer http.ResponseWriter, request *http.Request) {
	data, err := grid.Decode[Payload](request.Body)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error decoding grid data", err)
		return
	}

	err = s.grid.FromJSON(data)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error loading grid data", err)
		return
	}

	sigolo.Infof("Loaded grid with %d cells", s.grid.NumCells())
	writer.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetGeoJson(writer http.ResponseWriter, request *http.Request) {
	writer.Header().Set("Content-Type", "application/geo+json")
	err := ownIo.WriteGridAsGeoJson(s.grid, writer)
	if err != nil {
		sigolo.Errorf("Error writing GeoJSON: %+v", err)
	}
}

func (s *Server) handlePostCell(writer http.ResponseWriter, request *http.Request) {
	record := grid.CellRecord[Payload]{}
	err := json.NewDecoder(request.Body).Decode(&record)
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error decoding cell", err)
		return
	}

	// Height and walkable are optional when creating cells, q+r+s=0 is not.
	if record.S == nil && record.Q != nil && record.R != nil {
		third := -*record.Q - *record.R
		record.S = &third
	}
	if record.Height == nil {
		height := 0.0
		record.Height = &height
	}
	if record.Walkable == nil {
		walkable := true
		record.Walkable = &walkable
	}

	err = record.Validate()
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid cell", err)
		return
	}

	cell := grid.NewCellAt[Payload](grid.Cube{Q: *record.Q, R: *record.R, S: *record.S})
	cell.Height = *record.Height
	cell.Walkable = *record.Walkable
	cell.Payload = record.Payload

	stored, added := s.grid.Add(cell)
	if stored == nil {
		writeError(writer, http.StatusConflict, "Grid does not accept cells", nil)
		return
	}

	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	writeJson(writer, status, s.toCellResponse(stored))
}

func (s *Server) handleGetCell(writer http.ResponseWriter, request *http.Request) {
	cell, ok := s.cellFromPath(writer, request)
	if !ok {
		return
	}
	writeJson(writer, http.StatusOK, s.toCellResponse(cell))
}

func (s *Server) handleDeleteCell(writer http.ResponseWriter, request *http.Request) {
	cell, ok := s.cellFromPath(writer, request)
	if !ok {
		return
	}
	s.grid.Remove(cell)
	writer.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetNeighbors(writer http.ResponseWriter, request *http.Request) {
	cell, ok := s.cellFromPath(writer, request)
	if !ok {
		return
	}

	query := request.URL.Query()
	diagonals := query.Get("diagonals") == "true"
	var filter grid.NeighborFilter[Payload]
	if query.Get("walkable") == "true" {
		filter = grid.WalkableFilter[Payload]
	}

	neighbors := s.grid.GetNeighbors(cell, diagonals, filter)
	response := make([]CellResponse, len(neighbors))
	for i, neighbor := range neighbors {
		response[i] = s.toCellResponse(neighbor)
	}
	writeJson(writer, http.StatusOK, response)
}

func (s *Server) handleGetCellAt(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()
	var pos common.Vec3
	var err error
	for name, target := range map[string]*float64{"x": &pos.X, "y": &pos.Y, "z": &pos.Z} {
		value := query.Get(name)
		if value == "" {
			continue
		}
		*target, err = strconv.ParseFloat(value, 64)
		if err != nil {
			writeError(writer, http.StatusBadRequest, fmt.Sprintf("Invalid coordinate %s", name), err)
			return
		}
	}

	response := CellAtResponse{Cube: s.grid.PixelToCell(pos)}
	if cell, ok := s.grid.GetCell(response.Cube); ok {
		cellResponse := s.toCellResponse(cell)
		response.Cell = &cellResponse
	}
	writeJson(writer, http.StatusOK, response)
}

func (s *Server) handleGetDistance(writer http.ResponseWriter, request *http.Request) {
	query := request.URL.Query()

	from, err := parseAxial(query.Get("from"))
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid parameter 'from'", err)
		return
	}
	to, err := parseAxial(query.Get("to"))
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid parameter 'to'", err)
		return
	}

	fromCell, fromOk := s.grid.GetCell(from)
	toCell, toOk := s.grid.GetCell(to)
	if !fromOk || !toOk {
		writeError(writer, http.StatusNotFound, "Cell not found", nil)
		return
	}

	writeJson(writer, http.StatusOK, DistanceResponse{Distance: s.grid.Distance(fromCell, toCell)})
}

func (s *Server) handleClearPath(writer http.ResponseWriter, request *http.Request) {
	s.grid.ClearPath()
	writer.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListSnapshots(writer http.ResponseWriter, request *http.Request) {
	if !s.hasStore(writer) {
		return
	}

	snapshots, err := s.store.List()
	if err != nil {
		writeError(writer, http.StatusInternalServerError, "Error listing snapshots", err)
		return
	}
	writeJson(writer, http.StatusOK, snapshots)
}

func (s *Server) handleSaveSnapshot(writer http.ResponseWriter, request *http.Request) {
	if !s.hasStore(writer) {
		return
	}

	snapshotRequest := SnapshotRequest{}
	err := json.NewDecoder(request.Body).Decode(&snapshotRequest)
	if err != nil || strings.TrimSpace(snapshotRequest.Name) == "" {
		writeError(writer, http.StatusBadRequest, "Snapshot name missing", err)
		return
	}

	info, err := storage.Save(s.store, snapshotRequest.Name, s.grid)
	if err != nil {
		writeError(writer, http.StatusInternalServerError, "Error saving snapshot", err)
		return
	}
	writeJson(writer, http.StatusCreated, info)
}

func (s *Server) handleLoadSnapshot(writer http.ResponseWriter, request *http.Request) {
	if !s.hasStore(writer) {
		return
	}

	info, err := storage.Load(s.store, mux.Vars(request)["id"], s.grid)
	if errors.Is(err, storage.ErrSnapshotNotFound) {
		writeError(writer, http.StatusNotFound, "Snapshot not found", err)
		return
	}
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Error loading snapshot", err)
		return
	}
	writeJson(writer, http.StatusOK, info)
}

func (s *Server) hasStore(writer http.ResponseWriter) bool {
	if s.store == nil {
		writeError(writer, http.StatusNotFound, "No snapshot store configured", nil)
		return false
	}
	return true
}

// cellFromPath writes an error response and returns false when the path has no valid coordinates or there is no cell.
func (s *Server) cellFromPath(writer http.ResponseWriter, request *http.Request) (*grid.Cell[Payload], bool) {
	vars := mux.Vars(request)
	cube, err := parseAxial(vars["q"] + "," + vars["r"])
	if err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid cell coordinates", err)
		return nil, false
	}

	cell, ok := s.grid.GetCell(cube)
	if !ok {
		writeError(writer, http.StatusNotFound, fmt.Sprintf("No cell at %s", cube), nil)
		return nil, false
	}

	return cell, true
}

func (s *Server) toCellResponse(cell *grid.Cell[Payload]) CellResponse {
	return CellResponse{
		Hash:     s.grid.CellToHash(cell.Cube()),
		Q:        cell.Q,
		R:        cell.R,
		S:        cell.S,
		Height:   cell.Height,
		Walkable: cell.Walkable,
		Payload:  cell.Payload,
		Position: s.grid.CellToPixel(cell),
	}
}

// parseAxial parses "q,r" into a cube coordinate.
func parseAxial(value string) (grid.Cube, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return grid.Cube{}, errors.Errorf("Expected 'q,r' but got '%s'", value)
	}

	q, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return grid.Cube{}, errors.Wrapf(err, "Invalid q in '%s'", value)
	}
	r, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return grid.Cube{}, errors.Wrapf(err, "Invalid r in '%s'", value)
	}

	return grid.NewCube(q, r), nil
}

func writeJson(writer http.ResponseWriter, status int, object any) {
	responseBytes, err := json.Marshal(object)
	if err != nil {
		sigolo.Errorf("Error marshalling response object: %+v", err)
		writer.WriteHeader(http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_, err = writer.Write(responseBytes)
	if err != nil {
		sigolo.Errorf("Error writing response: %+v", err)
	}
}

func writeError(writer http.ResponseWriter, status int, message string, err error) {
	if status >= http.StatusInternalServerError {
		sigolo.Errorf("%s: %+v", message, err)
	} else {
		sigolo.Debugf("%s: %v", message, err)
	}
	writeJson(writer, status, NewErrorResponse(message, err))
}
