package model

import "time"

// Piece is a furniture-body element that needs a position on the sheet.
// Depth is carried through untouched; the 2D layout never reads it.
type Piece struct {
	ID     int64 `json:"id"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Depth  int   `json:"depth"`
}

// Area returns width * height.
func (p Piece) Area() int {
	return p.Width * p.Height
}

// Placement is the computed position of a piece on the sheet.
// X and Y are the top-left corner, measured from the sheet's top-left.
type Placement struct {
	PieceID int64 `json:"piece_id"`
	X       int   `json:"x"`
	Y       int   `json:"y"`
	Width   int   `json:"width"`
	Height  int   `json:"height"`
}

// Right returns the x coordinate one past the placement's right edge.
func (p Placement) Right() int { return p.X + p.Width }

// Bottom returns the y coordinate one past the placement's bottom edge.
func (p Placement) Bottom() int { return p.Y + p.Height }

// Area returns the area covered by the placement.
func (p Placement) Area() int { return p.Width * p.Height }

// Overlaps reports whether the interiors of two placements intersect.
// Placements that only share an edge do not overlap.
func (p Placement) Overlaps(o Placement) bool {
	return p.X < o.Right() && o.X < p.Right() &&
		p.Y < o.Bottom() && o.Y < p.Bottom()
}

// Within reports whether the placement lies fully inside a width x height sheet.
func (p Placement) Within(width, height int) bool {
	return p.X >= 0 && p.Y >= 0 && p.Right() <= width && p.Bottom() <= height
}

// FurnitureBodyDTO is one element of a cut request as received on the wire.
// ID is a pointer so a missing id can be told apart from id 0.
type FurnitureBodyDTO struct {
	ID     *int64 `json:"id"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Depth  int    `json:"depth"`
}

// ToPiece converts a validated DTO into an engine piece.
// Callers must validate first; a nil ID maps to 0.
func (d FurnitureBodyDTO) ToPiece() Piece {
	var id int64
	if d.ID != nil {
		id = *d.ID
	}
	return Piece{ID: id, Width: d.Width, Height: d.Height, Depth: d.Depth}
}

// CutRequest asks for the elements to be laid out on one sheet.
type CutRequest struct {
	SheetWidth  *int               `json:"sheetWidth"`
	SheetHeight *int               `json:"sheetHeight"`
	Elements    []FurnitureBodyDTO `json:"elements"`
}

// NewCutRequest builds a request from plain values, mostly for tests and the CLI.
func NewCutRequest(width, height int, pieces ...Piece) CutRequest {
	req := CutRequest{
		SheetWidth:  &width,
		SheetHeight: &height,
		Elements:    make([]FurnitureBodyDTO, 0, len(pieces)),
	}
	for _, p := range pieces {
		id := p.ID
		req.Elements = append(req.Elements, FurnitureBodyDTO{
			ID:     &id,
			Width:  p.Width,
			Height: p.Height,
			Depth:  p.Depth,
		})
	}
	return req
}

// Pieces returns the request elements as engine pieces, preserving order.
func (r CutRequest) Pieces() []Piece {
	pieces := make([]Piece, 0, len(r.Elements))
	for _, e := range r.Elements {
		pieces = append(pieces, e.ToPiece())
	}
	return pieces
}

// CuttingSheet is the persisted result of one packing run.
// It exclusively owns its placed elements.
type CuttingSheet struct {
	ID             int64           `json:"id"`
	Width          int             `json:"width"`
	Height         int             `json:"height"`
	CreatedAt      time.Time       `json:"created_at"`
	PlacedElements []PlacedElement `json:"placed_elements"`
}

// PlacedElement is a furniture element with its calculated position.
// CuttingSheetID refers back to the owning sheet by id only.
type PlacedElement struct {
	ID              int64 `json:"id"`
	FurnitureBodyID int64 `json:"furniture_body_id"`
	X               int   `json:"x"`
	Y               int   `json:"y"`
	Width           int   `json:"width"`
	Height          int   `json:"height"`
	CuttingSheetID  int64 `json:"cutting_sheet_id"`
}

// AddPlacedElement appends an element and points it at this sheet.
func (s *CuttingSheet) AddPlacedElement(e PlacedElement) {
	e.CuttingSheetID = s.ID
	s.PlacedElements = append(s.PlacedElements, e)
}

// UsedArea returns the total area covered by placed elements.
func (s CuttingSheet) UsedArea() int {
	total := 0
	for _, e := range s.PlacedElements {
		total += e.Width * e.Height
	}
	return total
}

// TotalArea returns the sheet area.
func (s CuttingSheet) TotalArea() int {
	return s.Width * s.Height
}

// Efficiency returns the usage percentage.
func (s CuttingSheet) Efficiency() float64 {
	ta := s.TotalArea()
	if ta == 0 {
		return 0
	}
	return float64(s.UsedArea()) / float64(ta) * 100.0
}

// PlacementDTO is one placed element in a cut response.
type PlacementDTO struct {
	ElementID int64 `json:"elementId"`
	X         int   `json:"x"`
	Y         int   `json:"y"`
	Width     int   `json:"width"`
	Height    int   `json:"height"`
}

// CutResponse is returned for a request whose elements all fit.
type CutResponse struct {
	ID          int64          `json:"id"`
	SheetWidth  int            `json:"sheetWidth"`
	SheetHeight int            `json:"sheetHeight"`
	Efficiency  float64        `json:"efficiency"`
	Placements  []PlacementDTO `json:"placements"`
}

// ErrorResponse is the payload for malformed requests and other plain errors.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// PackingFailureResponse is returned when a valid request does not fit the sheet.
// It differs from ErrorResponse by listing the unseated element ids.
type PackingFailureResponse struct {
	Status             int     `json:"status"`
	Message            string  `json:"message"`
	UnplacedElementIDs []int64 `json:"unplacedElementIds"`
}
