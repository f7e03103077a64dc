package model

// Player is an enriched, normalized roster record.
type Player struct {
	Name            string  `json:"name"`
	Team            string  `json:"team"`
	City            string  `json:"city"`
	Country         string  `json:"country"`
	DisplayLocation string  `json:"display_location"`
	Record          string  `json:"record"`
	TeamPosition    *int    `json:"team_position"`
	Rating          float64 `json:"rating"`
	Lat             float64 `json:"lat"`
	Lng             float64 `json:"lng"`
}

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// IsZero reports whether c is the (0, 0) default used for unresolved locations.
func (c Coordinates) IsZero() bool {
	return c.Lat == 0 && c.Lng == 0
}
