package model

// RawRecord is one player's season standing as returned by the roster API.
// Field names follow the upstream payload.
type RawRecord struct {
	Player       Text `json:"player" validate:"required"`
	TeamName     Text `json:"teamname" validate:"required"`
	City         Text `json:"city" validate:"required"`
	Country      Text `json:"country" validate:"required"`
	Wins         Text `json:"wins" validate:"required"`
	Losses       Text `json:"losses" validate:"required"`
	TeamPosition Text `json:"TeamPosition" validate:"required"`
	Rating       Text `json:"Rating" validate:"required"`
}

// Team is one entry of a season's standings.
type Team struct {
	TeamID   Text `json:"teamid" validate:"required"`
	TeamName Text `json:"teamname"`
}
