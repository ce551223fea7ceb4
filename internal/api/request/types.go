package request

// SeatRequest names the acting seat for join, leave, draw and pass
type SeatRequest struct {
	Player string `json:"player"`
}

// CreateRoomRequest is the request body for creating a room
type CreateRoomRequest struct {
	Player     string `json:"player"`
	MaxPlayers int    `json:"max_players,omitempty"`
}

// DiscardRequest is the request body for discarding a tile
type DiscardRequest struct {
	Player string `json:"player"`
	Tile   int    `json:"tile"`
}

// ClaimRequest is the request body for claiming the pending discard
type ClaimRequest struct {
	Player string `json:"player"`
	Action string `json:"action"`
	// Tiles are the two hand tiles completing a chi
	Tiles []int `json:"tiles,omitempty"`
}

// CheckWinRequest is the request body for a standalone winning-hand check
type CheckWinRequest struct {
	Tiles []int `json:"tiles"`
}

// SetHandRequest is the request body for overwriting a hand
type SetHandRequest struct {
	Tiles []int `json:"tiles"`
}

// AdminLoginRequest exchanges the admin secret for a session token
type AdminLoginRequest struct {
	Secret string `json:"secret"`
}

// SweeperRequest reconfigures a sweeper. Durations use Go syntax ("500ms",
// "10s"); an empty field keeps the current value.
type SweeperRequest struct {
	Interval string `json:"interval,omitempty"`
	Timeout  string `json:"timeout,omitempty"`
}

// AddBotRequest seats a bot. An empty strategy uses "random".
type AddBotRequest struct {
	Strategy string `json:"strategy,omitempty"`
}
