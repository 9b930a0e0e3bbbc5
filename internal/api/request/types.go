package request

// CreateGameRequest is the request body for creating a game.
// Players are seated in order; players beyond the fourth wait in the queue.
type CreateGameRequest struct {
	Name    string   `json:"name"`
	Players []string `json:"players"`
}

// UpdateGameRequest is the request body for updating a game.
// The lineup is replaced only when active or queue is present.
type UpdateGameRequest struct {
	Name   *string  `json:"name,omitempty"`
	Active []string `json:"active,omitempty"`
	Queue  []string `json:"queue,omitempty"`
}

// HasLineup returns true if the request replaces the lineup
func (r UpdateGameRequest) HasLineup() bool {
	return r.Active != nil || r.Queue != nil
}
