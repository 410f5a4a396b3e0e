package entity

// Player is a seated participant. ID is the connection id.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}
