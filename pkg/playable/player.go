package playable

// Player is a participant identity supplied by the room
type Player interface {
	GetPlayerID() int64
	GetName() string
}

// Identity is a simple Player
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// GetPlayerID returns the stable ID
func (i Identity) GetPlayerID() int64 {
	return i.ID
}

// GetName returns the display name
func (i Identity) GetName() string {
	return i.Name
}
