package room

import "errors"

// ErrRoomExists is returned when a room name is already taken
var ErrRoomExists = errors.New("room already exists")
