package mux

import (
	"net/http"
)

type roomResponse struct {
	Name    string `json:"name"`
	Clients int    `json:"clients"`
}

func (m *Mux) getRoom() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms := make([]roomResponse, 0)
		for _, name := range m.pitBoss.Rooms() {
			dealer, found := m.pitBoss.Lookup(name)
			if !found {
				continue
			}

			rooms = append(rooms, roomResponse{
				Name:    name,
				Clients: len(dealer.Clients()),
			})
		}

		writeJSON(w, http.StatusOK, rooms)
	}
}
