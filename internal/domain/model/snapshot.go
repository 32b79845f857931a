// Package model contains the core domain entities for armastatus.
// These models represent the core business objects and are independent of external concerns.
package model

import "time"

// Player is a single entry of a server's player list.
type Player struct {
	Name     string
	Score    int32
	Duration time.Duration
}

// Snapshot is a point-in-time status read from the game server.
// It is produced fresh on every query and never persisted.
type Snapshot struct {
	Name       string
	Connect    string // host:game_port clients use to join
	Map        string
	Game       string
	Version    string
	Players    []Player
	MaxPlayers int
	Bots       int
}

// PlayerCount returns the number of players in the snapshot's player list.
func (s Snapshot) PlayerCount() int {
	return len(s.Players)
}
