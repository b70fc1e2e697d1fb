package main

// IPlayer is one side of the table. Humans queue clicks, AIs think in
// the background; the session polls both from Tick.
type IPlayer interface {
	IsHuman() bool
}
