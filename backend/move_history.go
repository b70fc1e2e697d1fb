package main

import "github.com/alfredoyang/gomoku/engine"

type HistoryEntry struct {
	Move      engine.Move
	Player    engine.Player
	ElapsedMs float64
	IsAi      bool
	// Score is the static evaluation after the move, from the AI colour's
	// point of view.
	Score int
	Nodes int64
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}

func (h MoveHistory) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}
