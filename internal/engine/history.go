package engine

import "github.com/benbeisheim/chess-backend/internal/model"

// liveCursor marks that the history is not being browsed.
const liveCursor = -1

// HistoryManager keeps one snapshot per ply, oldest first, and a cursor for
// browsing them. The last snapshot is always the live position.
type HistoryManager struct {
	snapshots []model.BoardSnapshot
	cursor    int
}

func NewHistoryManager() *HistoryManager {
	return &HistoryManager{cursor: liveCursor}
}

// Capture appends s. If a past snapshot is being viewed, every snapshot after
// it is discarded first and browsing ends.
func (h *HistoryManager) Capture(s model.BoardSnapshot) {
	if h.cursor >= 0 {
		h.snapshots = h.snapshots[:h.cursor+1]
	}
	h.snapshots = append(h.snapshots, s.Clone())
	h.cursor = liveCursor
}

// Commit makes the viewed snapshot the live one, dropping anything after it.
func (h *HistoryManager) Commit() {
	if h.cursor >= 0 {
		h.snapshots = h.snapshots[:h.cursor+1]
		h.cursor = liveCursor
	}
}

// ReplaceLast overwrites the live snapshot.
func (h *HistoryManager) ReplaceLast(s model.BoardSnapshot) {
	if len(h.snapshots) == 0 {
		h.Capture(s)
		return
	}
	h.snapshots[len(h.snapshots)-1] = s.Clone()
}

// Back steps to the previous snapshot.
func (h *HistoryManager) Back() (model.BoardSnapshot, bool) {
	if !h.CanNavigateBack() {
		return model.BoardSnapshot{}, false
	}
	if h.cursor == liveCursor {
		h.cursor = len(h.snapshots) - 2
	} else {
		h.cursor--
	}
	return h.snapshots[h.cursor].Clone(), true
}

// Forward steps to the next snapshot. Reaching the last one ends browsing.
func (h *HistoryManager) Forward() (model.BoardSnapshot, bool) {
	if !h.CanNavigateForward() {
		return model.BoardSnapshot{}, false
	}
	h.cursor++
	s := h.snapshots[h.cursor].Clone()
	if h.cursor == len(h.snapshots)-1 {
		h.cursor = liveCursor
	}
	return s, true
}

// ReturnToLive ends browsing and returns the live snapshot.
func (h *HistoryManager) ReturnToLive() (model.BoardSnapshot, bool) {
	if len(h.snapshots) == 0 {
		return model.BoardSnapshot{}, false
	}
	h.cursor = liveCursor
	return h.snapshots[len(h.snapshots)-1].Clone(), true
}

func (h *HistoryManager) IsViewingHistory() bool { return h.cursor != liveCursor }

func (h *HistoryManager) CanNavigateBack() bool {
	if h.cursor == liveCursor {
		return len(h.snapshots) >= 2
	}
	return h.cursor > 0
}

func (h *HistoryManager) CanNavigateForward() bool {
	return h.cursor != liveCursor && h.cursor < len(h.snapshots)-1
}

func (h *HistoryManager) Len() int { return len(h.snapshots) }

// Current returns the snapshot being viewed, or the live one.
func (h *HistoryManager) Current() (model.BoardSnapshot, bool) {
	if len(h.snapshots) == 0 {
		return model.BoardSnapshot{}, false
	}
	if h.cursor == liveCursor {
		return h.snapshots[len(h.snapshots)-1].Clone(), true
	}
	return h.snapshots[h.cursor].Clone(), true
}

func (h *HistoryManager) Clear() {
	h.snapshots = nil
	h.cursor = liveCursor
}
