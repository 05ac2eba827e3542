package model

// Move is the record of one executed half-move. It is created once by the
// move tracker and never modified afterwards.
type Move struct {
	ID                int    `json:"id"`
	GameID            string `json:"gameId"`
	MoveNumber        int    `json:"moveNumber"`
	Color             Color  `json:"color"`
	Piece             string `json:"piece"` // "K","Q","R","B","N" or "" for a pawn
	From              string `json:"from"`
	To                string `json:"to"`
	Disambiguation    string `json:"disambiguation,omitempty"`
	PromotedTo        string `json:"promotedTo,omitempty"`
	IsCapture         bool   `json:"isCapture"`
	IsEnPassant       bool   `json:"isEnPassant"`
	IsCheck           bool   `json:"isCheck"`
	IsCheckmate       bool   `json:"isCheckmate"`
	IsKingSideCastle  bool   `json:"isKingSideCastle"`
	IsQueenSideCastle bool   `json:"isQueenSideCastle"`
	IsPawnPromotion   bool   `json:"isPawnPromotion"`
	Notation          string `json:"notation"`
}

// IsPawnMove reports whether a pawn made the move.
func (m Move) IsPawnMove() bool {
	return m.Piece == "" && !m.IsKingSideCastle && !m.IsQueenSideCastle
}

// IsCastle reports whether the move was a castle of either kind.
func (m Move) IsCastle() bool {
	return m.IsKingSideCastle || m.IsQueenSideCastle
}

// MoveHistoryItem pairs the notation of one full move.
type MoveHistoryItem struct {
	MoveNumber int    `json:"moveNumber"`
	WhiteMove  string `json:"whiteMove"`
	BlackMove  string `json:"blackMove"`
}

// SimpleMove is an origin/destination pair.
type SimpleMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}
