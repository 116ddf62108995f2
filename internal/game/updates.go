package game

// Update kinds pushed to the client.
const (
	UpdateInit      = "init"
	UpdateStart     = "start"
	UpdateField     = "field"
	UpdateTetromino = "tetromino"
	UpdateGhost     = "ghost"
	UpdateNext      = "next"
	UpdateHold      = "hold"
	UpdateStatus    = "status"
	UpdatePause     = "pause"
	UpdateResume    = "resume"
	UpdateOver      = "over"
)

// Update is one incremental change notification emitted by a session.
type Update struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// ShapeData carries a bare shape grid, used for the hold and next previews.
type ShapeData struct {
	Shape Shape `json:"shape"`
}

// StatusData is the score block shown beside the field.
type StatusData struct {
	Score int `json:"score"`
	Level int `json:"level"`
	Lines int `json:"lines"`
}

// dirtyFlags gates which update kinds the next flush emits, at most one of
// each per tick.
type dirtyFlags struct {
	field  bool
	piece  bool
	hold   bool
	next   bool
	status bool
}

func allDirty() dirtyFlags {
	return dirtyFlags{field: true, piece: true, hold: true, next: true, status: true}
}

// buildUpdates assembles the outbound updates for the given session state
// and change flags. It mutates nothing, so emission can be tested without
// simulating a tick.
func buildUpdates(session *Session, dirty dirtyFlags) []Update {
	updates := make([]Update, 0, 6)

	if dirty.field {
		updates = append(updates, Update{Type: UpdateField, Data: session.field.Visible()})
	}

	if dirty.piece && session.current != nil {
		updates = append(updates,
			Update{Type: UpdateTetromino, Data: session.current.Clone()},
			Update{Type: UpdateGhost, Data: session.ghost()},
		)
	}

	if dirty.hold && session.held != nil {
		updates = append(updates, Update{Type: UpdateHold, Data: ShapeData{Shape: session.held.Clone()}})
	}

	if dirty.next {
		updates = append(updates, Update{Type: UpdateNext, Data: ShapeData{Shape: kindShapes[session.bag.Peek()].Clone()}})
	}

	if dirty.status {
		updates = append(updates, Update{Type: UpdateStatus, Data: StatusData{
			Score: session.score,
			Level: session.Level(),
			Lines: session.lines,
		}})
	}

	return updates
}
