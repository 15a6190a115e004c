package handlers

import (
	"github.com/recruitdesk/recruitdesk/db"
	"github.com/recruitdesk/recruitdesk/internal/rounds"
)

// engine builds a workflow engine over the live database. Stores are stateless
// wrappers, so constructing one per request costs nothing.
func engine() *rounds.Engine {
	return rounds.NewEngine(rounds.NewGormStore(db.DB))
}

func recorder() *rounds.Recorder {
	return rounds.NewRecorder(rounds.NewGormStore(db.DB))
}
