package trigger

import (
	"log"

	"cuppa/internal/core/brewtimer"
	"cuppa/internal/core/confirm"
	"cuppa/internal/core/model"
)

// Router is the entry point every start/cancel request funnels through,
// whether it came from a window button, the tray menu, or a quick-action
// command. It applies the confirmation gate before anything reaches the
// engine.
type Router struct {
	engine  *brewtimer.Engine
	gate    *confirm.Gate
	catalog *model.Catalog
}

// New creates a Router over the engine, gate and preset catalog.
func New(engine *brewtimer.Engine, gate *confirm.Gate, catalog *model.Catalog) *Router {
	return &Router{engine: engine, gate: gate, catalog: catalog}
}

// RequestStart asks to brew the preset with the given id. Selecting the
// preset that is already brewing is a no-op and never reaches the gate.
func (router *Router) RequestStart(presetID string) {
	preset, found := router.catalog.FindByID(presetID)
	if !found {
		log.Printf("trigger: unknown preset %q", presetID)
		return
	}

	state, current, _ := router.engine.Snapshot()
	if state == brewtimer.StateBrewing && current.ID == preset.ID {
		return
	}

	router.gate.RequestCancelOrReplace(state == brewtimer.StateBrewing, func(confirmed bool) {
		if confirmed {
			router.engine.Start(preset)
		}
	})
}

// RequestCancel asks to stop the running brew.
func (router *Router) RequestCancel() {
	router.gate.RequestCancelOrReplace(router.engine.Active(), func(confirmed bool) {
		if confirmed {
			router.engine.Cancel()
		}
	})
}
