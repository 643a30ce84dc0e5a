package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"cuppa/internal/core/brewtimer"
	"cuppa/internal/core/confirm"
	"cuppa/internal/core/model"
	"cuppa/internal/notify"
	"cuppa/internal/platform"
	"cuppa/internal/storage"
	"cuppa/internal/trigger"
	"cuppa/internal/ui/brewwindow"
	"cuppa/internal/ui/preferences"
	"cuppa/internal/ui/tray"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
)

const appName = "Cuppa"

func main() {
	startPreset := flag.String("start", "", "start brewing the preset with this id")
	cancelBrew := flag.Bool("cancel", false, "stop the running brew")
	flag.Parse()

	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		// Another instance owns the timer; forward the quick action to it.
		forwardQuickAction(*startPreset, *cancelBrew)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	presets, err := storage.LoadPresets(appName)
	if err != nil {
		log.Printf("load presets: %v", err)
		presets = model.DefaultPresets()
	}
	catalog := model.NewCatalog(presets)

	alarms, err := storage.NewAlarmFile(appName)
	if err != nil {
		log.Printf("alarm store: %v", err)
		return
	}

	notifier := notify.NewDesktopNotifier(appName)
	engine := brewtimer.New(catalog, alarms, notifier, brewtimer.Config{TickInterval: time.Second})
	engine.Resume()

	fyneApp := app.NewWithID("com.cuppa.app")
	desktopApp, ok := fyneApp.(desktop.App)
	if !ok {
		log.Printf("system tray unsupported on this platform")
		return
	}

	var router *trigger.Router
	window := brewwindow.New(fyneApp, catalog.Presets(), brewwindow.Callbacks{
		OnStartPreset: func(presetID string) {
			router.RequestStart(presetID)
		},
		OnCancel: func() {
			router.RequestCancel()
		},
	})
	gate := confirm.New(window)
	router = trigger.New(engine, gate, catalog)

	var trayManager *tray.Manager
	var prefsWindow *preferences.Window
	trayManager = tray.New(desktopApp, catalog.Presets(), tray.Callbacks{
		OnStartPreset: func(presetID string) {
			router.RequestStart(presetID)
		},
		OnCancel: func() {
			router.RequestCancel()
		},
		OnPreferences: func() {
			prefsWindow.Show()
		},
		OnQuit: func() {
			engine.Stop()
			fyneApp.Quit()
		},
	})

	prefsWindow = preferences.New(fyneApp, catalog.Presets(), func(updated []model.Preset) {
		if err := storage.SavePresets(appName, updated); err != nil {
			log.Printf("save presets: %v", err)
		}
		catalog.Replace(updated)
		trayManager.SetPresets(updated)
		window.SetPresets(updated)
	})

	// Quick actions from later invocations arrive over the guard's socket.
	guard.Serve(func(command string) {
		handleQuickAction(command, router)
	})

	// Reflect a session resumed before the UI existed.
	if state, preset, remaining := engine.Snapshot(); state == brewtimer.StateBrewing {
		window.ShowBrewing(preset, remaining)
		trayManager.SetBrewing(true)
		trayManager.SetStatus(fmt.Sprintf("brewing %s", preset.Name))
	}

	events := engine.Subscribe(5)
	go func() {
		for event := range events {
			handleEvent(event, window, trayManager)
		}
	}()

	engine.Run()
	window.Show()
	fyneApp.Run()
}

func forwardQuickAction(startPreset string, cancelBrew bool) {
	command := ""
	switch {
	case startPreset != "":
		command = "start " + startPreset
	case cancelBrew:
		command = "cancel"
	}
	if command == "" {
		log.Printf("cuppa is already running")
		return
	}
	if err := platform.SendCommand(appName, command); err != nil {
		log.Printf("forward quick action: %v", err)
	}
}

func handleQuickAction(command string, router *trigger.Router) {
	fields := strings.Fields(command)
	switch {
	case len(fields) == 2 && fields[0] == "start":
		fyne.Do(func() {
			router.RequestStart(fields[1])
		})
	case len(fields) == 1 && fields[0] == "cancel":
		fyne.Do(func() {
			router.RequestCancel()
		})
	default:
		log.Printf("unknown quick action %q", command)
	}
}

func handleEvent(event brewtimer.Event, window *brewwindow.Window, trayManager *tray.Manager) {
	switch event.Type {
	case brewtimer.EventStateChange:
		if event.State == brewtimer.StateBrewing {
			fyne.Do(func() {
				window.ShowBrewing(event.Preset, event.Remaining)
				trayManager.SetBrewing(true)
				trayManager.SetStatus(fmt.Sprintf("brewing %s", event.Preset.Name))
			})
		} else {
			fyne.Do(func() {
				window.ShowIdle()
				trayManager.SetBrewing(false)
				trayManager.SetStatus("idle")
			})
		}
	case brewtimer.EventProgress:
		fyne.Do(func() {
			window.SetRemaining(event.Remaining)
			trayManager.SetStatus(fmt.Sprintf("%s ready in %s", event.Preset.Name, formatRemaining(event.Remaining)))
		})
	}
}

func formatRemaining(remaining int) string {
	if remaining < 0 {
		remaining = 0
	}
	return fmt.Sprintf("%02d:%02d", remaining/60, remaining%60)
}
