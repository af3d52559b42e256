/*
Demo binary for the exchange engine: runs a copy/paste round trip over the
configured transport using the in-memory testbed scene, or watches the
payload file for changes coming from the partner application.
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/tazee/ModoClipboard/exchange"
	"github.com/tazee/ModoClipboard/exchange/config"
	"github.com/tazee/ModoClipboard/exchange/core"
	"github.com/tazee/ModoClipboard/exchange/extract"
	"github.com/tazee/ModoClipboard/exchange/transport"
	"github.com/tazee/ModoClipboard/testbed"
)

func main() {
	settings := loadSettings()

	controller, err := exchange.New(settings)
	if err != nil {
		core.LogFatal(err.Error())
	}

	command := "roundtrip"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "roundtrip":
		roundtrip(controller)
	case "copy":
		if err := controller.Copy(testbed.NewDemoMesh(), extract.SelectedPolygons); err != nil {
			core.LogFatal(err.Error())
		}
	case "paste":
		scene := testbed.NewDemoScene()
		if err := controller.Paste(scene.ActiveMesh()); err != nil {
			core.LogFatal(err.Error())
		}
	case "watch":
		watch(settings)
	default:
		core.LogFatal("unknown command %q (want roundtrip, copy, paste or watch)", command)
	}
}

func loadSettings() *config.Settings {
	path, err := config.DefaultPath()
	if err != nil {
		core.LogWarn("no user config directory, using defaults: %s", err.Error())
		return config.Default()
	}
	settings, err := config.Load(path)
	if err != nil {
		core.LogFatal(err.Error())
	}
	return settings
}

func roundtrip(controller *exchange.Controller) {
	source := testbed.NewDemoMesh()
	if err := controller.Copy(source, extract.SelectedPolygons); err != nil {
		core.LogFatal(err.Error())
	}

	scene := testbed.NewDemoScene()
	if err := controller.NewMeshFromClipboard(scene); err != nil {
		core.LogFatal(err.Error())
	}
	core.LogInfo("round trip complete")
}

func watch(settings *config.Settings) {
	if settings.TransportMode != config.ModeTempFile {
		core.LogFatal("watch needs the tempfile transport, settings use %q", settings.TransportMode)
	}

	watcher, err := transport.NewWatcher(transport.NewTempFile(settings.TempFilePath))
	if err != nil {
		core.LogFatal(err.Error())
	}
	defer watcher.Close()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	core.LogInfo("watching payload, ctrl-c to stop")
	for {
		select {
		case path := <-watcher.Events():
			core.LogInfo("payload updated: %s", path)
		case <-sigCh:
			return
		}
	}
}
