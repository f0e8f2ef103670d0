/*
Opens a window and renders the testbed scene through the
prelight pipeline described by assets/pipeline.toml
*/
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/prelight/engine"
	"github.com/spaghettifunk/prelight/engine/core"
	"github.com/spaghettifunk/prelight/testbed"
)

func main() {
	tb := testbed.NewTestGame()

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal(err.Error())
		os.Exit(1)
	}

	if err := e.Initialize(); err != nil {
		core.LogFatal(err.Error())
		_ = e.Shutdown()
		os.Exit(1)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// the loop owns the GL context, so a signal only asks it to stop
	go func() {
		<-sigCh
		core.EventFire(core.EventContext{Type: core.EVENT_CODE_APPLICATION_QUIT})
	}()

	if err := e.Run(); err != nil {
		core.LogError(err.Error())
	}
	if err := e.Shutdown(); err != nil {
		core.LogError(err.Error())
		os.Exit(1)
	}
}
