package main

import (
	"context"
	"errors"
	"flag"
	"net/http"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/render"
	"github.com/milk9111/tilepush/spectate"
)

func main() {
	levelName := flag.String("level", "1", "built-in level name in levels/ (.json optional)")
	code := flag.String("code", "", "play an encoded stage instead of a built-in level")
	tuningFile := flag.String("tuning", prefabs.TuningFile, "tuning spec in prefabs/")
	watch := flag.Bool("watch", false, "reload tuning and levels when their files change")
	addr := flag.String("spectate", "", "serve a spectator stream on this address, e.g. :8080")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	tuning, err := prefabs.LoadTuning(*tuningFile)
	if err != nil {
		log.WithError(err).Fatal("load tuning")
	}

	var hub *spectate.Hub
	if *addr != "" {
		hub = spectate.NewHub(log.StandardLogger())
		go hub.Run(context.Background())
		go func() {
			log.WithField("addr", *addr).Info("spectator stream listening")
			if err := http.ListenAndServe(*addr, hub.Routes()); err != nil {
				log.WithError(err).Error("spectator stream stopped")
			}
		}()
	}

	g, err := NewGame(Options{
		Level:      *levelName,
		Code:       *code,
		Tuning:     tuning,
		TuningFile: *tuningFile,
		Watch:      *watch,
		Hub:        hub,
	})
	if err != nil {
		log.WithError(err).Fatal("start")
	}
	defer g.Close()

	size := g.screenSize()
	ebiten.SetWindowSize(size, size+render.StatusHeight)
	ebiten.SetWindowTitle("tilepush")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ErrQuit) {
		log.Fatal(err)
	}
}
