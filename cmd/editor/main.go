// Command editor places, moves and recolours stage objects and saves the
// result as a stage code.
package main

import (
	"flag"

	"github.com/hajimehoshi/ebiten/v2"
	log "github.com/sirupsen/logrus"

	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/render"
)

func main() {
	level := flag.String("level", "", "start from a built-in level")
	code := flag.String("code", "", "start from an encoded stage")
	out := flag.String("out", "", "also write the stage code to this file on save")
	tuningFile := flag.String("tuning", prefabs.TuningFile, "tuning spec in prefabs/")
	flag.Parse()

	tuning, err := prefabs.LoadTuning(*tuningFile)
	if err != nil {
		log.WithError(err).Fatal("load tuning")
	}
	layout, err := loadLayout(*level, *code)
	if err != nil {
		log.WithError(err).Fatal("load stage")
	}
	editor, err := NewEditorGame(tuning, layout, *out)
	if err != nil {
		log.WithError(err).Fatal("open stage")
	}

	size := editor.size()
	ebiten.SetWindowSize(size+panelWidth, size+render.StatusHeight)
	ebiten.SetWindowTitle("tilepush editor")
	if err := ebiten.RunGame(editor); err != nil {
		log.Fatal(err)
	}
}
