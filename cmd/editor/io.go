package main

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"golang.design/x/clipboard"

	"github.com/milk9111/tilepush/levels"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/stagecode"
)

const maxUndo = 100

// UndoSnapshot is the layout as it was before one edit.
type UndoSnapshot struct {
	Descs []obj.Descriptor
}

// loadLayout starts from an encoded stage, a built-in level or nothing.
func loadLayout(level, code string) (Layout, error) {
	switch {
	case code != "":
		descs, err := stagecode.Decode(code)
		if err != nil {
			return Layout{}, err
		}
		return Layout{Descs: descs}, nil
	case level != "":
		lvl, err := levels.Load(level)
		if err != nil {
			return Layout{}, err
		}
		return Layout{Descs: lvl.Objects}, nil
	}
	return Layout{}, nil
}

// save encodes the layout, copies the code to the clipboard and writes it to
// the output file if one was given.
func (e *EditorGame) save() {
	code, err := stagecode.Encode(e.layout.Descs)
	if err != nil {
		e.say("%v", err)
		return
	}
	if e.clipboard {
		clipboard.Write(clipboard.FmtText, []byte(code))
	}
	if e.out != "" {
		if err := os.MkdirAll(filepath.Dir(e.out), 0o755); err != nil {
			e.say("%v", err)
			return
		}
		if err := os.WriteFile(e.out, []byte(code+"\n"), 0o644); err != nil {
			e.say("%v", err)
			return
		}
	}
	log.WithFields(log.Fields{"objects": len(e.layout.Descs), "code": code}).Info("stage saved")
	e.say("saved %d objects", len(e.layout.Descs))
}

func (e *EditorGame) pushSnapshot(descs []obj.Descriptor) {
	e.undoStack = append(e.undoStack, UndoSnapshot{Descs: descs})
	if len(e.undoStack) > maxUndo {
		// drop oldest
		e.undoStack = e.undoStack[1:]
	}
}

// Undo restores the last snapshot if available.
func (e *EditorGame) Undo() {
	n := len(e.undoStack)
	if n == 0 {
		return
	}
	snap := e.undoStack[n-1]
	e.undoStack = e.undoStack[:n-1]
	e.layout.Descs = snap.Descs
	if err := e.preview.Load(e.layout.Descs); err != nil {
		e.say("%v", err)
	}
}
