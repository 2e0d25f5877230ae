package main

import (
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/milk9111/tilepush/levels"
)

// pickLevel lists the built-in stages and returns the one chosen, or "" if
// the player left with Esc or q.
func pickLevel(names []string) (string, error) {
	var chosen string
	app := tview.NewApplication()
	list := newLevelList(names, func(name string) {
		chosen = name
		app.Stop()
	})
	list.SetDoneFunc(app.Stop)
	list.SetInputCapture(func(ev *tcell.EventKey) *tcell.EventKey {
		if ev.Key() == tcell.KeyRune && ev.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return ev
	})
	if err := app.SetRoot(list, true).Run(); err != nil {
		return "", err
	}
	return chosen, nil
}

// newLevelList shows each stage with its hint. The first nine stages get a
// digit shortcut.
func newLevelList(names []string, onPick func(name string)) *tview.List {
	list := tview.NewList()
	list.SetBorder(true).SetTitle(" tilepush stages ")
	for i, name := range names {
		hint := ""
		if lvl, err := levels.Load(name); err == nil {
			hint = lvl.Hint
		}
		var shortcut rune
		if i < 9 {
			shortcut = rune('1' + i)
		}
		list.AddItem("Stage "+name, hint, shortcut, func() { onPick(name) })
	}
	return list
}
