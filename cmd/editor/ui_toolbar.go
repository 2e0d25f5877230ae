package main

import (
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// ToolBar is a column of toggle buttons of which exactly one is active.
type ToolBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
}

// Select activates the idx-th button, as a keyboard shortcut would.
func (tb *ToolBar) Select(idx int) {
	if tb == nil || tb.group == nil || idx < 0 || idx >= len(tb.buttons) {
		return
	}
	tb.group.SetActive(tb.buttons[idx])
}

// buildToolBar lays names out as toggle buttons of which exactly one is
// active, reporting the chosen index to onSelected.
func buildToolBar(theme *widget.Theme, fontFace *text.Face, names []string, onSelected func(idx int), initial int) (*widget.Container, *ToolBar) {
	toolbar := widget.NewContainer(
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(4),
			),
		),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.RowLayoutData{Stretch: true}),
		),
	)

	var buttons []*widget.Button
	for _, name := range names {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, fontFace, theme.ButtonTheme.TextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(panelWidth-16, 22),
			),
		)
		buttons = append(buttons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(buttons))
	for _, b := range buttons {
		elements = append(elements, b)
	}

	group := widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if onSelected == nil {
				return
			}
			for idx, b := range buttons {
				if args.Active == b {
					onSelected(idx)
					return
				}
			}
		}),
	)

	if initial >= 0 && initial < len(buttons) {
		group.SetActive(buttons[initial])
	}

	return toolbar, &ToolBar{group: group, buttons: buttons}
}
