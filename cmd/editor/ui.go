package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/tilepush/prefabs"
)

const panelWidth = 180

// EditorUI is the side panel: tools, brushes and stage actions.
type EditorUI struct {
	UI      *ebitenui.UI
	Tools   *ToolBar
	Brushes *ToolBar
}

func BuildEditorUI(
	display prefabs.DisplaySpec,
	onToolSelected func(tool Tool),
	onBrushSelected func(idx int),
	onPlay func(),
	onSave func(),
	onClear func(),
	initialTool Tool,
	initialBrush int,
) *EditorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 12}
	ui.PrimaryTheme = newEditorTheme(&fontFace, display)

	toolNames := make([]string, len(tools))
	for i, t := range tools {
		toolNames[i] = t.String()
	}
	toolsContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, toolNames, func(idx int) {
		onToolSelected(Tool(idx))
	}, int(initialTool))

	brushNames := make([]string, len(brushes))
	for i, b := range brushes {
		brushNames[i] = b.Name
	}
	brushContainer, brushBar := buildToolBar(ui.PrimaryTheme, &fontFace, brushNames, onBrushSelected, initialBrush)

	action := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
			widget.ButtonOpts.Text(label, &fontFace, ui.PrimaryTheme.ButtonTheme.TextColor),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(panelWidth-16, 24),
			),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(ui.PrimaryTheme.PanelTheme.BackgroundImage),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(8),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 8, Right: 8}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(panelWidth, 0),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionEnd,
				VerticalPosition:   widget.AnchorLayoutPositionStart,
				StretchVertical:    true,
			}),
		),
	)
	panel.AddChild(toolsContainer)
	panel.AddChild(brushContainer)
	panel.AddChild(action("Play / Stop", onPlay))
	panel.AddChild(action("Save code", onSave))
	panel.AddChild(action("Clear", onClear))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	ui.Container = root

	return &EditorUI{UI: ui, Tools: toolBar, Brushes: brushBar}
}
