package ui

import (
	"fyne.io/fyne/v2"

	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"
)

// newIconButtonWithTooltip creates an icon-only button with a tooltip that appears on hover.
func newIconButtonWithTooltip(icon fyne.Resource, tooltip string, tapped func()) *ttwidget.Button {
	btn := ttwidget.NewButtonWithIcon("", icon, tapped)
	btn.SetToolTip(tooltip)
	return btn
}

// withToolTips wraps window content in the tooltip layer. Tooltips only
// show on wrapped content.
func (a *App) withToolTips(content fyne.CanvasObject) fyne.CanvasObject {
	return fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas())
}

func (a *App) setContent(content fyne.CanvasObject) {
	a.window.SetContent(a.withToolTips(content))
}
