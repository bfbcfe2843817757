package ui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/blockbuilder/internal/model"
)

// ─── Inventory Dialog ──────────────────────────────────────

// showInventoryDialog lists the blocks the player owns, grouped by
// category. While a build is open the counts are the session's, which
// already reflect blocks placed on the canvas.
func (a *App) showInventoryDialog() {
	list := container.NewVBox()
	var refreshList func()

	refreshList = func() {
		list.RemoveAll()

		inv := a.ws.Profile().Inventory
		if a.session != nil {
			inv = a.session.Inventory()
		}
		if inv.Total() == 0 {
			list.Add(widget.NewLabel("No blocks yet. Solve challenges to earn some!"))
			return
		}

		cat := a.ws.Catalog()
		for _, category := range cat.Categories() {
			var rows []fyne.CanvasObject
			for _, t := range category.Types {
				n := inv.Count(t)
				if n <= 0 {
					continue
				}
				spec, _ := cat.Lookup(t)
				swatch := canvas.NewRectangle(spec.Color)
				swatch.SetMinSize(fyne.NewSize(16, 16))
				rows = append(rows, container.NewGridWithColumns(3,
					container.NewHBox(swatch),
					widget.NewLabel(string(t)),
					widget.NewLabel(fmt.Sprintf("%d", n)),
				))
			}
			if len(rows) == 0 {
				continue
			}
			list.Add(widget.NewLabelWithStyle(category.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true}))
			for _, row := range rows {
				list.Add(row)
			}
			list.Add(widget.NewSeparator())
		}
	}

	refreshList()

	p := a.ws.Profile()
	stats := widget.NewLabel(fmt.Sprintf("Grade %d | Challenges completed: %d | Monster battles waiting: %d",
		p.GradeID, p.ChallengesCompleted, p.PendingBattles))

	toolbar := container.NewHBox(stats, layout.NewSpacer())
	if a.dev && a.session == nil {
		toolbar.Add(widget.NewButtonWithIcon("Grant Reward...", theme.ContentAddIcon(), func() {
			a.showGrantRewardDialog(func() {
				refreshList()
				p := a.ws.Profile()
				stats.SetText(fmt.Sprintf("Grade %d | Challenges completed: %d | Monster battles waiting: %d",
					p.GradeID, p.ChallengesCompleted, p.PendingBattles))
			})
		}))
	}

	content := container.NewBorder(
		toolbar,
		nil, nil, nil,
		container.NewVScroll(list),
	)

	d := dialog.NewCustom("Inventory", "Close", content, a.window)
	d.Resize(fyne.NewSize(500, 500))
	d.Show()
}

// showGrantRewardDialog credits blocks as if a challenge had been solved.
// It is only offered in development mode.
func (a *App) showGrantRewardDialog(onDone func()) {
	var types []string
	for _, t := range a.ws.Catalog().Order() {
		types = append(types, string(t))
	}
	typeSelect := widget.NewSelect(types, nil)
	typeSelect.SetSelected(string(model.Dirt))

	countEntry := widget.NewEntry()
	countEntry.SetText("5")

	battleCheck := widget.NewCheck("Monster battle", nil)

	form := dialog.NewForm("Grant Reward", "Grant", "Cancel",
		[]*widget.FormItem{
			widget.NewFormItem("Block", typeSelect),
			widget.NewFormItem("Count", countEntry),
			widget.NewFormItem("", battleCheck),
		},
		func(ok bool) {
			if !ok {
				return
			}
			n, err := strconv.Atoi(countEntry.Text)
			if err != nil || n <= 0 {
				dialog.ShowError(fmt.Errorf("count must be a whole number > 0"), a.window)
				return
			}
			rewards := map[model.ObjectType]int{model.ObjectType(typeSelect.Selected): n}
			if err := a.ws.AwardRewards(rewards, battleCheck.Checked); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
			onDone()
		},
		a.window,
	)
	form.Resize(fyne.NewSize(350, 250))
	form.Show()
}
