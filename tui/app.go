package tui

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ChristianF88/crashgrid/config"
	"github.com/ChristianF88/crashgrid/geometry"
	"github.com/ChristianF88/crashgrid/heatmap"
	"github.com/ChristianF88/crashgrid/output"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
	log "github.com/sirupsen/logrus"
)

const (
	legendLines   = 11
	frameInterval = 30 * time.Millisecond
)

// App represents the TUI application
type App struct {
	app        *tview.Application
	pages      *tview.Pages
	heatmap    *heatmap.Heatmap
	gridView   *GridView
	legendView *tview.TextView
	statusBar  *tview.TextView

	rowButtons     []*tview.Button
	colButtons     []*tview.Button
	focusableItems []tview.Primitive
	currentFocus   int

	plotPath  string
	tickCount int

	// set while the animation goroutine is redrawing
	animating atomic.Bool
}

// NewAppFromConfig creates a new TUI application from configuration
func NewAppFromConfig(cfg *config.Config) (*App, error) {
	a := &App{
		app:       tview.NewApplication(),
		pages:     tview.NewPages(),
		tickCount: cfg.TickCount(),
	}
	if cfg.Output != nil {
		a.plotPath = cfg.Output.PlotPath
	}

	h, err := cfg.NewHeatmap(heatmap.Options{Inspect: a.showInspection})
	if err != nil {
		return nil, err
	}
	a.heatmap = h

	a.setupUI()
	return a, nil
}

// Heatmap returns the model driving the UI
func (a *App) Heatmap() *heatmap.Heatmap {
	return a.heatmap
}

func (a *App) setupUI() {
	rowBar := tview.NewFlex()
	for _, label := range a.heatmap.RowLabels() {
		label := label
		btn := tview.NewButton(label).SetSelectedFunc(func() {
			a.toggle(a.heatmap.ToggleRow, label)
		})
		a.rowButtons = append(a.rowButtons, btn)
		rowBar.AddItem(btn, len(label)+4, 0, false).AddItem(nil, 1, 0, false)
	}
	rowBar.SetBorder(true).SetTitle(" Severity ")

	colBar := tview.NewFlex()
	for _, label := range a.heatmap.ColumnLabels() {
		label := label
		btn := tview.NewButton(label).SetSelectedFunc(func() {
			a.toggle(a.heatmap.ToggleColumn, label)
		})
		a.colButtons = append(a.colButtons, btn)
		colBar.AddItem(btn, len(label)+4, 0, false).AddItem(nil, 1, 0, false)
	}
	colBar.SetBorder(true).SetTitle(" Lighting ")

	a.gridView = NewGridView(a.heatmap, func(c geometry.Cell) {
		a.heatmap.ClickCell(c)
	})

	a.legendView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false).
		SetWrap(false).
		SetText(legendText(a.heatmap.Scale(), legendLines, a.tickCount))
	a.legendView.SetBorder(true).SetTitle(" Frequency ")

	a.statusBar = tview.NewTextView().SetDynamicColors(true)
	a.statusBar.SetBorder(false)

	body := tview.NewFlex().
		AddItem(a.gridView, rowLabelSize+7*cellWidth+2, 0, false).
		AddItem(a.legendView, 22, 0, false).
		AddItem(nil, 0, 1, false)

	main := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(rowBar, 3, 0, true).
		AddItem(colBar, 3, 0, false).
		AddItem(body, headerHeight+3*cellHeight+2, 0, false).
		AddItem(nil, 0, 1, false).
		AddItem(a.statusBar, 1, 0, false)

	a.pages.AddPage("heatmap", main, true, true)

	for _, b := range a.rowButtons {
		a.focusableItems = append(a.focusableItems, b)
	}
	for _, b := range a.colButtons {
		a.focusableItems = append(a.focusableItems, b)
	}
	a.focusableItems = append(a.focusableItems, a.gridView)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyTab:
			a.nextFocus()
			return nil
		case tcell.KeyBacktab:
			a.prevFocus()
			return nil
		}

		switch event.Rune() {
		case 'q', 'Q':
			a.app.Stop()
			return nil
		case 'c', 'C':
			a.heatmap.Reset()
			a.refreshButtons()
			a.startAnimation()
			a.statusBar.SetText("[yellow]Filters cleared[white]")
			return nil
		case 'i', 'I':
			a.heatmap.ClickCell(a.gridView.Cursor())
			return nil
		case 'e', 'E':
			a.export()
			return nil
		}
		return event
	})

	a.refreshButtons()
	a.updateStatusBar()
	a.app.SetRoot(a.pages, true).EnableMouse(true).SetFocus(a.focusableItems[0])
}

// Run starts the TUI application
func (a *App) Run() error {
	return a.app.Run()
}

func (a *App) toggle(fn func(string) (bool, error), label string) {
	active, err := fn(label)
	if err != nil {
		a.statusBar.SetText(fmt.Sprintf("[red]Error:[white] %v", err))
		return
	}
	log.WithFields(log.Fields{"label": label, "active": active}).Debug("toggled")
	a.refreshButtons()
	a.startAnimation()
	a.updateStatusBar()
}

// refreshButtons restyles every button from its flag
func (a *App) refreshButtons() {
	for i, label := range a.heatmap.RowLabels() {
		styleButton(a.rowButtons[i], heatmap.ButtonStyle(a.heatmap.RowActive(label)))
	}
	for i, label := range a.heatmap.ColumnLabels() {
		styleButton(a.colButtons[i], heatmap.ButtonStyle(a.heatmap.ColumnActive(label)))
	}
}

func styleButton(b *tview.Button, s heatmap.Style) {
	style := tcell.StyleDefault.Background(tcellColor(s.Background, tcell.ColorDefault)).
		Foreground(tcellColor(s.Foreground, tcell.ColorDefault))
	b.SetStyle(style)
	b.SetActivatedStyle(style.Underline(true).Bold(true))
}

// tcellColor maps a CSS colour name, falling back for the default ""
func tcellColor(name string, fallback tcell.Color) tcell.Color {
	if name == "" {
		return fallback
	}
	return tcell.GetColor(name)
}

// startAnimation redraws until every fill transition has settled
func (a *App) startAnimation() {
	if !a.animating.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer a.animating.Store(false)
		for {
			time.Sleep(frameInterval)
			a.app.QueueUpdateDraw(func() {})
			if !a.heatmap.Animating() {
				return
			}
		}
	}()
}

func (a *App) showInspection(info heatmap.CellInfo) {
	msg := fmt.Sprintf("[yellow]Square clicked at row: %d, column: %d[white] | %s / %s",
		info.Cell.Row+1, info.Cell.Col+1, info.Row, info.Column)
	switch {
	case info.Active && info.HasValue:
		msg += fmt.Sprintf(" | frequency [green]%s[white]", output.FormatNumber(info.Frequency))
	case info.HasValue:
		msg += " | [gray]filtered out[white]"
	}
	a.statusBar.SetText(msg)
}

func (a *App) export() {
	if a.plotPath == "" {
		a.statusBar.SetText("[red]No plot path configured[white] (set [output] plotPath)")
		return
	}
	if err := output.PlotHeatmap(output.NewFrame(a.heatmap, a.tickCount), a.plotPath); err != nil {
		a.statusBar.SetText(fmt.Sprintf("[red]Error:[white] %v", err))
		return
	}
	a.statusBar.SetText(fmt.Sprintf("[green]Heatmap saved to %s[white]", a.plotPath))
}

// Navigation helper functions
func (a *App) nextFocus() {
	a.currentFocus = (a.currentFocus + 1) % len(a.focusableItems)
	a.app.SetFocus(a.focusableItems[a.currentFocus])
	a.updateStatusBar()
}

func (a *App) prevFocus() {
	a.currentFocus = (a.currentFocus - 1 + len(a.focusableItems)) % len(a.focusableItems)
	a.app.SetFocus(a.focusableItems[a.currentFocus])
	a.updateStatusBar()
}

func (a *App) updateStatusBar() {
	matches := len(a.heatmap.Matches())
	if a.focusableItems[a.currentFocus] == a.gridView {
		c := a.gridView.Cursor()
		a.statusBar.SetText(fmt.Sprintf("[green]%d cells shown[white] | cursor (%d, %d) | ←↑↓→: move, Enter/'i': inspect, Tab: buttons, 'c': clear, 'e': export, 'q': quit",
			matches, c.Row+1, c.Col+1))
		return
	}
	a.statusBar.SetText(fmt.Sprintf("[green]%d cells shown[white] | Tab/Shift+Tab: focus, Enter: toggle, 'c': clear, 'e': export, 'q': quit", matches))
}
