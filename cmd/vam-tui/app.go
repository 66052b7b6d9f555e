package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell"
	"github.com/rivo/tview"

	"github.com/y2kaug27th/VaM-Package-Manager/internal/deleteplan"
	"github.com/y2kaug27th/VaM-Package-Manager/internal/manager"
)

// app is the two-pane package browser: a scrollable list of installed
// packages on the left, and a detail view of the selected package on the
// right. Grounded on the original curses ListPanel/DetailPanel split, with
// navigation, info, orphans/missing reports, and delete-with-deps wired to
// tview's event model instead of a blocking getch() loop.
type app struct {
	mgr *manager.PackageManager

	tv       *tview.Application
	list     *tview.List
	detail   *tview.TextView
	status   *tview.TextView
	rootFlex tview.Primitive

	ids []string
}

func newApp(mgr *manager.PackageManager) *app {
	a := &app{
		mgr: mgr,
		ids: mgr.IDs(),
	}

	a.list = tview.NewList().ShowSecondaryText(false)
	a.list.SetBorder(true).SetTitle(fmt.Sprintf(" Packages (%d) ", len(a.ids)))

	a.detail = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	a.detail.SetBorder(true).SetTitle(" Details ")

	a.status = tview.NewTextView().SetDynamicColors(true)

	for _, id := range a.ids {
		a.list.AddItem(id, "", 0, nil)
	}
	a.list.SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
		a.showDetail(mainText)
	})

	a.rootFlex = a.buildRoot()

	a.tv = tview.NewApplication().SetRoot(a.rootFlex, true).SetFocus(a.list)
	a.tv.SetInputCapture(a.handleKey)

	a.setStatus("[::d]I[-::-] info  [::d]O[-::-] orphans  [::d]M[-::-] missing  [::d]D[-::-] delete+deps  [::d]Q[-::-] quit")

	if len(a.ids) > 0 {
		a.showDetail(a.ids[0])
	} else {
		a.detail.SetText("No packages found.")
	}

	return a
}

func (a *app) run() error {
	return a.tv.Run()
}

func (a *app) setStatus(s string) {
	a.status.SetText(s)
}

func (a *app) selected() (string, bool) {
	idx := a.list.GetCurrentItem()
	if idx < 0 || idx >= len(a.ids) {
		return "", false
	}
	main, _ := a.list.GetItemText(idx)
	return main, true
}

func (a *app) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Rune() {
	case 'q', 'Q':
		a.tv.Stop()
		return nil
	case 'i', 'I':
		if pid, ok := a.selected(); ok {
			a.showDetail(pid)
		}
		return nil
	case 'o', 'O':
		a.showOrphans()
		return nil
	case 'm', 'M':
		a.showMissing()
		return nil
	case 'd', 'D':
		if pid, ok := a.selected(); ok {
			a.confirmDelete(pid)
		}
		return nil
	}
	return event
}

// showDetail renders package_info-equivalent output for pid, annotating
// each dependency with whether it is shared with other installed packages.
func (a *app) showDetail(pid string) {
	info, ok := a.mgr.PackageInfo(pid)
	if !ok {
		a.detail.SetText("Package not found.")
		return
	}

	owned := make(map[string]struct{}, len(info.AllDeps)+1)
	owned[pid] = struct{}{}
	for _, d := range info.AllDeps {
		owned[d] = struct{}{}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[::b]%s[-:-:-]\n", info.ID)
	fmt.Fprintln(&b, strings.Repeat("-", 48))
	fmt.Fprintf(&b, "Creator: %s\n", info.Creator)
	fmt.Fprintf(&b, "License: %s\n", info.License)
	fmt.Fprintf(&b, "Size:    %.2f MB\n", info.SizeMB)
	fmt.Fprintf(&b, "Path:    %s\n", info.Path)
	if info.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", info.Description)
	}
	fmt.Fprintln(&b, strings.Repeat("-", 48))

	fmt.Fprintf(&b, "[::b]Direct dependencies (%d):[-:-:-]\n", len(info.DirectDeps))
	if len(info.DirectDeps) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	for _, d := range info.DirectDeps {
		b.WriteString("  " + a.dependencyTag(d, owned) + " " + d + "\n")
	}

	fmt.Fprintln(&b, strings.Repeat("-", 48))
	fmt.Fprintf(&b, "[::b]All transitive dependencies (%d):[-:-:-]\n", len(info.AllDeps))
	tree := a.mgr.DepTree(pid, 64)
	if len(tree) == 0 {
		fmt.Fprintln(&b, "  (none)")
	}
	for _, e := range tree {
		indent := strings.Repeat("  ", e.Depth)
		b.WriteString(indent + a.dependencyTag(e.Dep, owned) + " " + e.Dep + "\n")
	}

	fmt.Fprintln(&b, strings.Repeat("-", 48))
	fmt.Fprintf(&b, "[::b]Used by (%d):[-:-:-]\n", len(info.Dependents))
	if len(info.Dependents) == 0 {
		fmt.Fprintln(&b, "  (none) -- safe to delete")
	}
	for _, d := range info.Dependents {
		fmt.Fprintln(&b, "  ^ "+d)
	}

	a.detail.SetText(b.String())
}

func (a *app) dependencyTag(dep string, owned map[string]struct{}) string {
	if !a.mgr.Installed(dep) {
		return "[red::b][MISSING][-:-:-]"
	}
	others := 0
	for _, dependent := range a.mgr.Dependents(dep) {
		if _, isOwned := owned[dependent]; !isOwned {
			others++
		}
	}
	if others == 0 {
		return "[green][ok|only you][-:-:-]"
	}
	return fmt.Sprintf("[yellow][ok|+%d others][-:-:-]", others)
}

func (a *app) showOrphans() {
	orphans := a.mgr.FindOrphans()
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]Orphaned packages (%d):[-:-:-]\n", len(orphans))
	for _, o := range orphans {
		fmt.Fprintf(&b, "  %-40s %8.2f MB\n", o.ID, float64(o.Bytes)/(1024*1024))
	}
	a.detail.SetText(b.String())
}

func (a *app) showMissing() {
	missing := a.mgr.FindMissing()
	var b strings.Builder
	fmt.Fprintf(&b, "[::b]Missing dependencies (%d):[-:-:-]\n", len(missing))
	for _, e := range missing {
		fmt.Fprintf(&b, "  %s (needed by %d)\n", e.MissingID, len(e.Dependents))
	}
	a.detail.SetText(b.String())
}

func (a *app) confirmDelete(pid string) {
	plan, err := a.mgr.PlanDelete(pid, true)
	if err != nil {
		a.setStatus("[red]" + err.Error())
		return
	}

	modal := tview.NewModal().
		SetText(fmt.Sprintf("Delete %d package(s), %.2f MB?\n%s",
			len(plan.ToDelete), float64(plan.TotalBytes)/(1024*1024), strings.Join(plan.ToDelete, "\n"))).
		AddButtons([]string{"Delete", "Cancel"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if buttonLabel == "Delete" {
				a.doDelete(plan)
			}
			a.tv.SetRoot(a.rootFlex, true).SetFocus(a.list)
		})
	a.tv.SetRoot(modal, false)
}

func (a *app) doDelete(plan *deleteplan.Plan) {
	results := a.mgr.ExecuteDelete(plan)
	deleted := 0
	for _, r := range results {
		if r.Deleted {
			deleted++
		}
	}
	a.ids = a.mgr.IDs()
	a.list.Clear()
	for _, id := range a.ids {
		a.list.AddItem(id, "", 0, nil)
	}
	a.setStatus(fmt.Sprintf("Deleted %d package(s).", deleted))
	if len(a.ids) > 0 {
		a.showDetail(a.ids[0])
	}
}

func (a *app) buildRoot() tview.Primitive {
	flex := tview.NewFlex().
		AddItem(a.list, 0, 1, true).
		AddItem(a.detail, 0, 2, false)
	return tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(flex, 0, 1, true).
		AddItem(a.status, 1, 0, false)
}
