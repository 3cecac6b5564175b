package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/content"
	"github.com/GriffinCanCode/KennelOS/backend/internal/domain/session"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.FgHiBlack)
)

// PrintTree renders the content tree as an indented table
func PrintTree(w io.Writer, tree *content.Tree) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("NODE"), bold.Sprint("TYPE"), bold.Sprint("PATH"))

	tree.Walk(func(path string, depth int, n *content.Node) bool {
		label := strings.Repeat("  ", depth) + n.Icon + " " + n.Title
		kind := string(n.Kind)
		if n.FileType != "" {
			kind += "/" + n.FileType
		}
		tbl.AddRow(label, kind, faint.Sprint(path))
		return true
	})

	_, _ = fmt.Fprintln(w, tbl)
}

// PrintNode renders one resolved node and its children
func PrintNode(w io.Writer, tree *content.Tree, path string, n *content.Node) {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Title:"), n.Icon+" "+n.Title)
	tbl.AddRow(bold.Sprint("Type:"), string(n.Kind))
	if n.FileType != "" {
		tbl.AddRow(bold.Sprint("File type:"), n.FileType)
	}
	if n.Breed != "" {
		tbl.AddRow(bold.Sprint("Breed:"), n.Breed)
	}
	tbl.AddRow(bold.Sprint("Path:"), path)
	_, _ = fmt.Fprintln(w, tbl)

	entries, err := tree.List(path)
	if err != nil || len(entries) == 0 {
		return
	}
	children := uitable.New()
	children.Separator = "  "
	for _, e := range entries {
		children.AddRow("  "+e.Node.Icon, e.Key, faint.Sprint(e.Node.Kind))
	}
	_, _ = fmt.Fprintln(w, children)
}

// PrintSnapshot renders the taskbar view of a session: windows in order with
// the active one marked
func PrintSnapshot(w io.Writer, snap *session.Snapshot) {
	_, _ = fmt.Fprintf(w, "%s %s  %s #%s\n",
		bold.Sprint("Session"), snap.SessionID,
		faint.Sprint("fragment"), snap.Fragment)

	if len(snap.Windows) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("no open windows"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("", bold.Sprint("ID"), bold.Sprint("TITLE"), bold.Sprint("VIEW"), bold.Sprint("STATE"), bold.Sprint("POSITION"))
	for _, win := range snap.Windows {
		marker := " "
		if win.ID == snap.ActiveID {
			marker = color.GreenString("●")
		}
		tbl.AddRow(marker, win.ID, win.Icon+" "+win.Title, string(win.Collaborator),
			windowState(win), fmt.Sprintf("%d,%d", win.Position.X, win.Position.Y))
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func windowState(win session.WindowView) string {
	switch {
	case win.IsMinimized:
		return color.YellowString("minimized")
	case win.IsMaximized:
		return color.CyanString("maximized")
	default:
		return "normal"
	}
}

// PrintSessions renders the session listing
func PrintSessions(w io.Writer, infos []session.Info) {
	if len(infos) == 0 {
		_, _ = fmt.Fprintln(w, faint.Sprint("no live sessions"))
		return
	}

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("WINDOWS"), bold.Sprint("FRAGMENT"), bold.Sprint("LAST ACTIVE"))
	for _, info := range infos {
		tbl.AddRow(info.ID, info.Windows, "#"+info.Fragment, info.LastActive.Format("15:04:05"))
	}
	_, _ = fmt.Fprintln(w, tbl)
}
