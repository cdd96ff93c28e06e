package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/ddubrovin/jobtrack/internal/client/models"
	"github.com/ddubrovin/jobtrack/internal/client/query"
)

const listHelp = "list> [n]ext, [p]rev, page N, search <term>, status <name|all>, " +
	"applied <all|yes|no>, size <10|20|50>, sort <company|position|date_found|applied|status>, [q]uit"

// List runs the interactive list view: it renders the current page of the
// filtered, sorted collection and keeps accepting view commands until the
// user leaves. All rendering works off in-memory state; no command here
// touches the network.
func (a *App) List(ctx context.Context) error {
	for {
		res := a.applyView(a.state.Jobs())
		renderList(os.Stdout, res, a.LastRefreshLabel())

		line, err := getSimpleText(a.reader, listHelp, os.Stdout)
		if err != nil {
			return err
		}
		if quit := a.applyListCommand(line); quit {
			return nil
		}
	}
}

// applyView runs the pipeline and writes the page it actually rendered back
// into the view state, so navigating past either end cannot leave the stored
// page out of range and swallow the next prev/next.
func (a *App) applyView(records []models.JobRecord) query.Result {
	res := query.Apply(records, a.view.Params())
	a.view.SetPage(res.Page)
	return res
}

// applyListCommand mutates the view state for one command line and reports
// whether the list view should be left.
func (a *App) applyListCommand(line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd, args := parts[0], parts[1:]

	switch cmd {
	case "q", "quit", "back", "exit":
		return true

	case "n", "next":
		a.view.SetPage(a.view.Params().Page + 1)

	case "p", "prev":
		a.view.SetPage(a.view.Params().Page - 1)

	case "page":
		if len(args) == 0 {
			fmt.Println("Usage: page <n>")
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("Usage: page <n>")
			break
		}
		a.view.SetPage(n)

	case "search", "s":
		a.view.SetSearch(strings.Join(args, " "))

	case "status", "f":
		if len(args) == 0 {
			fmt.Println("Usage: status <name|all>")
			break
		}
		a.view.SetStatus(args[0])

	case "applied", "a":
		if len(args) == 0 {
			fmt.Println("Usage: applied <all|yes|no>")
			break
		}
		switch args[0] {
		case "all":
			a.view.SetApplied(query.AppliedAll)
		case "yes":
			a.view.SetApplied(query.AppliedOnly)
		case "no":
			a.view.SetApplied(query.NotApplied)
		default:
			fmt.Println("Usage: applied <all|yes|no>")
		}

	case "size":
		if len(args) == 0 {
			fmt.Println("Usage: size <10|20|50>")
			break
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("Usage: size <10|20|50>")
			break
		}
		a.view.SetPageSize(n)

	case "sort":
		if len(args) == 0 || !query.SortKey(args[0]).Valid() {
			fmt.Println("Usage: sort <company|position|date_found|applied|status>")
			break
		}
		a.view.SortBy(query.SortKey(args[0]))

	default:
		fmt.Println("Unknown list command:", cmd)
	}
	return false
}

// renderList prints one page of results as a table plus a footer with the
// pagination summary and the snapshot age.
func renderList(w io.Writer, res query.Result, refreshed string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMPANY\tPOSITION\tFOUND\tAPPLIED\tSTATUS")
	for _, job := range res.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(job.ID), job.Company, job.Position, job.DateFound,
			appliedLabel(&job), job.EffectiveStatus())
	}
	tw.Flush()

	fmt.Fprintf(w, "Showing %d-%d of %d | page %d/%d",
		res.StartDisplay, res.EndDisplay, res.TotalCount, res.Page, res.PageCount)
	if refreshed != "" {
		fmt.Fprintf(w, " | refreshed %s", refreshed)
	}
	fmt.Fprintln(w)
}

// LastRefreshLabel formats the snapshot age for the list footer.
func (a *App) LastRefreshLabel() string {
	t := a.state.LastRefresh()
	if t.IsZero() {
		return ""
	}
	return humanize.Time(t)
}

func appliedLabel(job *models.JobRecord) string {
	if job.Applied {
		if job.AppliedDate != nil {
			return *job.AppliedDate
		}
		return "yes"
	}
	return "no"
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
