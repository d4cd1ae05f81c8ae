package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/twiced-technology-gmbh/deadliner/internal/board"
	"github.com/twiced-technology-gmbh/deadliner/internal/date"
	"github.com/twiced-technology-gmbh/deadliner/internal/refresh"
)

// TaskCompact renders rows in one-line-per-record compact format.
func TaskCompact(w io.Writer, rows []board.Row, loc *time.Location) {
	if len(rows) == 0 {
		fmt.Fprintln(os.Stderr, "No tasks found.")
		return
	}

	for _, r := range rows {
		fmt.Fprintln(w, formatRowLine(r, loc))
	}
}

// TaskDetailCompact renders a single row with detail in compact format.
func TaskDetailCompact(w io.Writer, r board.Row, loc *time.Location) {
	fmt.Fprintln(w, formatRowLine(r, loc))
	fmt.Fprintln(w, "  created:"+date.FormatInput(r.CreatedAt, loc))

	if r.Description != "" {
		for _, line := range strings.Split(r.Description, "\n") {
			fmt.Fprintln(w, "  "+line)
		}
	}
}

// OverviewCompact renders summary counts in compact format.
func OverviewCompact(w io.Writer, o board.Overview, loc *time.Location) {
	fmt.Fprintf(w, "total=%d completed=%d pending=%d expired=%d\n", o.Total, o.Completed, o.Pending, o.Expired)
	if o.Next != nil {
		fmt.Fprintf(w, "next: %s\n", formatRowLine(*o.Next, loc))
	}
}

// UpdatesCompact renders one refresh pass, one line per visible task.
func UpdatesCompact(w io.Writer, updates []refresh.Update, at time.Time) {
	stamp := at.Format("15:04:05")
	for _, u := range updates {
		fmt.Fprintf(w, "%s #%d %5.1f%% %s  %s\n", stamp, u.ID, u.Progress.Percent, u.Progress.Label, u.Title)
	}
}

// formatRowLine builds the one-line representation of a row.
func formatRowLine(r board.Row, loc *time.Location) string {
	mark := " "
	if r.Completed {
		mark = "x"
	}
	return "#" + strconv.FormatInt(r.ID, 10) + " [" + mark + "] " + r.Title +
		" " + strconv.FormatFloat(r.Percent, 'f', 0, 64) + "% " + r.Label +
		" due:" + date.FormatInput(r.Deadline, loc)
}
