package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
)

func printItems(items []itemView) {
	if len(items) == 0 {
		fmt.Println("Queue is empty.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATE\tPRIO\tFAIL\tPROGRESS\tTITLE/URL")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\t%s\n",
			shortID(it.ID), stateLabel(it), it.Priority, it.FailureCount,
			formatProgress(it), displayName(it))
	}
	_ = tw.Flush()
}

func printHistory(entries []historyEntry) {
	if len(entries) == 0 {
		fmt.Println("History is empty.")
		return
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "STATUS\tFINISHED\tTITLE/URL")
	for _, e := range entries {
		name := e.Title
		if name == "" {
			name = shortURL(e.URL)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Status, finishedAgo(e.FinishedAt), name)
	}
	_ = tw.Flush()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func stateLabel(it itemView) string {
	switch {
	case it.Running && it.Slow:
		return "running (slow)"
	case it.Running:
		return "running"
	case it.Paused:
		return "paused"
	case it.Excluded:
		return "failed"
	case it.Slow:
		return "queued (slow)"
	default:
		return "queued"
	}
}

func formatProgress(it itemView) string {
	if it.ProgressPercent == "" {
		return "-"
	}
	if it.ProgressTotal == "" {
		return it.ProgressPercent
	}
	return fmt.Sprintf("%s of %s", it.ProgressPercent, it.ProgressTotal)
}

func displayName(it itemView) string {
	if it.Title != "" {
		return it.Title
	}
	return shortURL(it.URL)
}

func shortURL(u string) string {
	if len(u) > 64 {
		return u[:61] + "..."
	}
	return u
}

func finishedAgo(stamp string) string {
	t, err := time.Parse(time.RFC3339, stamp)
	if err != nil {
		return stamp
	}
	return humanize.Time(t)
}
