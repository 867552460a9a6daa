package main

import (
	"flag"
	"fmt"
	"os"
)

func cmdAdd(args []string) {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	dir := fs.String("dir", "", "directory under the download root")
	output := fs.String("output", "", "destination filename pattern")
	title := fs.String("title", "", "display title override")
	priority := fs.Int("priority", 0, "initial priority")
	paused := fs.Bool("paused", false, "enqueue paused")
	slow := fs.Bool("slow", false, "enqueue rate-limited")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("usage: ytq add <url> [<url2> ...] [--dir subdir] [--output pattern]")
		return
	}
	if fs.NArg() > 1 && *output != "" {
		fmt.Println("error: --output can only be used with a single URL")
		os.Exit(1)
	}
	hadErr := false
	for _, url := range fs.Args() {
		payload := map[string]any{
			"url":      url,
			"dir":      *dir,
			"output":   *output,
			"title":    *title,
			"priority": *priority,
			"paused":   *paused,
			"slow":     *slow,
		}
		var view itemView
		if err := postJSON(*api+"/items", payload, &view); err != nil {
			fmt.Printf("error for %s: %v\n", url, err)
			hadErr = true
			continue
		}
		fmt.Printf("queued %s (%s)\n", view.ID, displayName(view))
	}
	if hadErr {
		os.Exit(1)
	}
}

func cmdPlaylist(args []string) {
	fs := flag.NewFlagSet("playlist", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	first := fs.Int("first", 1, "first entry to include (one-based)")
	reverse := fs.Bool("reverse", false, "number entries newest-first")
	dir := fs.String("dir", "", "directory under the download root")
	priority := fs.Int("priority", 0, "priority for the whole batch")
	paused := fs.Bool("paused", false, "enqueue paused")
	slow := fs.Bool("slow", false, "enqueue rate-limited")
	fs.Parse(args)
	if fs.NArg() != 1 {
		fmt.Println("usage: ytq playlist <url> [--first n] [--reverse]")
		return
	}
	payload := map[string]any{
		"url":      fs.Arg(0),
		"first":    *first,
		"reverse":  *reverse,
		"dir":      *dir,
		"priority": *priority,
		"paused":   *paused,
		"slow":     *slow,
	}
	var views []itemView
	if err := postJSON(*api+"/playlist", payload, &views); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Printf("queued %d playlist entries\n", len(views))
	for _, v := range views {
		fmt.Printf("  %s  %s\n", v.ID, displayName(v))
	}
}
