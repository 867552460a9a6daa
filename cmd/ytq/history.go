package main

import (
	"flag"
	"fmt"
	"os"
)

func cmdHistory(args []string) {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	limit := fs.Int("limit", 50, "max entries")
	clear := fs.Bool("clear", false, "clear the history")
	fs.Parse(args)

	if *clear {
		if err := postJSON(*api+"/history/clear", map[string]any{}, nil); err != nil {
			fmt.Println("error:", err)
			os.Exit(1)
		}
		fmt.Println("ok")
		return
	}
	var entries []historyEntry
	if err := getJSON(fmt.Sprintf("%s/history?limit=%d", *api, *limit), &entries); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	printHistory(entries)
}
