package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

func cmdStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	watch := fs.Bool("watch", false, "refresh until the queue drains")
	interval := fs.Int("interval", 1, "refresh interval in seconds")
	fs.Parse(args)
	if *interval <= 0 {
		*interval = 1
	}
	for {
		if *watch {
			fmt.Print("\033[H\033[2J")
		}
		var items []itemView
		if err := getJSON(*api+"/items", &items); err != nil {
			fmt.Println("error:", err)
			return
		}
		printItems(items)
		if !*watch || len(items) == 0 {
			return
		}
		time.Sleep(time.Duration(*interval) * time.Second)
	}
}

func cmdLog(args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	tail := fs.Int("tail", 50, "number of trailing output chunks")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("usage: ytq log <item_id>")
		return
	}
	var chunks []string
	if err := getJSON(fmt.Sprintf("%s/items/%s/log", *api, fs.Arg(0)), &chunks); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if *tail > 0 && len(chunks) > *tail {
		chunks = chunks[len(chunks)-*tail:]
	}
	for _, c := range chunks {
		fmt.Print(c)
	}
	fmt.Println()
}

func cmdCancel(args []string) {
	fs := flag.NewFlagSet("cancel", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("usage: ytq cancel <item_id>")
		return
	}
	if err := postJSON(fmt.Sprintf("%s/items/%s/cancel", *api, fs.Arg(0)), map[string]any{}, nil); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Println("ok")
}

func cmdPause(args []string) {
	fs := flag.NewFlagSet("pause", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("usage: ytq pause <item_id>")
		return
	}
	var view itemView
	if err := postJSON(fmt.Sprintf("%s/items/%s/pause", *api, fs.Arg(0)), map[string]any{}, &view); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if view.Paused {
		fmt.Println("paused")
	} else {
		fmt.Println("resumed")
	}
}

func cmdSlow(args []string) {
	fs := flag.NewFlagSet("slow", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Println("usage: ytq slow <item_id>")
		return
	}
	var view itemView
	if err := postJSON(fmt.Sprintf("%s/items/%s/slow", *api, fs.Arg(0)), map[string]any{}, &view); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	if view.Slow {
		fmt.Println("slow mode on")
	} else {
		fmt.Println("slow mode off")
	}
}

func cmdPrio(args []string) {
	fs := flag.NewFlagSet("prio", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	fs.Parse(args)
	if fs.NArg() < 2 {
		fmt.Println("usage: ytq prio <item_id> <delta>")
		return
	}
	delta, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		fmt.Println("error: delta must be an integer")
		os.Exit(1)
	}
	var view itemView
	if err := postJSON(fmt.Sprintf("%s/items/%s/priority", *api, fs.Arg(0)), map[string]any{"delta": delta}, &view); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	fmt.Printf("priority %d\n", view.Priority)
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	api := fs.String("api", apiBase(), "api base URL")
	fs.Parse(args)

	fmt.Println("CLI:")
	fmt.Printf("  version: %s\n", versionString())
	fmt.Printf("  api: %s\n", *api)
	if v, ok := os.LookupEnv("YTQ_API"); ok {
		fmt.Printf("  env.YTQ_API: %s\n", v)
	} else {
		fmt.Println("  env.YTQ_API: (unset)")
	}

	var meta struct {
		Version string `json:"version"`
		Items   int    `json:"items"`
	}
	fmt.Println("")
	fmt.Println("Server:")
	if err := getJSON(*api+"/meta", &meta); err != nil {
		fmt.Printf("  status: error (%v)\n", err)
		return
	}
	fmt.Println("  status: ok")
	if meta.Version != "" {
		fmt.Printf("  version: %s\n", meta.Version)
	}
	fmt.Printf("  items: %d\n", meta.Items)
}
