package main

import (
	"fmt"
	"os"
)

const defaultAPI = "http://127.0.0.1:8632"

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	switch os.Args[1] {
	case "--version", "version":
		fmt.Println(versionString())
		return
	case "add":
		cmdAdd(os.Args[2:])
	case "playlist":
		cmdPlaylist(os.Args[2:])
	case "status":
		cmdStatus(os.Args[2:])
	case "log":
		cmdLog(os.Args[2:])
	case "cancel":
		cmdCancel(os.Args[2:])
	case "pause":
		cmdPause(os.Args[2:])
	case "slow":
		cmdSlow(os.Args[2:])
	case "prio":
		cmdPrio(os.Args[2:])
	case "history":
		cmdHistory(os.Args[2:])
	case "watch":
		cmdWatch(os.Args[2:])
	case "info":
		cmdInfo(os.Args[2:])
	case "help":
		usage()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("ytq - single-worker download queue CLI")
	fmt.Println("")
	fmt.Println("Usage:")
	fmt.Println("  ytq add <url> [<url2> ...] [--dir subdir] [--output pattern] [--title t] [--priority n] [--paused] [--slow]")
	fmt.Println("  ytq playlist <url> [--first n] [--reverse] [--dir subdir] [--priority n] [--paused] [--slow]")
	fmt.Println("  ytq status [--watch] [--interval 1]")
	fmt.Println("  ytq watch")
	fmt.Println("  ytq log <item_id> [--tail 50]")
	fmt.Println("  ytq cancel <item_id>")
	fmt.Println("  ytq pause <item_id>        (toggles)")
	fmt.Println("  ytq slow <item_id>         (toggles)")
	fmt.Println("  ytq prio <item_id> <delta>")
	fmt.Println("  ytq history [--limit 50] [--clear]")
	fmt.Println("  ytq info")
	fmt.Println("")
	fmt.Println("Env:")
	fmt.Println("  YTQ_API=" + defaultAPI)
}

func apiBase() string {
	if v := os.Getenv("YTQ_API"); v != "" {
		return v
	}
	return defaultAPI
}
