package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"golang.design/x/clipboard"

	"github.com/milk9111/assemblyviewer/assembly"
	"github.com/milk9111/assemblyviewer/exec"
)

func main() {
	name := flag.String("assembly", "gearbox", "assembly name in assembly/ (basename, .yaml optional)")
	feedURL := flag.String("feed", "", "execution feed websocket URL (empty = local mock sequencer)")
	debug := flag.Bool("debug", false, "enable debug overlay")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	}

	asm, err := assembly.LoadAssembly(*name)
	if err != nil {
		log.Fatalf("failed to load assembly %s: %v", *name, err)
	}

	// Watch the on-disk definitions so edits reload live. Missing directory
	// just means we run from the embedded copies.
	watcher, err := assembly.NewWatcher("assembly")
	if err != nil {
		log.Printf("assembly watcher disabled: %v", err)
		watcher = nil
	}

	mock := exec.NewMockSequencer(asm)
	feed := exec.NewFeed(*feedURL, mock)
	defer feed.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("assemblyviewer")

	game := NewGame(*name, asm, feed, watcher, *debug)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
