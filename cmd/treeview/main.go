package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rertyy/treeview/pkg/config"
	"github.com/rertyy/treeview/pkg/loader"
	"github.com/rertyy/treeview/pkg/tree"
	"github.com/rertyy/treeview/pkg/ui"
)

var version = "dev"

func main() {
	seedFile := flag.String("f", "", "Load the initial tree from a YAML or JSON seed file (default: discovered .treeview.yaml)")
	showVersion := flag.Bool("version", false, "Show version")
	showHelp := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *showHelp {
		fmt.Println("Usage: treeview [options]")
		fmt.Println("\nAn interactive tri-state checkbox tree.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *showVersion {
		fmt.Printf("treeview %s\n", version)
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) && os.Getenv("CI") == "" {
		fmt.Fprintln(os.Stderr, "treeview requires an interactive terminal")
		os.Exit(1)
	}

	if *seedFile == "" {
		if found, ok := config.DetectCurrentSeed(); ok {
			*seedFile = found
		}
	}

	var store *tree.Store
	if *seedFile != "" {
		loaded, err := loader.LoadFile(*seedFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading seed file: %v\n", err)
			os.Exit(1)
		}
		store = loaded
	} else {
		store = tree.New()
	}

	m := ui.NewModel(store, *seedFile)
	defer m.Stop()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}
