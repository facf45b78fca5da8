// Command inspector is a read-only terminal viewer over a heapbase
// data directory: it opens the Database exactly the way any other
// client would, loads its catalog, and attaches pkg/inspector to the
// resulting BufferPool/Catalog pair. It runs no transactions of its
// own beyond the page reads its browsing triggers directly against the
// catalog's files.
//
// Grounded on the donor's root main.go flag-parsing shape and its
// pkg/debug/heapreader command, trimmed to a read-only debugging
// surface (no demo-data seeding, no SQL import, no interactive shell).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"heapbase/pkg/database"
	"heapbase/pkg/inspector"
)

func main() {
	dataDir := flag.String("data", "./data", "data directory containing the catalog and table files")
	catalogFile := flag.String("catalog", "", "catalog text file to load (defaults to <data>/catalog.txt)")
	flag.Parse()

	if *catalogFile == "" {
		*catalogFile = *dataDir + "/catalog.txt"
	}

	db, err := database.Open(database.DefaultConfig(*dataDir))
	if err != nil {
		log.Fatalf("inspector: open database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(*catalogFile); err == nil {
		if _, err := db.LoadCatalog(*catalogFile); err != nil {
			log.Fatalf("inspector: load catalog: %v", err)
		}
	} else {
		fmt.Fprintf(os.Stderr, "inspector: no catalog file at %s, starting with an empty catalog\n", *catalogFile)
	}

	m := inspector.New(db.BufferPool(), db.Catalog())
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalf("inspector: %v", err)
	}
}
