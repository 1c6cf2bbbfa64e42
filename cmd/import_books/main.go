package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"library-tracker/library"
)

// bookEntry is one row of the import list.
type bookEntry struct {
	ID     int    `yaml:"id"`
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
}

func main() {
	configPath := flag.String("config", "library.yaml", "path to the config file")
	listPath := flag.String("books", "books.yaml", "YAML file with books to import")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := library.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	lib, err := library.Open(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening library: %v\n", err)
		os.Exit(1)
	}
	defer lib.Close()

	data, err := os.ReadFile(*listPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading book list: %v\n", err)
		os.Exit(1)
	}

	var entries []bookEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing book list: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Importing %d books from %s...\n", len(entries), *listPath)

	successCount := 0
	errorCount := 0
	for _, e := range entries {
		fmt.Printf("Importing: %s by %s... ", e.Title, e.Author)
		if err := lib.Books.Add(e.ID, e.Title, e.Author); err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (ID: %d)\n", e.ID)
		successCount++
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nLibrary contents:")
		fmt.Printf("%-6s %-50s %-30s\n", "ID", "Title", "Author")
		for _, b := range lib.Books.List() {
			fmt.Printf("%-6d %-50s %-30s\n", b.ID, truncateString(b.Title, 50), truncateString(b.Author, 30))
		}
	}
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
