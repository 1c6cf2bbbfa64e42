package main

import (
	"bufio"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"library-tracker/library"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dataDir    string
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "library-tracker",
		Short: "Track a library's books, users, and loans from the console",
		RunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			cfg, err := library.LoadConfig(configPath)
			if err != nil {
				return err
			}
			if dataDir != "" {
				cfg.DataDir = dataDir
			}

			lib, err := library.Open(cfg, logger)
			if err != nil {
				return err
			}
			defer lib.Close()

			runConsole(lib)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "library.yaml", "path to the config file")
	cmd.Flags().StringVarP(&dataDir, "data-dir", "d", "", "override the configured data directory")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return cmd
}

// readPassword reads a password with terminal echo disabled.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println()
	return strings.TrimSpace(string(bytePassword)), nil
}

func runConsole(lib *library.Library) {
	scanner := bufio.NewScanner(os.Stdin)

	fmt.Println("Welcome to the Library Tracker!")
	fmt.Println("Available commands:")
	fmt.Println("  Account: login, logout, account")
	fmt.Println("  Books: list books, available, add book, edit book, delete book")
	fmt.Println("  Circulation: borrow, return, my books, history")
	fmt.Println("  System: exit")
	fmt.Println()
	fmt.Println("Book administration and history require a faculty login.")

	for {
		fmt.Print("\n> ")
		if !scanner.Scan() {
			break
		}
		cmd := strings.TrimSpace(scanner.Text())

		switch cmd {
		case "login":
			handleLogin(scanner, lib)
		case "logout":
			lib.Session.Logout()
			fmt.Println("Logged out.")
		case "account":
			handleAccount(lib)
		case "list books":
			handleListBooks(lib)
		case "available":
			fmt.Printf("Total available books: %d\n", lib.Books.CountAvailable())
		case "add book":
			if requireFaculty(lib) {
				handleAddBook(scanner, lib)
			}
		case "edit book":
			if requireFaculty(lib) {
				handleEditBook(scanner, lib)
			}
		case "delete book":
			if requireFaculty(lib) {
				handleDeleteBook(scanner, lib)
			}
		case "borrow":
			handleBorrow(scanner, lib)
		case "return":
			handleReturn(scanner, lib)
		case "my books":
			handleMyBooks(lib)
		case "history":
			if requireFaculty(lib) {
				handleHistory(lib)
			}
		case "exit":
			fmt.Println("Goodbye!")
			return
		case "":
			// nothing typed
		default:
			fmt.Println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

// requireFaculty enforces the role gate at the dispatcher boundary; the
// stores themselves stay policy-free.
func requireFaculty(lib *library.Library) bool {
	if _, ok := lib.Session.Current(); !ok {
		fmt.Println("Please log in first.")
		return false
	}
	if !lib.Session.CanManageBooks() {
		fmt.Println("This command requires a faculty account.")
		return false
	}
	return true
}

func requireLogin(lib *library.Library) (library.Identity, bool) {
	id, ok := lib.Session.Current()
	if !ok {
		fmt.Println("Please log in first.")
	}
	return id, ok
}

func promptInt(sc *bufio.Scanner, prompt string) (int, bool) {
	fmt.Print(prompt)
	if !sc.Scan() {
		return 0, false
	}
	text := strings.TrimSpace(sc.Text())
	n, err := strconv.Atoi(text)
	if err != nil {
		fmt.Printf("Invalid number: %s\n", text)
		return 0, false
	}
	return n, true
}

func promptLine(sc *bufio.Scanner, prompt string) (string, bool) {
	fmt.Print(prompt)
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func handleLogin(sc *bufio.Scanner, lib *library.Library) {
	username, ok := promptLine(sc, "Username: ")
	if !ok {
		return
	}
	password, err := readPassword("Password: ")
	if err != nil {
		fmt.Printf("Error reading password: %v\n", err)
		return
	}

	if err := lib.Session.Login(username, password); err != nil {
		fmt.Printf("Login failed: %v\n", err)
		return
	}
	id, _ := lib.Session.Current()
	fmt.Printf("Welcome, %s (%s)!\n", id.Name, id.Role)
}

func handleAccount(lib *library.Library) {
	id, ok := requireLogin(lib)
	if !ok {
		return
	}
	user, err := lib.Users.FindByID(id.UserID)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Printf("ID: %d\nUsername: %s\nName: %s\nRole: %s\nBorrowed: %d of %d\n",
		user.ID, user.Username, user.Name, user.Role, user.Borrowed, user.Limit)
}

func handleListBooks(lib *library.Library) {
	books := lib.Books.List()
	if len(books) == 0 {
		fmt.Println("No books in the library.")
		return
	}

	fmt.Printf("%-6s %-40s %-30s %s\n", "ID", "Title", "Author", "Status")
	fmt.Println(strings.Repeat("-", 90))
	for _, b := range books {
		status := "Available"
		if b.Borrowed {
			status = "Borrowed"
		}
		fmt.Printf("%-6d %-40s %-30s %s\n", b.ID, truncateString(b.Title, 40), truncateString(b.Author, 30), status)
	}
}

func handleAddBook(sc *bufio.Scanner, lib *library.Library) {
	id, ok := promptInt(sc, "Book ID: ")
	if !ok {
		return
	}
	title, ok := promptLine(sc, "Title: ")
	if !ok {
		return
	}
	author, ok := promptLine(sc, "Author: ")
	if !ok {
		return
	}

	if err := lib.Books.Add(id, title, author); err != nil {
		fmt.Printf("Error adding book: %v\n", err)
		return
	}
	fmt.Printf("Added book '%s' with ID %d\n", title, id)
}

func handleEditBook(sc *bufio.Scanner, lib *library.Library) {
	id, ok := promptInt(sc, "Book ID: ")
	if !ok {
		return
	}
	title, ok := promptLine(sc, "New title: ")
	if !ok {
		return
	}
	author, ok := promptLine(sc, "New author: ")
	if !ok {
		return
	}

	if err := lib.Books.Edit(id, title, author); err != nil {
		fmt.Printf("Error editing book: %v\n", err)
		return
	}
	fmt.Println("Book details updated.")
}

func handleDeleteBook(sc *bufio.Scanner, lib *library.Library) {
	id, ok := promptInt(sc, "Book ID: ")
	if !ok {
		return
	}
	if err := lib.Books.Delete(id); err != nil {
		fmt.Printf("Error deleting book: %v\n", err)
		return
	}
	fmt.Println("Book deleted.")
}

func handleBorrow(sc *bufio.Scanner, lib *library.Library) {
	id, ok := requireLogin(lib)
	if !ok {
		return
	}
	bookID, ok := promptInt(sc, "Book ID: ")
	if !ok {
		return
	}
	due, ok := promptLine(sc, "Due date (e.g. 01/01/2030): ")
	if !ok {
		return
	}

	if err := lib.Ledger.Borrow(id.UserID, bookID, due); err != nil {
		fmt.Printf("Error borrowing book: %v\n", err)
		return
	}
	book, _ := lib.Books.Find(bookID)
	fmt.Printf("Book '%s' borrowed until %s\n", book.Title, due)
}

func handleReturn(sc *bufio.Scanner, lib *library.Library) {
	id, ok := requireLogin(lib)
	if !ok {
		return
	}
	bookID, ok := promptInt(sc, "Book ID: ")
	if !ok {
		return
	}

	if err := lib.Ledger.Return(id.UserID, bookID); err != nil {
		if errors.Is(err, library.ErrNotBorrowedByUser) {
			fmt.Println("You have not borrowed this book.")
		} else {
			fmt.Printf("Error returning book: %v\n", err)
		}
		return
	}
	book, _ := lib.Books.Find(bookID)
	fmt.Printf("Book '%s' returned. Thank you!\n", book.Title)
}

func handleMyBooks(lib *library.Library) {
	id, ok := requireLogin(lib)
	if !ok {
		return
	}
	loans := lib.Ledger.ListForUser(id.UserID)
	if len(loans) == 0 {
		fmt.Println("You have no borrowed books.")
		return
	}

	fmt.Printf("%-6s %-40s %-30s %s\n", "ID", "Title", "Author", "Due")
	fmt.Println(strings.Repeat("-", 90))
	for _, loan := range loans {
		fmt.Printf("%-6d %-40s %-30s %s\n", loan.Book.ID, truncateString(loan.Book.Title, 40), truncateString(loan.Book.Author, 30), loan.Due)
	}
}

func handleHistory(lib *library.Library) {
	entries, err := lib.History()
	if err != nil {
		fmt.Printf("Error reading history: %v\n", err)
		return
	}
	if len(entries) == 0 {
		fmt.Println("No circulation history recorded.")
		return
	}

	fmt.Printf("%-22s %-14s %-8s %-8s %s\n", "When", "Event", "Book", "User", "Due")
	fmt.Println(strings.Repeat("-", 70))
	for _, e := range entries {
		fmt.Printf("%-22s %-14s %-8d %-8d %s\n",
			e.OccurredAt.Format("2006-01-02 15:04:05"), e.Type, e.BookID, e.UserID, e.Due)
	}
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
