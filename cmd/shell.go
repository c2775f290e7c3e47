package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-cs-mapviz/internal/layer"
	"github.com/pable/go-cs-mapviz/internal/model"
	"github.com/pable/go-cs-mapviz/internal/report"
	"github.com/pable/go-cs-mapviz/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cOK       = color.New(color.FgGreen)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(_ *cobra.Command, _ []string) error {
	db, err := storage.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	cGreeting.Println("csmap shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("csmap")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		cmd, args := tokens[0], tokens[1:]

		var err error
		switch cmd {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			err = shellList(db)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <hash-prefix>")
				continue
			}
			err = showByHash(db, args[0])
		case "rounds":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: rounds <hash-prefix>")
				continue
			}
			err = shellRounds(db, args[0])
		case "events":
			if len(args) < 2 || len(args) > 3 {
				cError.Fprintln(os.Stderr, "usage: events <hash-prefix> <layer> [round]")
				continue
			}
			err = shellEvents(db, args)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q; type 'help'\n", cmd)
		}
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored demos"},
		{"show <hash-prefix>", "show a demo and its tables"},
		{"rounds <hash-prefix>", "list the rounds of a demo"},
		{"events <hash-prefix> <layer> [round]", "print a layer's long table (first 20 rows)"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	cMuted.Printf("  layers: %s\n", strings.Join(layer.Names(), ", "))
	fmt.Println()
}

func shellList(db *storage.DB) error {
	demos, err := db.ListDemos()
	if err != nil {
		return err
	}
	if len(demos) == 0 {
		cMuted.Println("No demos stored yet.")
		return nil
	}
	report.PrintDemos(os.Stdout, demos)
	return nil
}

func shellRounds(db *storage.DB, prefix string) error {
	demo, err := findDemo(db, prefix)
	if err != nil {
		return err
	}
	rounds, err := db.GetTable(demo.DemoHash, model.TableRounds, storage.AllRounds)
	if err != nil {
		return err
	}
	if rounds == nil {
		cMuted.Println("No rounds stored for this demo.")
		return nil
	}
	report.PrintTable(os.Stdout, rounds, 0)
	return nil
}

func shellEvents(db *storage.DB, args []string) error {
	l, err := layer.Lookup(args[1])
	if err != nil {
		return err
	}
	round := storage.AllRounds
	if len(args) == 3 {
		if round, err = strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("invalid round %q: %w", args[2], err)
		}
	}
	demo, err := findDemo(db, args[0])
	if err != nil {
		return err
	}
	stored, err := loadLayerTable(db, demo.DemoHash, l, round)
	if err != nil {
		return err
	}
	long, err := l.Long(stored)
	if err != nil {
		return err
	}
	report.PrintTable(os.Stdout, long, 20)
	return nil
}
