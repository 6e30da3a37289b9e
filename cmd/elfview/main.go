// Command elfview is a thin driver over the elf and render packages: a
// non-interactive dump mode, grounded on bin/print-elf, plus an optional
// interactive explorer REPL grounded on bin/bad's command-table idiom.
// CLI flag parity with GNU readelf is explicitly out of scope (§6.3).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/pattyshack/elfview/elf"
	"github.com/pattyshack/elfview/render"
)

func main() {
	interactive := false
	flag.BoolVar(&interactive, "i", false, "start the interactive explorer instead of dumping")
	flag.Parse()

	args := flag.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "usage: elfview [-i] <file>")
		os.Exit(1)
	}

	content, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	file, err := elf.ReadBytes(content, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if interactive {
		runExplorer(file)
		return
	}

	fmt.Print(render.Dump(file))
}

func splitArg(args string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(args), " ", 2)

	first := parts[0]
	remaining := ""
	if len(parts) > 1 {
		remaining = parts[1]
	}

	return first, remaining
}

type command interface {
	run(string) error
}

type namedCommand struct {
	name        string
	description string
	command
}

type subCommands []namedCommand

func (cmds subCommands) run(args string) error {
	name, remaining := splitArg(args)

	if name == "" || strings.HasPrefix("help", name) {
		cmds.printAvailableCommands()
		return nil
	}

	for _, cmd := range cmds {
		if strings.TrimSpace(cmd.name) == name {
			return cmd.run(remaining)
		}
	}

	for _, cmd := range cmds {
		if strings.HasPrefix(cmd.name, name) {
			return cmd.run(remaining)
		}
	}

	fmt.Println("invalid subcommand:", args)
	return nil
}

func (cmds subCommands) printAvailableCommands() {
	fmt.Println("available subcommands:")
	for _, cmd := range cmds {
		fmt.Println("  " + cmd.name + cmd.description)
	}
}

type fileCmdFunc func(*elf.File, string) error

type funcCmd struct {
	file *elf.File
	fileCmdFunc
}

func newFuncCmd(file *elf.File, f fileCmdFunc) funcCmd {
	return funcCmd{file: file, fileCmdFunc: f}
}

func (cmd funcCmd) run(args string) error {
	return cmd.fileCmdFunc(cmd.file, args)
}

func initializeCommands(file *elf.File) command {
	return subCommands{
		{
			name:        "header",
			description: "        - print the file header",
			command:     newFuncCmd(file, printHeader),
		},
		{
			name:        "segments",
			description: "      - print program headers and their section mapping",
			command:     newFuncCmd(file, printSegments),
		},
		{
			name:        "sections",
			description: "      - print the section header table",
			command:     newFuncCmd(file, printSections),
		},
		{
			name:        "symbol ",
			description: " <name> - look up a symbol by name across all symbol tables",
			command:     newFuncCmd(file, lookupSymbol),
		},
		{
			name:        "section ",
			description: " <index> - print the detail of one section by index",
			command:     newFuncCmd(file, printSectionByIndex),
		},
	}
}

func printHeader(file *elf.File, _ string) error {
	fmt.Print(render.FileHeader(file))
	return nil
}

func printSegments(file *elf.File, _ string) error {
	fmt.Print(render.ProgramHeaders(file))

	mapping := render.SegmentSections(file)
	for i := range file.ProgramHeaders {
		fmt.Printf("  [%d] %s\n", i, strings.Join(mapping[i], " "))
	}
	return nil
}

func printSections(file *elf.File, _ string) error {
	fmt.Print(render.Sections(file))
	return nil
}

func printSectionByIndex(file *elf.File, args string) error {
	indexArg, _ := splitArg(args)
	index, err := strconv.Atoi(indexArg)
	if err != nil {
		return fmt.Errorf("invalid section index %q: %w", indexArg, err)
	}

	section, ok := file.SectionByIndex(index)
	if !ok {
		fmt.Printf("no section at index %d\n", index)
		return nil
	}

	fmt.Printf("[%d] %s\n", index, section.Name())
	return nil
}

func lookupSymbol(file *elf.File, args string) error {
	name, _ := splitArg(args)
	if name == "" {
		fmt.Println("usage: symbol <name>")
		return nil
	}

	for _, section := range file.Sections {
		table, ok := section.(*elf.SymbolTableSection)
		if !ok {
			continue
		}

		for _, entry := range table.Symbols {
			resolved, err := file.SymbolName(table, entry)
			if err != nil || resolved != name {
				continue
			}
			fmt.Printf("%s: value=%#x size=%d in %s\n", name, entry.Value, entry.Size, section.Name())
		}
	}

	return nil
}

func runExplorer(file *elf.File) {
	topCmds := initializeCommands(file)

	rl, err := readline.New("elfview > ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer rl.Close()

	lastLine := ""
	for {
		line, err := rl.Readline()
		if err != nil {
			if err == io.EOF || err == readline.ErrInterrupt {
				break
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			line = lastLine
		}
		lastLine = line

		if line == "" {
			continue
		}

		if err := topCmds.run(line); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
}
