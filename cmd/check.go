package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"github.com/vbajs/vb2js/converter"
	"golang.org/x/term"
	"modernc.org/scanner"
)

func checkAction(ctx context.Context, cmd *cli.Command) error {
	targets := cmd.Args().Slice()
	if len(targets) == 0 {
		targets = []string{"."}
	}

	// Color unless disabled by --no-color or NO_COLOR, or stderr is not
	// a terminal.
	noColor := cmd.Bool("no-color") || os.Getenv("NO_COLOR") != "" ||
		!term.IsTerminal(int(os.Stderr.Fd()))

	// Collect .bas/.vba files.
	var files []string
	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return fmt.Errorf("cannot access %s: %w", target, err)
		}
		if info.IsDir() {
			entries, err := os.ReadDir(target)
			if err != nil {
				return fmt.Errorf("reading directory %s: %w", target, err)
			}
			for _, e := range entries {
				if !e.IsDir() && hasVBAExt(e.Name()) {
					files = append(files, filepath.Join(target, e.Name()))
				}
			}
		} else {
			files = append(files, target)
		}
	}

	if len(files) == 0 {
		return fmt.Errorf("no .bas or .vba files found")
	}

	colorOK, colorFail, colorReset := "\033[32m", "\033[31m", "\033[0m"
	if noColor {
		colorOK, colorFail, colorReset = "", "", ""
	}

	var errs scanner.ErrList
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err == nil {
			_, err = converter.ConvertString(string(src))
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f, err))
			fmt.Printf("%sFAIL%s %s: %v\n", colorFail, colorReset, f, err)
		} else {
			fmt.Printf("%sok%s   %s\n", colorOK, colorReset, f)
		}
	}

	failed := len(errs)
	passed := len(files) - failed
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "\n%d files, %d ok, %s%d failed%s\n",
			len(files), passed, colorFail, failed, colorReset)
		return errs
	}
	fmt.Fprintf(os.Stderr, "\n%d files, %s%d ok%s, 0 failed\n",
		len(files), colorOK, passed, colorReset)
	return nil
}
