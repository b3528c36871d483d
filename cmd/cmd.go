// Package cmd implements the vb2js command line interface.
package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/vbajs/vb2js/converter"
)

// Execute runs the vb2js CLI with the given version string.
func Execute(version string) {
	cmd := &cli.Command{
		Name:                   "vb2js",
		Usage:                  "A best-effort VBA to JavaScript source translator",
		Version:                version,
		UseShortOptionHandling: true,
		// Allow `vb2js macro.bas` as shorthand for `vb2js convert macro.bas`
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 0 {
				arg := cmd.Args().First()
				if hasVBAExt(arg) || isVBASource(arg) {
					return convertFile(arg, "")
				}
			}
			return cli.DefaultShowRootCommandHelp(cmd)
		},
		Commands: []*cli.Command{
			{
				Name:      "convert",
				Usage:     "Translate a VBA file and print the JavaScript",
				ArgsUsage: "<file.bas>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the JavaScript to a file instead of stdout",
					},
				},
				Action: convertAction,
			},
			{
				Name:      "check",
				Usage:     "Translate .bas/.vba files and report failures",
				ArgsUsage: "[file.bas | directory]...",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "no-color",
						Aliases: []string{"C"},
						Usage:   "Disable ANSI color output",
					},
				},
				Action: checkAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func convertAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() < 1 {
		return fmt.Errorf("usage: vb2js convert [-o output] <file.bas>")
	}
	return convertFile(cmd.Args().First(), cmd.String("output"))
}

// convertFile translates one file and writes the result to output, or
// to stdout when output is empty.
func convertFile(filename, output string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	js, err := converter.ConvertString(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", filename, err)
	}
	if output == "" {
		fmt.Print(js)
		return nil
	}
	return os.WriteFile(output, []byte(js), 0o644)
}

func hasVBAExt(path string) bool {
	return strings.HasSuffix(path, ".bas") || strings.HasSuffix(path, ".vba")
}

// isVBASource checks if a file exists and looks like VBA: module
// attributes or a Sub/Function definition near the top.
func isVBASource(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	buf := make([]byte, 256)
	n, _ := f.Read(buf)
	head := strings.ToLower(string(buf[:n]))
	return strings.Contains(head, "attribute ") ||
		strings.Contains(head, "sub ") ||
		strings.Contains(head, "function ")
}
