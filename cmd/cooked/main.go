//
// Cooked forum markup processor
//

// Command cooked renders forum post markup from a file or stdin into
// sanitized HTML.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/forumlabs/cooked"
)

var (
	settingsPath string
	outputPath   string
	topicID      int
	previewing   bool
)

func run(cmd *cobra.Command, args []string) error {
	settings := cooked.DefaultSettings()
	if settingsPath != "" {
		var err error
		settings, err = cooked.LoadSettings(settingsPath)
		if err != nil {
			return err
		}
	}

	var src []byte
	var err error
	if len(args) == 1 {
		src, err = os.ReadFile(args[0])
	} else {
		src, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	engine := cooked.New(settings)
	html := engine.Render(string(src), &cooked.RenderOptions{
		TopicID:    topicID,
		Previewing: previewing,
	})

	out := os.Stdout
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output: %w", err)
		}
		defer out.Close()
	}
	_, err = io.WriteString(out, html)
	return err
}

func main() {
	root := &cobra.Command{
		Use:   "cooked [file]",
		Short: "Render forum post markup to sanitized HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  run,

		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Flags().StringVarP(&settingsPath, "settings", "s", "", "site settings YAML file")
	root.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	root.Flags().IntVar(&topicID, "topic-id", 0, "topic the post belongs to")
	root.Flags().BoolVar(&previewing, "previewing", false, "enable preview-only affordances")

	if err := root.Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
