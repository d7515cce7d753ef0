package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/platformbuilds/klaxon-core/internal/models"
	"github.com/platformbuilds/klaxon-core/internal/render"
)

func main() {
	var mode string
	var out string
	flag.StringVar(&mode, "mode", "validate", "mode: validate|constants|csv|dita|xlsx|pdf")
	flag.StringVar(&out, "out", "", "output file (default stdout; required for xlsx/pdf)")
	flag.Parse()

	if err := run(mode, out, flag.Args()); err != nil {
		fmt.Fprintln(os.Stderr, mode, "failed:", err)
		os.Exit(1)
	}
}

// run validates every definitions file and, for render modes, writes the
// combined artifact. Per-file summaries go to stderr so stdout stays clean
// for artifact bytes.
func run(mode, out string, files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("at least one definitions file is required")
	}
	// Constants and DITA describe a single catalog document
	if (mode == "constants" || mode == "dita") && len(files) != 1 {
		return fmt.Errorf("%s mode takes exactly one definitions file", mode)
	}

	var format render.Format
	if mode != "validate" {
		var err error
		format, err = render.ParseFormat(mode)
		if err != nil {
			return err
		}
		if format.Binary() && out == "" {
			return fmt.Errorf("-out is required for %s output", mode)
		}
	}

	sets := make([][]*models.Alarm, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		alarms, err := models.ParseDefinitions(data, models.FormatForPath(path))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		levels := 0
		for _, a := range alarms {
			levels += len(a.Levels)
		}
		fmt.Fprintf(os.Stderr, "%s: %d alarms, %d levels\n", path, len(alarms), levels)
		sets = append(sets, alarms)
	}

	if mode == "validate" {
		return nil
	}

	artifact, err := render.Render(format, sets...)
	if err != nil {
		return err
	}
	if out == "" {
		_, err = os.Stdout.Write(artifact)
		return err
	}
	return os.WriteFile(out, artifact, 0o644)
}
