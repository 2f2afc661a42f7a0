// Command gentables regenerates the embedded point-source distance correction
// tables under internal/scaling/etc. Each table holds the mean Joyner-Boore
// distance to a finite rupture of unknown strike, computed from the
// Field/Worden analytic correction and a model-specific magnitude-length
// relation.
//
// Usage:
//
//	go run ./cmd/gentables -out internal/scaling/etc
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/rupture-distance-service/internal/scaling"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "internal/scaling/etc", "output directory for table files")
	flag.Parse()

	if err := os.MkdirAll(*out, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	for _, spec := range scaling.TableSpecs() {
		path := filepath.Join(*out, spec.Resource)
		if err := writeTable(path, spec); err != nil {
			return fmt.Errorf("writing %s: %w", spec.Resource, err)
		}
		log.Printf("%s: wrote %s", spec.Model, path)
	}
	return nil
}

func writeTable(path string, spec scaling.TableSpec) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(f)

	relation := strings.TrimSuffix(strings.TrimPrefix(spec.Resource, "rjb_"), ".dat")
	fmt.Fprintln(w, "# Mean Joyner-Boore distances for a finite rupture of unknown strike.")
	fmt.Fprintln(w, "# Generated by cmd/gentables from the Field/Worden analytic correction")
	fmt.Fprintf(w, "# applied to the %s magnitude-length relation.\n", relation)
	fmt.Fprintln(w, "# Columns: distance (km), corrected distance (km)")

	magBins, distBins := scaling.TableShape()
	for m := 0; m < magBins; m++ {
		mag := scaling.TableMagnitude(m)
		length := spec.Length(mag)
		fmt.Fprintf(w, "#Mag %.2f\n", mag)
		for d := 0; d < distBins; d++ {
			corrected := scaling.FieldCorrectedDistance(length, float64(d))
			fmt.Fprintf(w, "%6d %10.4f\n", d, corrected)
		}
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}
