package scaling

import (
	"bufio"
	"embed"
	"fmt"
	"io/fs"
	"math"
	"strconv"
	"strings"
	"sync"
)

// Correction tables hold precomputed mean Joyner-Boore distances for finite
// ruptures of unknown strike, replacing per-site integration over strike with
// a lookup. Each table spans magnitudes [6.05..8.55] in 0.1 steps and
// distances [0..1000] km in 1 km steps.
const (
	tableMagBins  = 26
	tableDistBins = 1001

	tableMinMag  = 6.05
	tableMagStep = 0.1

	// Token position of the corrected distance on each data line.
	tableValueToken = 1

	magBlockPrefix = "#Mag"
	commentPrefix  = "#"
)

//go:embed etc/*.dat
var tableFS embed.FS

// ResourceLoadError reports a missing or malformed correction-table resource.
// The affected scaling model cannot function; this is a packaging defect, not
// a transient condition.
type ResourceLoadError struct {
	Resource string
	Err      error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("load correction table %s: %v", e.Resource, e.Err)
}

func (e *ResourceLoadError) Unwrap() error { return e.Err }

// Tables load once per model per process. sync.OnceValues doubles as the
// initialization barrier required for unsynchronized concurrent reads.
var (
	rjbWC94Length = tableLoader("etc/rjb_wc94length.dat")
	rjbGeomatrix  = tableLoader("etc/rjb_geomatrix.dat")
	rjbSomerville = tableLoader("etc/rjb_somerville.dat")
)

func tableLoader(resource string) func() ([][]float64, error) {
	return sync.OnceValues(func() ([][]float64, error) {
		return readRjb(tableFS, resource)
	})
}

// readRjb parses a correction-table resource. Blank lines are skipped, #Mag
// lines begin the next sequential magnitude block, other #-prefixed lines are
// comments, and every remaining line carries one corrected distance at a
// fixed token position, consumed in row order within the current block.
func readRjb(fsys fs.FS, resource string) ([][]float64, error) {
	fail := func(err error) ([][]float64, error) {
		return nil, &ResourceLoadError{Resource: resource, Err: err}
	}

	f, err := fsys.Open(resource)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	table := make([][]float64, tableMagBins)
	for i := range table {
		table[i] = make([]float64, tableDistBins)
	}

	magIndex := -1
	distIndex := 0

	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		if strings.HasPrefix(text, magBlockPrefix) {
			if magIndex >= 0 && distIndex != tableDistBins {
				return fail(fmt.Errorf("line %d: magnitude block %d has %d rows, want %d",
					line, magIndex, distIndex, tableDistBins))
			}
			magIndex++
			distIndex = 0
			if magIndex >= tableMagBins {
				return fail(fmt.Errorf("line %d: more than %d magnitude blocks", line, tableMagBins))
			}
			continue
		}
		if strings.HasPrefix(text, commentPrefix) {
			continue
		}
		if magIndex < 0 {
			return fail(fmt.Errorf("line %d: data before first %s header", line, magBlockPrefix))
		}
		if distIndex >= tableDistBins {
			return fail(fmt.Errorf("line %d: magnitude block %d has more than %d rows",
				line, magIndex, tableDistBins))
		}

		fields := strings.Fields(text)
		if len(fields) <= tableValueToken {
			return fail(fmt.Errorf("line %d: want value at token %d, got %d tokens",
				line, tableValueToken, len(fields)))
		}
		v, err := strconv.ParseFloat(fields[tableValueToken], 64)
		if err != nil {
			return fail(fmt.Errorf("line %d: %w", line, err))
		}
		table[magIndex][distIndex] = v
		distIndex++
	}
	if err := scanner.Err(); err != nil {
		return fail(err)
	}
	if magIndex != tableMagBins-1 || distIndex != tableDistBins {
		return fail(fmt.Errorf("incomplete table: %d blocks, last block %d rows; want %d x %d",
			magIndex+1, distIndex, tableMagBins, tableDistBins))
	}
	return table, nil
}

// correctedRjb looks up the tabulated mean distance. Magnitudes below 6.0 and
// distances beyond the table return the supplied distance; magnitudes above
// the table clamp to the top bin.
func correctedRjb(mag, distance float64, load func() ([][]float64, error)) (float64, error) {
	if mag < 6.0 {
		return distance, nil
	}
	table, err := load()
	if err != nil {
		return 0, err
	}

	mIndex := int(math.Round((mag - tableMinMag) / tableMagStep))
	if mIndex < 0 {
		mIndex = 0
	}
	if mIndex > tableMagBins-1 {
		mIndex = tableMagBins - 1
	}
	dIndex := int(math.Floor(distance))
	if dIndex > tableDistBins-1 {
		return distance, nil
	}
	return table[mIndex][dIndex], nil
}
