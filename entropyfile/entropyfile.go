// Package entropyfile loads the precomputed random-number stream the
// core consumes through pbs.Source. It is the out-of-core random-number
// file loader called out in spec.md §1(c): the core never touches the
// filesystem itself, it is handed an already-loaded stream.
//
// Mirrors RandomNumberData from the original source: one float per
// line, loaded once, read-only thereafter. Unlike the original's
// process-wide global instance, Load returns a value the caller wires in
// explicitly — nothing here is a package-level singleton — which keeps
// tests free of shared mutable state across runs.
package entropyfile

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
)

// Load reads path as a text file, one float per line, and returns the
// parsed stream in file order. A missing file is a fatal configuration
// error per spec.md §7: the caller is expected to report it on stderr
// and exit, not retry.
func Load(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("entropyfile: unable to open random number file %q: %w", path, err)
	}
	defer f.Close()

	var stream []float64
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("entropyfile: %q line %d: %w", path, lineNo, err)
		}
		stream = append(stream, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("entropyfile: reading %q: %w", path, err)
	}
	return stream, nil
}
