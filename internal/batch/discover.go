// Package batch finds the simulation runs of a study and processes them one at a time.
package batch

import (
	"WSNSpectra/internal/model"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"unicode"
)

// Discover lists the runs under root, laid out as <root>/<scenario>/<seed>.
// Scenarios come from folders in the given order; when folders is empty every numeric
// directory of root is used, in numeric order. Seeds are listed in natural order
// (seed2 before seed10). A configured scenario folder that does not exist is skipped.
func Discover(root string, folders []string, traceFile string) ([]model.RunInfo, error) {
	if len(folders) == 0 {
		var err error
		folders, err = numericDirs(root)
		if err != nil {
			return nil, err
		}
	}

	var runs []model.RunInfo
	for _, scenario := range folders {
		dir := filepath.Join(root, scenario)
		entries, err := os.ReadDir(dir)
		if err != nil {
			log.Printf("Warning: scenario folder %s is not readable, skipping: %v", dir, err)
			continue
		}

		var seeds []string
		for _, e := range entries {
			if e.IsDir() {
				seeds = append(seeds, e.Name())
			}
		}
		sort.Slice(seeds, func(i, j int) bool { return NaturalLess(seeds[i], seeds[j]) })

		for _, seed := range seeds {
			runDir := filepath.Join(dir, seed)
			runs = append(runs, model.RunInfo{
				Scenario:  scenario,
				Seed:      seed,
				Dir:       runDir,
				TracePath: filepath.Join(runDir, traceFile),
			})
		}
	}
	return runs, nil
}

func numericDirs(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios in %s: %w", root, err)
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := strconv.Atoi(e.Name()); err == nil {
			dirs = append(dirs, e.Name())
		}
	}
	sort.Slice(dirs, func(i, j int) bool {
		a, _ := strconv.Atoi(dirs[i])
		b, _ := strconv.Atoi(dirs[j])
		return a < b
	})
	return dirs, nil
}

// NaturalLess compares strings treating runs of digits as numbers.
func NaturalLess(a, b string) bool {
	ra, rb := []rune(a), []rune(b)
	i, j := 0, 0
	for i < len(ra) && j < len(rb) {
		if unicode.IsDigit(ra[i]) && unicode.IsDigit(rb[j]) {
			si := i
			for i < len(ra) && unicode.IsDigit(ra[i]) {
				i++
			}
			sj := j
			for j < len(rb) && unicode.IsDigit(rb[j]) {
				j++
			}
			na, _ := strconv.Atoi(string(ra[si:i]))
			nb, _ := strconv.Atoi(string(rb[sj:j]))
			if na != nb {
				return na < nb
			}
			continue
		}
		if ra[i] != rb[j] {
			return ra[i] < rb[j]
		}
		i++
		j++
	}
	return len(ra)-i < len(rb)-j
}
