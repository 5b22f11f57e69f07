// Package dataset loads and prepares per-region well tables.
//
// A region file is a CSV with columns id, f0, f1, f2 and product: three
// geological features and the measured reserve volume per candidate well.
// Preparation mirrors the evaluation pipeline: duplicate well IDs are
// collapsed to the highest measured volume, rows are shuffled with a seeded
// source, and the table splits into gonum matrices for model fitting.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"

	"gonum.org/v1/gonum/mat"

	"github.com/petrofore/wellrisk/pkg/errors"
)

const idColumn = "id"
const targetColumn = "product"

var featureColumns = []string{"f0", "f1", "f2"}

// Table is one region's well records. Rows stay aligned across IDs,
// Features and Target.
type Table struct {
	IDs      []string
	Features [][]float64 // one row per well, len(featureColumns) each
	Target   []float64   // measured reserve volume
}

// Len returns the number of wells in the table.
func (t *Table) Len() int {
	return len(t.IDs)
}

// Load parses a region CSV from r. Column order is free and extra columns
// are ignored, but id, f0, f1, f2 and product must all be present. Rows with
// unparsable or non-finite numbers fail with a DataError naming the row.
func Load(r io.Reader) (*Table, error) {
	const op = "dataset.Load"

	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err == io.EOF {
		return nil, errors.NewDataError(op, -1, "empty file")
	}
	if err != nil {
		return nil, errors.Wrap(err, op)
	}

	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		colIndex[name] = i
	}
	for _, required := range append([]string{idColumn, targetColumn}, featureColumns...) {
		if _, ok := colIndex[required]; !ok {
			return nil, errors.NewDataError(op, -1, "missing column '"+required+"'")
		}
	}

	table := &Table{}
	row := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "%s: row %d", op, row)
		}

		features := make([]float64, len(featureColumns))
		for j, name := range featureColumns {
			v, err := parseCell(op, record[colIndex[name]], row)
			if err != nil {
				return nil, err
			}
			features[j] = v
		}
		target, err := parseCell(op, record[colIndex[targetColumn]], row)
		if err != nil {
			return nil, err
		}

		table.IDs = append(table.IDs, record[colIndex[idColumn]])
		table.Features = append(table.Features, features)
		table.Target = append(table.Target, target)
		row++
	}

	if table.Len() == 0 {
		return nil, errors.NewDataError(op, -1, "no data rows")
	}
	return table, nil
}

// LoadFile opens and parses a region CSV by path.
func LoadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "dataset.LoadFile")
	}
	defer f.Close()
	return Load(f)
}

// CleanDeduplicate collapses duplicate well IDs, keeping the row with the
// highest measured volume per ID. Survivor rows keep the first-seen order of
// their IDs, so the result is deterministic.
func (t *Table) CleanDeduplicate() *Table {
	best := make(map[string]int, t.Len())
	order := make([]string, 0, t.Len())

	for i, id := range t.IDs {
		prev, seen := best[id]
		if !seen {
			best[id] = i
			order = append(order, id)
			continue
		}
		if t.Target[i] > t.Target[prev] {
			best[id] = i
		}
	}

	out := &Table{
		IDs:      make([]string, 0, len(order)),
		Features: make([][]float64, 0, len(order)),
		Target:   make([]float64, 0, len(order)),
	}
	for _, id := range order {
		i := best[id]
		out.IDs = append(out.IDs, t.IDs[i])
		out.Features = append(out.Features, t.Features[i])
		out.Target = append(out.Target, t.Target[i])
	}
	return out
}

// Shuffle returns a copy of the table with rows permuted by a seeded
// Fisher-Yates pass. The same seed yields the same order.
func (t *Table) Shuffle(seed int64) *Table {
	n := t.Len()
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	out := &Table{
		IDs:      make([]string, n),
		Features: make([][]float64, n),
		Target:   make([]float64, n),
	}
	for i, src := range perm {
		out.IDs[i] = t.IDs[src]
		out.Features[i] = t.Features[src]
		out.Target[i] = t.Target[src]
	}
	return out
}

// Split shuffles the table with the given seed and splits it into training
// and validation parts. validationFraction must lie in (0, 1) and both parts
// must end up non-empty.
func (t *Table) Split(validationFraction float64, seed int64) (train, valid *Table, err error) {
	const op = "dataset.Split"

	if validationFraction <= 0 || validationFraction >= 1 {
		return nil, nil, errors.NewConfigurationError(op, "validation_fraction", "must be in (0, 1)", validationFraction)
	}

	shuffled := t.Shuffle(seed)
	cut := t.Len() - int(math.Round(float64(t.Len())*validationFraction))
	if cut <= 0 || cut >= t.Len() {
		return nil, nil, errors.NewConfigurationError(op, "validation_fraction", "split leaves an empty part", validationFraction)
	}

	return shuffled.slice(0, cut), shuffled.slice(cut, t.Len()), nil
}

// FeaturesTarget converts the table into a gonum feature matrix and target
// vector for model fitting.
func (t *Table) FeaturesTarget() (*mat.Dense, *mat.VecDense, error) {
	if t.Len() == 0 {
		return nil, nil, errors.NewDataError("dataset.FeaturesTarget", -1, "empty table")
	}

	X := mat.NewDense(t.Len(), len(featureColumns), nil)
	y := mat.NewVecDense(t.Len(), nil)
	for i := 0; i < t.Len(); i++ {
		for j, v := range t.Features[i] {
			X.Set(i, j, v)
		}
		y.SetVec(i, t.Target[i])
	}
	return X, y, nil
}

func (t *Table) slice(from, to int) *Table {
	return &Table{
		IDs:      t.IDs[from:to],
		Features: t.Features[from:to],
		Target:   t.Target[from:to],
	}
}

func parseCell(op, cell string, row int) (float64, error) {
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, errors.NewDataError(op, row, "cannot parse '"+cell+"' as float")
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.NewDataError(op, row, "value is NaN or Inf")
	}
	return v, nil
}
