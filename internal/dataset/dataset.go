package dataset

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/drakos74/gmm/internal/math/gmm"
	"gonum.org/v1/gonum/mat"
)

const (
	// Unlabeled is the label value of observations without known component.
	Unlabeled = -1

	featurePrefix = "x"
	labelColumn   = "z"
)

var (
	ErrNoFeatures  = errors.New("no feature columns")
	ErrNoRows      = errors.New("no rows")
	ErrInvalidCell = errors.New("invalid cell")
)

// Dataset is a set of observations loaded from a delimited file with a header.
// Columns starting with 'x' are features, the column named 'z' holds the labels.
type Dataset struct {
	Features []string
	X        [][]float64
	// Z is empty if the file has no label column
	Z []int
}

// Load reads the dataset from the given comma separated file.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open dataset '%s': %w", path, err)
	}
	defer f.Close()

	ds, err := Read(bufio.NewReader(f), ',')
	if err != nil {
		return nil, fmt.Errorf("could not read dataset '%s': %w", path, err)
	}
	return ds, nil
}

// Read parses a dataset from the given reader.
func Read(r io.Reader, comma rune) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.Comma = comma
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrNoRows
	} else if err != nil {
		return nil, fmt.Errorf("could not read header: %w", err)
	}

	var (
		ds       = &Dataset{}
		features []int
		label    = -1
	)
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == labelColumn:
			label = i
		case strings.HasPrefix(h, featurePrefix):
			features = append(features, i)
			ds.Features = append(ds.Features, h)
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("header %v: %w", header, ErrNoFeatures)
	}

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("could not read line %d: %w", line, err)
		}

		x := make([]float64, len(features))
		for j, c := range features {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[c]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column '%s': %v: %w", line, header[c], err, ErrInvalidCell)
			}
			x[j] = v
		}
		ds.X = append(ds.X, x)

		if label >= 0 {
			z, err := parseLabel(record[label])
			if err != nil {
				return nil, fmt.Errorf("line %d label: %v: %w", line, err, ErrInvalidCell)
			}
			ds.Z = append(ds.Z, z)
		}
	}
	if len(ds.X) == 0 {
		return nil, ErrNoRows
	}
	return ds, nil
}

// labels may be written as floats e.g. '-1.0'
func parseLabel(s string) (int, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if v != math.Trunc(v) {
		return 0, fmt.Errorf("label %v is not an integer", v)
	}
	return int(v), nil
}

// Len returns the number of observations.
func (ds *Dataset) Len() int {
	return len(ds.X)
}

// Dim returns the number of features.
func (ds *Dataset) Dim() int {
	return len(ds.Features)
}

// Matrix returns all observations, labeled or not.
func (ds *Dataset) Matrix() *mat.Dense {
	return toDense(ds.X, ds.Dim())
}

// Split separates the unlabeled observations from the labeled ones.
func (ds *Dataset) Split() (*mat.Dense, gmm.Labeled, error) {
	var (
		unlabeled [][]float64
		labeled   [][]float64
		z         []int
	)
	for i, x := range ds.X {
		if len(ds.Z) == 0 || ds.Z[i] == Unlabeled {
			unlabeled = append(unlabeled, x)
			continue
		}
		if ds.Z[i] < 0 {
			return nil, gmm.Labeled{}, fmt.Errorf("row %d has label %d: %w", i, ds.Z[i], gmm.ErrInvalidLabel)
		}
		labeled = append(labeled, x)
		z = append(z, ds.Z[i])
	}
	if len(unlabeled) == 0 {
		return nil, gmm.Labeled{}, fmt.Errorf("no unlabeled observations: %w", gmm.ErrEmptySet)
	}
	l := gmm.Labeled{Z: z}
	if len(labeled) > 0 {
		l.X = toDense(labeled, ds.Dim())
	}
	return toDense(unlabeled, ds.Dim()), l, nil
}

func toDense(rows [][]float64, d int) *mat.Dense {
	if len(rows) == 0 {
		return nil
	}
	m := mat.NewDense(len(rows), d, nil)
	for i, r := range rows {
		m.SetRow(i, r)
	}
	return m
}
