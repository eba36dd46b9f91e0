package math

import (
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Format formats a float with two decimals.
func Format(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// FormatVec formats the elements of the vector as a bracketed list.
func FormatVec(v mat.Vector) string {
	if v == nil {
		return "[]"
	}
	ss := make([]string, v.Len())
	for i := range ss {
		ss[i] = Format(v.AtVec(i))
	}
	return "[" + strings.Join(ss, " ") + "]"
}

// FormatMatrix formats the matrix row by row.
func FormatMatrix(m mat.Matrix) string {
	if m == nil {
		return "[]"
	}
	r, _ := m.Dims()
	rows := make([]string, r)
	for i := range rows {
		row := mat.Row(nil, i, m)
		rows[i] = FormatVec(mat.NewVecDense(len(row), row))
	}
	return "[" + strings.Join(rows, " ") + "]"
}
