package gmm

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Cluster describes the observations assigned to one component.
type Cluster struct {
	Size       int     `json:"size"`
	Confidence float64 `json:"confidence"`
	Spread     float64 `json:"spread"`
}

// Summary describes the hard assignment derived from a responsibility matrix.
type Summary struct {
	Samples  int             `json:"samples"`
	Clusters map[int]Cluster `json:"clusters"`
}

// Summarize assigns every observation to its most likely component and collects
// the size and the mean and standard deviation of the winning responsibility per component.
func Summarize(w mat.Matrix) Summary {
	n, k := w.Dims()
	labels := Assign(w)
	confidence := make(map[int][]float64, k)
	for i, z := range labels {
		confidence[z] = append(confidence[z], w.At(i, z))
	}
	summary := Summary{
		Samples:  n,
		Clusters: make(map[int]Cluster, len(confidence)),
	}
	for z, cc := range confidence {
		cluster := Cluster{
			Size:       len(cc),
			Confidence: stat.Mean(cc, nil),
		}
		if len(cc) > 1 {
			cluster.Spread = stat.StdDev(cc, nil)
		}
		summary.Clusters[z] = cluster
	}
	return summary
}

// Components returns the component indexes with at least one assigned observation in ascending order.
func (s Summary) Components() []int {
	cc := make([]int, 0, len(s.Clusters))
	for c := range s.Clusters {
		cc = append(cc, c)
	}
	sort.Ints(cc)
	return cc
}
