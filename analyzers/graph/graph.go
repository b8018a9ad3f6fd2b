// Package graph contains the graph theoretical measures of the connectivity weights matrix.
// Path based measures treat the inverse of the absolute weight as the connection length.
package graph

import (
	"context"
	"math"
	"sort"

	"github.com/emer/etable/etensor"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/neuronlabs/tvb/arrays"
	"github.com/neuronlabs/tvb/class"
	"github.com/neuronlabs/tvb/datatypes"
	"github.com/neuronlabs/tvb/errors"
	"github.com/neuronlabs/tvb/log"
)

var logger = log.NewModuleLogger("graph")

// Nodal measure names.
const (
	MeasureDegree                = "degree"
	MeasureStrength              = "strength"
	MeasureClusteringCoefficient = "clustering_coefficient"
	MeasureLocalEfficiency       = "local_efficiency"
	MeasureBetweenness           = "betweenness"
)

// Global measure names.
const (
	MeasureDensity                  = "density"
	MeasureCharacteristicPathLength = "characteristic_path_length"
	MeasureGlobalEfficiency         = "global_efficiency"
)

// Graph is the weighted graph of the square weights matrix. Zero weights are the absent connections and
// the diagonal is ignored.
type Graph struct {
	n        int
	weights  []float64
	directed bool

	lengths path.AllShortest
	hasLen  bool
}

// New creates the graph of the square (n, n) 'weights' matrix. The matrix weight (i, j) is the connection
// from the node j to the node i.
func New(weights *etensor.Float64, directed bool) (*Graph, error) {
	if weights == nil {
		return nil, errors.NewDet(class.AnalyzerInput, "no weights provided")
	}
	shape := weights.Shapes()
	if len(shape) != 2 || shape[0] != shape[1] {
		return nil, errors.NewDetf(class.AnalyzerInput, "weights must be a square matrix, is: %v", shape)
	}
	return &Graph{n: shape[0], weights: weights.Values, directed: directed}, nil
}

// FromConnectivity creates the graph of the connectivity weights. The graph is undirected if the weights are symmetric.
func FromConnectivity(conn *datatypes.Connectivity) (*Graph, error) {
	if conn == nil {
		return nil, errors.NewDet(class.AnalyzerInput, "no connectivity provided")
	}
	return New(conn.Weights, !conn.IsUndirected())
}

// Nodes gets the number of the graph nodes.
func (g *Graph) Nodes() int {
	return g.n
}

func (g *Graph) weight(from, to int) float64 {
	return g.weights[to*g.n+from]
}

func (g *Graph) connected(from, to int) bool {
	return from != to && g.weight(from, to) != 0
}

// neighbours gets the sorted nodes connected with the node 'i' in any direction.
func (g *Graph) neighbours(i int) []int {
	var out []int
	for j := 0; j < g.n; j++ {
		if g.connected(i, j) || g.connected(j, i) {
			out = append(out, j)
		}
	}
	return out
}

// Degree gets the number of connections of each node. For the directed graph it is the sum of the in and out degree.
func (g *Graph) Degree() []float64 {
	out := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if !g.connected(j, i) {
				continue
			}
			out[i]++
			if g.directed {
				out[j]++
			}
		}
	}
	return out
}

// Strength gets the sum of the absolute weights of each node. For the directed graph it is the sum of the in and out strength.
func (g *Graph) Strength() []float64 {
	out := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if !g.connected(j, i) {
				continue
			}
			w := math.Abs(g.weight(j, i))
			out[i] += w
			if g.directed {
				out[j] += w
			}
		}
	}
	return out
}

// Density gets the fraction of the present connections to all possible connections.
func (g *Graph) Density() float64 {
	if g.n < 2 {
		return 0
	}
	var k float64
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if g.connected(j, i) {
				k++
			}
		}
	}
	return k / float64(g.n*(g.n-1))
}

// ClusteringCoefficient gets the binary clustering coefficient of each node: the fraction of the connected pairs
// of its neighbours.
func (g *Graph) ClusteringCoefficient() []float64 {
	out := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		nb := g.neighbours(i)
		k := len(nb)
		if k < 2 {
			continue
		}
		var links float64
		for a := 0; a < k; a++ {
			for b := a + 1; b < k; b++ {
				if g.connected(nb[a], nb[b]) || g.connected(nb[b], nb[a]) {
					links++
				}
			}
		}
		out[i] = 2 * links / float64(k*(k-1))
	}
	return out
}

// weighted creates the gonum graph with the connection lengths as the edge weights.
func (g *Graph) weighted() graph.Weighted {
	var wg interface {
		graph.Weighted
		AddNode(graph.Node)
		SetWeightedEdge(graph.WeightedEdge)
		NewWeightedEdge(from, to graph.Node, weight float64) graph.WeightedEdge
	}
	if g.directed {
		wg = simple.NewWeightedDirectedGraph(0, math.Inf(1))
	} else {
		wg = simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	}
	for i := 0; i < g.n; i++ {
		wg.AddNode(simple.Node(i))
	}
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if !g.connected(j, i) || (!g.directed && j > i) {
				continue
			}
			wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(j), simple.Node(i), 1/math.Abs(g.weight(j, i))))
		}
	}
	return wg
}

// shortest gets the all pairs shortest paths of the connection lengths.
func (g *Graph) shortest() path.AllShortest {
	if !g.hasLen {
		logger.Debug2f("Computing shortest paths of %d nodes", g.n)
		g.lengths = path.DijkstraAllPaths(g.weighted())
		g.hasLen = true
	}
	return g.lengths
}

// Distances gets the (n, n) matrix of the shortest path lengths. Disconnected pairs have the infinite distance.
func (g *Graph) Distances() *etensor.Float64 {
	paths := g.shortest()
	out := arrays.NewFloat([]int{g.n, g.n})
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if i == j {
				continue
			}
			out.Values[i*g.n+j] = paths.Weight(int64(i), int64(j))
		}
	}
	return out
}

// CharacteristicPathLength gets the mean of the finite shortest path lengths between distinct nodes.
func (g *Graph) CharacteristicPathLength() float64 {
	d := g.Distances()
	var sum, count float64
	for i := 0; i < g.n; i++ {
		for j := 0; j < g.n; j++ {
			if v := d.Values[i*g.n+j]; i != j && !math.IsInf(v, 1) {
				sum += v
				count++
			}
		}
	}
	if count == 0 {
		return math.Inf(1)
	}
	return sum / count
}

// GlobalEfficiency gets the mean of the inverse shortest path lengths between distinct nodes.
func (g *Graph) GlobalEfficiency() float64 {
	if g.n < 2 {
		return 0
	}
	return efficiency(g.Distances().Values, g.n)
}

func efficiency(distances []float64, n int) float64 {
	var sum float64
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j && distances[i*n+j] > 0 {
				sum += 1 / distances[i*n+j]
			}
		}
	}
	return sum / float64(n*(n-1))
}

// LocalEfficiency gets the global efficiency of the subgraph of the neighbours of each node.
func (g *Graph) LocalEfficiency() []float64 {
	out := make([]float64, g.n)
	for i := 0; i < g.n; i++ {
		nb := g.neighbours(i)
		k := len(nb)
		if k < 2 {
			continue
		}
		sub := arrays.NewFloat([]int{k, k})
		for a := 0; a < k; a++ {
			for b := 0; b < k; b++ {
				sub.Values[a*k+b] = g.weight(nb[b], nb[a])
			}
		}
		sg, _ := New(sub, g.directed)
		out[i] = sg.GlobalEfficiency()
	}
	return out
}

// Betweenness gets the weighted betweenness centrality of each node: the number of the shortest paths passing
// through the node.
func (g *Graph) Betweenness() []float64 {
	wg := g.weighted()
	bc := network.BetweennessWeighted(wg, g.shortest())
	out := make([]float64, g.n)
	for id, v := range bc {
		out[id] = v
	}
	if !g.directed {
		// each undirected path is counted in both directions
		for i := range out {
			out[i] /= 2
		}
	}
	return out
}

// Nodal gets the nodal measure by 'name'.
func (g *Graph) Nodal(name string) ([]float64, error) {
	switch name {
	case MeasureDegree:
		return g.Degree(), nil
	case MeasureStrength:
		return g.Strength(), nil
	case MeasureClusteringCoefficient:
		return g.ClusteringCoefficient(), nil
	case MeasureLocalEfficiency:
		return g.LocalEfficiency(), nil
	case MeasureBetweenness:
		return g.Betweenness(), nil
	}
	return nil, errors.NewDetf(class.AnalyzerNotFound, "graph measure: '%s' not found", name).
		SetDetailsf("available measures: %v", NodalMeasures())
}

// Global gets all the global measures of the graph.
func (g *Graph) Global() map[string]float64 {
	return map[string]float64{
		MeasureDensity:                  g.Density(),
		MeasureCharacteristicPathLength: g.CharacteristicPathLength(),
		MeasureGlobalEfficiency:         g.GlobalEfficiency(),
	}
}

// NodalMeasures gets the sorted names of the nodal measures.
func NodalMeasures() []string {
	names := []string{MeasureDegree, MeasureStrength, MeasureClusteringCoefficient, MeasureLocalEfficiency, MeasureBetweenness}
	sort.Strings(names)
	return names
}

// Measure computes the nodal measure 'name' of the connectivity.
func Measure(ctx context.Context, conn *datatypes.Connectivity, name string) (*datatypes.ConnectivityMeasure, error) {
	g, err := FromConnectivity(conn)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "graph measure canceled")
	}
	values, err := g.Nodal(name)
	if err != nil {
		return nil, err
	}
	out := arrays.NewFloat([]int{g.n})
	copy(out.Values, values)
	return &datatypes.ConnectivityMeasure{
		Measure:      name,
		Connectivity: conn,
		Array:        out,
	}, nil
}

// GlobalMeasures computes the global measures of the connectivity.
func GlobalMeasures(ctx context.Context, conn *datatypes.Connectivity) (map[string]float64, error) {
	g, err := FromConnectivity(conn)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, errors.Wrap(err, class.AnalyzerComputation, "graph measure canceled")
	}
	return g.Global(), nil
}
