// Package graph implements a small generic directed graph with a
// Dijkstra shortest-path search.
//
// Nodes are identified by a comparable id type. Edges carry a
// comparable label that also reports its own non-negative weight;
// labels are the adjacency key, so connecting the same (from, label)
// pair twice overwrites the destination rather than creating a
// parallel edge.
package graph

import (
	"container/heap"
	"fmt"
)

// Weighted is implemented by edge labels to report their cost, in
// whatever unit the caller chooses (the routing engine uses seconds).
type Weighted interface {
	Weight() int64
}

// Graph holds nodes identified by N and edges labeled by E. Both type
// parameters must be comparable so they can key maps; E must also
// report a Weight().
type Graph[N comparable, E interface {
	comparable
	Weighted
}] struct {
	index map[N]int32
	nodes []node[N, E]
}

type node[N comparable, E comparable] struct {
	id    N
	edges map[E]N
}

// New creates an empty graph.
func New[N comparable, E interface {
	comparable
	Weighted
}]() *Graph[N, E] {
	return &Graph[N, E]{
		index: map[N]int32{},
	}
}

// Get returns the node with the given id, if present.
func (g *Graph[N, E]) Get(id N) (N, bool) {
	if _, ok := g.index[id]; !ok {
		var zero N
		return zero, false
	}
	return id, true
}

// GetOrInsert returns id, inserting a fresh node for it first if
// necessary.
func (g *Graph[N, E]) GetOrInsert(id N) N {
	if _, ok := g.index[id]; ok {
		return id
	}
	g.index[id] = int32(len(g.nodes))
	g.nodes = append(g.nodes, node[N, E]{id: id, edges: map[E]N{}})
	return id
}

// Connect adds an edge labeled edge from id `from` to id `to`,
// inserting either endpoint that doesn't already exist. Connecting
// the same (from, edge) pair again overwrites the destination.
func (g *Graph[N, E]) Connect(from N, edge E, to N) {
	g.GetOrInsert(from)
	g.GetOrInsert(to)
	idx := g.index[from]
	g.nodes[idx].edges[edge] = to
}

// Edges iterates the outgoing (label, destination) pairs of id.
func (g *Graph[N, E]) Edges(id N) map[E]N {
	idx, ok := g.index[id]
	if !ok {
		return nil
	}
	return g.nodes[idx].edges
}

// IterateNodes calls fn for every node id currently in the graph. The
// order is the order nodes were first inserted.
func (g *Graph[N, E]) IterateNodes(fn func(N)) {
	for _, n := range g.nodes {
		fn(n.id)
	}
}

// Step is one (edge, destination) hop of a path returned by
// ShortestPath.
type Step[N comparable, E any] struct {
	Edge E
	Node N
}

type pqItem[N comparable] struct {
	node N
	cost int64
}

type priorityQueue[N comparable] []pqItem[N]

func (pq priorityQueue[N]) Len() int            { return len(pq) }
func (pq priorityQueue[N]) Less(i, j int) bool  { return pq[i].cost < pq[j].cost }
func (pq priorityQueue[N]) Swap(i, j int)       { pq[i], pq[j] = pq[j], pq[i] }
func (pq *priorityQueue[N]) Push(x interface{}) { *pq = append(*pq, x.(pqItem[N])) }
func (pq *priorityQueue[N]) Pop() interface{} {
	old := *pq
	n := len(old)
	item := old[n-1]
	*pq = old[:n-1]
	return item
}

// ShortestPath runs Dijkstra from origin, stopping as soon as it pops
// a node for which predicate returns true. It returns the sequence of
// (edge, destination) steps from origin (exclusive) to the matched
// node (inclusive), in forward order. If predicate is already true of
// origin, the returned path is empty. If no matching node is
// reachable, ok is false.
//
// origin must already exist in the graph.
func (g *Graph[N, E]) ShortestPath(origin N, predicate func(N) bool) ([]Step[N, E], bool) {
	if _, ok := g.index[origin]; !ok {
		panic(fmt.Sprintf("graph: unknown origin node %v", origin))
	}

	bestCost := make(map[N]int64, len(g.nodes))
	bestPrevNode := make(map[N]N, len(g.nodes))
	bestPrevEdge := make(map[N]E, len(g.nodes))
	visited := make(map[N]bool, len(g.nodes))

	bestCost[origin] = 0

	pq := &priorityQueue[N]{{node: origin, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem[N])
		n := item.node

		if visited[n] {
			continue
		}
		if item.cost > bestCost[n] {
			continue
		}
		visited[n] = true

		if predicate(n) {
			return backtrace(origin, n, bestPrevNode, bestPrevEdge), true
		}

		idx := g.index[n]
		for edge, dest := range g.nodes[idx].edges {
			if dest == n {
				continue
			}
			weight := edge.Weight()
			if weight < 0 {
				panic(fmt.Sprintf("graph: negative edge weight %d", weight))
			}
			cost := bestCost[n] + weight
			existing, seen := bestCost[dest]
			if !seen || cost < existing {
				bestCost[dest] = cost
				bestPrevNode[dest] = n
				bestPrevEdge[dest] = edge
				heap.Push(pq, pqItem[N]{node: dest, cost: cost})
			}
		}
	}

	return nil, false
}

func backtrace[N comparable, E any](origin, found N, prevNode map[N]N, prevEdge map[N]E) []Step[N, E] {
	steps := []Step[N, E]{}
	curr := found
	for curr != origin {
		edge := prevEdge[curr]
		steps = append(steps, Step[N, E]{Edge: edge, Node: curr})
		curr = prevNode[curr]
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return steps
}
