// Package dag provides directed acyclic graph operations for table
// creation order. It supports cycle detection, deterministic topological
// sorting and grouping into creation levels.
package dag

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCycle is returned when nodes cannot be ordered because of a cycle.
var ErrCycle = errors.New("cycle detected")

// CycleError reports the nodes left unplaced by a topological sort.
type CycleError struct {
	// Unplaced lists the nodes on or behind a cycle, in insertion order.
	Unplaced []string
	// Path is one cycle, first node repeated at the end.
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v: %s (unplaced: %s)",
		ErrCycle, strings.Join(e.Path, " -> "), strings.Join(e.Unplaced, ", "))
}

func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// Node represents a node in the DAG.
type Node struct {
	// ID is the unique identifier (table name)
	ID string
	// Data holds arbitrary node data
	Data any
}

// Graph is a directed graph whose traversals follow node insertion order.
type Graph struct {
	nodes   map[string]*Node
	order   []string
	edges   map[string][]string // parent -> children (dependents)
	parents map[string][]string // child -> parents (dependencies)
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes:   make(map[string]*Node),
		edges:   make(map[string][]string),
		parents: make(map[string][]string),
	}
}

// AddNode adds a node to the graph. Re-adding a node replaces its data
// and keeps its position.
func (g *Graph) AddNode(id string, data any) {
	if node, exists := g.nodes[id]; exists {
		node.Data = data
		return
	}
	g.nodes[id] = &Node{ID: id, Data: data}
	g.order = append(g.order, id)
	g.edges[id] = []string{}
	g.parents[id] = []string{}
}

// AddEdge adds a directed edge from parent to child (child depends on parent).
func (g *Graph) AddEdge(parentID, childID string) error {
	if _, exists := g.nodes[parentID]; !exists {
		return fmt.Errorf("parent node %q does not exist", parentID)
	}
	if _, exists := g.nodes[childID]; !exists {
		return fmt.Errorf("child node %q does not exist", childID)
	}
	if parentID == childID {
		return fmt.Errorf("self-loop detected: %s", parentID)
	}

	if !contains(g.edges[parentID], childID) {
		g.edges[parentID] = append(g.edges[parentID], childID)
	}
	if !contains(g.parents[childID], parentID) {
		g.parents[childID] = append(g.parents[childID], parentID)
	}
	return nil
}

// GetNode returns a node by ID.
func (g *Graph) GetNode(id string) (*Node, bool) {
	node, exists := g.nodes[id]
	return node, exists
}

// GetParents returns the parents (dependencies) of a node.
func (g *Graph) GetParents(id string) []string {
	return append([]string(nil), g.parents[id]...)
}

// GetChildren returns the children (dependents) of a node.
func (g *Graph) GetChildren(id string) []string {
	return append([]string(nil), g.edges[id]...)
}

// Nodes returns the node IDs in insertion order.
func (g *Graph) Nodes() []string {
	return append([]string(nil), g.order...)
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, children := range g.edges {
		count += len(children)
	}
	return count
}

// HasCycle returns true if the graph contains a cycle, along with the cycle path.
func (g *Graph) HasCycle() (bool, []string) {
	visited := make(map[string]bool)
	recStack := make(map[string]bool)
	path := make(map[string]string)

	var cyclePath []string

	var dfs func(id string) bool
	dfs = func(id string) bool {
		visited[id] = true
		recStack[id] = true

		for _, childID := range g.edges[id] {
			if !visited[childID] {
				path[childID] = id
				if dfs(childID) {
					return true
				}
			} else if recStack[childID] {
				cyclePath = []string{childID}
				for curr := id; curr != childID; curr = path[curr] {
					cyclePath = append([]string{curr}, cyclePath...)
				}
				cyclePath = append([]string{childID}, cyclePath...)
				return true
			}
		}

		recStack[id] = false
		return false
	}

	for _, id := range g.order {
		if !visited[id] && dfs(id) {
			return true, cyclePath
		}
	}
	return false, nil
}

// TopologicalSort returns nodes with dependencies before dependents, using
// Kahn's algorithm. Among nodes that are ready at the same time, the one
// added first comes first. Nodes on or behind a cycle fail the sort with a
// *CycleError.
func (g *Graph) TopologicalSort() ([]*Node, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.order {
		inDegree[id] = len(g.parents[id])
	}

	position := make(map[string]int, len(g.order))
	for i, id := range g.order {
		position[id] = i
	}

	var ready []string
	for _, id := range g.order {
		if inDegree[id] == 0 {
			ready = append(ready, id)
		}
	}

	result := make([]*Node, 0, len(g.nodes))
	for len(ready) > 0 {
		// Pick the earliest-inserted ready node.
		best := 0
		for i := range ready {
			if position[ready[i]] < position[ready[best]] {
				best = i
			}
		}
		id := ready[best]
		ready = append(ready[:best], ready[best+1:]...)
		result = append(result, g.nodes[id])

		for _, childID := range g.edges[id] {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				ready = append(ready, childID)
			}
		}
	}

	if len(result) < len(g.nodes) {
		cycleErr := &CycleError{}
		for _, id := range g.order {
			if inDegree[id] > 0 {
				cycleErr.Unplaced = append(cycleErr.Unplaced, id)
			}
		}
		_, cycleErr.Path = g.HasCycle()
		return nil, cycleErr
	}
	return result, nil
}

// GetExecutionLevels returns nodes grouped by creation level.
// Level 0 holds nodes with no dependencies; nodes at level N depend only
// on nodes at lower levels. Each level keeps insertion order.
func (g *Graph) GetExecutionLevels() ([][]string, error) {
	sorted, err := g.TopologicalSort()
	if err != nil {
		return nil, err
	}
	if len(sorted) == 0 {
		return [][]string{}, nil
	}

	level := make(map[string]int, len(sorted))
	maxLevel := 0
	for _, node := range sorted {
		l := 0
		for _, parentID := range g.parents[node.ID] {
			if level[parentID]+1 > l {
				l = level[parentID] + 1
			}
		}
		level[node.ID] = l
		if l > maxLevel {
			maxLevel = l
		}
	}

	levels := make([][]string, maxLevel+1)
	for _, id := range g.order {
		levels[level[id]] = append(levels[level[id]], id)
	}
	return levels, nil
}

// GetUpstreamNodes returns all nodes upstream of the given node (its
// dependencies and their dependencies), in insertion order.
func (g *Graph) GetUpstreamNodes(id string) []string {
	upstream := make(map[string]bool)

	var markUpstream func(nodeID string)
	markUpstream = func(nodeID string) {
		for _, parentID := range g.parents[nodeID] {
			if !upstream[parentID] {
				upstream[parentID] = true
				markUpstream(parentID)
			}
		}
	}
	markUpstream(id)

	var result []string
	for _, nodeID := range g.order {
		if upstream[nodeID] {
			result = append(result, nodeID)
		}
	}
	return result
}

// GetRoots returns nodes with no parents (no dependencies).
func (g *Graph) GetRoots() []string {
	var roots []string
	for _, id := range g.order {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	return roots
}

func contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}
