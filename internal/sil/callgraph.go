package sil

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
)

// CallGraph is a directed graph of SIL functions defined in one dump.
// An edge a -> b means the body of a contains a function_ref to b.
type CallGraph struct {
	g     graph.Graph[string, string]
	order map[string]int // position of each function in the dump
}

// NewCallGraph builds the call graph for every function defined in dump.
// References to functions without a body in the dump are dropped.
func NewCallGraph(dump string) (*CallGraph, error) {
	names := ListFunctions(dump)

	cg := &CallGraph{
		g:     graph.New(graph.StringHash, graph.Directed()),
		order: make(map[string]int, len(names)),
	}

	for i, name := range names {
		cg.order[name] = i
		if err := cg.g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add function %s: %w", name, err)
		}
	}

	for _, fn := range functionBodies(dump) {
		name := fn.name
		for _, ref := range FunctionRefs(fn.body) {
			if ref == name {
				continue
			}
			if _, defined := cg.order[ref]; !defined {
				continue
			}
			if err := cg.g.AddEdge(name, ref); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to link %s -> %s: %w", name, ref, err)
			}
		}
	}

	return cg, nil
}

type functionBody struct {
	name string
	body string
}

// functionBodies splits dump into function bodies in one pass. A body runs
// from the last line starting with "sil" after the previous trailer up to the
// function's own trailer, so a declaration is never shared between two
// functions. Trailers without a declaration line are skipped, and a repeated
// name keeps its first body.
func functionBodies(dump string) []functionBody {
	seen := make(map[string]bool)
	var bodies []functionBody

	prevEnd := 0
	for _, loc := range endMarkerRe.FindAllStringSubmatchIndex(dump, -1) {
		start, end := loc[0], loc[1]
		name := dump[loc[2]:loc[3]]
		segment := dump[prevEnd:start]
		offset := prevEnd
		prevEnd = end

		decl := strings.LastIndex(segment, "\nsil")
		switch {
		case decl >= 0:
			decl++
		case strings.HasPrefix(segment, "sil"):
			decl = 0
		default:
			continue
		}

		if seen[name] {
			continue
		}
		seen[name] = true
		bodies = append(bodies, functionBody{name: name, body: dump[offset+decl : end]})
	}
	return bodies
}

// Has reports whether name is defined in the dump.
func (cg *CallGraph) Has(name string) bool {
	_, ok := cg.order[name]
	return ok
}

// Size returns the number of functions and call edges in the graph.
func (cg *CallGraph) Size() (functions int, edges int, err error) {
	functions, err = cg.g.Order()
	if err != nil {
		return 0, 0, err
	}
	edges, err = cg.g.Size()
	if err != nil {
		return 0, 0, err
	}
	return functions, edges, nil
}

// Callees returns the transitive callees of root in breadth-first order,
// excluding root itself. Within one level, callees keep their dump order.
// maxDepth limits the traversal (1 = direct callees); 0 means unlimited.
func (cg *CallGraph) Callees(root string, maxDepth int) ([]string, error) {
	if !cg.Has(root) {
		return nil, fmt.Errorf("%w: %s", ErrFunctionNotFound, root)
	}

	adjacency, err := cg.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read call graph: %w", err)
	}

	visited := map[string]bool{root: true}
	level := []string{root}
	var result []string

	for depth := 1; len(level) > 0 && (maxDepth == 0 || depth <= maxDepth); depth++ {
		var next []string
		for _, caller := range level {
			targets := make([]string, 0, len(adjacency[caller]))
			for target := range adjacency[caller] {
				targets = append(targets, target)
			}
			sort.Slice(targets, func(i, j int) bool {
				return cg.order[targets[i]] < cg.order[targets[j]]
			})

			for _, target := range targets {
				if visited[target] {
					continue
				}
				visited[target] = true
				next = append(next, target)
			}
		}
		result = append(result, next...)
		level = next
	}

	return result, nil
}
