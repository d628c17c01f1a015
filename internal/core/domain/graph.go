package domain

import (
	"go.trai.ch/zerr"
)

// Graph is the dependency graph implied by one registry union'd with the
// global registry: nodes are installed packages, edges mean "was built
// against". The toolchain guarantees acyclicity; Validate exists so a
// corrupted registry surfaces as an error instead of an infinite loop.
type Graph struct {
	records map[InternedString]PackageRecord
}

// NewGraph creates an empty Graph.
func NewGraph() *Graph {
	return &Graph{
		records: make(map[InternedString]PackageRecord),
	}
}

// Add inserts a record into the graph. If a record with the same package
// name is already present it is kept; callers add the more specific registry
// first so that sandbox entries shadow global ones.
func (g *Graph) Add(rec PackageRecord) {
	if _, exists := g.records[rec.Package.Name]; exists {
		return
	}
	g.records[rec.Package.Name] = rec
}

// Lookup returns the record for the given package name.
func (g *Graph) Lookup(name InternedString) (PackageRecord, bool) {
	rec, ok := g.records[name]
	return rec, ok
}

// DependenciesOf returns the recorded dependencies of the exact package
// identity p. The second return is false when p is absent from the graph or
// present with a different version.
func (g *Graph) DependenciesOf(p Package) ([]Package, bool) {
	rec, ok := g.records[p.Name]
	if !ok || rec.Package != p {
		return nil, false
	}
	return rec.Depends, true
}

// Validate checks for cycles with a depth-first traversal. A cycle means the
// registry contents are inconsistent and is fatal.
func (g *Graph) Validate() error {
	visited := make(map[InternedString]int, len(g.records)) // 0: unvisited, 1: visiting, 2: visited
	var path []InternedString

	var visit func(name InternedString) error
	visit = func(name InternedString) error {
		visited[name] = 1
		path = append(path, name)

		rec := g.records[name]
		for _, dep := range rec.Depends {
			if _, ok := g.records[dep.Name]; !ok {
				// Dependencies satisfied outside this graph are the
				// analyzer's concern, not a structural defect.
				continue
			}
			switch visited[dep.Name] {
			case 1:
				return g.buildCycleError(path, dep.Name)
			case 0:
				if err := visit(dep.Name); err != nil {
					return err
				}
			}
		}

		visited[name] = 2
		path = path[:len(path)-1]
		return nil
	}

	for name := range g.records {
		if visited[name] == 0 {
			if err := visit(name); err != nil {
				return err
			}
		}
	}

	return nil
}

// buildCycleError constructs an error carrying the cycle path as metadata.
func (g *Graph) buildCycleError(path []InternedString, dep InternedString) error {
	cyclePath := ""
	startIdx := 0
	for i, node := range path {
		if node == dep {
			startIdx = i
			break
		}
	}
	for i := startIdx; i < len(path); i++ {
		cyclePath += path[i].String() + " -> "
	}
	cyclePath += dep.String()
	return zerr.With(ErrDependencyCycle, "cycle", cyclePath)
}
