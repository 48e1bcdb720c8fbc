package resolve

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dominikbraun/graph"

	"github.com/agentic-research/weft/internal/ctxlog"
)

// Build discovers graphs under root, loads every declaration, and resolves
// the full dependency graph. Declaration failures are accumulated on the
// returned Set; a *CycleError is returned the instant an edge would close
// a cycle, and at that point nothing has touched the filesystem.
func Build(ctx context.Context, root string) (*Set, error) {
	graphs, err := Discover(root)
	if err != nil {
		return nil, err
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %s: %w", root, err)
	}
	set := &Set{Root: absRoot, Graphs: graphs}

	byRoot := make(map[string]*Graph, len(graphs))
	dag := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())
	for _, g := range graphs {
		byRoot[g.Root] = g
		_ = dag.AddVertex(g.Root)
	}

	log := ctxlog.From(ctx)
	for _, g := range graphs {
		decl, err := LoadDeclaration(g.Root)
		if err != nil {
			var derr *DeclarationError
			if errors.As(err, &derr) {
				log.Error("unresolvable declaration, graph contributes no edges",
					"graph", g.Name, "path", derr.Path, "err", derr.Err)
				set.DeclErrs = append(set.DeclErrs, derr)
				continue
			}
			return nil, err
		}
		if decl == nil {
			continue
		}

		for i := range decl.DependentGraphs {
			dg := &decl.DependentGraphs[i]
			depRoot := filepath.Clean(filepath.Join(g.Root, dg.LocalGraphPath))

			// A graph declaring itself is the degenerate cycle.
			if depRoot == g.Root {
				return nil, &CycleError{Dependent: g.Name, Dependency: g.Name}
			}

			dep, known := byRoot[depRoot]
			if !known {
				dep = &Graph{Name: filepath.Base(depRoot), Root: depRoot}
			}
			dangling := !known && !isDir(depRoot)

			rules := rulesFor(dg)
			if len(rules) == 0 {
				// Valid but inert: the edge participates in cycle
				// detection, yet materialization has nothing to match.
				log.Warn("declaration entry carries no sync rules, nothing will be materialized",
					"graph", g.Name, "dependency", dep.Name)
			}

			set.Edges = append(set.Edges, &Edge{
				Dependent:  g,
				Dependency: dep,
				Dangling:   dangling,
				Rules:      rules,
			})

			if dangling {
				// Dangling nodes have no declarations of their own, so
				// they cannot contribute to a cycle.
				log.Warn("declared dependency does not resolve to a directory",
					"graph", g.Name, "path", dg.LocalGraphPath, "resolved", depRoot)
				continue
			}

			_ = dag.AddVertex(depRoot)
			if err := dag.AddEdge(g.Root, depRoot); err != nil {
				switch {
				case errors.Is(err, graph.ErrEdgeCreatesCycle):
					return nil, &CycleError{Dependent: g.Name, Dependency: dep.Name}
				case errors.Is(err, graph.ErrEdgeAlreadyExists):
					// Two declaration entries may target the same
					// dependency with different rules.
				default:
					return nil, fmt.Errorf("add edge %s -> %s: %w", g.Name, dep.Name, err)
				}
			}
		}
	}
	return set, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
