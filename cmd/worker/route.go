package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/mapper"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/ingest/parser"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/planner"
)

func loadGraph(path string) (*graph.ZoneGraph, error) {
	topo, err := parser.ParseYAML(path)
	if err != nil {
		return nil, err
	}
	return mapper.ToGraph(topo)
}

// runCheck validates a topology file and prints its size.
func runCheck(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: worker check <topology.yaml>")
	}
	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("ok: %d zones, %d doors, exits %v\n", len(g.Zones()), len(g.Doors()), g.Exits())
	return nil
}

// runRoute plans a route offline:
//
//	worker route <topology.yaml> <from> [to|-] [zone=classification|zone=open|zone=closed ...]
//
// Without a goal (or with "-") the nearest exit is used.
func runRoute(args []string, out io.Writer, opts ...planner.Option) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: worker route <topology.yaml> <from> [to|-] [zone=state ...]")
	}
	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}
	from, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("from: %w", err)
	}

	rest := args[2:]
	var to *domain.ZoneID
	if len(rest) > 0 && !strings.Contains(rest[0], "=") {
		if rest[0] != "-" {
			v, err := strconv.Atoi(rest[0])
			if err != nil {
				return fmt.Errorf("to: %w", err)
			}
			z := domain.ZoneID(v)
			to = &z
		}
		rest = rest[1:]
	}
	if err := applyMarks(g, rest); err != nil {
		return err
	}

	var route domain.Route
	if to == nil {
		route, err = planner.NearestExit(g, domain.ZoneID(from), opts...)
	} else {
		route, err = planner.FindRoute(g, domain.ZoneID(from), *to, opts...)
	}
	if err != nil {
		return err
	}
	path := route.Path
	if path == nil {
		path = []domain.ZoneID{}
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Found     bool                  `json:"found"`
		Path      []domain.ZoneID       `json:"path"`
		Hops      int                   `json:"hops"`
		Admission domain.Classification `json:"admission,omitempty"`
	}{route.Found(), path, route.Hops(), route.Admission})
}

// applyMarks applies "zone=value" overrides where value is a status or a classification.
func applyMarks(g *graph.ZoneGraph, marks []string) error {
	for _, m := range marks {
		k, v, ok := strings.Cut(m, "=")
		if !ok {
			return fmt.Errorf("bad mark %q, want zone=state", m)
		}
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("bad mark %q: %w", m, err)
		}
		if st, err := domain.ParseStatus(v); err == nil {
			if err := g.SetStatus(domain.ZoneID(id), st); err != nil {
				return err
			}
			continue
		}
		c, err := domain.ParseClassification(v)
		if err != nil {
			return fmt.Errorf("bad mark %q: %w", m, err)
		}
		if err := g.SetClassification(domain.ZoneID(id), c); err != nil {
			return err
		}
	}
	return nil
}
