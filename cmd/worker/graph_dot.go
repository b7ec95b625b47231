package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph/export"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/planner"
)

// runDOT writes the topology as Graphviz:
//
//	worker dot <topology.yaml> <out.dot> [from]
func runDOT(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: worker dot <topology.yaml> <out.dot> [from]")
	}
	g, err := loadGraph(args[0])
	if err != nil {
		return err
	}

	route := domain.NoRoute
	if len(args) > 2 {
		from, err := strconv.Atoi(args[2])
		if err != nil {
			return fmt.Errorf("from: %w", err)
		}
		route, err = planner.NearestExit(g, domain.ZoneID(from))
		if err != nil {
			return err
		}
	}
	return os.WriteFile(args[1], []byte(export.ToDOT(g, args[0], route)), 0o644)
}
