package export

import (
	"fmt"
	"strings"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/domain"
	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/graph"
)

var fillColors = map[domain.Classification]string{
	domain.ClassSafe:      "#d4edda",
	domain.ClassCautious:  "#fff3cd",
	domain.ClassDangerous: "#f8d7da",
}

// ToDOT renders the building as an undirected Graphviz graph. Edges on route are
// drawn bold; closed zones and doors are dashed.
func ToDOT(g *graph.ZoneGraph, title string, route domain.Route) string {
	var b strings.Builder
	b.WriteString("graph G {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, title))
		b.WriteString("\n")
	}

	onRoute := map[[2]domain.ZoneID]bool{}
	for i := 1; i < len(route.Path); i++ {
		onRoute[edgeKey(route.Path[i-1], route.Path[i])] = true
	}

	for _, z := range g.Zones() {
		label := z.Name
		if label == "" {
			label = fmt.Sprintf("zone %d", z.ID)
		}
		style := "rounded,filled"
		if z.Status == domain.StatusClosed {
			style = "rounded,filled,dashed"
		}
		shape := "box"
		if z.Kind == domain.KindExterior {
			shape = "doubleoctagon"
		}
		b.WriteString(fmt.Sprintf(`  "%d" [label="%s\n%s", shape=%s, style="%s", fillcolor="%s"];`+"\n",
			z.ID, label, z.Classification, shape, style, fillColors[z.Classification]))
	}

	for _, d := range g.Doors() {
		if d.A == d.B {
			continue
		}
		attrs := []string{fmt.Sprintf(`label="door %d"`, d.ID)}
		if d.Status == domain.StatusClosed {
			attrs = append(attrs, "style=dashed", `color="crimson"`)
		}
		if onRoute[edgeKey(d.A, d.B)] && d.Status == domain.StatusOpen {
			attrs = append(attrs, "penwidth=3", `color="#1f77b4"`)
		}
		b.WriteString(fmt.Sprintf(`  "%d" -- "%d" [%s];`+"\n", d.A, d.B, strings.Join(attrs, ", ")))
	}

	b.WriteString("}\n")
	return b.String()
}

func edgeKey(a, b domain.ZoneID) [2]domain.ZoneID {
	if a > b {
		a, b = b, a
	}
	return [2]domain.ZoneID{a, b}
}
