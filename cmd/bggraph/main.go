// Command bggraph renders a bg_map.json as a Graphviz transition graph.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/goccy/go-graphviz"
	"github.com/jessevdk/go-flags"

	"gal-bgmap/internal/game"
)

type options struct {
	Args struct {
		MapFile string `positional-arg-name:"BG_MAP" required:"true" description:"bg_map.json produced by bgmap"`
		Out     string `positional-arg-name:"OUT" required:"true" description:"Output file (DOT, or SVG with --svg)"`
	} `positional-args:"true"`

	SVG bool `long:"svg" description:"Render SVG through Graphviz instead of writing DOT"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
	if err := run(&opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// node is a (map, room) pair; edge is one transition between two nodes.
type node [2]int

type edge struct {
	from node
	to   node
}

func run(opts *options) error {
	data, err := os.ReadFile(opts.Args.MapFile)
	if err != nil {
		return err
	}

	var rows [][2]json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("parse %s: %w", opts.Args.MapFile, err)
	}

	// Count images per edge, keeping file order for nodes and edges so
	// repeated runs emit identical DOT.
	images := make(map[edge]int)
	seen := make(map[node]bool)
	var nodeOrder []node
	var edgeOrder []edge
	for i, row := range rows {
		var key [4]int
		if err := json.Unmarshal(row[0], &key); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		var img string
		if err := json.Unmarshal(row[1], &img); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		e := edge{from: node{key[0], key[1]}, to: node{key[2], key[3]}}
		for _, n := range []node{e.from, e.to} {
			if !seen[n] {
				seen[n] = true
				nodeOrder = append(nodeOrder, n)
			}
		}
		if images[e] == 0 {
			edgeOrder = append(edgeOrder, e)
		}
		images[e]++
	}

	dot := toDOT(nodeOrder, edgeOrder, images)
	out := []byte(dot)
	if opts.SVG {
		if out, err = renderSVG(dot); err != nil {
			return err
		}
	}
	return os.WriteFile(opts.Args.Out, out, 0o644)
}

func toDOT(nodes []node, edges []edge, images map[edge]int) string {
	var buf bytes.Buffer
	buf.WriteString("digraph transitions {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		label := fmt.Sprintf("%s\nroom %d", game.Map(n[0]), n[1])
		fmt.Fprintf(&buf, "  %q [label=%q];\n", nodeID(n), label)
	}

	buf.WriteString("\n")
	for _, e := range edges {
		fmt.Fprintf(&buf, "  %q -> %q [label=\"%d\"];\n", nodeID(e.from), nodeID(e.to), images[e])
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(n node) string {
	return fmt.Sprintf("%d/%d", n[0], n[1])
}

func renderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
