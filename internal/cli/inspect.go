package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/morozRed/gbgraph/internal/fileutil"
	"github.com/morozRed/gbgraph/pkg/algo"
	"github.com/morozRed/gbgraph/pkg/gb"
	"github.com/morozRed/gbgraph/pkg/graph"
)

func RunInfo(cmd *cobra.Command, args []string) error {
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}
	path := args[0]

	fi, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	hash, err := fileutil.HashFile(path)
	if err != nil {
		return fmt.Errorf("failed to hash %s: %w", path, err)
	}
	g, err := ReadGraph(path)
	if err != nil {
		return err
	}
	defer g.Free()

	compression := gb.CompressionFor(path).String()
	if isPajekFile(path) {
		compression = "pajek"
	}
	return PrintGraphInfo(GraphInfo{
		Path:        path,
		ID:          g.ID(),
		UtilTypes:   g.Types().String(),
		Order:       g.Order(),
		Size:        g.Size(),
		Compression: compression,
		Bytes:       fi.Size(),
		Hash:        hash,
	}, asJSON)
}

func RunStats(cmd *cobra.Command, args []string) error {
	asJSON, err := boolFlag(cmd, "json")
	if err != nil {
		return err
	}
	g, err := ReadGraph(args[0])
	if err != nil {
		return err
	}
	defer g.Free()

	d := algo.FromGraph(g)
	mean, stddev := d.DegreeStats()
	scc := algo.StronglyConnected(d)
	return PrintGraphStats(GraphStats{
		Path:             args[0],
		Order:            g.Order(),
		Size:             g.Size(),
		Arcs:             d.E(),
		MeanOutdegree:    mean,
		StddevOutdegree:  stddev,
		Components:       scc.Count(),
		LargestComponent: scc.Largest(),
	}, asJSON)
}

func RunDump(cmd *cobra.Command, args []string) error {
	g, err := ReadGraph(args[0])
	if err != nil {
		return err
	}
	defer g.Free()

	fmt.Printf("graph %s (%d vertices, %d arcs)\n", g.ID(), g.Order(), g.Size())
	for v := range g.Vertices() {
		fmt.Printf("%d %s\n", v.Rank(), vertexLabel(v))
		for a := range v.Arcs() {
			fmt.Printf("  -> %s [%d]\n", vertexLabel(a.Tip()), a.Len())
		}
	}
	return nil
}

func vertexLabel(v *graph.Vertex) string {
	switch {
	case v == nil:
		return "null"
	case v == graph.True:
		return "true"
	case v.NameAtom() == nil:
		return fmt.Sprintf("#%d", v.Rank())
	default:
		return fmt.Sprintf("%q", v.Name())
	}
}

func RunConvert(cmd *cobra.Command, args []string) error {
	in, out := args[0], args[1]
	g, err := ReadGraph(in)
	if err != nil {
		return err
	}
	defer g.Free()

	if err := WriteGraph(g, out); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d vertices, %d arcs)\n", out, g.Order(), g.Size())
	return nil
}
