package cmd

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/seralba/notedex/internal/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Explore the vault link graph",
	Long: `Structural queries over the link graph built from wiki-links and
frontmatter relationships. Documents can be named by ID, title, or filename
stem.`,
}

var graphRelatedCmd = &cobra.Command{
	Use:   "related [document]",
	Short: "List documents within N link hops of a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runGraphRelated,
}

var graphPathCmd = &cobra.Command{
	Use:   "path [from] [to]",
	Short: "Show the shortest link path between two notes",
	Args:  cobra.ExactArgs(2),
	RunE:  runGraphPath,
}

var graphOrphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List documents with no links in or out",
	Args:  cobra.NoArgs,
	RunE:  runGraphOrphans,
}

var graphHubsCmd = &cobra.Command{
	Use:   "hubs",
	Short: "List the most-linked documents",
	Args:  cobra.NoArgs,
	RunE:  runGraphHubs,
}

func init() {
	graphRelatedCmd.Flags().Int("depth", 2, "maximum link distance")
	graphHubsCmd.Flags().Int("limit", 15, "number of hubs to show")
	for _, c := range []*cobra.Command{graphRelatedCmd, graphPathCmd, graphOrphansCmd, graphHubsCmd} {
		c.Flags().Bool("json", false, "output as JSON")
	}
	graphCmd.AddCommand(graphRelatedCmd, graphPathCmd, graphOrphansCmd, graphHubsCmd)
	rootCmd.AddCommand(graphCmd)
}

// The --json output shapes. Tables show the same fields.
type relatedNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Distance int    `json:"distance"`
}

type pathOutput struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Found bool     `json:"found"`
	Path  []string `json:"path"`
	Hops  int      `json:"hops"`
}

type hubNode struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Degree int    `json:"degree"`
}

func runGraphRelated(cmd *cobra.Command, args []string) error {
	depth, _ := cmd.Flags().GetInt("depth")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	snap, err := loadSnapshot()
	if err != nil || snap == nil {
		return err
	}

	id, err := resolveNode(snap, args[0])
	if err != nil {
		return err
	}

	reachable := snap.BFS(id, depth)

	if jsonOutput {
		rows := make([]relatedNode, 0, len(reachable))
		for _, r := range reachable {
			rows = append(rows, relatedNode{ID: r.ID, Title: nodeTitle(snap, r.ID), Distance: r.Distance})
		}
		return printJSON(rows)
	}

	if len(reachable) == 0 {
		fmt.Printf("%s has no links within %d hops.\n", id, depth)
		return nil
	}

	fmt.Printf("Documents within %d hops of %s:\n\n", depth, id)
	for _, r := range reachable {
		fmt.Printf("  %d  %s (%s)\n", r.Distance, nodeTitle(snap, r.ID), r.ID)
	}
	return nil
}

func runGraphPath(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil || snap == nil {
		return err
	}

	from, err := resolveNode(snap, args[0])
	if err != nil {
		return err
	}
	to, err := resolveNode(snap, args[1])
	if err != nil {
		return err
	}

	route := snap.ShortestPath(from, to)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		out := pathOutput{From: from, To: to, Found: route != nil, Path: route}
		if out.Path == nil {
			out.Path = []string{}
		} else {
			out.Hops = len(route) - 1
		}
		return printJSON(out)
	}

	if route == nil {
		fmt.Printf("No path between %s and %s.\n", from, to)
		return nil
	}

	fmt.Printf("%s (%d hops)\n", strings.Join(route, " -> "), len(route)-1)
	return nil
}

func runGraphOrphans(cmd *cobra.Command, args []string) error {
	snap, err := loadSnapshot()
	if err != nil || snap == nil {
		return err
	}

	orphans := snap.Orphans()

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		if orphans == nil {
			orphans = []string{}
		}
		return printJSON(orphans)
	}

	if len(orphans) == 0 {
		fmt.Println("No orphaned documents.")
		return nil
	}

	fmt.Printf("%d orphaned documents (no links in or out):\n\n", len(orphans))
	for _, id := range orphans {
		fmt.Printf("  %s\n", id)
	}
	return nil
}

func runGraphHubs(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	snap, err := loadSnapshot()
	if err != nil || snap == nil {
		return err
	}

	hubs := snap.Hubs(limit)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		rows := make([]hubNode, 0, len(hubs))
		for _, h := range hubs {
			rows = append(rows, hubNode{ID: h.ID, Title: nodeTitle(snap, h.ID), Degree: h.Degree})
		}
		return printJSON(rows)
	}

	if len(hubs) == 0 {
		fmt.Println("No linked documents yet.")
		return nil
	}

	fmt.Printf("Top %d documents by link degree:\n\n", len(hubs))
	for i, h := range hubs {
		fmt.Printf("  %d. %s (%s, %d links)\n", i+1, nodeTitle(snap, h.ID), h.ID, h.Degree)
	}
	return nil
}

// loadSnapshot loads the graph artifact. A missing or empty graph prints a
// build hint and returns (nil, nil); callers bail out on a nil snapshot.
func loadSnapshot() (*graph.Snapshot, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	snap := &graph.Snapshot{}
	ok, err := loadArtifact(cfg.GraphPath(), snap)
	if err != nil {
		return nil, err
	}
	if !ok || len(snap.Nodes) == 0 {
		fmt.Println("Graph is empty. Run `notedex build graph` first.")
		return nil, nil
	}
	return snap, nil
}

// resolveNode maps a user-supplied name to a node ID: exact ID first, then
// case-insensitive title or filename stem. Ambiguous names list the matches.
func resolveNode(snap *graph.Snapshot, name string) (string, error) {
	if _, ok := snap.Nodes[name]; ok {
		return name, nil
	}

	want := strings.ToLower(name)
	var matches []string
	for id, n := range snap.Nodes {
		if strings.ToLower(n.Title) == want || strings.ToLower(stem(id)) == want {
			matches = append(matches, id)
		}
	}
	sort.Strings(matches)

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no document matches %q", name)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q is ambiguous: %s", name, strings.Join(matches, ", "))
	}
}

func nodeTitle(snap *graph.Snapshot, id string) string {
	if n := snap.Nodes[id]; n != nil && n.Title != "" {
		return n.Title
	}
	return stem(id)
}

func stem(id string) string {
	base := path.Base(id)
	return strings.TrimSuffix(base, path.Ext(base))
}
