package main

import (
	"fmt"

	"sankey/internal/config"
	"sankey/internal/sankey"
	"sankey/pkg/logger"
	"sankey/pkg/olca"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// calcCommand runs one full calculation end to end and prints a diagram
// summary, which exercises the same path the sankey endpoint serves.
func calcCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Runs a calculation for a product system and prints the diagram",
		//nolint: forbidigo
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			systemID, _ := cmd.Flags().GetString("system")
			methodID, _ := cmd.Flags().GetString("method")
			categoryID, _ := cmd.Flags().GetString("category")
			maxNodes, _ := cmd.Flags().GetInt("max-nodes")
			minShare, _ := cmd.Flags().GetFloat64("min-share")

			gw := getGateway(cfg)

			if systemID == "" {
				cl, err := gw.Client(ctx)
				if err != nil {
					logger.Fatal(ctx, "could not connect to engine", zap.Error(err))
				}
				systems, err := cl.GetDescriptors(ctx, olca.ModelProductSystem)
				if err != nil || len(systems) == 0 {
					logger.Fatal(ctx, "no product systems found", zap.Error(err))
				}
				systemID = systems[0].ID
				fmt.Printf("Using first product system: %s (%s)\n", systems[0].Name, systemID)
			}

			svc := sankey.New(gw, sankey.NewOptions(cfg))
			diagram, err := svc.Build(ctx, systemID, sankey.Params{
				ImpactMethodID:   methodID,
				ImpactCategoryID: categoryID,
				MaxNodes:         maxNodes,
				MinShare:         minShare,
			})
			if err != nil {
				logger.Fatal(ctx, "could not build sankey diagram", zap.Error(err))
			}

			fmt.Printf("Category: %s\n", diagram.ImpactCategory)
			fmt.Printf("Total impact: %g %s\n", diagram.TotalImpact, diagram.ImpactUnit)
			fmt.Printf("Nodes: %d, Links: %d, Root: %d\n",
				len(diagram.Nodes), len(diagram.Links), diagram.RootIndex)
			for _, node := range diagram.Nodes {
				root := ""
				if node.IsRoot {
					root = " [ROOT]"
				}
				fmt.Printf("  %s (%s): direct=%.6f (%.2f%%) upstream=%.6f (%.2f%%)%s\n",
					node.Name, node.FlowName,
					node.Direct, node.DirectPct,
					node.Upstream, node.UpstreamPct, root)
			}
		},
	}

	cmd.Flags().String("system", "", "Product system ID (default: first in database)")
	cmd.Flags().String("method", "", "Impact method ID (default: first in database)")
	cmd.Flags().String("category", "", "Impact category ID (default: largest total impact)")
	cmd.Flags().Int("max-nodes", 15, "Maximum number of graph nodes")
	cmd.Flags().Float64("min-share", 0, "Minimum contribution share in percent")

	return cmd
}
