package main

import (
	"context"
	"fmt"

	"sankey/internal/config"
	"sankey/pkg/logger"
	"sankey/pkg/olca"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// inspectCommand dumps what the connected engine knows: product systems with
// their process links and reference process, plus impact methods and their
// categories. Useful when a database looks empty from the frontend.
func inspectCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Dumps product systems and impact methods from the engine",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()

			cl, err := getGateway(cfg).Client(ctx)
			if err != nil {
				logger.Fatal(ctx, "could not connect to engine", zap.Error(err))
			}

			if err := inspectSystems(ctx, cl); err != nil {
				logger.Fatal(ctx, "could not inspect product systems", zap.Error(err))
			}
			if err := inspectMethods(ctx, cl); err != nil {
				logger.Fatal(ctx, "could not inspect impact methods", zap.Error(err))
			}
		},
	}

	return cmd
}

//nolint: forbidigo
func inspectSystems(ctx context.Context, cl olca.Client) error {
	systems, err := cl.GetDescriptors(ctx, olca.ModelProductSystem)
	if err != nil {
		return fmt.Errorf("could not list product systems: %w", err)
	}
	fmt.Printf("Found %d product systems\n", len(systems))
	if len(systems) == 0 {
		return nil
	}

	system, err := cl.GetProductSystem(ctx, systems[0].ID)
	if err != nil {
		return fmt.Errorf("could not load product system: %w", err)
	}
	fmt.Printf("Inspecting first system: %s (%s)\n", system.Name, system.ID)

	if len(system.ProcessLinks) > 0 {
		fmt.Printf("  Process links: %d\n", len(system.ProcessLinks))
		for i, link := range system.ProcessLinks {
			if i >= 5 {
				break
			}
			fmt.Printf("    %s -> %s -> %s\n",
				refName(link.Provider), refName(link.Flow), refName(link.Process))
		}
	} else {
		fmt.Println("  No process links found in system")
	}

	if system.RefProcess == nil {
		return nil
	}
	fmt.Printf("  Reference process: %s\n", system.RefProcess.Name)
	proc, err := cl.GetProcess(ctx, system.RefProcess.ID)
	if err != nil {
		return fmt.Errorf("could not load reference process: %w", err)
	}
	fmt.Printf("  Exchanges: %d\n", len(proc.Exchanges))
	for _, exc := range proc.Exchanges {
		provider := "None"
		if exc.DefaultProvider != nil {
			provider = exc.DefaultProvider.Name
		}
		fmt.Printf("    flow=%s input=%t provider=%s\n", refName(exc.Flow), exc.IsInput, provider)
	}

	return nil
}

//nolint: forbidigo
func inspectMethods(ctx context.Context, cl olca.Client) error {
	methods, err := cl.GetDescriptors(ctx, olca.ModelImpactMethod)
	if err != nil {
		return fmt.Errorf("could not list impact methods: %w", err)
	}
	fmt.Printf("Found %d impact methods\n", len(methods))

	for i, m := range methods {
		if i >= 3 {
			break
		}
		method, err := cl.GetImpactMethod(ctx, m.ID)
		if err != nil {
			return fmt.Errorf("could not load impact method: %w", err)
		}
		fmt.Printf("  %s: %d categories\n", method.Name, len(method.ImpactCategories))
		for j, catRef := range method.ImpactCategories {
			if j >= 3 {
				break
			}
			unit := "?"
			if cat, err := cl.GetImpactCategory(ctx, catRef.ID); err == nil {
				unit = cat.RefUnit
			}
			fmt.Printf("    - %s [%s]\n", catRef.Name, unit)
		}
	}

	return nil
}

func refName(ref *olca.Ref) string {
	if ref == nil {
		return "Unknown"
	}

	return ref.Name
}
