package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentinelai/sentinel-backend/internal/zone_navigation/planner"
)

var routePolicy string

var rootCmd = &cobra.Command{
	Use:   "worker",
	Short: "Offline tools for building topologies",
	Long: `Offline tools for building topologies.

Examples:
  worker check config/mall.yaml
  worker route config/mall.yaml 4 9 8=dangerous
  worker route config/mall.yaml 0 - 8=closed
  worker route --policy strict config/mall.yaml 5 - 7=dangerous
  worker dot config/mall.yaml mall.dot 4`,
	SilenceUsage: true,
}

var checkCmd = &cobra.Command{
	Use:   "check <topology.yaml>",
	Short: "Validate a topology file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(args)
	},
}

var routeCmd = &cobra.Command{
	Use:   "route <topology.yaml> <from> [to|-] [zone=state ...]",
	Short: "Plan a route, to the nearest exit when no goal is given",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := planner.ParsePolicy(routePolicy)
		if err != nil {
			return err
		}
		return runRoute(args, cmd.OutOrStdout(), planner.WithPolicy(p))
	},
}

var dotCmd = &cobra.Command{
	Use:   "dot <topology.yaml> <out.dot> [from]",
	Short: "Render the topology as Graphviz, highlighting the exit route from a zone",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDOT(args)
	},
}

func init() {
	routeCmd.Flags().StringVar(&routePolicy, "policy", "danger-fallback", "route policy: danger-fallback or strict")
	rootCmd.AddCommand(checkCmd, routeCmd, dotCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}
