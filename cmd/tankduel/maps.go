package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tankduel/internal/maps"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List obstacle maps",
	Long: `Shows the built-in obstacle maps and any found under --maps-dir.

A map file is YAML with a 20-column grid of 0/1 rows, for example:

  id: arena
  name: Arena
  columns: 20
  rows:
    - "00000000000000000000"
    - "00000011111110000000"`,
	Args: cobra.NoArgs,
	RunE: runMaps,
}

func runMaps(_ *cobra.Command, _ []string) error {
	if settings.MapsDir != "" {
		layouts, err := maps.NewLoader(settings.MapsDir).LoadAll()
		if err != nil {
			return err
		}
		if err := maps.RegisterAll(layouts); err != nil {
			return err
		}
	}

	list := maps.List()
	if len(list) == 0 {
		fmt.Println("No maps available.")
		return nil
	}

	fmt.Println("Available maps:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, m := range list {
		maxIDLen = max(maxIDLen, len(m.ID))
	}

	fmt.Printf("  %-*s  %-6s  %-8s  %s\n", maxIDLen, "ID", "Bricks", "Source", "Name")
	fmt.Printf("  %-*s  %-6s  %-8s  %s\n", maxIDLen, "--", "------", "------", "----")

	for _, m := range list {
		source := "custom"
		if m.BuiltIn {
			source = "built-in"
		}
		fmt.Printf("  %-*s  %-6d  %-8s  %s\n", maxIDLen, m.ID, m.Bricks, source, m.Name)
	}

	fmt.Println()
	fmt.Println("Run 'tankduel play --map <id>' to duel on a map.")
	return nil
}
