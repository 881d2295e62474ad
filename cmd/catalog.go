package cmd

import (
	"fmt"
	"strconv"

	"github.com/abhisek/quotafill/internal/catalog"
	"github.com/abhisek/quotafill/internal/config"
	"github.com/spf13/cobra"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Inspect exercise catalogs",
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show candidate exercises per skill",
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		ids := cat.SkillIDs()
		if len(ids) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No catalog candidates.")
			return nil
		}

		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			candidates := cat.CandidatesFor(id)
			exIDs := make([]string, len(candidates))
			for i, ex := range candidates {
				exIDs[i] = ex.ID
			}
			rows = append(rows, []string{id, strconv.Itoa(len(candidates)), idList(exIDs)})
		}
		renderTable(cmd.OutOrStdout(), tableSpec{
			Headers: []string{"Skill", "Candidates", "IDs"},
			Aligns:  []columnAlignment{alignLeft, alignRight, alignLeft},
			Rows:    rows,
			Footer:  []string{fmt.Sprintf("%d skills", len(ids)), strconv.Itoa(cat.Len()), ""},
		})
		return nil
	},
}

var catalogCheckCmd = &cobra.Command{
	Use:   "check <file>...",
	Short: "Validate catalog files without applying them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, p := range args {
			path, err := config.ExpandPath(p)
			if err != nil {
				return err
			}
			cat, err := catalog.LoadFile(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d candidates for %d skills\n", p, cat.Len(), len(cat.SkillIDs()))
		}
		return nil
	},
}

func init() {
	addCatalogFlags(catalogListCmd)

	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogCheckCmd)
}
