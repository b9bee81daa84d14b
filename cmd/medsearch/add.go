package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

func newAddCmd() *cobra.Command {
	var medicine entities.Medicine

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a medicine to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				medicine.Name = args[0]
				created, err := d.MedicineHandler.HandleCreate(cmd.Context(), medicine)
				if err != nil {
					return fmt.Errorf("adding medicine: %w", err)
				}

				fmt.Printf("Added %s (id %s)\n", created.Name, created.ID)
				return nil
			})
		},
	}

	addMedicineFlags(cmd, &medicine)

	return cmd
}

// addMedicineFlags registers the shared medicine field flags used by add
// and update.
func addMedicineFlags(cmd *cobra.Command, m *entities.Medicine) {
	cmd.Flags().StringVar(&m.GenericName, "generic", "", "Generic name")
	cmd.Flags().StringVar(&m.BrandName, "brand", "", "Brand name")
	cmd.Flags().StringSliceVar(&m.CommonNames, "common-names", nil, "Common aliases (comma separated)")
	cmd.Flags().StringVar(&m.Manufacturer, "manufacturer", "", "Manufacturer")
	cmd.Flags().StringVar(&m.Description, "description", "", "Short description")
	cmd.Flags().StringVar(&m.Category, "category", "", "Category (tablet, capsule, syrup, ...)")
	cmd.Flags().BoolVar(&m.PrescriptionRequired, "prescription", false, "Prescription required")
	cmd.Flags().IntVar(&m.PopularityScore, "popularity", 0, "Popularity score")
}
