package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ersonp/medsearch-core/internal/domain/entities"
)

func newUpdateCmd() *cobra.Command {
	var (
		medicine entities.Medicine
		name     string
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a medicine in the catalog",
		Long:  "Updates the given fields of a medicine. Fields without a flag keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDeps(func(d *Deps) error {
				existing, err := d.MedicineHandler.HandleGet(cmd.Context(), args[0])
				if err != nil {
					return err
				}

				updated := *existing
				if cmd.Flags().Changed("name") {
					updated.Name = name
				}
				if cmd.Flags().Changed("generic") {
					updated.GenericName = medicine.GenericName
				}
				if cmd.Flags().Changed("brand") {
					updated.BrandName = medicine.BrandName
				}
				if cmd.Flags().Changed("common-names") {
					updated.CommonNames = medicine.CommonNames
				}
				if cmd.Flags().Changed("manufacturer") {
					updated.Manufacturer = medicine.Manufacturer
				}
				if cmd.Flags().Changed("description") {
					updated.Description = medicine.Description
				}
				if cmd.Flags().Changed("category") {
					updated.Category = medicine.Category
				}
				if cmd.Flags().Changed("prescription") {
					updated.PrescriptionRequired = medicine.PrescriptionRequired
				}
				if cmd.Flags().Changed("popularity") {
					updated.PopularityScore = medicine.PopularityScore
				}

				result, err := d.MedicineHandler.HandleUpdate(cmd.Context(), updated)
				if err != nil {
					return fmt.Errorf("updating medicine: %w", err)
				}

				fmt.Printf("Updated %s (id %s)\n", result.Name, result.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	addMedicineFlags(cmd, &medicine)

	return cmd
}
