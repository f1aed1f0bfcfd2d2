// Command listings searches a property catalog from the terminal using the
// same engine as the API.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/stwalsh4118/homestead/internal/logger"
	"github.com/stwalsh4118/homestead/internal/models"
	"github.com/stwalsh4118/homestead/internal/repository"
	"github.com/stwalsh4118/homestead/internal/services"
)

const searchExample = `  listings search --query kampala --type house --sort price-asc
  listings search --min-price 500000000 --bedrooms 3`

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// catalogOptions are shared by every subcommand.
type catalogOptions struct {
	file       string
	unapproved bool
}

func (o *catalogOptions) service() (services.PropertyService, error) {
	repo, err := repository.OpenMemoryCatalog(o.file)
	if err != nil {
		return nil, err
	}
	return services.NewPropertyService(repo, logger.Nop(), services.Options{
		ApprovedOnly: !o.unapproved,
	}), nil
}

func newRootCmd() *cobra.Command {
	opts := &catalogOptions{}

	root := &cobra.Command{
		Use:          "listings",
		Short:        "Query a property catalog",
		Long:         `Runs catalog searches offline against a YAML catalog, or the bundled seed catalog when none is given.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.file, "catalog", "", "YAML catalog file (default: bundled seed catalog)")
	root.PersistentFlags().BoolVar(&opts.unapproved, "include-unapproved", false, "include listings awaiting approval")

	root.AddCommand(newSearchCmd(opts), newCitiesCmd(opts))
	return root
}

func newSearchCmd(opts *catalogOptions) *cobra.Command {
	f := models.DefaultFilters()
	var propertyType, status, sortBy string

	cmd := &cobra.Command{
		Use:     "search",
		Short:   "Filter and sort the catalog",
		Example: searchExample,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f.PropertyType = models.PropertyType(propertyType)
			if f.PropertyType != "" && !f.PropertyType.Valid() {
				return fmt.Errorf("unknown property type %q", propertyType)
			}
			f.Status = models.ListingStatus(status)
			if f.Status != "" && !f.Status.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			f.SortBy = models.SortOrder(sortBy)
			if !f.SortBy.Valid() {
				return fmt.Errorf("unknown sort order %q", sortBy)
			}
			if f.MinPrice < 0 || f.MaxPrice < 0 || f.Bedrooms < 0 || f.Bathrooms < 0 {
				return fmt.Errorf("prices and room counts must be non-negative")
			}
			if f.MaxPrice == 0 {
				f.MaxPrice = models.MaxPriceUnbounded
			}

			svc, err := opts.service()
			if err != nil {
				return err
			}
			result, err := svc.Search(cmd.Context(), f)
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), map[string]interface{}{
				"properties":       result.Properties,
				"total":            result.Total,
				"hasActiveFilters": result.HasActiveFilters,
				"filters":          result.Filters,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.Query, "query", "q", "", "text to find in title, description, city or district")
	flags.StringVar(&propertyType, "type", "", "apartment, house, land or commercial")
	flags.StringVar(&status, "status", "", "for-sale, for-rent, sold or rented")
	flags.StringVar(&f.City, "city", "", "exact city name")
	flags.Int64Var(&f.MinPrice, "min-price", f.MinPrice, "lowest price, inclusive")
	flags.Int64Var(&f.MaxPrice, "max-price", f.MaxPrice, "highest price, inclusive (0 means no limit)")
	flags.IntVar(&f.Bedrooms, "bedrooms", 0, "minimum bedrooms")
	flags.IntVar(&f.Bathrooms, "bathrooms", 0, "minimum bathrooms")
	flags.StringVar(&sortBy, "sort", string(models.SortNewest), "newest, oldest, price-asc or price-desc")

	return cmd
}

func newCitiesCmd(opts *catalogOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cities",
		Short: "List the distinct cities in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := opts.service()
			if err != nil {
				return err
			}
			cities, err := svc.Cities(cmd.Context())
			if err != nil {
				return err
			}
			for _, city := range cities {
				fmt.Fprintln(cmd.OutOrStdout(), city)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
