package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/Lixing-Zhang/campus-food-finder/internal/service"
)

func newSearchCmd(opts *options) *cobra.Command {
	var req service.SearchRequest

	cmd := &cobra.Command{
		Use:   "search QUERY...",
		Short: "Search menu items by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := opts.clock()
			if err != nil {
				return err
			}
			repo, err := opts.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			req.Query = strings.Join(args, " ")
			resp, err := service.NewSearchService(repo, clock).Search(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printSearch(cmd.OutOrStdout(), resp)
		},
	}
	cmd.Flags().StringSliceVarP(&req.Buildings, "building", "b", nil, "Restrict to building IDs")
	cmd.Flags().StringSliceVarP(&req.Tags, "tag", "t", nil, "Dietary filter: vegan, dairy-free, gluten-free, halal")
	cmd.Flags().BoolVar(&req.OpenOnly, "open", false, "Only vendors open at the evaluated time")
	return cmd
}

func newHoursCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "hours BUILDING_ID VENDOR_ID",
		Short: "Show a vendor's weekly hours, current state and menu",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clock, err := opts.clock()
			if err != nil {
				return err
			}
			repo, err := opts.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			detail, err := service.NewVendorService(repo, clock).GetVendor(cmd.Context(), args[0], args[1])
			if err != nil {
				return fmt.Errorf("%s/%s: %w", args[0], args[1], err)
			}
			return printVendor(cmd.OutOrStdout(), detail)
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load every catalog and report problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := opts.load(cmd.Context(), cmd)
			if err != nil {
				return err
			}

			stats := repo.Stats()
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok: %d buildings, %d vendors, %d menu items from %d sources\n",
				stats.Buildings, stats.Vendors, stats.MenuItems, len(stats.Sources))
			return err
		},
	}
}

func printSearch(out io.Writer, resp *service.SearchResponse) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tPRICE\tVENDOR\tBUILDING\tSTATUS\tTAGS")
	for _, hit := range resp.Results {
		status := service.StatusClosed
		if hit.VendorOpen {
			status = service.StatusOpen
		}
		tags := make([]string, len(hit.Tags))
		for i, t := range hit.Tags {
			tags[i] = string(t)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			hit.ItemName, hit.Price, hit.VendorName, hit.BuildingID, status, strings.Join(tags, ", "))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(out, "%d results\n", resp.Count)
	return err
}

func printVendor(out io.Writer, d *service.VendorDetail) error {
	fmt.Fprintf(out, "%s (%s)\n", d.Name, d.BuildingName)
	fmt.Fprintf(out, "%s · %s\n\n", d.Status, d.NextChange)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, day := range d.Week {
		marker := " "
		if day.Today {
			marker = "*"
		}
		fmt.Fprintf(tw, "%s %s\t%s\n", marker, day.Day, day.Hours)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, section := range d.Sections {
		fmt.Fprintf(out, "\n%s\n", section.Name)
		tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		for _, item := range section.Items {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", item.Name, item.Price, item.TagsText)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}
