package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yourorg/mls-search-api/internal/env"
	"github.com/yourorg/mls-search-api/listing"
	"github.com/yourorg/mls-search-api/mls"
)

type options struct {
	source  string
	baseURL string
	timeout time.Duration
	listing bool
	city    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "mlssearch",
		Short: "Query the MLS search proxy from the command line",
		Long: `mlssearch calls the /api/<provider>/search endpoints of a running
mls-search-api and prints the results as JSON.

Examples:
  mlssearch mls 23456789
  mlssearch address "Alder" --city Portland
  mlssearch mls 2101234 --source nwmls --listing`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.source, "source", string(mls.SourceRMLS), "MLS source tag (rmls, nwmls)")
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", env.Get("MLS_PROXY_URL", "http://localhost:4002"), "proxy base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "request timeout")
	root.PersistentFlags().BoolVar(&opts.listing, "listing", false, "print adapted property listings instead of raw results")

	mlsCmd := &cobra.Command{
		Use:   "mls <number>",
		Short: "Search by MLS number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, mls.Query{MLS: args[0]})
		},
	}
	addressCmd := &cobra.Command{
		Use:   "address <text>",
		Short: "Search by street address",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, opts, mls.Query{Address: strings.Join(args, " "), City: opts.city})
		},
	}
	addressCmd.Flags().StringVar(&opts.city, "city", "", "restrict to a city")

	root.AddCommand(mlsCmd, addressCmd)
	return root
}

func runSearch(cmd *cobra.Command, opts *options, q mls.Query) error {
	source, err := mls.ParseSource(opts.source)
	if err != nil {
		return err
	}
	if _, err := q.Normalize(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
	defer cancel()

	client := listing.NewClient(listing.ClientConfig{BaseURL: opts.baseURL, Timeout: opts.timeout})
	var resp mls.Response
	if q.MLS != "" {
		resp = client.SearchByMLS(ctx, q.MLS, source)
	} else {
		resp = client.SearchByAddress(ctx, q.Address, q.City, source)
	}

	if err := printResponse(cmd.OutOrStdout(), resp, opts.listing); err != nil {
		return err
	}
	if resp.Demo && resp.Hint != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), "note:", resp.Hint)
	}
	if resp.Error != "" {
		return errors.New(describe(resp))
	}
	return nil
}

func printResponse(w io.Writer, resp mls.Response, asListings bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if !asListings {
		return enc.Encode(resp)
	}
	out := make([]listing.PropertyListing, 0, len(resp.Results))
	for _, r := range resp.Results {
		out = append(out, listing.FromSearchResult(r))
	}
	return enc.Encode(out)
}

func describe(resp mls.Response) string {
	msg := resp.Error
	if resp.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, resp.Status)
	}
	if resp.Detail != "" {
		msg += ": " + resp.Detail
	}
	return msg
}
