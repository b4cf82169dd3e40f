// Copyright 2024
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/retail-lens/rldata/analytics"
	"github.com/retail-lens/rldata/data"
	"github.com/retail-lens/rldata/dataset"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// datasets caches loaded snapshots by content fingerprint so commands
// that run in-process (refresh, tests) never parse the same files twice.
var datasets = dataset.NewCache()

// loadStore loads the dataset snapshot configured under dataset.dir.
func loadStore() *dataset.Store {
	store, err := datasets.Load(viper.GetString("dataset.dir"))
	if err != nil {
		log.Fatal().Err(err).Msg("could not load dataset")
	}
	return store
}

// addFilterFlags registers the view filter flags shared by the analysis
// commands.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("start-date", "", "ignore transactions before this date (YYYY-MM-DD)")
	cmd.Flags().String("end-date", "", "ignore transactions after this date (YYYY-MM-DD)")
	cmd.Flags().StringSlice("country", nil, "restrict the view to these countries")
	cmd.Flags().Float64("min-amount", 0, "ignore transactions below this amount")
}

// filterFromFlags builds a transaction view filter from command flags.
// End dates cover the whole named day.
func filterFromFlags(cmd *cobra.Command) *dataset.Filter {
	filter := &dataset.Filter{}

	if value, _ := cmd.Flags().GetString("start-date"); value != "" {
		when, err := time.Parse("2006-01-02", value)
		if err != nil {
			log.Fatal().Err(err).Str("StartDate", value).Msg("could not parse start date")
		}
		filter.StartDate = when
	}

	if value, _ := cmd.Flags().GetString("end-date"); value != "" {
		when, err := time.Parse("2006-01-02", value)
		if err != nil {
			log.Fatal().Err(err).Str("EndDate", value).Msg("could not parse end date")
		}
		filter.EndDate = when.AddDate(0, 0, 1).Add(-time.Second)
	}

	filter.Countries, _ = cmd.Flags().GetStringSlice("country")
	filter.MinAmount, _ = cmd.Flags().GetFloat64("min-amount")

	return filter
}

// describeFilter renders a filter for run records and log lines.
func describeFilter(filter *dataset.Filter) string {
	if filter.Empty() {
		return ""
	}

	parts := make([]string, 0, 3)
	if !filter.StartDate.IsZero() || !filter.EndDate.IsZero() {
		start := "begin"
		if !filter.StartDate.IsZero() {
			start = filter.StartDate.Format("2006-01-02")
		}
		end := "end"
		if !filter.EndDate.IsZero() {
			end = filter.EndDate.Format("2006-01-02")
		}
		parts = append(parts, fmt.Sprintf("%s to %s", start, end))
	}
	if len(filter.Countries) > 0 {
		parts = append(parts, fmt.Sprintf("countries: %s", strings.Join(filter.Countries, ", ")))
	}
	if filter.MinAmount > 0 {
		parts = append(parts, fmt.Sprintf("min amount %.2f", filter.MinAmount))
	}

	return strings.Join(parts, "; ")
}

// metricsFor returns the prepared RFM metrics on unfiltered views and
// re-derives them from the view otherwise, anchored one day past the
// view's last transaction.
func metricsFor(store *dataset.Store, view []*data.Transaction, filter *dataset.Filter) []*data.RFMMetric {
	if filter.Empty() || len(view) == 0 {
		return store.RFMMetrics
	}

	var last time.Time
	for _, trx := range view {
		if trx.InvoiceDate.After(last) {
			last = trx.InvoiceDate.Time
		}
	}

	return analytics.DeriveRFM(view, data.CSVDate{Time: last.Add(24 * time.Hour)})
}

// clvParams assembles lifetime value rates from config, falling back to
// the planning defaults.
func clvParams() analytics.CLVParams {
	params := analytics.DefaultCLVParams()
	if viper.IsSet("clv.retention") {
		params.Retention = viper.GetFloat64("clv.retention")
	}
	if viper.IsSet("clv.discount") {
		params.Discount = viper.GetFloat64("clv.discount")
	}
	if viper.IsSet("clv.margin") {
		params.Margin = viper.GetFloat64("clv.margin")
	}
	return params
}
