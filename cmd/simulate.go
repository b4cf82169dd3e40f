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
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/retail-lens/rldata/analytics"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate [scenario]",
	Short: "Project lifetime value under behavioral improvement scenarios",
	Long: `Simulate projects what the customer portfolio would be worth if
retention, purchase frequency, or order value improved. The three
levers multiply independently:

    factor = (1 + retention lift) x (1 + frequency lift) x (1 + order value lift)

Name a preset scenario (Conservative, Realistic, Optimistic,
Aggressive) as an argument, or run without arguments and the wizard
will walk you through picking or building one. A scenario with no
changes leaves every customer's value exactly as it is.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		store := loadStore()
		filter := filterFromFlags(cmd)
		view := filter.Apply(store.Transactions)

		scored, err := analytics.ScoreRFM(metricsFor(store, view, filter))
		if err != nil {
			log.Fatal().Err(err).Msg("could not score customers")
		}

		base := analytics.EmpiricalCLV(view)

		var scenario analytics.Scenario
		if len(args) > 0 {
			scenario, err = presetByName(args[0])
			if err != nil {
				fmt.Printf("Scenario '%s' doesn't exist.\n", args[0])
				fmt.Printf("Available presets: %s\n", strings.Join(presetNames(), ", "))
				os.Exit(1)
			}
		} else {
			scenario = scenarioWizard()
		}

		impacts := analytics.Simulate(base, scenario)
		total := analytics.Totals(impacts)

		// Print scenario summary
		{
			p := message.NewPrinter(language.English)
			var sb strings.Builder
			keyword := func(s string) string {
				return lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Render(s)
			}

			fmt.Fprintf(&sb,
				"%s\n\nScenario: %s\nRetention: %s\nFrequency: %s\nOrder Value: %s\nCombined Factor: %s\n\n",
				lipgloss.NewStyle().Bold(true).Render("SCENARIO IMPACT"),
				keyword(scenario.Name),
				keyword(fmt.Sprintf("%+.1f%%", scenario.RetentionChange*100)),
				keyword(fmt.Sprintf("%+.1f%%", scenario.FrequencyChange*100)),
				keyword(fmt.Sprintf("%+.1f%%", scenario.MonetaryChange*100)),
				keyword(fmt.Sprintf("%.3fx", scenario.Factor())),
			)

			fmt.Fprintf(&sb,
				"Customers: %s\nBase CLV: %s\nProjected CLV: %s\nImprovement: %s (%s)",
				keyword(p.Sprintf("%d", total.Customers)),
				keyword(p.Sprintf("%.0f", total.Base)),
				keyword(p.Sprintf("%.0f", total.Projected)),
				keyword(p.Sprintf("%.0f", total.Improvement)),
				keyword(fmt.Sprintf("%+.1f%%", total.ImprovementPct)),
			)

			fmt.Println(
				lipgloss.NewStyle().
					Width(60).
					BorderStyle(lipgloss.RoundedBorder()).
					BorderForeground(lipgloss.Color("63")).
					Padding(1, 2).
					Render(sb.String()),
			)
		}

		// per-segment impact, highest activation priority first
		table := tablewriter.NewTable(os.Stdout,
			tablewriter.WithHeaderAutoFormat(tw.Off),
		)
		table.Header([]string{"Segment", "Customers", "Base CLV", "Projected CLV", "Improvement", "Change"})
		for _, row := range analytics.SegmentImpacts(scored, base, scenario) {
			table.Append([]string{
				row.Segment,
				fmt.Sprintf("%d", row.Customers),
				fmt.Sprintf("%.0f", row.BaseCLV),
				fmt.Sprintf("%.0f", row.ProjectedCLV),
				fmt.Sprintf("%.0f", row.Improvement),
				fmt.Sprintf("%+.1f%%", row.ImprovementPct),
			})
		}
		table.Render()
	},
}

func presetNames() []string {
	presets := analytics.PresetScenarios()
	names := make([]string, 0, len(presets))
	for _, preset := range presets {
		names = append(names, preset.Name)
	}
	return names
}

func presetByName(name string) (analytics.Scenario, error) {
	for _, preset := range analytics.PresetScenarios() {
		if strings.EqualFold(preset.Name, name) {
			return preset, nil
		}
	}
	return analytics.Scenario{}, fmt.Errorf("unknown scenario %q", name)
}

// scenarioWizard walks the user through picking a preset or building a
// custom scenario from percentage lifts.
func scenarioWizard() analytics.Scenario {
	var choice string

	options := make([]huh.Option[string], 0, 5)
	for _, name := range presetNames() {
		options = append(options, huh.NewOption(name, name))
	}
	options = append(options, huh.NewOption("Custom", "Custom"))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Which scenario do you want to simulate?").
				Options(options...).
				Value(&choice),
		),
	)

	if err := form.Run(); err != nil {
		log.Fatal().Err(err).Msg("failed to create wizard")
	}

	if choice != "Custom" {
		scenario, err := presetByName(choice)
		if err != nil {
			log.Fatal().Err(err).Msg("scenario preset disappeared")
		}
		return scenario
	}

	validatePct := func(value string) error {
		_, err := strconv.ParseFloat(value, 64)
		return err
	}

	retention := "0"
	frequency := "0"
	monetary := "0"

	customForm := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Retention lift (%)").
				Value(&retention).
				Validate(validatePct),
			huh.NewInput().
				Title("Purchase frequency lift (%)").
				Value(&frequency).
				Validate(validatePct),
			huh.NewInput().
				Title("Order value lift (%)").
				Value(&monetary).
				Validate(validatePct),
		),
	)

	if err := customForm.Run(); err != nil {
		log.Fatal().Err(err).Msg("failed to create wizard")
	}

	retentionPct, _ := strconv.ParseFloat(retention, 64)
	frequencyPct, _ := strconv.ParseFloat(frequency, 64)
	monetaryPct, _ := strconv.ParseFloat(monetary, 64)

	return analytics.Scenario{
		Name:            "Custom",
		RetentionChange: retentionPct / 100,
		FrequencyChange: frequencyPct / 100,
		MonetaryChange:  monetaryPct / 100,
	}
}

func init() {
	rootCmd.AddCommand(simulateCmd)

	addFilterFlags(simulateCmd)
}
