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
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/jackc/pgx/v5"
	"github.com/pelletier/go-toml/v2"
	"github.com/retail-lens/rldata/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type cliConfig struct {
	Dataset struct {
		Dir     string `toml:"dir"`
		BaseURL string `toml:"base_url"`
	} `toml:"dataset"`
	DB struct {
		URL string `toml:"url"`
	} `toml:"db"`
}

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Gather dataset and warehouse configuration and setup schema",
	Run: func(cmd *cobra.Command, args []string) {
		var config cliConfig

		form := huh.NewForm(
			// Gather details about where the dataset snapshot lives
			huh.NewGroup(
				huh.NewInput().
					Title("Which directory should hold the dataset snapshot?").
					Value(&config.Dataset.Dir),

				huh.NewInput().
					Title("What base URL serves the dataset files? (leave empty to manage the files yourself)").
					Value(&config.Dataset.BaseURL),
			),

			// Get details about the warehouse database
			huh.NewGroup(
				huh.NewInput().
					Title("Provide the DSN for connecting to your PostgreSQL warehouse (postgres://[user[:password]@][netloc][:port][/dbname][?param1=value1&...])").
					Value(&config.DB.URL).
					Validate(func(dsn string) error {
						_, err := pgx.ParseConfig(dsn)
						return err
					}),
			),
		)

		err := form.Run()
		if err != nil {
			log.Fatal().Err(err).Msg("error gathering configuration settings")
		}

		if config.Dataset.Dir != "" {
			if err := os.MkdirAll(config.Dataset.Dir, 0755); err != nil {
				log.Fatal().Err(err).Str("Dir", config.Dataset.Dir).Msg("could not create dataset directory")
			}
		}

		log.Info().Msg("creating warehouse tables")

		// run migration
		dbURL := strings.Replace(config.DB.URL, "postgres://", "pgx5://", -1)
		err = db.Migrate(dbURL)
		if err != nil {
			log.Fatal().Err(err).Msg("error running database migration")
		}

		log.Info().Msg("warehouse tables created")

		// save settings to config file
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatal().Err(err).Msg("could not determine user home directory")
		}

		configFN := filepath.Join(home, ".rldata.toml")
		log.Info().Str("ConfigFile", configFN).Msg("Saving settings to config file")
		configData, err := toml.Marshal(config)
		if err != nil {
			log.Fatal().Err(err).Msg("could not marshal configuration data")
		}

		err = os.WriteFile(configFN, configData, 0644)
		if err != nil {
			log.Fatal().Err(err).Str("FileName", configFN).Msg("could not save configuration to file")
		}

		log.Info().Msg("rldata has been initialized")
	},
}

func init() {
	rootCmd.AddCommand(initCmd)

	// Here you will define your flags and configuration settings.

	// Cobra supports Persistent Flags which will work for this command
	// and all subcommands, e.g.:
	// initCmd.PersistentFlags().String("foo", "", "A help for foo")

	// Cobra supports local flags which will only run when this command
	// is called directly, e.g.:
	// initCmd.Flags().BoolP("toggle", "t", false, "Help message for toggle")
}
