// Copyright 2020-2021 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Command cozo is a thin driver that exercises the engine from the
// command line: it is not a specified surface (spec.md §1 Non-goals
// exclude CLI/config), only a way to run the worked examples by hand.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/liangxianzhe/cozo"
	"github.com/liangxianzhe/cozo/session"
	"github.com/liangxianzhe/cozo/store"
)

func main() {
	var configPath string

	queryCmd := &cobra.Command{
		Use:           "query <file.json>",
		Short:         "Evaluate a query payload against an inline dataset and print ENTRY's tuples",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runQuery(args[0], cfg)
		},
	}
	queryCmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")

	rootCmd := &cobra.Command{Use: "cozo"}
	rootCmd.AddCommand(queryCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// runQuery loads file as a single JSON document carrying an optional
// "schema" (attribute declarations), an optional "facts" array, and the
// query payload itself (q/since/in/out, per spec.md §6), evaluates it,
// and prints ENTRY's packaged rows as JSON.
func runQuery(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	tx, err := buildTripleStore(doc)
	if err != nil {
		return err
	}

	engineCfg := &cozo.Config{}
	if cfg.Verbose {
		logger := logrus.New()
		logger.SetLevel(logrus.DebugLevel)
		engineCfg.Logger = logger
	}
	if cfg.StorePath != "" {
		engineCfg.NewSession = func() store.Session {
			sess, err := store.NewBoltSession(cfg.StorePath)
			if err != nil {
				panic(err)
			}
			return sess
		}
	}

	engine := cozo.New(tx, engineCfg)
	result, err := engine.Query(doc, session.Background())
	if err != nil {
		return err
	}

	return printResult(result)
}

func printResult(result *cozo.Result) error {
	rows := make([]map[string]interface{}, 0, len(result.Rows))
	for _, row := range result.Rows {
		out := make(map[string]interface{}, len(result.Columns))
		for _, name := range result.Columns {
			out[name] = dataValueToJSON(row[name])
		}
		rows = append(rows, out)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
