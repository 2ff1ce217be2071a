/*
Copyright 2025 AllThrive Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/allthrive/allthrive"
	"github.com/allthrive/allthrive/config"
	"github.com/allthrive/allthrive/database"
	"github.com/allthrive/allthrive/internal/notification"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CLI wraps the root Cobra command for the application.
type CLI struct {
	cmd *cobra.Command
}

// allthriveInstance holds the runtime service instance and its configuration,
// shared across every subcommand.
type allthriveInstance struct {
	service *allthrive.AllThrive
	cnf     *config.Configuration
}

// recoverPanic logs any panic during execution and exits with an error status.
func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and initializes the service instance before
// any command runs.
func preRun(app *allthriveInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("allthrive.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		service, err := setupService(cnf)
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.service = service
		app.cnf = cnf

		return nil
	}
}

// setupService connects to the data source and builds the service instance.
func setupService(cfg *config.Configuration) (*allthrive.AllThrive, error) {
	db, err := database.NewDataSource(cfg)
	if err != nil {
		return nil, fmt.Errorf("error getting datasource: %v", err)
	}

	service, err := allthrive.NewAllThrive(db)
	if err != nil {
		return nil, fmt.Errorf("error creating service: %v", err)
	}
	return service, nil
}

// NewCLI builds the command-line interface with the server, workers and
// migrate subcommands.
func NewCLI() *CLI {
	var configFile string
	a := &allthriveInstance{}

	var rootCmd = &cobra.Command{
		Use:   "allthrive",
		Short: "Community ask and offer marketplace",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./allthrive.json", "Configuration file for allthrive")

	rootCmd.PersistentPreRunE = preRun(a)

	rootCmd.AddCommand(serverCommands(a))
	rootCmd.AddCommand(workerCommands(a))
	rootCmd.AddCommand(migrateCommands(a))

	return &CLI{cmd: rootCmd}
}

func (c CLI) executeCLI() {
	if err := c.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
