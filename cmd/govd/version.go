package main

import (
	"github.com/spf13/cobra"
	"github.com/timburman/Reactive-Governance/app"
)

var (
	GitCommit string
)

var versionCmd = &cobra.Command{
	Use:     "version",
	Short:   "Print the govd version",
	Aliases: []string{"V"},
	Run:     versionRun,
}

func versionRun(cmd *cobra.Command, args []string) {
	println(app.VersionWithCommit(GitCommit))
}
