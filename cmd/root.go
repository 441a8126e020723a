package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "doc",
	Short: "document management tool",
	Example: `doc serve
doc token -s <user-id> --save
doc create -t <title> -p <parent-id>
doc get -d <doc-id>
doc list -p <parent-id>
doc update -d <doc-id> -t <title> -c <content>
doc archive -d <doc-id> --wait
doc cascade -i <cascade-id>
doc trash
doc restore -d <doc-id>
doc delete -d <doc-id>
doc search -q <query>`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(tokenCmd())
	rootCmd.AddCommand(dbCmd)
	rootCmd.AddCommand(contextCommand)
	rootCmd.SetHelpCommand(&cobra.Command{Use: "no-help", Hidden: true})

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	cobra.EnableCommandSorting = false
}
