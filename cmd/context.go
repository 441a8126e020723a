package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/emrgen/notion"
	"github.com/emrgen/notion/internal/auth"
)

const (
	configDir      = "./.tmp"
	configFileName = "document"
)

// Token overrides the token saved in the context for a single command.
var Token string

var contextCommand = &cobra.Command{
	Use:   "context",
	Short: "context commands",
}

func init() {
	contextCommand.AddCommand(setContextCommand())
	contextCommand.AddCommand(currentContextCommand())
	contextCommand.AddCommand(resetContextCommand())
}

type Context struct {
	Token   string `mapstructure:"token" json:"token"`
	Address string `mapstructure:"address" json:"address"`
}

// saves the context info to the config file in ./.tmp
func setContextCommand() *cobra.Command {
	var token string
	var address string
	command := &cobra.Command{
		Use:     "set",
		Short:   "set context",
		Example: "doc context set -t <token> -a localhost:4020",
		Run: func(cmd *cobra.Command, args []string) {
			if token == "" && address == "" {
				color.Red(`missing: --token or --address`)
				return
			}

			current := readContext()
			if token != "" {
				current.Token = token
			}
			if address != "" {
				current.Address = address
			}

			if err := writeContext(current); err != nil {
				color.Red("error writing config file: %v", err)
				return
			}
			fmt.Println("context saved")
		},
	}

	command.Flags().StringVarP(&token, "token", "t", "", "bearer token")
	command.Flags().StringVarP(&address, "address", "a", "", "grpc address of the document service")

	return command
}

func currentContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "current",
		Short: "current context",
		Run: func(cmd *cobra.Command, args []string) {
			current := readContext()
			if current.Token == "" {
				color.Yellow("token: <none>")
			} else {
				fmt.Printf("token: %s...\n", current.Token[:min(len(current.Token), 12)])
			}
			fmt.Printf("address: %s\n", addressOrDefault(current.Address))
		},
	}

	return command
}

func resetContextCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "reset",
		Short: "reset context",
		Run: func(cmd *cobra.Command, args []string) {
			if err := writeContext(Context{}); err != nil {
				color.Red("error writing config file: %v", err)
				return
			}
			fmt.Println("context reset")
		},
	}

	return command
}

func bindContextFlags(command *cobra.Command) {
	command.Flags().StringVar(&Token, "token", "", "bearer token, overrides the saved context")
}

func writeContext(context Context) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("yml")
	v.Set("context", map[string]string{
		"token":   context.Token,
		"address": context.Address,
	})

	return v.WriteConfigAs(filepath.Join(configDir, configFileName+".yml"))
}

func readContext() Context {
	var ctx Context

	v := viper.New()
	v.SetConfigName(configFileName)
	v.AddConfigPath(configDir)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			logrus.Warnf("error reading config file: %v", err)
		}
		return ctx
	}

	if err := v.UnmarshalKey("context", &ctx); err != nil {
		logrus.Warnf("error unmarshalling config file: %v", err)
	}

	return ctx
}

func tokenContext() context.Context {
	token := Token
	if token == "" {
		token = readContext().Token
	}
	if token == "" {
		return context.Background()
	}

	return auth.OutgoingContext(context.Background(), token)
}

func addressOrDefault(address string) string {
	if address == "" {
		return notion.DefaultAddress
	}
	return address
}

func newClient() (notion.Client, error) {
	return notion.NewClient(addressOrDefault(readContext().Address))
}
