package cmd

import (
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/emrgen/notion/internal/auth"
	"github.com/emrgen/notion/internal/server"
)

func serveCmd() *cobra.Command {
	var grpcPort string
	var httpPort string

	command := &cobra.Command{
		Use:     "serve",
		Short:   "start the document service",
		Long:    `start the grpc server and the rest gateway, configured from the environment and .env`,
		Example: "doc serve -g 4020 -r 4021",
		Run: func(cmd *cobra.Command, args []string) {
			server.NewServer(grpcPort, httpPort).Start()
		},
	}

	command.Flags().StringVarP(&grpcPort, "grpc-port", "g", "", "grpc port, overrides GRPC_PORT")
	command.Flags().StringVarP(&httpPort, "http-port", "r", "", "http port, overrides HTTP_PORT")
	command.Flags().SortFlags = false

	return command
}

// tokenCmd issues a token signed with JWT_SECRET, for local use against a server sharing the secret.
func tokenCmd() *cobra.Command {
	var subject string
	var ttl time.Duration
	var save bool

	var required = []string{"subject"}

	command := &cobra.Command{
		Use:     "token",
		Short:   "issue a signed token",
		Example: "doc token -s <user-id> -e 24h --save",
		Run: func(cmd *cobra.Command, args []string) {
			if checkMissingFlags(cmd, required) {
				return
			}

			v := viper.New()
			v.AutomaticEnv()
			secret := v.GetString("JWT_SECRET")
			if secret == "" {
				color.Red("missing: JWT_SECRET")
				return
			}

			token, err := auth.IssueToken([]byte(secret), subject, ttl)
			if err != nil {
				color.Red("error issuing token: %v", err)
				return
			}

			if save {
				current := readContext()
				current.Token = token
				if err := writeContext(current); err != nil {
					color.Red("error writing config file: %v", err)
					return
				}
				color.Green("token saved to context")
				return
			}

			cmd.Println(token)
		},
	}

	command.Flags().StringVarP(&subject, "subject", "s", "", "user id carried by the token (required)")
	command.Flags().DurationVarP(&ttl, "expires-in", "e", 24*time.Hour, "token lifetime")
	command.Flags().BoolVar(&save, "save", false, "save the token to the context")
	command.Flags().SortFlags = false

	return command
}
