package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/emrgen/notion/internal/config"
	"github.com/emrgen/notion/internal/store"
)

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "db commands",
}

func init() {
	dbCmd.AddCommand(Migrate())
}

func Migrate() *cobra.Command {
	command := &cobra.Command{
		Use:   "migrate",
		Short: "Migrate the database",
		Run: func(cmd *cobra.Command, args []string) {
			cnf, err := config.LoadConfig()
			if err != nil {
				logrus.Fatalf("error loading config: %v", err)
			}

			db, err := config.GetDb(cnf)
			if err != nil {
				logrus.Fatalf("error opening database: %v", err)
			}

			if err := store.NewGormStore(db).Migrate(); err != nil {
				logrus.Fatalf("error migrating database: %v", err)
			}
			logrus.Infof("migrated %s database", cnf.DB.Driver)
		},
	}

	return command
}
