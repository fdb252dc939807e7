package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scienceol/chemlookup/cmd/api"
	"github.com/scienceol/chemlookup/cmd/lookup"
	"github.com/scienceol/chemlookup/internal/config"
	"github.com/scienceol/chemlookup/pkg/middleware/logger"
	"github.com/scienceol/chemlookup/pkg/utils"
)

func main() {
	rootCtx := utils.SetupSignalContext()
	root := &cobra.Command{
		Use:               "chemlookup",
		SilenceUsage:      true,
		Short:             "chemlookup",
		Long:              "chemlookup - resolve SMILES, CXSMILES, CIDs and names against PubChem",
		PersistentPreRunE: initGlobalResource,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}
	// PersistentPostRunE 在子命令出错时不会执行，日志统一在这里落盘
	cobra.OnFinalize(logger.Close)
	root.SetContext(rootCtx)
	root.AddCommand(lookup.NewSmiles())
	root.AddCommand(lookup.NewCID())
	root.AddCommand(lookup.NewName())
	root.AddCommand(lookup.NewBatch())
	root.AddCommand(lookup.NewHistory())
	root.AddCommand(api.NewWeb())
	root.AddCommand(api.NewMigrate())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func initGlobalResource(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env err: %v", err)
	}

	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.AutomaticEnv()

	conf := config.Global()
	if err := v.Unmarshal(conf); err != nil {
		log.Fatal(err)
	}

	logger.Init(&logger.LogConfig{
		Path:     conf.Log.LogPath,
		LogLevel: conf.Log.LogLevel,
		ServiceEnv: logger.ServiceEnv{
			Platform: conf.Server.Platform,
			Service:  conf.Server.Service,
			Env:      conf.Server.Env,
		},
	})

	return nil
}
