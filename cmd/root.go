package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/niprobin/curated-digging/internal/utils"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

const (
	LOGO = `     _ _             _
  __| (_) __ _  __ _(_)_ __   __ _
 / _` + "`" + ` | |/ _` + "`" + ` |/ _` + "`" + ` | | '_ \ / _` + "`" + ` |
| (_| | | (_| | (_| | | | | | (_| |
 \__,_|_|\__, |\__, |_|_| |_|\__, |
         |___/ |___/         |___/

`
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "digging",
	Short: "A terminal companion for curated music digging.",
	Long: LOGO + `digging pulls the curated track and album sheets, keeps your
checked state on disk, and can serve both feeds through a caching proxy.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.digging.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".digging")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; create it with defaults.
			home, _ := homedir.Dir()
			configPath := home + "/.digging.yaml"
			if err := viper.SafeWriteConfigAs(configPath); err != nil {
				fmt.Printf("Error creating config file: %s", err)
			}
		}
	}

	// Set default empty values for all keys
	viper.SetDefault("sources.tracks", "")
	viper.SetDefault("sources.albums", "")
	viper.SetDefault("api.tracks", "")
	viper.SetDefault("api.albums", "")
	viper.SetDefault("webhooks.status", "")
	viper.SetDefault("webhooks.hide", "")
	viper.SetDefault("webhooks.playlist", "")
	viper.SetDefault("lookup.qqdl", "https://eu.qqdl.site")
	viper.SetDefault("lookup.yams_api", "https://yams.tf/api")
	viper.SetDefault("lookup.yams_site", "https://yams.tf")
	viper.SetDefault("storage.dir", "")
	viper.SetDefault("listen", ":8080")

	// Init log library
	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	utils.SetLogLevel(levelString)

}
