package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "vcrtsctl",
	Short: "vcrtsctl is a command line tool for the VCRTS request/approval workflow",
	Long: `vcrtsctl is the command-line interface for the Vehicle Cloud Resource
Tracking System demo. Clients submit vehicle-registration or job-addition
requests; a cloud controller approves or rejects them; clients watch for
status changes. All commands share one data directory of line-delimited
text files, so separate invocations see each other's work.

Common workflows:

  Register an account:
    vcrtsctl register --name "Ava Torres" --role VEHICLE_OWNER --secret hunter2

  Submit a vehicle registration request:
    vcrtsctl submit vehicle --client-id 7 --model Civic --make Honda --year 2020 --vin VIN123 --residency 01:00:00

  Submit a job request:
    vcrtsctl submit job --client-id 8 --job-id J-100 --job-name "Render frames" --duration 02:30:00 --deadline 2026-12-01

  Review and decide as the controller:
    vcrtsctl pending
    vcrtsctl approve 1 -m "Vehicle registered"
    vcrtsctl reject 2 -m "Capacity reached"

  Follow your request statuses:
    vcrtsctl requests 7
    vcrtsctl watch 7

Configuration:
  Set the data directory via flag, environment or a config file:
    VCRTS_DATA_DIR    shared data directory (default: data)`,
}

func Execute() error {
	return rootCmd.Execute()
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory with name ".vcrtsctl"
		viper.AddConfigPath(home)
		viper.SetConfigName(".vcrtsctl")
		viper.SetConfigType("yaml")
	}

	// Read environment variables that match "VCRTS_VARNAME"
	viper.SetEnvPrefix("VCRTS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.vcrtsctl.yaml)")

	rootCmd.PersistentFlags().String("data-dir", "data", "Shared VCRTS data directory")
	viper.BindPFlag("data_dir", rootCmd.PersistentFlags().Lookup("data-dir"))
}
