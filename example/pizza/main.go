package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	offline    bool
	customer   string

	config *Config
)

var rootCmd = &cobra.Command{
	Use:   "pizzabot",
	Short: "Take pizza orders over a chat",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		conf, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			conf.LogLevel = logLevel
		}
		level, err := parseLevel(conf.LogLevel)
		if err != nil {
			return err
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		config = conf
		return nil
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive ordering session on stdin",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd.Context(), config, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print the booked time slots",
	RunE: func(cmd *cobra.Command, args []string) error {
		schedule := config.schedule()
		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.Header("Time", "Customer", "Pizzas", "Kind")
		for _, t := range schedule.Times() {
			r := schedule[t]
			kind := "pickup"
			if r.Delivery {
				kind = "delivery"
			}
			if err := table.Append(t, r.CustomerName, strings.Join(r.Pizzas, ", "), kind); err != nil {
				return err
			}
		}
		return table.Render()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")
	chatCmd.Flags().BoolVar(&offline, "offline", false, "run without a model, answers are read as field: value pairs")
	chatCmd.Flags().StringVar(&customer, "customer", "", "prefill the customer name")
	rootCmd.AddCommand(chatCmd, scheduleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
