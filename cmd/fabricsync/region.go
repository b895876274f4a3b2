package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabricsync/fabricsync/pkg/config"
	"github.com/fabricsync/fabricsync/pkg/controller"
	"github.com/fabricsync/fabricsync/pkg/log"
	"github.com/fabricsync/fabricsync/pkg/transport"
)

var regionCmd = &cobra.Command{
	Use:   "region",
	Short: "Manage controller regions",
}

var regionRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the configured region with its sync interval",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wrapperFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := w.RegisterRegion(); err != nil {
			return err
		}
		fmt.Printf("Region %s registered\n", w.Region())
		return nil
	},
}

var regionCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wrapperFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := w.CreateRegion(args[0]); err != nil {
			return err
		}
		fmt.Printf("Region %s created\n", args[0])
		return nil
	},
}

var regionDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a region",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wrapperFromFlags(cmd)
		if err != nil {
			return err
		}
		if err := w.DeleteRegion(args[0]); err != nil {
			return err
		}
		fmt.Printf("Region %s deleted\n", args[0])
		return nil
	},
}

var tenantsCmd = &cobra.Command{
	Use:   "tenants",
	Short: "List tenants known to the controller region",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wrapperFromFlags(cmd)
		if err != nil {
			return err
		}
		tenants, err := w.GetTenants()
		if err != nil {
			return err
		}
		for _, t := range tenants {
			if id, ok := t["id"].(string); ok {
				fmt.Println(id)
			}
		}
		return nil
	},
}

func init() {
	regionCmd.AddCommand(regionRegisterCmd)
	regionCmd.AddCommand(regionCreateCmd)
	regionCmd.AddCommand(regionDeleteCmd)
}

// wrapperFromFlags builds a controller wrapper from the config file,
// for one-shot CLI commands.
func wrapperFromFlags(cmd *cobra.Command) (*controller.Wrapper, error) {
	cfgPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log.Init(log.Config{Level: log.Level(cfg.LogLevel), JSONOutput: cfg.LogJSON})

	var opts []transport.Option
	opts = append(opts, transport.WithTimeout(cfg.RequestTimeout()))
	if !cfg.TLSVerify() {
		opts = append(opts, transport.WithInsecureTLS())
	}
	if cfg.Username != "" {
		opts = append(opts, transport.WithBasicAuth(cfg.Username, cfg.Password))
	}
	tr := transport.NewClient(cfg.Controllers[0], opts...)
	return controller.NewWrapper(cfg.Region, cfg.SyncInterval, tr), nil
}
