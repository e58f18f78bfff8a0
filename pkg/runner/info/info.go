package info

import (
	"context"
	"fmt"
	"os"

	"tableflip.dev/wayfinder/pkg/persist"
)

type Info struct {
	Config persist.Config
	Store  *persist.Store
}

func (n *Info) Do(ctx context.Context) error {

	if override := os.Getenv("WAYFINDER_CONFIG_PATH"); override != "" {
		fmt.Println("WAYFINDER_CONFIG_PATH found on env, using ", override)
	} else {
		fmt.Println("WAYFINDER_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = persist.LoadConfig()
		if err != nil {
			return err
		}
	}

	fmt.Println("Config.path: ", n.Config.BasePath())
	fmt.Println("Config.file: ", n.Config.FileName())

	if n.Store == nil {
		return fmt.Errorf("failed to open settings store")
	}

	if !n.Store.AppWorking() {
		fmt.Println("Settings: not saved this session:", n.Store.Err())
		return nil
	}

	fmt.Println("Settings:    ", n.Store.Path())
	records := n.Store.Records()
	if len(records) == 0 {
		fmt.Printf("  %s\n", "no documents")
		return nil
	}
	for _, r := range records {
		fmt.Printf("  %s: %t\n", r.Name, r.Active)
	}
	return nil
}
