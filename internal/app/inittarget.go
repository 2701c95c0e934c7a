package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"marketscout/internal/config"
)

func newInitTargetCommand() *cobra.Command {
	var industry string
	var targetFile string

	cmd := &cobra.Command{
		Use:           "init-target",
		Short:         "Write a starter target config for an industry",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			industry = strings.TrimSpace(industry)
			if industry == "" {
				return fmt.Errorf("--industry requires a value")
			}

			if _, err := os.Stat(targetFile); err == nil {
				return fmt.Errorf("%s already exists; remove it first or choose another path", targetFile)
			}

			if err := config.WriteTarget(targetFile, config.NewTarget(industry)); err != nil {
				return err
			}
			fmt.Printf("Wrote %s; edit the search terms before running research\n", targetFile)
			return nil
		},
	}

	cmd.Flags().StringVar(&industry, "industry", "", "Industry to research (e.g. \"HVAC contractors\")")
	cmd.Flags().StringVarP(&targetFile, "target", "t", "target.yaml", "Where to write the target config")
	_ = cmd.MarkFlagRequired("industry")

	return cmd
}
