package app

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"marketscout/internal/adapter"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:           "check",
		Short:         "Check which AI backends are installed",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := adapter.Names()
			sort.Strings(names)

			anyAvailable := false
			for _, name := range names {
				ai, err := adapter.Select(name, "")
				if err != nil {
					continue
				}
				if ai.IsAvailable() {
					anyAvailable = true
					fmt.Printf("%s %s\n", okMark, name)
					if p, ok := ai.(interface{ Path() string }); ok {
						fmt.Printf("    path:   %s\n", p.Path())
					}
					fmt.Printf("    models: %s\n", strings.Join(ai.Models(), ", "))
				} else {
					fmt.Printf("%s %s (CLI not found in PATH)\n", failMark, name)
				}
			}

			if !anyAvailable {
				return exitError{code: 1}
			}
			return nil
		},
	}
}
