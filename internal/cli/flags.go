package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// OptionalStringFlag reads a string flag, including one inherited from a
// parent command. A flag the command does not define reads as "".
func OptionalStringFlag(cmd *cobra.Command, name string) (string, error) {
	if cmd == nil || cmd.Flag(name) == nil {
		return "", nil
	}
	return strings.TrimSpace(cmd.Flag(name).Value.String()), nil
}

func boolFlag(cmd *cobra.Command, name string) (bool, error) {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}

func intFlag(cmd *cobra.Command, name string) (int, error) {
	value, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0, fmt.Errorf("failed to read --%s flag: %w", name, err)
	}
	return value, nil
}
