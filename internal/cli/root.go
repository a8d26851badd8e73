// Package cli реализует служебную утилиту eventsctl: хеширование пароля
// администратора, перевод времени между форматами формы и хранения,
// расчёт статуса события и чтение потока завершённых событий.
package cli

import (
	"time"

	"github.com/spf13/cobra"
)

// NewRootCmd собирает дерево команд eventsctl.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "eventsctl",
		Short:         "Wellness events admin utility",
		Long:          "Helpers for operating the wellness events service: password hashes, time conversion, status checks and the completed events stream",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newHashPasswordCmd())
	rootCmd.AddCommand(newToUTCCmd())
	rootCmd.AddCommand(newFromUTCCmd())
	rootCmd.AddCommand(newDecomposeCmd())
	rootCmd.AddCommand(newStatusCmd(time.Now))
	rootCmd.AddCommand(newWatchCmd())
	return rootCmd
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}
