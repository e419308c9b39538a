package cmd

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "stop marketd",
	Long:  `stop marketd`,
	RunE: func(cmd *cobra.Command, args []string) error {
		strb, err := os.ReadFile(pidFile)
		if err != nil {
			fmt.Printf("Stop server failed, err: %v\n", err)
			return nil
		}
		command := exec.Command("kill", string(strb))
		if err := command.Start(); err != nil {
			return err
		}
		if err := os.Remove(pidFile); err != nil {
			return err
		}
		println("marketd stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
