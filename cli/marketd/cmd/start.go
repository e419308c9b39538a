package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/arcmarket/marketd"
	"github.com/arcmarket/marketd/common"
	"github.com/spf13/cobra"
)

const pidFile string = ".marketd_pid.lock"

var daemon bool

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "start marketd",
	Long:  `start marketd`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if daemon {
			if _, err := os.Stat(pidFile); err == nil {
				fmt.Println("Failed start, PID file exist.running...")
				return nil
			}

			path, err := os.Executable()
			if err != nil {
				return err
			}

			command := exec.Command(path, "start")

			logFileName := fmt.Sprintf("marketd_%d.log", time.Now().Unix())
			logFile, err := os.OpenFile(logFileName, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0666)
			if err != nil {
				return err
			}

			command.Stdout = logFile
			command.Stderr = logFile

			if err := command.Start(); err != nil {
				return err
			}
			err = os.WriteFile(pidFile, []byte(fmt.Sprintf("%d", command.Process.Pid)), 0666)
			if err != nil {
				return err
			}

			daemon = false
			os.Exit(0)
		} else {
			runServer()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(startCmd)

	startCmd.Flags().BoolVarP(&daemon, "deamon", "d", false, "is daemon?")
}

func runServer() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM, os.Kill)

	m := marketd.New(cfg.BoltDir, cfg.Mysql, cfg.SqliteDir, cfg.UseSqlite,
		cfg.Owner, cfg.FeeReceiver, cfg.FeeBasisPoints,
		cfg.Kafka.Start, cfg.Kafka.Uri)

	m.Run(cfg.Port)

	common.NewMetricServer()

	<-signals
	m.Close()
}
