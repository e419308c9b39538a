package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/arcmarket/marketd"
	"github.com/arcmarket/marketd/common"
	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name: "marketd",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "db_dir", Value: "./data/bolt", Usage: "bolt db dir path", EnvVars: []string{"DB_DIR"}},
			&cli.StringFlag{Name: "mysql", Value: "root@tcp(127.0.0.1:3306)/marketd?charset=utf8mb4&parseTime=True&loc=Local", Usage: "mysql dsn", EnvVars: []string{"MYSQL"}},
			&cli.StringFlag{Name: "sqlite_dir", Value: "./data/sqlite", Usage: "sqlite db dir path", EnvVars: []string{"SQLITE_DIR"}},
			&cli.BoolFlag{Name: "use_sqlite", Value: false, Usage: "run with sqlite instead of mysql", EnvVars: []string{"USE_SQLITE"}},
			&cli.StringFlag{Name: "owner", Usage: "marketplace owner address", Required: true, EnvVars: []string{"OWNER"}},
			&cli.StringFlag{Name: "fee_receiver", Usage: "marketplace fee receiver, defaults to owner", EnvVars: []string{"FEE_RECEIVER"}},
			&cli.UintFlag{Name: "fee_bps", Value: 250, Usage: "marketplace fee in basis points", EnvVars: []string{"FEE_BPS"}},
			&cli.BoolFlag{Name: "kafka", Value: false, Usage: "publish events to kafka", EnvVars: []string{"KAFKA"}},
			&cli.StringFlag{Name: "kafka_uri", Value: "127.0.0.1:9092", EnvVars: []string{"KAFKA_URI"}},

			&cli.StringFlag{Name: "port", Value: ":8080", EnvVars: []string{"PORT"}},
		},
		Action: run,
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	s := marketd.New(
		c.String("db_dir"), c.String("mysql"), c.String("sqlite_dir"), c.Bool("use_sqlite"),
		c.String("owner"), c.String("fee_receiver"), uint16(c.Uint("fee_bps")),
		c.Bool("kafka"), c.String("kafka_uri"),
	)
	s.Run(c.String("port"))

	common.NewMetricServer()

	<-signals
	s.Close()
	return nil
}
