package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

const version = "0.1.0"

func newApp() *cli.App {
	return &cli.App{
		Name:    "mentionctl",
		Usage:   "Inspect mention detection, suggestions and rendering from the terminal",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "client-prefix",
				Usage: "Token prefix that routes a mention to the client pool",
				Value: "c",
			},
			&cli.BoolFlag{
				Name:  "lenient",
				Usage: "Log and ignore a select with no active mention instead of failing",
			},
		},
		Commands: []*cli.Command{
			DetectCommand(),
			SuggestCommand(),
			SelectCommand(),
			RenderCommand(),
			TokenCommand(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
