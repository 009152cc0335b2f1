// Command cgpt validates, repairs, and edits ChromiumOS-style GUID
// Partition Tables. The verbs here are a thin front end: all validation and
// repair logic lives in the gpt package, which performs no I/O of its own.
package main

import (
	"fmt"
	"os"

	cli "github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = "cgpt"
	app.Usage = "inspect and repair GPT disk images"
	app.Commands = []*cli.Command{
		showCommand,
		repairCommand,
		prioritizeCommand,
		bootCommand,
		addCommand,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
