package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/aldenmoore/dmgcore/dmg"
)

func main() {
	app := cli.NewApp()
	app.Name = "dmgcore"
	app.Description = "Runs a Game Boy ROM against the headless CPU/memory/timer core"
	app.Usage = "dmgcore [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.IntFlag{
			Name:  "cycles",
			Usage: "Number of M-cycles to run before stopping",
			Value: 4_000_000,
		},
		cli.BoolFlag{
			Name:  "dump-serial",
			Usage: "Print everything written to the serial port (used by test ROMs to report pass/fail)",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("dmgcore exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	m := dmg.New()
	if _, err := m.LoadROM(romPath); err != nil {
		return err
	}

	budget := c.Int("cycles")
	var spent int
	for spent < budget {
		spent += m.Step()
	}

	slog.Info("run complete", "cycles", spent, "pc", fmt.Sprintf("0x%04X", m.CPU.PC()))
	if c.Bool("dump-serial") {
		fmt.Printf("%s\n", m.SerialLog())
	}
	return nil
}
