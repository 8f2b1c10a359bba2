package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/delaneyj/deepwatch/cmd/rxtrace/templates"
	"github.com/urfave/cli/v3"
)

const (
	stateKey = "state"
	watchKey = "watch"
	opKey    = "op"
	deepKey  = "deep"
	syncKey  = "sync"
	outKey   = "out"
)

func main() {
	cmd := &cli.Command{
		Name:  "rxtrace",
		Usage: "Trace which watchers fire when a JSON document is mutated",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     stateKey,
				Aliases:  []string{"s"},
				Usage:    "JSON object to observe, - for stdin",
				Required: true,
			},
			&cli.StringSliceFlag{
				Name:    watchKey,
				Aliases: []string{"w"},
				Usage:   "dot-delimited path to watch, may be repeated",
			},
			&cli.StringSliceFlag{
				Name:  opKey,
				Usage: `operation to apply in order, e.g. "set user.name \"Ada\"" or "push items 3"`,
			},
			&cli.BoolFlag{
				Name:  deepKey,
				Usage: "watch nested properties of every path",
			},
			&cli.BoolFlag{
				Name:  syncKey,
				Usage: "run watchers on every write instead of once per operation",
			},
			&cli.StringFlag{
				Name:  outKey,
				Usage: "write the report to a file instead of stdout",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	defer func() {
		log.Printf("Trace finished in %v", time.Since(start))
	}()

	source := cmd.String(stateKey)
	state, err := readState(source)
	if err != nil {
		return err
	}

	t, err := newTracer(source, state, cmd.Bool(syncKey))
	if err != nil {
		return err
	}
	for _, path := range cmd.StringSlice(watchKey) {
		if err := t.watch(path, cmd.Bool(deepKey)); err != nil {
			return err
		}
	}
	for _, op := range cmd.StringSlice(opKey) {
		t.apply(op)
	}

	out := io.Writer(os.Stdout)
	if name := cmd.String(outKey); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	templates.WriteTraceReport(out, t.finish())
	return nil
}

func readState(source string) (any, error) {
	var (
		b   []byte
		err error
	)
	if source == "-" {
		b, err = io.ReadAll(os.Stdin)
	} else {
		b, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}
	var state any
	if err := json.Unmarshal(b, &state); err != nil {
		return nil, fmt.Errorf("decode state: %w", err)
	}
	return state, nil
}
