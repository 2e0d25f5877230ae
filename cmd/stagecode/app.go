package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/tilepush/common"
	"github.com/milk9111/tilepush/game"
	"github.com/milk9111/tilepush/input"
	"github.com/milk9111/tilepush/levels"
	"github.com/milk9111/tilepush/obj"
	"github.com/milk9111/tilepush/prefabs"
	"github.com/milk9111/tilepush/spectate"
	"github.com/milk9111/tilepush/stagecode"
)

var errNoStage = errors.New("give a level name, a level file or --code")

func newApp(out io.Writer) *cli.Command {
	stageFlags := []cli.Flag{
		&cli.StringFlag{Name: "code", Usage: "encoded stage"},
		&cli.StringFlag{Name: "tuning", Value: prefabs.TuningFile, Usage: "tuning spec in prefabs/"},
	}
	inputFlags := []cli.Flag{
		&cli.StringFlag{Name: "script", Usage: "tengo input script in prefabs/scripts/"},
		&cli.StringFlag{Name: "hold", Value: "r", Usage: "directions held every tick when no script is given"},
	}

	return &cli.Command{
		Name:   "stagecode",
		Usage:  "encode, decode and run tilepush stages",
		Writer: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Usage: "enable debug logging"},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if c.Bool("debug") {
				log.SetLevel(log.DebugLevel)
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			{
				Name:  "levels",
				Usage: "list the built-in levels",
				Action: func(ctx context.Context, c *cli.Command) error {
					for _, name := range levels.Names() {
						fmt.Fprintln(c.Root().Writer, name)
					}
					return nil
				},
			},
			{
				Name:      "encode",
				Usage:     "print the stage code of a level",
				ArgsUsage: "<level name or .json file>",
				Action: func(ctx context.Context, c *cli.Command) error {
					descs, err := loadStage(c.Args().First(), "")
					if err != nil {
						return err
					}
					code, err := stagecode.Encode(descs)
					if err != nil {
						return err
					}
					fmt.Fprintln(c.Root().Writer, code)
					return nil
				},
			},
			{
				Name:      "decode",
				Usage:     "print the objects of a stage code",
				ArgsUsage: "<code>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "json", Usage: "json or yaml"},
				},
				Action: func(ctx context.Context, c *cli.Command) error {
					descs, err := stagecode.Decode(strings.TrimSpace(c.Args().First()))
					if err != nil {
						return err
					}
					return writeDescriptors(c.Root().Writer, descs, c.String("format"))
				},
			},
			{
				Name:      "run",
				Usage:     "simulate a stage headless",
				ArgsUsage: "[level name or .json file]",
				Flags: append(append([]cli.Flag{
					&cli.IntFlag{Name: "ticks", Value: 60 * 60, Usage: "tick limit, 0 for none"},
				}, stageFlags...), inputFlags...),
				Action: runStage,
			},
			{
				Name:      "serve",
				Usage:     "simulate a stage in real time and stream it to spectators",
				ArgsUsage: "[level name or .json file]",
				Flags: append(append([]cli.Flag{
					&cli.StringFlag{Name: "addr", Value: ":8080", Usage: "listen address"},
				}, stageFlags...), inputFlags...),
				Action: serveStage,
			},
		},
	}
}

// loadStage resolves a level name, a level file or an encoded stage.
func loadStage(arg, code string) ([]obj.Descriptor, error) {
	if code != "" {
		return stagecode.Decode(strings.TrimSpace(code))
	}
	if arg == "" {
		return nil, errNoStage
	}
	if strings.HasSuffix(arg, ".json") {
		if data, err := os.ReadFile(arg); err == nil {
			lvl, err := levels.Parse(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", arg, err)
			}
			return lvl.Objects, nil
		}
	}
	lvl, err := levels.Load(arg)
	if err != nil {
		return nil, err
	}
	return lvl.Objects, nil
}

func writeDescriptors(w io.Writer, descs []obj.Descriptor, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(descs)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(descs)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func inputSource(c *cli.Command) (input.Source, error) {
	if name := c.String("script"); name != "" {
		src, err := prefabs.LoadScript(name)
		if err != nil {
			return nil, err
		}
		return input.CompileScript(name, src)
	}
	held, err := input.ParseSet(c.String("hold"))
	if err != nil {
		return nil, err
	}
	return input.Hold(held), nil
}

func newGame(c *cli.Command) (*game.Game, input.Source, error) {
	tuning, err := prefabs.LoadTuning(c.String("tuning"))
	if err != nil {
		return nil, nil, err
	}
	descs, err := loadStage(c.Args().First(), c.String("code"))
	if err != nil {
		return nil, nil, err
	}
	src, err := inputSource(c)
	if err != nil {
		return nil, nil, err
	}
	g := game.New(tuning, log.StandardLogger())
	if err := g.Load(descs); err != nil {
		return nil, nil, err
	}
	return g, src, nil
}

func runStage(ctx context.Context, c *cli.Command) error {
	g, src, err := newGame(c)
	if err != nil {
		return err
	}
	n, err := g.Run(ctx, src, int(c.Int("ticks")))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Root().Writer, "%s after %d ticks\n", g.Status(), n)
	return nil
}

func serveStage(ctx context.Context, c *cli.Command) error {
	g, src, err := newGame(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := spectate.NewHub(log.StandardLogger())
	go hub.Run(ctx)

	srv := &http.Server{Addr: c.String("addr"), Handler: hub.Routes()}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()
	go simulate(ctx, g, src, hub)

	log.WithField("addr", srv.Addr).Info("spectator stream listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// simulate ticks g in real time, restarting the stage when it completes.
func simulate(ctx context.Context, g *game.Game, src input.Source, hub *spectate.Hub) {
	ticker := time.NewTicker(common.StepDuration)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if g.Status() == game.StatusComplete {
			if err := g.Reload(); err != nil {
				log.WithError(err).Error("reload stage")
				return
			}
		}
		in, err := src.Next(g.Ticks())
		if err != nil {
			log.WithError(err).Error("input")
			return
		}
		if _, err := g.Tick(in); err != nil {
			log.WithError(err).Error("tick")
			return
		}
		if err := hub.Publish(spectate.FrameOf(g)); err != nil {
			log.WithError(err).Warn("publish")
		}
	}
}
