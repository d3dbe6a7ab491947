// Command goomsim steps a scene file and prints the body positions.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"cogentcore.org/core/base/errors"
	"github.com/goomengine/goom"
	"github.com/spf13/cobra"
)

type runOptions struct {
	scene    string
	config   string
	steps    int
	dt       float64
	every    int
	svg      string
	logLevel string
	top      bool
}

func main() {
	root := &cobra.Command{
		Use:           "goomsim",
		Short:         "Rigid body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "goomsim:", err)
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step a scene and print body positions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.scene, "scene", "", "scene file (YAML)")
	f.StringVar(&opts.config, "config", "", "physics settings (TOML)")
	f.IntVar(&opts.steps, "steps", 600, "number of steps")
	f.Float64Var(&opts.dt, "dt", 1.0/60, "step duration in seconds")
	f.IntVar(&opts.every, "every", 60, "print positions every N steps, 0 prints only the last step")
	f.StringVar(&opts.svg, "svg", "", "write the last frame to this SVG file")
	f.StringVar(&opts.logLevel, "log-level", "info", "debug, info, warn or error")
	f.BoolVar(&opts.top, "top", false, "draw the SVG looking down the y axis instead of along z")
	cobra.CheckErr(cmd.MarkFlagRequired("scene"))
	return cmd
}

func run(cmd *cobra.Command, opts *runOptions) error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.logLevel)); err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := goom.DefaultConfig()
	if opts.config != "" {
		var err error
		cfg, err = goom.LoadConfig(opts.config)
		if err != nil {
			return err
		}
	}

	scene, err := goom.LoadScene(opts.scene)
	if err != nil {
		return err
	}

	world := goom.NewWorld(goom.WithConfig(cfg), goom.WithLogger(logger))
	// each invalid entry is logged by Populate
	if err := scene.Populate(world); err != nil {
		logger.Warn("skipped invalid scene entries", "bodies", world.BodyCount())
	}
	logger.Info("scene loaded", "bodies", world.BodyCount(), "planes", len(world.Planes))

	var last []goom.Contact
	world.SetContactHandler(func(w *goom.World, contacts []*goom.Contact) {
		last = last[:0]
		for _, c := range contacts {
			last = append(last, *c)
		}
	})

	out := cmd.OutOrStdout()
	for i := 1; i <= opts.steps; i++ {
		world.Step(opts.dt)
		if (opts.every > 0 && i%opts.every == 0) || i == opts.steps {
			printBodies(out, world, i)
		}
	}
	logger.Debug(world.DebugInfo())

	if opts.svg == "" {
		return nil
	}

	projection := goom.ProjectXY
	if opts.top {
		projection = goom.ProjectXZ
	}
	drawer := NewSVGDrawer(projection)
	contacts := make([]*goom.Contact, len(last))
	for i := range last {
		contacts[i] = &last[i]
	}
	world.DebugDraw(drawer, contacts)

	file, err := os.Create(opts.svg)
	if err != nil {
		return err
	}
	defer func() { errors.Log(file.Close()) }()
	_, err = drawer.WriteTo(file)
	return err
}

func printBodies(w io.Writer, world *goom.World, step int) {
	fmt.Fprintf(w, "step %d\n", step)
	world.EachBody(func(body *goom.RigidBody) {
		p := body.Position()
		state := "awake"
		switch {
		case body.IsStatic():
			state = "static"
		case !body.IsAwake():
			state = "asleep"
		}
		fmt.Fprintf(w, "  %-12s %10.4f %10.4f %10.4f  %s\n", body.ID, p.X(), p.Y(), p.Z(), state)
	})
}
