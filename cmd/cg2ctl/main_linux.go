// Command cg2ctl controls the cgroup v2 hierarchy: mount state,
// cgroup life cycle, subsystem enablement and memory limits.
package main

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/criyle/go-cgroup2/pkg/cgroup2"
	"github.com/criyle/go-cgroup2/pkg/cgroup2/memory"
)

func main() {
	app := cli.NewApp()
	app.Name = "cg2ctl"
	app.Usage = "control the cgroup v2 hierarchy, its subsystems and memory limits"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
		cli.StringFlag{
			Name:  "log-format",
			Value: "text",
			Usage: "set the log format ('text' (default), or 'json')",
		},
	}
	app.Before = configLogrus
	app.Commands = []cli.Command{
		stateCommand,
		prepareCommand,
		createCommand,
		destroyCommand,
		controllersCommand,
		enableCommand,
		memCommand,
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func configLogrus(context *cli.Context) error {
	if context.GlobalBool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}
	switch f := context.GlobalString("log-format"); f {
	case "", "text":
		// do nothing
	case "json":
		logrus.SetFormatter(new(logrus.JSONFormatter))
	default:
		return errors.New("invalid log-format: " + f)
	}
	return nil
}

var stateCommand = cli.Command{
	Name:  "state",
	Usage: "report kernel support and mount state of the hierarchy",
	Action: func(context *cli.Context) error {
		fmt.Println("enabled:", cgroup2.Enabled())
		mounted, err := cgroup2.Mounted()
		if err != nil {
			return err
		}
		fmt.Println("mounted:", mounted)
		return nil
	},
}

var prepareCommand = cli.Command{
	Name:      "prepare",
	Usage:     "mount the hierarchy if needed and enable the given subsystems in the root cgroup",
	ArgsUsage: "<subsystem>...",
	Action: func(context *cli.Context) error {
		subsystems := context.Args()
		logrus.Debugf("preparing root cgroup with subsystems %v", subsystems)
		return cgroup2.Prepare(subsystems...)
	},
}

var createCommand = cli.Command{
	Name:      "create",
	Usage:     "create a cgroup",
	ArgsUsage: "<cgroup>",
	Flags: []cli.Flag{
		cli.BoolFlag{
			Name:  "recursive, r",
			Usage: "create missing ancestor cgroups, root to leaf",
		},
	},
	Action: func(context *cli.Context) error {
		cg, err := singleCgroupArg(context)
		if err != nil {
			return err
		}
		logrus.Debugf("creating cgroup %q", cg)
		return cgroup2.Create(cg, context.Bool("recursive"))
	},
}

var destroyCommand = cli.Command{
	Name:      "destroy",
	Usage:     "destroy a cgroup and all of its descendants",
	ArgsUsage: "<cgroup>",
	Action: func(context *cli.Context) error {
		cg, err := singleCgroupArg(context)
		if err != nil {
			return err
		}
		logrus.Debugf("destroying cgroup %q", cg)
		return cgroup2.Destroy(cg)
	},
}

var controllersCommand = cli.Command{
	Name:      "controllers",
	Usage:     "list available and enabled subsystems of a cgroup (the root cgroup by default)",
	ArgsUsage: "[cgroup]",
	Action: func(context *cli.Context) error {
		cg := cgroup2.Root
		if context.NArg() > 0 {
			cg = context.Args().First()
		}
		available, err := cgroup2.Subsystems(cg)
		if err != nil {
			return err
		}
		fmt.Println("available:", subsystemNames(available))
		enabled, err := enabledSubsystems(cg, available)
		if err != nil {
			return err
		}
		fmt.Println("enabled:", enabled)
		return nil
	},
}

var enableCommand = cli.Command{
	Name:      "enable",
	Usage:     "enable exactly the given subsystems in a cgroup, disabling all others",
	ArgsUsage: "<cgroup> <subsystem>...",
	Action: func(context *cli.Context) error {
		if context.NArg() < 1 {
			return errors.New("cgroup argument required")
		}
		args := context.Args()
		logrus.Debugf("enabling %v in cgroup %q", args.Tail(), args.First())
		return cgroup2.Enable(args.First(), args.Tail()...)
	},
}

var memCommand = cli.Command{
	Name:      "mem",
	Usage:     "read or set memory limits of a cgroup",
	ArgsUsage: "<cgroup>",
	Flags: []cli.Flag{
		cli.GenericFlag{
			Name:  "min",
			Usage: "set the reclaim floor (size, e.g. 64m)",
			Value: new(cgroup2.Size),
		},
		cli.GenericFlag{
			Name:  "high",
			Usage: "set the throttle threshold ('max' or size)",
			Value: new(limitValue),
		},
		cli.GenericFlag{
			Name:  "max",
			Usage: "set the hard limit ('max' or size)",
			Value: new(limitValue),
		},
	},
	Action: func(context *cli.Context) error {
		cg, err := singleCgroupArg(context)
		if err != nil {
			return err
		}
		if context.IsSet("min") {
			bytes := *context.Generic("min").(*cgroup2.Size)
			if err := memory.SetMin(cg, bytes); err != nil {
				return err
			}
		}
		if context.IsSet("high") {
			if err := memory.SetHigh(cg, context.Generic("high").(*limitValue).limit); err != nil {
				return err
			}
		}
		if context.IsSet("max") {
			if err := memory.SetMax(cg, context.Generic("max").(*limitValue).limit); err != nil {
				return err
			}
		}
		return printMemory(cg)
	},
}

func printMemory(cg string) error {
	usage, err := memory.Usage(cg)
	if err != nil {
		return err
	}
	fmt.Println("usage:", usage)
	if peak, err := memory.Peak(cg); err == nil {
		// memory.peak is missing on kernels before 5.19
		fmt.Println("peak:", peak)
	}
	min, err := memory.Min(cg)
	if err != nil {
		return err
	}
	fmt.Println("min:", min)
	high, err := memory.High(cg)
	if err != nil {
		return err
	}
	fmt.Println("high:", formatLimit(high))
	max, err := memory.Max(cg)
	if err != nil {
		return err
	}
	fmt.Println("max:", formatLimit(max))
	return nil
}

func formatLimit(l memory.Limit) string {
	if bytes, ok := l.Bytes(); ok {
		return bytes.String()
	}
	return "max"
}

func singleCgroupArg(context *cli.Context) (string, error) {
	if context.NArg() != 1 {
		return "", errors.New("exactly one cgroup argument required")
	}
	return context.Args().First(), nil
}

func subsystemNames(set map[string]bool) []string {
	names := make([]string, 0, len(set))
	for s := range set {
		names = append(names, s)
	}
	sort.Strings(names)
	return names
}

func enabledSubsystems(cg string, available map[string]bool) ([]string, error) {
	var enabled []string
	for _, s := range subsystemNames(available) {
		ok, err := cgroup2.SubsystemsEnabled(cg, s)
		if err != nil {
			return nil, err
		}
		if ok {
			enabled = append(enabled, s)
		}
	}
	return enabled, nil
}
