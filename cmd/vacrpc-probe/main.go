// Command vacrpc-probe is a small manual-probing tool for the master/node
// RPC client library, mirroring the teacher's vsh command-line shape:
// one root command, independent verb subcommands, persistent flags for
// the master URI and caller id.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/valetudo/vendormaster/internal/rlog"
	"github.com/valetudo/vendormaster/pkg/facade"
)

var (
	masterURI string
	callerID  string
	staleMs   int64

	sessionID = uuid.New().String()
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "vacrpc-probe",
		Short: "manual probing tool for the vacuum master/node RPC client",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			rlog.SetColor(isatty.IsTerminal(os.Stderr.Fd()))
			rlog.For("probe").WithField("session", sessionID).Debug("starting probe session")
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&masterURI, "master-uri", "", "master XML-RPC URI (defaults to MDS_MASTER_URI or 127.0.0.1:11311)")
	flags.StringVar(&callerID, "caller-id", "", "caller id advertised to the master (defaults to MDS_CALLER_ID or /ROSNODE)")
	flags.Int64Var(&staleMs, "stale-after-ms", facade.DefaultStaleAfterMs, "freshness window applied to cached topic reads")
	flags.SortFlags = false
	pflag.CommandLine = flags

	root.AddCommand(newRoomsCmd(), newMapCmd(), newWatchCmd(), newCleanCmd())
	return root
}

func newFacade() (*facade.Facade, error) {
	cfg := facade.DefaultConfig()
	if masterURI != "" {
		cfg.MasterURI = masterURI
	}
	if callerID != "" {
		cfg.CallerID = callerID
	}
	f := facade.New(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTO)
	defer cancel()
	if err := f.Start(ctx); err != nil {
		return nil, err
	}
	return f, nil
}

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "list the active map's rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFacade()
			if err != nil {
				return err
			}
			defer f.Shutdown(context.Background())

			reply, err := f.ListRooms(context.Background())
			if err != nil {
				return err
			}
			for _, room := range reply.Rooms {
				fmt.Printf("area=%d label=%s points=%d connections=%v sequence=%d\n",
					room.AreaID, facade.RoomLabelName(room.LabelID), len(room.Polygon), room.Connections, room.Prefs.Sequence)
			}
			return nil
		},
	}
}

func newMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "print the active map id and compressed map summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFacade()
			if err != nil {
				return err
			}
			defer f.Shutdown(context.Background())

			mapID, err := f.GetActiveMapID(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("active map: %d\n", mapID)

			cm, err := f.GetCompressedMap(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("submaps: %d\n", len(cm.SubMaps))
			return nil
		},
	}
}

func newWatchCmd() *cobra.Command {
	var interval time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "poll and print cached battery/charge/work-state values",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := newFacade()
			if err != nil {
				return err
			}
			defer f.Shutdown(context.Background())

			for {
				battery := f.GetBatteryLevel(staleMs)
				charge := f.GetChargeState(staleMs)
				work := f.GetWorkState(staleMs)
				fmt.Printf("battery=%+v charge=%+v work=%+v\n", battery, charge, work)
				time.Sleep(interval)
			}
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "poll interval")
	return cmd
}

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "drive cleaning verbs: start, pause, resume, stop, dock",
	}
	verbs := map[string]func(*facade.Facade, context.Context) error{
		"start":  (*facade.Facade).StartAutoClean,
		"pause":  (*facade.Facade).PauseClean,
		"resume": (*facade.Facade).ResumeClean,
		"stop":   (*facade.Facade).StopClean,
		"dock":   (*facade.Facade).ReturnToDock,
	}
	for name, verb := range verbs {
		name, verb := name, verb
		cmd.AddCommand(&cobra.Command{
			Use: name,
			RunE: func(cmd *cobra.Command, args []string) error {
				f, err := newFacade()
				if err != nil {
					return err
				}
				defer f.Shutdown(context.Background())
				return verb(f, context.Background())
			},
		})
	}
	return cmd
}
