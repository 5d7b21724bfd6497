// Command roominfo decodes room modules and prints their contents.
package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/jessevdk/go-flags"

	"gal-bgmap/internal/module"
	"gal-bgmap/internal/project"
)

type options struct {
	Args struct {
		Project string `positional-arg-name:"PROJECT" required:"true" description:"Extracted game project directory"`
		Modules []int  `positional-arg-name:"MODULE" required:"1" description:"Module indexes to dump"`
	} `positional-args:"true"`
}

func main() {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}

	p, err := project.Open(opts.Args.Project)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	errors := 0
	for _, index := range opts.Args.Modules {
		room, err := p.Room(index)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			errors++
			continue
		}
		printRoom(index, room)
	}
	if errors > 0 {
		os.Exit(1)
	}
}

func printRoom(index int, room *module.Room) {
	fmt.Printf("Module[%d]: %s\n", index, room.Name)
	fmt.Printf("  Cuts: %d, EntranceSets: %d, BackgroundSets: %d, Triggers: %d, Functions: %d\n",
		len(room.Layout.Cuts), len(room.Entrances), len(room.Backgrounds),
		len(room.Triggers), len(room.Functions))

	for i, c := range room.Layout.Cuts {
		fmt.Printf("  Cut[%d]: camera=%d corners=(%d,%d) (%d,%d) (%d,%d) (%d,%d)\n",
			i, c.Index, c.X1, c.Z1, c.X2, c.Z2, c.X3, c.Z3, c.X4, c.Z4)
	}

	for i, set := range room.Entrances {
		fmt.Printf("  EntranceSet[%d]: %d entrances\n", i, len(set.Entrances))
		for j, e := range set.Entrances {
			fmt.Printf("    Entrance[%d]: from=%d pos=(%d, %d, %d) facing=%d\n",
				j, e.RoomIndex, e.X, e.Y, e.Z, e.Facing)
		}
	}

	for i, set := range room.Backgrounds {
		views := make([]string, len(set.Backgrounds))
		for j, bg := range set.Backgrounds {
			views[j] = strconv.Itoa(bg.Index)
		}
		fmt.Printf("  BackgroundSet[%d]: views=[%s]\n", i, strings.Join(views, " "))
	}

	for i, tr := range room.Triggers {
		fmt.Printf("  Trigger[%d]: enabled=%t kind=%d callback=%08X\n",
			i, tr.Enabled, tr.Kind, tr.Callback)
	}

	addrs := make([]uint32, 0, len(room.Functions))
	for addr := range room.Functions {
		addrs = append(addrs, addr)
	}
	sort.Slice(addrs, func(i, j int) bool { return addrs[i] < addrs[j] })
	for _, addr := range addrs {
		fn := room.Functions[addr]
		fmt.Printf("  Function %08X: %d calls\n", addr, len(fn.Calls))
		for _, call := range fn.Calls {
			args := make([]string, len(call.Args))
			for k, a := range call.Args {
				args[k] = strconv.Itoa(int(a))
			}
			fmt.Printf("    %s(%s)\n", call.Name, strings.Join(args, ", "))
		}
	}
}
