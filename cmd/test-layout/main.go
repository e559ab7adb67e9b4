package main

import (
	"flag"
	"fmt"
	"os"

	"nyiyui.ca/hato/rail/config"
	"nyiyui.ca/hato/rail/tal/layout"
)

func main() {
	configPath := flag.String("config", "", "path to network config (default: built-in testbench)")
	from := flag.String("from", "nagase1", "segment to find a path from")
	to := flag.String("to", "snb4", "segment to find a path to")
	flag.Parse()

	var y *layout.Layout
	if *configPath == "" {
		tb, err := layout.InitTestbench6()
		if err != nil {
			panic(err)
		}
		y = tb.Layout
	} else {
		c, err := config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err)
			os.Exit(1)
		}
		n, err := c.Build(nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "build: %s\n", err)
			os.Exit(1)
		}
		y = n.Layout
	}

	for _, ref := range y.Refs() {
		s := y.MustGet(ref)
		length := 0.0
		if y.IsGeometryValid(ref) {
			length = s.Geometry.BakedLength()
		}
		fmt.Printf("%s %s: length %g, south %s, north %s\n", ref, s.Comment, length, s.South, s.North)
	}
	for _, w := range y.AllWarnings() {
		fmt.Printf("warning: %s\n", w)
	}

	fromRef, ok := y.Lookup(*from)
	if !ok {
		fmt.Fprintf(os.Stderr, "segment %s not found\n", *from)
		os.Exit(1)
	}
	toRef, ok := y.Lookup(*to)
	if !ok {
		fmt.Fprintf(os.Stderr, "segment %s not found\n", *to)
		os.Exit(1)
	}
	path := y.PathTo(fromRef, toRef)
	if path == nil {
		fmt.Printf("no path from %s to %s\n", *from, *to)
		return
	}
	fmt.Printf("path from %s to %s:", *from, *to)
	for _, ref := range path {
		fmt.Printf(" %s", y.MustGet(ref).Comment)
	}
	fmt.Println()
	fmt.Printf("chain length from %s: %g\n", *from, y.ChainLength(fromRef))
}
