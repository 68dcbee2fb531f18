// Command render-cli is a thin harness around the protocol module:
// info prints build information, test runs the package test suite
// filtered by an optional pattern, and demo opens a window and drives
// the frame loop with a handful of hand-built requests.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"runtime"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("specify a command: info, test, demo")
	}

	var (
		res int
		err error
	)
	switch os.Args[1] {
	case "info":
		res, err = info(os.Args[2:])
	case "test":
		res, err = runTests(os.Args[2:])
	case "demo":
		res, err = demo(os.Args[2:])
	default:
		log.Fatalf("unknown command %q: want info, test, demo", os.Args[1])
	}
	if err != nil {
		log.Println(err)
	}
	os.Exit(res)
}

func info(args []string) (int, error) {
	fmt.Printf("render-cli: %s\n", "github.com/aurorarender/protocol")
	fmt.Printf("go runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	return 0, nil
}

func runTests(args []string) (int, error) {
	fs := flag.NewFlagSet("test", flag.ExitOnError)
	verbose := fs.Bool("v", false, "verbose test output")
	if err := fs.Parse(args); err != nil {
		return 1, err
	}

	pattern := "."
	if fs.NArg() > 0 {
		pattern = fs.Arg(0)
	}

	goArgs := []string{"test", "-run", pattern, "./..."}
	if *verbose {
		goArgs = append(goArgs, "-v")
	}
	cmd := exec.Command("go", goArgs...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return 1, err
	}
	return 0, nil
}

func demo(args []string) (int, error) {
	fs := flag.NewFlagSet("demo", flag.ExitOnError)
	frames := fs.Int("frames", 0, "number of frames to run before exiting (0 = until the window closes)")
	if err := fs.Parse(args); err != nil {
		return 1, err
	}
	return runDemo(*frames)
}
