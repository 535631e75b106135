package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jessevdk/go-flags"
)

var (
	exitFunc = os.Exit
	runTUI   = RunTUI
)

type options struct {
	BaseURL  string `long:"base-url" env:"AFISHA_BASE_URL" description:"Backend base URL"`
	Username string `long:"username" env:"AFISHA_USERNAME" description:"Username sent with every request"`
	City     string `long:"city" env:"AFISHA_CITY" description:"City used for search"`
	Catalog  bool   `long:"catalog" description:"Start in catalog layout"`
	Refresh  bool   `long:"refresh" description:"Fetch the feed once, print it and exit"`
}

func main() {
	if err := runMain(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		exitFunc(1)
	}
}

func runMain(args []string, stdin io.Reader, stdout io.Writer, stderr io.Writer) error {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			return nil
		}
		return err
	}

	cfg, err := LoadConfig()
	if err != nil {
		fmt.Fprintln(stderr, "config error:", err)
		return err
	}
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	if opts.Username != "" {
		cfg.Username = opts.Username
	}
	if opts.City != "" {
		cfg.City = opts.City
	}

	app, err := NewApp(cfg)
	if err != nil {
		fmt.Fprintln(stderr, "init error:", err)
		return err
	}
	defer app.Close()

	if opts.Catalog {
		app.session.SetLayout(LayoutCatalog)
	}

	if opts.Refresh {
		if err := app.LoadFeed(); err != nil {
			fmt.Fprintln(stderr, "refresh error:", err)
			return err
		}
		for _, item := range app.session.Items() {
			fmt.Fprintf(stdout, "%d\t%s\t%s\n", item.ID, item.Name, item.DateStart)
		}
		if app.session.Exhausted() {
			fmt.Fprintln(stdout, "no items for the current filter")
		}
		return nil
	}

	if !isTerminalReader(stdin) || !isTerminalWriter(stdout) {
		if err := Run(app, stdin, stdout); err != nil {
			fmt.Fprintln(stderr, "run error:", err)
			return err
		}
		return nil
	}

	if err := runTUI(app); err != nil {
		fmt.Fprintln(stderr, "run error:", err)
		return err
	}
	return nil
}

func isTerminalReader(stream io.Reader) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func isTerminalWriter(stream io.Writer) bool {
	file, ok := stream.(*os.File)
	if !ok {
		return false
	}
	info, err := file.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
