package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const version = "0.1.0"

const usage = `usage: yogactl [-config file] <command> [flags] [args]

commands:
  login -email e -password p     log in and remember the session
  register -email e -first f -last l -password p
  logout                         forget the session
  whoami                         print the current session
  sessions                       list sessions
  session <id>                   show one session
  create -name n -description d -date YYYY-MM-DD -teacher id
  update <id> -name n -description d -date YYYY-MM-DD -teacher id
  delete <id>                    delete a session
  participate <id> [-user id]    join a session, yourself by default
  unparticipate <id> [-user id]  leave a session
  teachers                       list teachers
  teacher <id>                   show one teacher
  user <id>                      show one user
  delete-account                 delete your own account and log out
  watch [-interval d] [-tz zone]  print the session list until interrupted
`

var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, "yogactl:", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("yogactl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := fs.String("config", "", "Path to configuration file")
	showVersion := fs.Bool("version", false, "Print the version and exit")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if *showVersion {
		fmt.Fprintln(stdout, "yogactl", version)
		return nil
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errUsage
	}

	cmd, ok := commands[fs.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n\n", fs.Arg(0))
		fs.Usage()
		return errUsage
	}

	a, err := newApp(ctx, *configPath, stdout)
	if err != nil {
		return err
	}
	defer a.close()

	return cmd(ctx, a, fs.Args()[1:])
}
