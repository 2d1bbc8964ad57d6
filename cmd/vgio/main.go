// Command vgio lists, extracts, builds and inspects game resource files.
package main

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var version = "dev"

type command struct {
	out io.Writer
	log *logrus.Logger
}

func newApp(out io.Writer) *cli.App {
	cmd := &command{
		out: out,
		log: logrus.New(),
	}
	cmd.log.SetOutput(os.Stderr)

	return &cli.App{
		Name:    "vgio",
		Usage:   "Read and write video game resource files",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", Usage: "Set log level (panic, fatal, error, warn, info, debug, trace)", EnvVars: []string{"VGIO_LOG_LEVEL"}},
			&cli.StringFlag{Name: "log-format", Value: "text", Usage: "Log format (text, json)", EnvVars: []string{"VGIO_LOG_FORMAT"}},
		},
		Before: cmd.setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "List the members of an archive",
				ArgsUsage: "ARCHIVE",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Archive format, detected when empty", EnvVars: []string{"VGIO_KIND"}},
					&cli.BoolFlag{Name: "digest", Usage: "Print the BLAKE3 digest of every member"},
					&cli.BoolFlag{Name: "bytes", Usage: "Print exact sizes instead of human-readable ones"},
				},
				Action: cmd.list,
			},
			{
				Name:      "extract",
				Usage:     "Extract members of an archive to a directory",
				ArgsUsage: "ARCHIVE [MEMBER...]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Usage: "Archive format, detected when empty", EnvVars: []string{"VGIO_KIND"}},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: ".", Usage: "Destination directory", EnvVars: []string{"VGIO_OUTPUT"}},
					&cli.BoolFlag{Name: "continue-on-error", Usage: "Keep extracting after a member fails"},
				},
				Action: cmd.extract,
			},
			{
				Name:      "build",
				Usage:     "Build an archive from a YAML manifest",
				ArgsUsage: "MANIFEST",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "Archive to write", EnvVars: []string{"VGIO_OUTPUT"}},
				},
				Action: cmd.build,
			},
			{
				Name:      "verify",
				Usage:     "Check archive members against the files of a manifest",
				ArgsUsage: "MANIFEST ARCHIVE",
				Action:    cmd.verify,
			},
			{
				Name:      "info",
				Usage:     "Describe resource files of any supported format",
				ArgsUsage: "FILE...",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "jobs", Aliases: []string{"j"}, Value: 4, Usage: "Files inspected concurrently", EnvVars: []string{"VGIO_JOBS"}},
				},
				Action: cmd.info,
			},
		},
	}
}

func (cmd *command) setupLogger(c *cli.Context) error {
	level, err := logrus.ParseLevel(c.String("log-level"))
	if err != nil {
		return errors.Wrap(err, "--log-level")
	}
	cmd.log.SetLevel(level)

	switch c.String("log-format") {
	case "text":
		cmd.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		cmd.log.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("--log-format: unknown format %q", c.String("log-format"))
	}
	return nil
}

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}
