// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/luthersystems/prose/prose"
	"github.com/luthersystems/prose/prose/proselib"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Configuration keys.  Each can be set by a flag, by a PROSE_ prefixed
// environment variable with dashes replaced by underscores, or in the config
// file.
const (
	keyMaxDepth = "max-depth"
	keyTimeout  = "timeout"
	keyLogLevel = "log-level"
	keyVerbose  = "verbose"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "prose",
	Short: "A minimal Lisp interpreter",
	Long: `Prose is a minimal Lisp interpreter implemented in Go.

Getting started:
  prose run file.prose         Run a source file
  prose run -e '(+ 1 2)'       Evaluate an expression
  prose repl                   Start an interactive REPL
  prose doc map                Show documentation for a function
  prose doc -l                 List every documented name

Language overview:
  (f x y) applies f to x and y.  [a b c] is a quoted list which is not
  evaluated until it is applied again.  Strings are written ` + "`like this'" + `.
  The empty list () is false and every other value is true.  Functions
  are defined with (defun name [params] body) or (lambda [params] body).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.prose.yaml)")
	flags.Int(keyMaxDepth, prose.DefaultMaxDepth, "Maximum evaluation depth (zero for no limit)")
	flags.Duration(keyTimeout, 0, "Stop evaluation after this long (zero for no limit)")
	flags.String(keyLogLevel, "warn", "Log level: trace, debug, info, warn or error")
	flags.BoolP(keyVerbose, "v", false, "Log at debug level")
	for _, key := range []string{keyMaxDepth, keyTimeout, keyLogLevel, keyVerbose} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
	viper.SetDefault(keyMaxDepth, prose.DefaultMaxDepth)
	viper.SetDefault(keyLogLevel, "warn")

	rootCmd.AddCommand(RunCommand())
	rootCmd.AddCommand(ReplCommand())
	rootCmd.AddCommand(DocCommand())
	rootCmd.AddCommand(VersionCommand())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			// Search config in home directory with name ".prose" (without extension).
			viper.AddConfigPath(home)
			viper.SetConfigName(".prose")
		}
	}

	viper.SetEnvPrefix("prose")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	if err := viper.ReadInConfig(); err == nil {
		newLogger(os.Stderr).WithField("file", viper.ConfigFileUsed()).Debug("using config file")
	}
}

// newLogger returns a logger writing to w at the configured level.
func newLogger(w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	level, err := logrus.ParseLevel(viper.GetString(keyLogLevel))
	if err != nil {
		level = logrus.WarnLevel
	}
	if viper.GetBool(keyVerbose) && level < logrus.DebugLevel {
		level = logrus.DebugLevel
	}
	logger.SetLevel(level)
	return logger
}

// newRuntime returns a runtime with the standard library loaded and
// configured from the command line, environment and config file.  The
// returned function releases the timeout, if any.
func newRuntime(stdout, stderr io.Writer, config ...prose.Config) (*prose.Runtime, context.CancelFunc, error) {
	ctx, cancel := context.Background(), context.CancelFunc(func() {})
	if timeout := viper.GetDuration(keyTimeout); timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
	}
	config = append([]prose.Config{
		prose.WithStdout(stdout),
		prose.WithStderr(stderr),
		prose.WithLogger(newLogger(stderr)),
		prose.WithMaxDepth(viper.GetInt(keyMaxDepth)),
		prose.WithContext(ctx),
	}, config...)
	rt, err := proselib.NewRuntime(config...)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return rt, cancel, nil
}
