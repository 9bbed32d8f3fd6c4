package internal

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "CHPKG"

var (
	cfgFile     string
	optionFlags []string
)

var rootCmd = &cobra.Command{
	Use:   "chpkg",
	Short: "chpkg builds and packages the ClickHouse C++ client",
	Long: `chpkg resolves the options of the clickhouse-cpp recipe into dependency
requirements and CMake definitions, and drives the configure, build, test and
install steps of the library.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		bindFlags(cmd.Root().PersistentFlags())
		if err := initConfig(cfgFile); err != nil {
			return err
		}
		setupLogging(viper.GetString("log_level"))
		cmd.SetContext(log.Logger.WithContext(cmd.Context()))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default .chpkg.yaml)")
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("workspace", "", "Depot directory")
	pf.String("source", "", "Source directory of clickhouse-cpp")
	pf.String("profile", "", "TOML toolchain profile")
	pf.String("generator", "", "CMake generator")
	pf.String("toolchain-file", "", "CMake toolchain file")
	pf.String("os", "", "Target operating system")
	pf.String("arch", "", "Target architecture")
	pf.String("compiler", "", "Compiler family (gcc, clang, apple-clang, msvc)")
	pf.String("compiler-version", "", "Compiler version")
	pf.String("libcxx", "", "C++ standard library (libstdc++, libstdc++11, libc++)")
	pf.String("build-type", "", "CMake build type")
	pf.StringArrayVarP(&optionFlags, "option", "o", nil, "Recipe option override name=value (repeatable)")
}

// flagKeys maps viper keys to the persistent flags that set them.
var flagKeys = map[string]string{
	"log_level":                  "log-level",
	"workspace":                  "workspace",
	"source_dir":                 "source",
	"profile":                    "profile",
	"generator":                  "generator",
	"toolchain_file":             "toolchain-file",
	"toolchain.os":               "os",
	"toolchain.arch":             "arch",
	"toolchain.compiler":         "compiler",
	"toolchain.compiler_version": "compiler-version",
	"toolchain.libcxx":           "libcxx",
	"toolchain.build_type":       "build-type",
}

func bindFlags(flags *pflag.FlagSet) {
	for key, name := range flagKeys {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "chpkg:", errorMessage(err))
		os.Exit(exitCodeForError(err))
	}
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to read config file: %v", err)).
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName(".chpkg")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/chpkg")
	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
	return nil
}

func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func exitCodeForError(err error) int {
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument:
		return 2
	case errbuilder.CodeFailedPrecondition:
		return 4
	case errbuilder.CodeNotFound, errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}

func errorMessage(err error) string {
	var builder *errbuilder.ErrBuilder
	if errors.As(err, &builder) && strings.TrimSpace(builder.Msg) != "" {
		return builder.Msg
	}
	return err.Error()
}

func invalidArgument(msg string, cause error) error {
	return errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg(msg).WithCause(cause)
}

func notFound(msg string, cause error) error {
	return errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg(msg).WithCause(cause)
}

func internalError(msg string, cause error) error {
	return errbuilder.New().WithCode(errbuilder.CodeInternal).WithMsg(msg).WithCause(cause)
}
