package commands

import (
	"os"
	"path/filepath"

	"github.com/provchain/graphchain/src/graphchain"
	"github.com/rifflock/lfshook"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//NewRunCmd returns the command that starts a graphchain node
func NewRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run node",
		PreRunE: loadConfig,
		RunE:    runGraphChain,
	}
	AddRunFlags(cmd)
	return cmd
}

/*******************************************************************************
* RUN
*******************************************************************************/

func runGraphChain(cmd *cobra.Command, args []string) error {
	engine := graphchain.NewGraphChain(&_config.GraphChain)

	if err := engine.Init(); err != nil {
		_config.GraphChain.Logger().Error("Cannot initialize engine:", err)
		return err
	}

	defer engine.Shutdown()

	engine.Run()

	return nil
}

/*******************************************************************************
* CONFIG
*******************************************************************************/

//AddRunFlags adds flags to the Run command
func AddRunFlags(cmd *cobra.Command) {

	cmd.Flags().String("datadir", _config.GraphChain.DataDir, "Top-level directory for configuration and data")
	cmd.Flags().String("log", _config.GraphChain.LogLevel, "debug, info, warn, error, fatal, panic")
	cmd.Flags().Bool("log-file", _config.LogFile, "Also log to per-level files in datadir")

	// Service
	cmd.Flags().StringP("service-listen", "s", _config.GraphChain.ServiceAddr, "Listen IP:Port for HTTP service")
	cmd.Flags().Bool("no-service", _config.GraphChain.NoService, "Disable the HTTP service")

	// Store
	cmd.Flags().Bool("store", _config.GraphChain.Store, "Use badgerDB instead of in-mem DB")
	cmd.Flags().String("db", _config.GraphChain.DatabaseDir, "Database directory")
	cmd.Flags().Bool("bootstrap", _config.GraphChain.Bootstrap, "Load from database")

	// Canonicalization
	cmd.Flags().Int("max-iterations", _config.GraphChain.MaxIterations, "Iteration cap for exhaustive canonicalization")
}

func loadConfig(cmd *cobra.Command, args []string) error {

	err := bindFlagsLoadViper(cmd)
	if err != nil {
		return err
	}

	// If --datadir was explicitely set, but not --db, this will update the
	// default database dir to be inside the new datadir
	_config.GraphChain.SetDataDir(_config.GraphChain.DataDir)

	if _config.LogFile {
		addFileLogging(_config.GraphChain.Logger().Logger, _config.GraphChain.DataDir)
	}

	logFields := logrus.Fields{
		"graphchain.DataDir":       _config.GraphChain.DataDir,
		"graphchain.ServiceAddr":   _config.GraphChain.ServiceAddr,
		"graphchain.NoService":     _config.GraphChain.NoService,
		"graphchain.LogLevel":      _config.GraphChain.LogLevel,
		"graphchain.Store":         _config.GraphChain.Store,
		"graphchain.MaxIterations": _config.GraphChain.MaxIterations,
	}

	if _config.GraphChain.Store {
		logFields["graphchain.DatabaseDir"] = _config.GraphChain.DatabaseDir
		logFields["graphchain.Bootstrap"] = _config.GraphChain.Bootstrap
	}

	_config.GraphChain.Logger().WithFields(logFields).Debug("RUN")

	return nil
}

// Bind all flags and read the config into viper
func bindFlagsLoadViper(cmd *cobra.Command) error {
	// Register flags with viper. Include flags from this command and all other
	// persistent flags from the parent
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// first unmarshal to read from CLI flags
	if err := viper.Unmarshal(_config); err != nil {
		return err
	}

	// look for config file in [datadir]/graphchain.toml (.json, .yaml also work)
	viper.SetConfigName("graphchain")
	viper.AddConfigPath(_config.GraphChain.DataDir)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		_config.GraphChain.Logger().Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		_config.GraphChain.Logger().Debugf("No config file found in: %s", _config.GraphChain.DataDir)
	} else {
		return err
	}

	// second unmarshal to read from config file
	return viper.Unmarshal(_config)
}

// addFileLogging hooks per-level log files under datadir into the logger.
func addFileLogging(logger *logrus.Logger, datadir string) {
	pathMap := lfshook.PathMap{}

	infoLog := filepath.Join(datadir, "graphchain_info.log")
	if _, err := os.OpenFile(infoLog, os.O_CREATE|os.O_WRONLY, 0666); err != nil {
		logger.Info("Failed to open graphchain_info.log file, using default stderr")
	} else {
		pathMap[logrus.InfoLevel] = infoLog
	}

	debugLog := filepath.Join(datadir, "graphchain_debug.log")
	if _, err := os.OpenFile(debugLog, os.O_CREATE|os.O_WRONLY, 0666); err != nil {
		logger.Info("Failed to open graphchain_debug.log file, using default stderr")
	} else {
		pathMap[logrus.DebugLevel] = debugLog
	}

	logger.Hooks.Add(lfshook.NewHook(
		pathMap,
		&logrus.TextFormatter{},
	))
}
