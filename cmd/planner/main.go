// Command planner runs the headless planning engine. A rendering
// frontend drives it line by line over stdin and reads responses from
// stdout; everything else (persistence, autosave, metrics) happens
// inside the engine.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"time"

	"github.com/meshsite/planner/internal/api"
	"github.com/meshsite/planner/internal/config"
	"github.com/meshsite/planner/internal/dispatcher"
	"github.com/meshsite/planner/internal/handlers"
	"github.com/meshsite/planner/internal/influx"
	"github.com/meshsite/planner/internal/interaction"
	"github.com/meshsite/planner/internal/logging"
	"github.com/meshsite/planner/internal/monitor"
	"github.com/meshsite/planner/internal/plan"
	"github.com/meshsite/planner/internal/session"
	"github.com/meshsite/planner/internal/status"
	"github.com/meshsite/planner/internal/store"
	"github.com/meshsite/planner/pkg/core"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Version can be set at build time via ldflags.
var Version string = "0.1.0"

var (
	SessionStartTime time.Time = time.Now()

	SlogManager *logging.SlogManager
	Logger      *slog.Logger

	logFile *os.File
)

func main() {
	configDir := flag.String("config", ".", "directory containing planner.cfg.json")
	flag.Parse()

	SlogManager = logging.NewSlogManager()
	SlogManager.Setup(nil, viper.GetString("logLevel"), "")
	Logger = SlogManager.Logger()

	if err := config.Load(*configDir); err != nil {
		Logger.Warn("Failed to load config, using defaults!", "error", err)
	} else {
		Logger.Info("Loaded config")
	}

	setupLogging()
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	if err := run(); err != nil {
		Logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func setupLogging() {
	logsDir := viper.GetString("logsDir")
	if _, err := os.Stat(logsDir); os.IsNotExist(err) {
		os.Mkdir(logsDir, 0755)
	}

	logPath := logging.LogFilePath(logsDir, "planner", SessionStartTime)

	var err error
	logFile, err = os.OpenFile(logPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		Logger.Error("Failed to create/open log file!", "error", err, "path", logPath)
	}

	gelfAddr := ""
	if viper.GetBool("graylog.enabled") {
		gelfAddr = viper.GetString("graylog.address")
	}

	SlogManager.Setup(logFile, viper.GetString("logLevel"), gelfAddr)
	Logger = SlogManager.Logger()
	Logger.Info("Logging to file", "path", logPath, "version", Version)
}

func run() error {
	// session store
	autosaveCfg := config.GetAutosaveConfig()
	sessionStore, err := store.NewStore(config.GetStorageConfig(), autosaveCfg.Slot)
	if err != nil {
		return fmt.Errorf("building session store: %w", err)
	}
	if err := sessionStore.Init(); err != nil {
		return fmt.Errorf("initializing session store: %w", err)
	}
	defer sessionStore.Close()

	// core engine state
	state := plan.NewState()
	SlogManager.SetContextProvider(func() []slog.Attr {
		return []slog.Attr{slog.Uint64("revision", state.Revision())}
	})
	controller := interaction.NewController(state, interaction.DefaultVisualRadiusPx)
	reporter := status.NewReporter()
	sessionSvc := session.NewService(state, sessionStore, Logger)

	if autosaveCfg.Enabled {
		autosaver := session.NewAutosaver(sessionSvc, reporter, session.SystemClock{}, autosaveCfg.Delay)
		state.OnChange(autosaver.NoteChange)
		defer autosaver.Close()
		Logger.Info("Autosave enabled", "delay", autosaveCfg.Delay, "slot", autosaveCfg.Slot)
	}

	// companion viewer
	apiClient := api.New(viper.GetString("api.serverUrl"), viper.GetString("api.apiKey"))
	if err := apiClient.Healthcheck(); err != nil {
		Logger.Info("Companion viewer is offline")
		apiClient = nil
	} else {
		Logger.Info("Companion viewer is online")
	}

	// metrics
	zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
	var influxManager *influx.Manager
	if viper.GetBool("influx.enabled") {
		backupPath := logging.LogFilePath(viper.GetString("logsDir"), "planner_metrics", SessionStartTime) + ".gz"
		influxManager = influx.NewManager(zlog, backupPath)
		if err := influxManager.Connect(); err != nil {
			Logger.Error("InfluxDB setup failed, metrics disabled", "error", err)
			influxManager = nil
		}
	}

	maxDegree := viper.GetInt("graph.maxDegree")
	if maxDegree <= 0 {
		maxDegree = core.DefaultMaxDegree
	}

	monitorService := monitor.NewService(monitor.Dependencies{
		State:      state,
		Session:    sessionSvc,
		Influx:     influxManager,
		LogManager: SlogManager,
		StatusDir:  viper.GetString("logsDir"),
		MaxDegree:  maxDegree,
		Interval:   time.Second,
	})
	monitorService.Start()
	defer monitorService.Stop()

	// command routing
	eventDispatcher, err := dispatcher.New(logging.NewDispatcherLogger(zlog))
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}
	defer eventDispatcher.Close()

	handlerService := handlers.NewService(handlers.Dependencies{
		State:      state,
		Controller: controller,
		Session:    sessionSvc,
		Status:     reporter,
		LogManager: SlogManager,
		APIClient:  apiClient,
		MaxDegree:  maxDegree,
	})
	handlerService.RegisterHandlers(eventDispatcher)

	restoreOrFetchDefault(handlerService, apiClient)

	return commandLoop(eventDispatcher)
}

// restoreOrFetchDefault tries the saved session first, then falls back
// to the configured default site image. Both are best effort; a fresh
// empty session is a valid start.
func restoreOrFetchDefault(handlerService *handlers.Service, apiClient *api.Client) {
	if _, err := handlerService.HandleSessionRestore(); err == nil {
		Logger.Info("Restored saved session")
		return
	}

	url := viper.GetString("api.defaultImageUrl")
	if url == "" || apiClient == nil {
		Logger.Info("No saved session, starting empty")
		return
	}

	raw, err := apiClient.FetchDefaultImage(url)
	if err != nil {
		Logger.Warn("Default image fetch failed", "url", url, "error", err)
		return
	}
	handlerService.StartImageLoad(path.Base(url), raw)
	Logger.Info("No saved session, loading default image", "url", url)
}

// commandLoop reads one command per line from stdin and writes one
// response line per command. Line format: :COMMAND:|arg1|arg2|...
func commandLoop(d *dispatcher.Dispatcher) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 64<<20) // image payloads arrive inline

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == ":EXIT:" {
			Logger.Info("Shutting down")
			return nil
		}

		parts := strings.Split(line, "|")
		event := dispatcher.Event{
			Command:   dispatcher.Command(parts[0]),
			Args:      parts[1:],
			Timestamp: time.Now(),
		}

		result, err := d.Dispatch(event)
		if err != nil {
			fmt.Fprintf(out, "ERR %s\n", err)
		} else {
			fmt.Fprintf(out, "%v\n", result)
		}
		out.Flush()
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}
