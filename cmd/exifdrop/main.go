//  BYZRA ⸻ cmd/exifdrop/main.go <>
// +-----------------------------------------------------------+
//   ___  _  _  ___  ___  ___   ___   ___   ___               |
//  | __|\ \/ /|_ _|| __||   \ | _ \ / _ \ | _ \              |
//  | _|  >  <  | | | _| | |) ||   /| (_) ||  _/              |____________________________________________
//  |___|/_/\_\|___||_|  |___/ |_|_\ \___/ |_|   .go <--| CLI entrypoint and command routing +

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"exifdrop/internal/analyse"
	"exifdrop/internal/config"
	"exifdrop/internal/daemon"
	"exifdrop/internal/export"
	"exifdrop/internal/present"
	"exifdrop/internal/session"
	"exifdrop/internal/util"
	"exifdrop/internal/web"
	"exifdrop/internal/wipe"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printHeader()
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	// keep machine-readable output clean
	if !(command == "view" && hasFlag(args, "--json")) {
		printHeader()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println(util.ErrorSymbol() + util.LBL.Render(" Failed to load config: "+err.Error()))
		os.Exit(1)
	}

	switch command {
	case "view", "analyse", "analyze":
		handleViewCommand(cfg, args)
	case "strip", "wipe":
		handleStripCommand(cfg, args)
	case "serve":
		handleServeCommand(cfg, args)
	case "daemon":
		handleDaemonCommand(cfg, args)
	case "init":
		handleInitCommand(cfg, args)
	case "help":
		printUsage()
	case "version":
		printVersion()
	default:
		fmt.Println(util.LBL.Render("[!] Unknown command: " + command))
		printUsage()
		os.Exit(1)
	}
}

func hasFlag(args []string, flag string) bool {
	for _, a := range args {
		if a == flag {
			return true
		}
	}
	return false
}

// label overrides are optional; a broken labels.lua is reported and skipped
func loadLabels(cfg *config.Config, quiet bool) map[string]string {
	labels, err := config.LoadLabels(config.LabelSearchPaths(cfg), present.KnownKeys())
	if err != nil && !quiet {
		fmt.Println(util.WarningSymbol() + util.NSH.Render(" Ignoring labels: "+err.Error()))
	}
	return labels
}

// file logger from the config, or nothing when the log cannot be opened
func cliLogger(cfg *config.Config) session.Logger {
	logger, err := daemon.NewLogger(cfg.Log.Path, daemon.ParseLevel(cfg.Log.Level))
	if err != nil {
		return daemon.NewStreamLogger(io.Discard, daemon.LevelError)
	}
	return logger
}

func handleViewCommand(cfg *config.Config, args []string) {
	asJSON := hasFlag(args, "--json")

	var path string
	for _, a := range args {
		if !strings.HasPrefix(a, "--") {
			path = a
			break
		}
	}
	if path == "" {
		fmt.Println(util.LBL.Render("[X] No file specified"))
		fmt.Println(util.SUB.Render("Usage: exifdrop view <file> [--json]"))
		os.Exit(1)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(util.LBL.Render("[X] File not found: " + path))
		os.Exit(1)
	}

	labels := loadLabels(cfg, asJSON)
	logger := cliLogger(cfg)

	if asJSON {
		report, err := analyse.Analyze(path, labels, logger)
		if err != nil {
			fmt.Fprintln(os.Stderr, "[X] "+err.Error())
			os.Exit(1)
		}
		out, err := analyse.GenerateJSON(report)
		if err != nil {
			fmt.Fprintln(os.Stderr, "[X] "+err.Error())
			os.Exit(1)
		}
		fmt.Println(string(out))
		return
	}

	fmt.Println(util.NSH.Render("[~] Reading: " + path))

	result, err := util.SpinWhile("[~] Reading metadata", func() (string, error) {
		report, err := analyse.Analyze(path, labels, logger)
		if err != nil {
			return "", err
		}
		return analyse.GenerateReport(report), nil
	})
	if err != nil {
		var invalid *session.InvalidInputError
		if errors.As(err, &invalid) {
			fmt.Println(util.LBL.Render("[X] Please select an image file: " + invalid.Error()))
		} else {
			fmt.Println(util.LBL.Render("[X] Reading failed: " + err.Error()))
		}
		os.Exit(1)
	}

	fmt.Println(util.Divider)
	fmt.Println(result)
}

func handleStripCommand(cfg *config.Config, args []string) {
	if len(args) < 1 || strings.HasPrefix(args[0], "-") {
		fmt.Println(util.LBL.Render("[X] No file specified for stripping"))
		fmt.Println(util.SUB.Render("Usage: exifdrop strip <file> [-o dir] [--orient] [--force] [-q quality]"))
		os.Exit(1)
	}

	path := args[0]

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Println(util.LBL.Render("[X] File not found: " + path))
		os.Exit(1)
	}

	options := wipe.DefaultWipeOptions()
	options.OutputDir = cfg.Export.OutputDir
	options.Export = export.Options{Quality: cfg.Export.Quality, AutoOrient: cfg.Export.AutoOrient}
	options.Logger = cliLogger(cfg)

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 >= len(args) {
				fmt.Println(util.LBL.Render("[X] " + args[i] + " needs a directory"))
				os.Exit(1)
			}
			i++
			options.OutputDir = args[i]
		case "-q", "--quality":
			if i+1 >= len(args) {
				fmt.Println(util.LBL.Render("[X] " + args[i] + " needs a value"))
				os.Exit(1)
			}
			i++
			q, err := strconv.Atoi(args[i])
			if err != nil || q < 1 || q > 100 {
				fmt.Println(util.LBL.Render("[X] Quality must be 1-100"))
				os.Exit(1)
			}
			options.Export.Quality = q
		case "--orient":
			options.Export.AutoOrient = true
		case "--force":
			options.Overwrite = true
		default:
			fmt.Println(util.LBL.Render("[!] Ignoring unknown option: " + args[i]))
		}
	}

	fmt.Println(util.NSH.Render("[~] Processing: " + path))

	result, err := util.SpinWhile("[~] Removing metadata", func() (*wipe.WipeResult, error) {
		return wipe.WipeFile(path, options)
	})
	if err != nil {
		var ee *export.ExportError
		switch {
		case errors.As(err, &ee):
			fmt.Println(util.LBL.Render("[X] Could not re-encode the image: " + ee.Error()))
		case errors.Is(err, wipe.ErrOutputExists):
			fmt.Println(util.LBL.Render("[X] " + err.Error() + " (use --force to replace it)"))
		default:
			fmt.Println(util.LBL.Render("[X] Strip failed: " + err.Error()))
		}
		os.Exit(1)
	}

	fmt.Println(util.Divider)
	fmt.Print(stripReport(result))
	if !result.Success {
		os.Exit(1)
	}
}

// failed verifications are already detailed by FormatWipeResult
func stripReport(result *wipe.WipeResult) string {
	out := wipe.FormatWipeResult(result)
	if result.Success && result.Verification != nil {
		out += wipe.FormatVerificationResult(result.Verification)
	}
	return out
}

func handleServeCommand(cfg *config.Config, args []string) {
	if len(args) > 0 {
		cfg.Server.Addr = args[0]
	}

	logger := daemon.NewStreamLogger(os.Stderr, daemon.ParseLevel(cfg.Log.Level))
	defer logger.Close()

	srv, err := web.NewServer(cfg, loadLabels(cfg, false), logger)
	if err != nil {
		fmt.Println(util.LBL.Render("[X] Failed to create server: " + err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
	defer stop()

	fmt.Println(util.NSH.Render("[~] Open http://" + cfg.Server.Addr + " in your browser (Ctrl+C to stop)"))
	if err := srv.Run(ctx); err != nil {
		fmt.Println(util.LBL.Render("[X] Server failed: " + err.Error()))
		os.Exit(1)
	}
	fmt.Println(util.NSH.Render("[✓] Server stopped"))
}

func handleDaemonCommand(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Println(util.LBL.Render("[X] Daemon mode requires a subcommand"))
		fmt.Println(util.SUB.Render("Usage: exifdrop daemon [on|off|status]"))
		os.Exit(1)
	}

	subcommand := args[0]
	pidFile := filepath.Join(config.HomeDir(), "daemon.pid")

	switch subcommand {
	case "on", "start":
		if pid, ok := daemonPID(pidFile); ok {
			fmt.Println(util.NSH.Render(fmt.Sprintf("[!] Daemon is already running (PID %d)", pid)))
			os.Exit(0)
		}

		fmt.Println(util.NSH.Render("[~] Starting daemon..."))

		logger, err := daemon.NewLogger(cfg.Log.Path, daemon.ParseLevel(cfg.Log.Level))
		if err != nil {
			fmt.Println(util.LBL.Render("[X] Failed to open log: " + err.Error()))
			os.Exit(1)
		}

		d, err := daemon.NewDaemon(cfg, logger)
		if err != nil {
			fmt.Println(util.LBL.Render("[X] Failed to create daemon: " + err.Error()))
			os.Exit(1)
		}

		if err := d.Start(); err != nil {
			fmt.Println(util.LBL.Render("[X] Failed to start daemon: " + err.Error()))
			os.Exit(1)
		}

		if err := os.MkdirAll(filepath.Dir(pidFile), 0755); err != nil {
			fmt.Println(util.LBL.Render("[!] Could not create daemon directory"))
		}
		if err := util.WriteFileAtomic(pidFile, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
			fmt.Println(util.LBL.Render("[!] Could not write PID file"))
		}

		fmt.Println(util.SuccessSymbol() + util.NSH.Render(" Daemon started, watching:"))
		for _, p := range cfg.Daemon.Watch.Paths {
			fmt.Println(" " + util.Ornament + " " + util.SUB.Render(p))
		}
		fmt.Println(util.SUB.Render("   log: " + cfg.Log.Path))

		// keep running until interrupted or stopped; SIGHUP starts a new log
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, unix.SIGTERM)
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, unix.SIGHUP)
	wait:
		for {
			select {
			case <-hup:
				if err := logger.Rotate(); err != nil {
					fmt.Println(util.LBL.Render("[!] Log rotation failed: " + err.Error()))
				}
			case <-ctx.Done():
				break wait
			}
		}
		signal.Stop(hup)
		stop()

		st := d.Status()
		if err := d.Stop(); err != nil {
			fmt.Println(util.LBL.Render("[!] " + err.Error()))
		}
		os.Remove(pidFile)
		fmt.Println(util.NSH.Render(fmt.Sprintf("[✓] Daemon stopped after %s: %d stripped, %d skipped, %d errors",
			time.Since(st.StartTime).Round(time.Second), st.ProcessedFiles, st.SkippedFiles, st.ErrorCount)))

	case "off", "stop":
		pid, ok := daemonPID(pidFile)
		if !ok {
			fmt.Println(util.NSH.Render("[!] Daemon is not running"))
			os.Exit(0)
		}

		fmt.Println(util.NSH.Render(fmt.Sprintf("[~] Stopping daemon (PID %d)...", pid)))

		if err := unix.Kill(pid, unix.SIGTERM); err != nil {
			fmt.Println(util.LBL.Render("[X] Could not signal daemon: " + err.Error()))
			os.Exit(1)
		}

		// the daemon removes its pid file on the way out
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			if _, ok := daemonPID(pidFile); !ok {
				fmt.Println(util.NSH.Render("[✓] Daemon stopped"))
				return
			}
			time.Sleep(200 * time.Millisecond)
		}
		fmt.Println(util.LBL.Render("[!] Daemon did not stop within 10s"))
		os.Exit(1)

	case "status":
		if pid, ok := daemonPID(pidFile); ok {
			fmt.Println(util.NSH.Render(fmt.Sprintf("[...] Daemon is running (PID %d)", pid)))
			for _, p := range cfg.Daemon.Watch.Paths {
				fmt.Println(" " + util.Ornament + " " + util.SUB.Render(p))
			}
		} else {
			fmt.Println(util.NSH.Render("[...] Daemon is not running"))
		}

	default:
		fmt.Println(util.LBL.Render("[X] Unknown daemon command: " + subcommand))
		fmt.Println(util.SUB.Render("Usage: exifdrop daemon [on|off|status]"))
		os.Exit(1)
	}
}

// pid from the pid file when that process is still alive; stale files go
func daemonPID(pidFile string) (int, bool) {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		os.Remove(pidFile)
		return 0, false
	}
	if err := unix.Kill(pid, 0); err != nil && !errors.Is(err, unix.EPERM) {
		os.Remove(pidFile)
		return 0, false
	}
	return pid, true
}

func handleInitCommand(cfg *config.Config, args []string) {
	dir, err := config.SetupConfigDir()
	if err != nil {
		fmt.Println(util.ErrorSymbol() + util.LBL.Render(" Failed to create config directory: "+err.Error()))
		os.Exit(1)
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !hasFlag(args, "--force") {
		fmt.Println(util.WarningSymbol() + util.BRH.Render(" Config already exists: "+path))
		fmt.Println(util.SUB.Render("  use --force to replace it"))
		os.Exit(1)
	}

	if err := config.Save(cfg, path); err != nil {
		fmt.Println(util.ErrorSymbol() + util.LBL.Render(" Failed to write config: "+err.Error()))
		os.Exit(1)
	}
	fmt.Println(util.SuccessSymbol() + util.NSH.Render(" Config written to "+path))
}

func printHeader() {
	const art = `
	 ___  _  _  ___  ___  ___   ___   ___   ___
	| __|\ \/ /|_ _|| __||   \ | _ \ / _ \ | _ \
	| _|  >  <  | | | _| | |) ||   /| (_) ||  _/
	|___|/_/\_\|___||_|  |___/ |_|_\ \___/ |_|
`

	fmt.Printf("\n%s\n", util.LBL.Render(art))
	fmt.Printf("%s %s\n\n",
		util.NSH.Render("	→"),
		util.SHE.Render("Image Metadata Viewer & Stripper"))
}

func printUsage() {
	fmt.Println(util.LBL.Render("USAGE"))
	fmt.Println("  exifdrop <command> [options]")
	fmt.Println("")
	fmt.Println(util.LBL.Render("COMMANDS"))
	fmt.Println("  view <file> [--json]     show camera, date, location and all metadata")
	fmt.Println("  strip <file> [options]   write a copy without metadata")
	fmt.Println("  serve [addr]             open the drop page in a local browser")
	fmt.Println("  daemon <on|off|status>   strip images dropped into watched folders (SIGHUP rotates the log)")
	fmt.Println("  init [--force]           write the current settings to the config directory")
	fmt.Println("  help                     show this help information")
	fmt.Println("  version                  show version information")
	fmt.Println("")
	fmt.Println(util.LBL.Render("STRIP OPTIONS"))
	fmt.Println("  -o, --output <dir>       write the copy to dir instead of beside the file")
	fmt.Println("  -q, --quality <1-100>    JPEG quality (default from config, 95)")
	fmt.Println("  --orient                 apply the EXIF orientation before stripping it")
	fmt.Println("  --force                  replace an existing _no_metadata copy")
	fmt.Println("")
	fmt.Println(util.LBL.Render("FILES"))
	fmt.Println("  " + config.FileName + "            config (./, ./config/, ~/.exifdrop/config/)")
	fmt.Println("  " + config.LabelsFile + "               label overrides for the camera and date views")
}

func printVersion() {
	fmt.Println(util.LBL.Render("EXIFDROP v" + version))
	fmt.Println(util.LBL.Render("→ View and strip image metadata, locally"))
	fmt.Println("")
	fmt.Println(util.InfoSymbol() + util.NSH.Render(" Formats: jpeg, png, gif, bmp, tiff (webp read-only)"))
}
