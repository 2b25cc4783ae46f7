package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/eventlog"
	"github.com/rileyhilliard/serialscope/internal/logger"
	"github.com/rileyhilliard/serialscope/internal/monitor"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/ui"
	"github.com/rileyhilliard/serialscope/internal/viewer"
	"github.com/spf13/cobra"
)

// debugLogFile receives the std logger while the dashboard owns the terminal.
const debugLogFile = "serialscope-debug.log"

// Swapped out in tests.
var (
	listPorts  viewer.PortLister = transport.ListPorts
	isTerminal                   = ui.IsTerminal
	testSignal viewer.Opener     = newTestSignal
)

// newTestSignal starts a synthetic source seeded from the clock.
func newTestSignal() (transport.Source, error) {
	seed := uint64(time.Now().UnixNano())
	return transport.NewSyntheticSource(transport.DefaultSyntheticPoints, transport.DefaultSyntheticInterval, seed), nil
}

// WatchOptions holds the watch flags. Only flags set on the command line
// override the config.
type WatchOptions struct {
	Port        string
	Baud        int
	Hex         bool
	TestSignal  bool
	Threshold   float64
	MetricsAddr string
}

// apply copies explicitly set flags onto cfg and revalidates it.
func (o WatchOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("port") {
		cfg.Port = config.ExpandTilde(o.Port)
	}
	if flags.Changed("baud") {
		cfg.Baud = o.Baud
	}
	if flags.Changed("hex") {
		cfg.Hex = o.Hex
	}
	if flags.Changed("threshold") {
		cfg.Alarm.Threshold = o.Threshold
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = o.MetricsAddr
	}
	return config.Validate(cfg)
}

// watchCommand runs a viewer session until the user quits, the input ends
// (headless only) or the process is interrupted.
func watchCommand(ctx context.Context, cfg *config.Config, opts WatchOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	interactive := isTerminal(os.Stdout) && isTerminal(os.Stdin)

	reg := prometheus.NewRegistry()
	vopts := cfg.ViewerOptions()
	vopts.Logger = sessionLogger()
	vopts.Metrics = viewer.NewMetrics(reg)
	vopts.Alert = bell(os.Stderr)
	ctrl := viewer.NewController(vopts)
	defer func() { _ = ctrl.Close() }()

	if cfg.Metrics.Addr != "" {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		srv, err := serveMetrics(cfg.Metrics.Addr, reg, ctrl.Log())
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	if cfg.Hex {
		ctrl.SetHex(true)
	}

	sources := monitor.Sources{ListPorts: listPorts, TestSignal: testSignal}
	ports := ctrl.RefreshPorts(listPorts)

	port := cfg.Port
	if port == "" && !opts.TestSignal && interactive && len(ports) > 0 {
		picked, err := ui.PickPort(ports)
		if err != nil {
			return err
		}
		if picked == nil {
			return nil
		}
		port = picked.Name
	}
	if port != "" {
		sc := cfg.SerialConfig()
		sc.Port = port
		sources.Port = serialOpener(sc)
	}

	start := sources.Port
	if opts.TestSignal {
		start = sources.TestSignal
	}

	if interactive {
		return runDashboard(ctx, ctrl, sources, start, cfg.Render.Interval)
	}
	return runHeadless(ctx, ctrl, start, os.Stdout, cfg.Render.Interval)
}

// serialOpener opens the configured device on demand, so the dashboard can
// reopen it after a close.
func serialOpener(sc transport.SerialConfig) viewer.Opener {
	return func() (transport.Source, error) {
		src, err := transport.OpenSerial(sc)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
}

// sessionLogger mirrors the event log to stderr only when debugging; the
// dashboard and headless output already show every event.
func sessionLogger() logger.Logger {
	if logger.DebugEnabled() {
		return logger.NewEnvLogger("[viewer]")
	}
	return logger.Noop()
}

// bell rings the terminal bell on every alarm.
func bell(w io.Writer) viewer.AlertFunc {
	return func(value, threshold float64) {
		fmt.Fprint(w, "\a")
	}
}

// runDashboard shows the TUI. Open failures don't stop it; they show up in
// the event log and the user can retry with o or switch to t.
func runDashboard(ctx context.Context, ctrl *viewer.Controller, sources monitor.Sources, start viewer.Opener, interval time.Duration) error {
	if logger.DebugEnabled() {
		f, err := tea.LogToFile(debugLogFile, "serialscope")
		if err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Couldn't open the debug log",
				fmt.Sprintf("Unset %s or make the current directory writable", logger.DebugEnv))
		}
		defer f.Close()
	}

	if start != nil {
		_ = ctrl.Open(ctx, start)
	}

	p := tea.NewProgram(monitor.NewModel(ctx, ctrl, sources, interval), tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, err := p.Run()
	return err
}

// runHeadless streams events to w until the input ends or ctx is cancelled.
func runHeadless(ctx context.Context, ctrl *viewer.Controller, start viewer.Opener, w io.Writer, interval time.Duration) error {
	if start == nil {
		return errors.New(errors.ErrConfig,
			"No serial port configured",
			fmt.Sprintf("Pass --port, set 'port' in %s, or try --test-signal", config.ConfigFileName))
	}

	tail := &entryTail{sink: ctrl.Log(), w: w}
	tail.flush()
	if err := ctrl.Open(ctx, start); err != nil {
		return err
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	ended := ctrl.Ended()

	for {
		select {
		case <-ctx.Done():
			_ = ctrl.Close()
			tail.flush()
			return nil
		case <-ended:
			err := ctrl.Close()
			tail.flush()
			return err
		case <-ticker.C:
			tail.flush()
		}
	}
}

// entryTail prints log entries it hasn't printed yet, oldest first.
type entryTail struct {
	sink *eventlog.Sink
	w    io.Writer
	seq  uint64
}

func (t *entryTail) flush() {
	for _, e := range t.take() {
		fmt.Fprintln(t.w, ui.PlainEntry(e))
	}
}

// take returns the entries recorded since the last call and marks them seen.
func (t *entryTail) take() []eventlog.Entry {
	entries := t.sink.Since(t.seq)
	if len(entries) > 0 {
		t.seq = entries[len(entries)-1].Seq
	}
	return entries
}

// serveMetrics exposes reg on addr/metrics in the background.
func serveMetrics(addr string, reg *prometheus.Registry, log *eventlog.Sink) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't serve metrics on %s", addr),
			"Pick a free address with --metrics-addr, or leave it empty to turn metrics off")
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              ln.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped: %v", err)
		}
	}()
	log.Info("serving metrics on http://%s/metrics", srv.Addr)
	return srv, nil
}
