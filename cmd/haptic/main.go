package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/banshee-data/haptics/internal/haptics"
	"github.com/banshee-data/haptics/internal/pattern"
	"github.com/banshee-data/haptics/internal/serialmux"
	"github.com/banshee-data/haptics/internal/version"
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "list":
		handleList(args)
	case "pulse":
		handlePulse(args)
	case "play":
		handlePlay(args)
	case "serve":
		handleServe(args)
	case "version":
		fmt.Printf("haptic version %s\n", version.String())
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`haptic - debug tool for the haptic gloves

Usage: haptic <command> [options]

Commands:
  list       List serial ports visible to this host
  pulse      Send a single pulse
  play       Play a YAML pattern file
  serve      Run the HTTP debug server (/debug/haptics-*)
  version    Show haptic version
  help       Show this help message

Device Flags (pulse, play, serve):
  --left <id>       Left glove port ID (COM<id> on Windows, /dev/ttyACM<id> on Linux)
  --right <id>      Right glove port ID
  --baud <rate>     Serial baud rate (default 9600)
  --dev <dir>       Write commands to capture files in <dir> instead of hardware

Examples:
  # Index finger on both hands at full strength for 200ms
  haptic pulse --left 3 --right 4 --hand both --location index --strength 1 --duration 0.2

  # Play a pattern without hardware
  haptic play --dev /tmp/gloves ripple.yaml

  # Fire pulses from a browser at http://localhost:8090/debug/
  haptic serve --left 3 --right 4`)
}

// deviceFlags are shared by every command that opens the gloves.
type deviceFlags struct {
	left  uint
	right uint
	baud  int
	dev   string
}

func addDeviceFlags(fs *flag.FlagSet) *deviceFlags {
	df := &deviceFlags{}
	fs.UintVar(&df.left, "left", 1, "Left glove port ID")
	fs.UintVar(&df.right, "right", 2, "Right glove port ID")
	fs.IntVar(&df.baud, "baud", serialmux.DefaultBaudRate, "Serial baud rate")
	fs.StringVar(&df.dev, "dev", "", "Capture directory for dev mode (no hardware)")
	return df
}

// config validates the flags and builds the dispatcher configuration.
func (df *deviceFlags) config() (haptics.Config, error) {
	if df.left > math.MaxUint16 || df.right > math.MaxUint16 {
		return haptics.Config{}, fmt.Errorf("port IDs must be at most %d", math.MaxUint16)
	}
	if df.left == df.right {
		return haptics.Config{}, fmt.Errorf("left and right gloves cannot share port ID %d", df.left)
	}

	opts := serialmux.DefaultPortOptions()
	opts.BaudRate = df.baud
	if _, err := opts.Normalize(); err != nil {
		return haptics.Config{}, fmt.Errorf("invalid serial options: %w", err)
	}

	cfg := haptics.Config{PortOptions: opts}
	if df.dev != "" {
		if err := os.MkdirAll(df.dev, 0o755); err != nil {
			return haptics.Config{}, fmt.Errorf("failed to create capture directory: %w", err)
		}
		cfg.Factory = serialmux.CaptureSerialPortFactory{Dir: df.dev}
	}
	return cfg, nil
}

// open builds and initialises a dispatcher, exiting on invalid flags.
func (df *deviceFlags) open() *haptics.Dispatcher {
	cfg, err := df.config()
	if err != nil {
		log.Fatalf("%v", err)
	}
	d := haptics.NewDispatcher(cfg)
	d.Initialize(uint16(df.left), uint16(df.right))

	for _, st := range d.Status() {
		log.Printf("%s glove on %s (open=%t)", st.Hand, st.Port, st.Open)
	}
	return d
}

func handleList(args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	_ = fs.Parse(args)

	ports, err := serialmux.ListPorts()
	if err != nil {
		log.Fatalf("%v", err)
	}
	if len(ports) == 0 {
		fmt.Println("No serial ports found")
		return
	}
	for _, p := range ports {
		fmt.Println(p)
	}
}

// pulseFlags describe one feedback request on the command line.
type pulseFlags struct {
	hand     string
	location string
	strength float64
	duration float64
}

func addPulseFlags(fs *flag.FlagSet) *pulseFlags {
	pf := &pulseFlags{}
	fs.StringVar(&pf.hand, "hand", "both", "Hand: left, right or both")
	fs.StringVar(&pf.location, "location", "index", "Finger: thumb, index, middle, ring or pinky")
	fs.Float64Var(&pf.strength, "strength", 1, "Strength 0..1 (clamped)")
	fs.Float64Var(&pf.duration, "duration", 0.2, "Pulse duration in seconds")
	return pf
}

func (pf *pulseFlags) request() (haptics.FeedbackRequest, error) {
	hand, err := haptics.ParseHand(pf.hand)
	if err != nil {
		return haptics.FeedbackRequest{}, err
	}
	loc, err := haptics.ParseLocation(pf.location)
	if err != nil {
		return haptics.FeedbackRequest{}, err
	}
	if pf.duration < 0 {
		return haptics.FeedbackRequest{}, fmt.Errorf("duration must not be negative")
	}
	return haptics.FeedbackRequest{
		Hand:     hand,
		Location: loc,
		Strength: float32(pf.strength),
		Duration: float32(pf.duration),
	}, nil
}

func handlePulse(args []string) {
	fs := flag.NewFlagSet("pulse", flag.ExitOnError)
	df := addDeviceFlags(fs)
	pf := addPulseFlags(fs)
	_ = fs.Parse(args)

	req, err := pf.request()
	if err != nil {
		log.Fatalf("%v", err)
	}

	d := df.open()
	defer d.Close()

	sent := d.Dispatch(req)
	cmd := haptics.EncodeRequest(req)
	log.Printf("pulse %s/%s [% x] sent to %v", req.Hand, req.Location, cmd[:], sent)
}

func handlePlay(args []string) {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	df := addDeviceFlags(fs)
	_ = fs.Parse(args)

	if fs.NArg() != 1 {
		log.Fatal("play requires exactly one pattern file")
	}
	p, err := pattern.Load(fs.Arg(0))
	if err != nil {
		log.Fatalf("failed to load pattern: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := df.open()
	defer d.Close()

	log.Printf("playing %q: %d steps x%d (%s per pass)", p.Name, len(p.Steps), p.Repeat, p.Length())
	res, err := pattern.NewPlayer(d, nil).Play(ctx, p)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("playback stopped: %v", err)
	}
	log.Printf("played %d steps: %d pulses sent, %d dropped", res.Steps, res.Sent, res.Dropped)
}

func handleServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	df := addDeviceFlags(fs)
	listen := fs.String("listen", "localhost:8090", "Listen address")
	_ = fs.Parse(args)

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := haptics.NewLockedDispatcher(df.open())
	defer d.Close()

	mux := http.NewServeMux()
	d.AttachAdminRoutes(mux)

	server := &http.Server{
		Addr:              *listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("debug server listening on http://%s/debug/", *listen)
	if err := runServer(ctx, server); err != nil {
		// return normally so the deferred Close releases the gloves
		log.Printf("failed to start server: %v", err)
	}
}

// runServer serves until ctx is cancelled and then shuts the server down. It
// returns the listen error if the server could not start.
func runServer(ctx context.Context, server *http.Server) error {
	// Start server in a goroutine so it doesn't block
	serveErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		return err
	}
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
		if err := server.Close(); err != nil {
			log.Printf("HTTP server force close error: %v", err)
		}
	}
	log.Printf("Graceful shutdown complete")
	return nil
}
