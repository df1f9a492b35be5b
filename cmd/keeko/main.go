// Command keeko encodes, decodes and inspects Keeko messages.
//
// Usage:
//
//	keeko <command> [flags] [args]
//
// Commands:
//
//	encode   Build a message from fields and print its encoding
//	decode   Decode a buffer and list its fields
//	dump     Annotated wire listing of a buffer
//	key      Print the CRC32 field key of names
//	capture  View, export or summarize a capture file
//	repl     Interactive message editor
//
// Examples:
//
//	# Encode two fields as hex
//	keeko encode 0x10=u32:42 @label=string:kitchen
//
//	# Encode with a field catalog and decode again
//	keeko encode -schema thermostat.yaml temperature=21.5 | keeko decode -hex -schema thermostat.yaml -
//
//	# Record codec operations and review them
//	keeko decode -capture session.kcap msg.bin
//
//	# Build a stream of framed messages and decode it
//	keeko encode -frame -o stream.bin 1=u8:1
//	keeko encode -frame -o stream.bin 2=string:two
//	keeko decode -frames stream.bin
//	keeko capture -category error session.kcap
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/keeko-protocol/keeko-go/cmd/keeko/commands"
	"github.com/keeko-protocol/keeko-go/cmd/keeko/interactive"
	"github.com/keeko-protocol/keeko-go/pkg/log"
	"github.com/keeko-protocol/keeko-go/pkg/schema"
)

const usage = `keeko - Keeko message codec tool

Usage:
  keeko <command> [flags] [args]

Commands:
  encode   Build a message from fields and print its encoding
  decode   Decode a buffer and list its fields
  dump     Annotated wire listing of a buffer
  key      Print the CRC32 field key of names
  capture  View, export or summarize a capture file
  repl     Interactive message editor

Use "keeko <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "encode":
		runEncode(args)
	case "decode":
		runDecode(args)
	case "dump":
		runDump(args)
	case "key":
		runKey(args)
	case "capture":
		runCapture(args)
	case "repl":
		runRepl(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// fatal prints err and exits.
func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func newFlagSet(name, synopsis, help string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "keeko %s - %s\n\nUsage:\n  keeko %s\n\nFlags:\n", name, help, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

func loadCatalog(path string) *schema.Catalog {
	if path == "" {
		return nil
	}
	c, err := schema.Load(path)
	if err != nil {
		fatal(err)
	}
	return c
}

// openSession creates the codec session for a command. Verbose mirrors
// capture events to a debug-level slog handler on stderr.
func openSession(capturePath string, verbose bool, metrics prometheus.Registerer) *commands.Session {
	opts := commands.SessionOptions{
		CapturePath: capturePath,
		Metrics:     metrics,
	}
	if verbose {
		opts.Slog = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	s, err := commands.OpenSession(opts)
	if err != nil {
		fatal(err)
	}
	if opts.Slog != nil {
		opts.Slog.Debug("session started", "session_id", s.ID, "capture", capturePath)
	}
	return s
}

func runEncode(args []string) {
	fs := newFlagSet("encode", "encode [flags] <field>...",
		"Build a message from fields and print its encoding\n\nFields are key=kind:value (key decimal, 0x hex or @name) or name=value with -schema.")
	schemaPath := fs.String("schema", "", "Field catalog (YAML or TOML)")
	output := fs.String("o", "", "Output file (default: stdout)")
	raw := fs.Bool("raw", false, "Write binary instead of hex")
	framed := fs.Bool("frame", false, "Write a length-prefixed frame (appends to -o)")
	capture := fs.String("capture", "", "Append codec events to this capture file")
	verbose := fs.Bool("v", false, "Log codec events to stderr")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	opts := commands.EncodeOptions{
		Catalog: loadCatalog(*schemaPath),
		Raw:     *raw,
		Output:  *output,
		Framed:  *framed,
	}

	s := openSession(*capture, *verbose, nil)
	err := commands.RunEncode(fs.Args(), opts, s.Codec, os.Stdout)
	s.Close()
	if err != nil {
		fatal(err)
	}
}

func readInputArg(fs *flag.FlagSet, isHex bool) []byte {
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: input file path required (use - for stdin)")
		fs.Usage()
		os.Exit(1)
	}
	data, err := commands.ReadInput(fs.Arg(0), os.Stdin, isHex)
	if err != nil {
		fatal(err)
	}
	return data
}

func runDecode(args []string) {
	fs := newFlagSet("decode", "decode [flags] <file|->", "Decode a buffer and list its fields")
	schemaPath := fs.String("schema", "", "Field catalog (YAML or TOML)")
	isHex := fs.Bool("hex", false, "Input is hex text")
	frames := fs.Bool("frames", false, "Input is a stream of length-prefixed frames")
	capture := fs.String("capture", "", "Append codec events to this capture file")
	verbose := fs.Bool("v", false, "Log codec events to stderr")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	catalog := loadCatalog(*schemaPath)
	data := readInputArg(fs, *isHex)

	s := openSession(*capture, *verbose, nil)
	var err error
	if *frames {
		err = commands.RunDecodeStream(bytes.NewReader(data), catalog, s.Codec, os.Stdout)
	} else {
		err = commands.RunDecode(data, catalog, s.Codec, os.Stdout)
	}
	s.Close()
	if err != nil {
		fatal(err)
	}
}

func runDump(args []string) {
	fs := newFlagSet("dump", "dump [flags] <file|->", "Annotated wire listing of a buffer")
	schemaPath := fs.String("schema", "", "Field catalog (YAML or TOML)")
	isHex := fs.Bool("hex", false, "Input is hex text")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	catalog := loadCatalog(*schemaPath)
	if err := commands.RunDump(readInputArg(fs, *isHex), catalog, os.Stdout); err != nil {
		fatal(err)
	}
}

func runKey(args []string) {
	fs := newFlagSet("key", "key <name>...", "Print the CRC32 field key of names")
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: at least one name required")
		fs.Usage()
		os.Exit(1)
	}
	if err := commands.RunKey(fs.Args(), os.Stdout); err != nil {
		fatal(err)
	}
}

func runCapture(args []string) {
	fs := newFlagSet("capture", "capture [flags] <file.kcap>", "View, export or summarize a capture file")
	session := fs.String("session", "", "Filter by session ID")
	direction := fs.String("direction", "", "Filter by direction (decode, encode)")
	category := fs.String("category", "", "Filter by category (message, error)")
	key := fs.String("key", "", "Filter by field key (decimal, 0x hex or @name)")
	timeStart := fs.String("time-start", "", "Filter by start time (RFC3339)")
	timeEnd := fs.String("time-end", "", "Filter by end time (RFC3339)")
	format := fs.String("format", "text", "Output format (text, jsonl)")
	stats := fs.Bool("stats", false, "Print statistics instead of events")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: capture file path required")
		fs.Usage()
		os.Exit(1)
	}
	path := fs.Arg(0)

	if *stats {
		if err := commands.RunCaptureStats(path, os.Stdout); err != nil {
			fatal(err)
		}
		return
	}

	filter := log.Filter{SessionID: *session}
	if *direction != "" {
		d, err := commands.ParseDirectionFlag(*direction)
		if err != nil {
			fatal(err)
		}
		filter.Direction = &d
	}
	if *category != "" {
		c, err := commands.ParseCategoryFlag(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}
	if *key != "" {
		k, err := commands.ParseKeyFlag(*key)
		if err != nil {
			fatal(err)
		}
		filter.Key = &k
	}
	if *timeStart != "" {
		t, err := time.Parse(time.RFC3339, *timeStart)
		if err != nil {
			fatal(fmt.Errorf("invalid time-start: %w", err))
		}
		filter.TimeStart = &t
	}
	if *timeEnd != "" {
		t, err := time.Parse(time.RFC3339, *timeEnd)
		if err != nil {
			fatal(fmt.Errorf("invalid time-end: %w", err))
		}
		filter.TimeEnd = &t
	}

	var err error
	switch *format {
	case "text":
		err = commands.RunCaptureView(path, filter, os.Stdout)
	case "jsonl":
		err = commands.RunCaptureExport(path, filter, os.Stdout)
	default:
		err = fmt.Errorf("unknown format: %s (supported: text, jsonl)", *format)
	}
	if err != nil {
		fatal(err)
	}
}

func runRepl(args []string) {
	fs := newFlagSet("repl", "repl [flags]", "Interactive message editor")
	schemaPath := fs.String("schema", "", "Field catalog (YAML or TOML)")
	capture := fs.String("capture", "", "Append codec events to this capture file")
	metricsAddr := fs.String("metrics", "", "Serve Prometheus metrics on this address (e.g. :9464)")
	verbose := fs.Bool("v", false, "Log codec events to stderr")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	catalog := loadCatalog(*schemaPath)

	var (
		reg     *prometheus.Registry
		metrics prometheus.Registerer
	)
	if *metricsAddr != "" {
		reg = prometheus.NewRegistry()
		metrics = reg
	}
	s := openSession(*capture, *verbose, metrics)
	defer s.Close()

	shell, err := interactive.New(s.Codec, catalog)
	if err != nil {
		fatal(err)
	}

	if reg != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		srv := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				fmt.Fprintf(shell.Stdout(), "metrics server: %v\n", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
		fmt.Fprintf(shell.Stdout(), "Serving metrics on http://%s/metrics\n", *metricsAddr)
	}

	shell.Run(context.Background())
}
