package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/flatdyn"
	"github.com/wippyai/flatdyn/config"
	"github.com/wippyai/flatdyn/transcoder"
)

func main() {
	var (
		configFile   = flag.String("config", "", "Config file (.yaml, .yml or .json)")
		schemaFiles  = flag.String("schema", "", "Schema files to load (comma-separated)")
		schemaDirs   = flag.String("schema-dir", "", "Directories to scan for schemas (comma-separated)")
		suffix       = flag.String("suffix", "", "Schema file suffix matched in directories")
		schemaName   = flag.String("root", "", "Schema to encode with")
		objectName   = flag.String("type", "", "Object to encode (default: the schema root table)")
		inFile       = flag.String("in", "-", "YAML or JSON input file, - for stdin")
		doc          = flag.String("value", "", "Inline YAML or JSON input, overrides -in")
		outFile      = flag.String("out", "", "Output file (default stdout)")
		format       = flag.String("format", "", "Output format: raw or hex (default: hex on a terminal)")
		compress     = flag.String("compress", "", "Output compression: none or snappy")
		sizePrefixed = flag.Bool("size-prefixed", false, "Prefix the buffer with its size")
		logLevel     = flag.String("log-level", "", "Log level: debug, info, warn, error")
		list         = flag.Bool("list", false, "List loaded schemas and objects and exit")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *schemaFiles != "" {
		cfg.SchemaFiles = append(cfg.SchemaFiles, splitList(*schemaFiles)...)
	}
	if *schemaDirs != "" {
		cfg.SchemaDirs = append(cfg.SchemaDirs, splitList(*schemaDirs)...)
	}
	if *suffix != "" {
		cfg.Suffix = *suffix
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *format != "" {
		cfg.Output.Format = config.Format(*format)
	}
	if *compress != "" {
		cfg.Output.Compress = config.Compression(*compress)
	}
	if *sizePrefixed {
		cfg.Output.SizePrefixed = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(cfg.SchemaFiles) == 0 && len(cfg.SchemaDirs) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: flatdyn -schema <file.bfbs> -root <schema> [-type Object] [-in doc.yaml] [-out file]")
		fmt.Fprintln(os.Stderr, "       flatdyn -schema-dir <dir> -list")
		fmt.Fprintln(os.Stderr, "       flatdyn -schema-dir <dir> -i  (interactive mode)")
		os.Exit(1)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck

	if *interactive {
		// Logs would draw over the alternate screen.
		if err := runInteractive(cfg, zap.NewNop()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	codec, err := openCodec(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *list {
		printCatalog(os.Stdout, codec)
		return
	}

	if err := run(codec, cfg, *schemaName, *objectName, *inFile, *doc, *outFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if bt := flatdyn.Backtrace(err); len(bt) > 0 {
			fmt.Fprintf(os.Stderr, "Backtrace: %s\n", strings.Join(bt, " <- "))
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	config.LoadFromEnv(cfg)
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.Level())
	zc.Encoding = "console"
	zc.DisableStacktrace = true
	return zc.Build()
}

// openCodec creates a codec and loads the configured directories, then the
// configured files.
func openCodec(cfg *config.Config, logger *zap.Logger) (*flatdyn.Codec, error) {
	codec := flatdyn.New(
		flatdyn.WithLogger(logger),
		flatdyn.WithEncoderOptions(transcoder.Options{
			SizePrefixed: cfg.Output.SizePrefixed,
			InitialSize:  cfg.Output.InitialBuffer,
		}),
	)
	for _, dir := range cfg.SchemaDirs {
		if _, err := codec.LoadDir(dir, cfg.Suffix); err != nil {
			return nil, err
		}
	}
	for _, file := range cfg.SchemaFiles {
		if err := codec.LoadFile(file); err != nil {
			return nil, err
		}
	}
	return codec, nil
}

func run(codec *flatdyn.Codec, cfg *config.Config, schemaName, objectName, inFile, doc, outFile string) error {
	schemaName, objectName, err := resolveTarget(codec, schemaName, objectName)
	if err != nil {
		return err
	}

	input := []byte(doc)
	if doc == "" {
		input, err = readInput(inFile)
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}
	}

	buf, err := codec.EncodeDocument(schemaName, objectName, input)
	if err != nil {
		return err
	}

	out := os.Stdout
	tty := term.IsTerminal(int(os.Stdout.Fd()))
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		out = f
		tty = false
	}

	if _, err := out.Write(render(buf, cfg.Output, tty)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

// resolveTarget fills in the schema when only one is loaded and the object
// from the schema's root table.
func resolveTarget(codec *flatdyn.Codec, schemaName, objectName string) (string, string, error) {
	reg := codec.Registry()
	if schemaName == "" {
		names := reg.Names()
		if len(names) != 1 {
			return "", "", fmt.Errorf("-root is required when %d schemas are loaded", len(names))
		}
		schemaName = names[0]
	}
	if objectName != "" {
		return schemaName, objectName, nil
	}

	plan, err := reg.Plan(schemaName)
	if err != nil {
		return "", "", err
	}
	root := plan.Root()
	if root == nil {
		return "", "", fmt.Errorf("schema %q has no root table, use -type", schemaName)
	}
	return schemaName, root.Name, nil
}

func readInput(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printCatalog(w io.Writer, codec *flatdyn.Codec) {
	reg := codec.Registry()
	for _, name := range reg.Names() {
		entry, ok := reg.Entry(name)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "Schema: %s (%d bytes, %s)\n", name, len(entry.Raw), entry.Fingerprint)
		if ident := entry.Plan.FileIdentifier(); ident != "" {
			fmt.Fprintf(w, "  identifier: %s\n", ident)
		}
		for _, obj := range describeObjects(entry) {
			fmt.Fprintf(w, "  %s\n", obj.signature())
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
