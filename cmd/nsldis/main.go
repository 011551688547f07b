package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/zboralski/ngen-nsl/nsl"
	"github.com/zboralski/ngen-nsl/nsl/blocks"
	"github.com/zboralski/ngen-nsl/nsl/blocks/render"
	"github.com/zboralski/ngen-nsl/nsl/codec"
	"github.com/zboralski/ngen-nsl/nsl/config"
	"github.com/zboralski/ngen-nsl/nsl/disasm"
	"github.com/zboralski/ngen-nsl/nsl/export"
)

func printDiag(d nsl.Diagnostic) {
	if d.Index >= 0 {
		fmt.Fprintf(os.Stderr, "diag [%s] #%d @0x%x: %s\n", d.Kind, d.Index, d.Offset, d.Msg)
	} else {
		fmt.Fprintf(os.Stderr, "diag [%s] @0x%x: %s\n", d.Kind, d.Offset, d.Msg)
	}
}

func fatal(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(code)
}

func main() {
	configPath := flag.String("config", "", "path to nsl.toml (default: search upward from the input)")
	modeName := flag.String("mode", "", "decode mode: lenient, strict, besteffort")
	maxSteps := flag.Int("max-steps", 0, "max instructions to decode (0 uses default)")
	verbose := flag.Int("v", 0, "log verbosity")
	logFile := flag.String("log", "", "log file (default: stderr)")
	cborFlag := flag.Bool("cbor", false, "write a CBOR export next to the input")
	dotFlag := flag.Bool("dot", false, "write the block tree as DOT next to the input")
	svgFlag := flag.Bool("svg", false, "render the DOT file to SVG (needs graphviz)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: nsldis [flags] <file.nsl>\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	path := flag.Arg(0)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFile(*configPath)
	} else {
		cfg, err = config.FindAndLoad(filepath.Dir(path))
	}
	if err != nil {
		fatal(2, "%v", err)
	}

	// Flags override the config file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "mode":
			cfg.Decode.Mode = *modeName
		case "max-steps":
			cfg.Decode.MaxSteps = *maxSteps
		case "v":
			cfg.Log.Verbosity = *verbose
		case "log":
			cfg.Log.File = *logFile
		case "cbor":
			cfg.Output.CBOR = *cborFlag
		case "dot":
			cfg.Output.DOT = *dotFlag
		}
	})
	if *svgFlag {
		cfg.Output.DOT = true
	}

	var logPath *string
	if cfg.Log.File != "" {
		logPath = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logPath)

	opt, err := cfg.Options()
	if err != nil {
		fatal(2, "%v", err)
	}

	res, err := codec.DecodeFileOpt(path, opt)
	for _, d := range res.Diags {
		printDiag(d)
	}
	if err != nil {
		fatal(1, "%v", err)
	}
	script := res.Value

	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)

	if cfg.Output.CBOR {
		data, err := export.Marshal(script)
		if err != nil {
			fatal(1, "%v", err)
		}
		out := base + ".cbor"
		if err := os.WriteFile(out, data, 0644); err != nil {
			fatal(1, "could not write %s: %v", out, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	}

	if cfg.Output.DOT {
		tree := blocks.Analyze(script).Value
		dotFile := base + ".dot"
		if err := os.WriteFile(dotFile, []byte(render.DOT(script, tree, filepath.Base(path))), 0644); err != nil {
			fatal(1, "could not write %s: %v", dotFile, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", dotFile)

		if *svgFlag {
			dotPath, err := exec.LookPath("dot")
			if err != nil {
				fatal(1, "graphviz not found (install with: brew install graphviz)")
			}
			svgFile := base + ".svg"
			cmd := exec.Command(dotPath, "-Tsvg", "-o", svgFile, dotFile)
			cmd.Stderr = os.Stderr
			if err := cmd.Run(); err != nil {
				fatal(1, "dot -Tsvg failed: %v", err)
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", svgFile)
		}
	}

	if !cfg.Output.Listing {
		return
	}
	lst := disasm.Listing(script, disasm.Options{Header: true, Bytes: cfg.Output.Bytes, Indent: cfg.Output.Indent})
	for _, d := range lst.Diags {
		printDiag(d)
	}
	fmt.Print(lst.Value)

	// Write .dis file alongside input
	disPath := base + ".dis"
	if err := os.WriteFile(disPath, []byte(lst.Value), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not write %s: %v\n", disPath, err)
	}
}
