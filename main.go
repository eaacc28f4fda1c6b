package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mjfoley/vam16/config"
	"github.com/mjfoley/vam16/debugger"
	"github.com/mjfoley/vam16/encoder"
	"github.com/mjfoley/vam16/loader"
	"github.com/mjfoley/vam16/objfile"
	"github.com/mjfoley/vam16/parser"
	"github.com/mjfoley/vam16/tools"
	"github.com/mjfoley/vam16/vm"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		debugMode   = flag.Bool("debug", false, "Run under the breakpoint debugger instead of to completion")
		tuiMode     = flag.Bool("tui", false, "Use the TUI debugger (implies -debug)")
		maxCycles   = flag.Uint64("max-cycles", 0, "Maximum cycles before a runaway program is halted (0 uses the config default)")
		memorySize  = flag.Int("memory-size", 0, "Memory image size in bytes (0 uses the config default)")
		stackSize   = flag.Int("stack-size", 0, "Stack size in bytes (0 uses the config default)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		traceMode   = flag.Bool("trace", false, "Record an execution trace and print it after the run")
		traceLimit  = flag.Int("trace-limit", 0, "Maximum trace entries kept (0 uses the config default)")
		xrefMode    = flag.Bool("xref", false, "Print a symbol cross-reference and exit, without running")
		configPath  = flag.String("config", "", "Path to a TOML config file (default: the platform config directory)")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("vam16 %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp || flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *maxCycles, *memorySize, *stackSize, *traceLimit)

	objects, prog, err := assembleAll(flag.Args(), *verboseMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if *xrefMode {
		symbols := tools.NewXRefGenerator().Generate(prog)
		fmt.Print(tools.Report(symbols))
		os.Exit(0)
	}

	vmCfg := vm.Config{MemorySize: cfg.Execution.MemorySize, StackSize: cfg.Execution.StackSize}
	machine, err := loader.LinkAndLoad(objects, vmCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	if cfg.Execution.EnableTrace || *traceMode {
		limit := cfg.Trace.MaxEntries
		if limit == 0 {
			limit = 1000
		}
		machine.Trace = vm.NewTrace(limit)
	}

	if *verboseMode {
		fmt.Printf("Linked %d object(s)\n", len(objects))
	}

	switch {
	case *tuiMode:
		runTUI(machine)
	case *debugMode:
		runDebugger(machine)
	default:
		runToCompletion(machine, cfg.Execution.MaxCycles)
	}

	if machine.Trace != nil {
		fmt.Print(machine.Trace.String())
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func applyOverrides(cfg *config.Config, maxCycles uint64, memorySize, stackSize, traceLimit int) {
	if maxCycles != 0 {
		cfg.Execution.MaxCycles = maxCycles
	}
	if memorySize != 0 {
		cfg.Execution.MemorySize = memorySize
	}
	if stackSize != 0 {
		cfg.Execution.StackSize = stackSize
	}
	if traceLimit != 0 {
		cfg.Trace.MaxEntries = traceLimit
	}
}

// assembleAll assembles every source file into its own object, returning the
// objects in argument order plus the parsed program of the last file (used
// only for -xref, which does not support multi-file cross-referencing).
func assembleAll(paths []string, verbose bool) ([]*objfile.Object, parser.Program, error) {
	objects := make([]*objfile.Object, 0, len(paths))
	var lastProg parser.Program

	for _, path := range paths {
		if verbose {
			fmt.Printf("Assembling %s\n", path)
		}
		f, err := os.Open(path) // #nosec G304 -- user-specified source file
		if err != nil {
			return nil, parser.Program{}, fmt.Errorf("opening %s: %w", path, err)
		}

		obj, prog, err := assembleFile(f)
		closeErr := f.Close()
		if err != nil {
			return nil, parser.Program{}, fmt.Errorf("assembling %s: %w", path, err)
		}
		if closeErr != nil {
			return nil, parser.Program{}, fmt.Errorf("closing %s: %w", path, closeErr)
		}

		objects = append(objects, obj)
		lastProg = prog
	}

	return objects, lastProg, nil
}

func assembleFile(f *os.File) (*objfile.Object, parser.Program, error) {
	prog, err := loader.ParseSource(f)
	if err != nil {
		return nil, parser.Program{}, err
	}
	obj, err := encoder.New().Generate(prog)
	return obj, prog, err
}

func runToCompletion(machine *vm.VM, maxCycles uint64) {
	if err := machine.Run(maxCycles); err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", err)
		os.Exit(1)
	}
	dumpRegisters(machine)
}

func runDebugger(machine *vm.VM) {
	dbg := debugger.New(machine)
	res := dbg.Continue()
	if res.Err != nil {
		fmt.Fprintf(os.Stderr, "Runtime error: %v\n", res.Err)
		os.Exit(1)
	}
	dumpRegisters(machine)
}

func runTUI(machine *vm.VM) {
	dbg := debugger.New(machine)
	tui := debugger.NewTUI(dbg)
	if err := tui.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

func dumpRegisters(machine *vm.VM) {
	for i := 0; i < vm.NumRegisters; i++ {
		fmt.Printf("R%-2d = %d\n", i, machine.CPU.GetRegister(i))
	}
	fmt.Printf("cycles = %d\n", machine.CPU.Cycles)
}

func printHelp() {
	fmt.Println("vam16 - assembler, linker and VM for the vam16 instruction set")
	fmt.Println()
	fmt.Println("Usage: vam16 [flags] file.asm [file2.asm ...]")
	fmt.Println()
	flag.PrintDefaults()
	fmt.Println()
	fmt.Printf("Config file: %s\n", config.GetConfigPath())
}
