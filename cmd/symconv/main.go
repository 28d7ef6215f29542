// Command symconv converts a disassembler project database (.idb) or a
// Ghidra XML export into an ELF symbols-only object, a JSON symbol map,
// and/or a human-readable text listing.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/interruptlabs/symconv"
	"github.com/interruptlabs/symconv/internal/elfwriter"
	"github.com/interruptlabs/symconv/internal/writers"
)

func main() {
	idbPath := flag.String("idb", "", "Path of the .idb file (input).")
	ghidraXMLPath := flag.String("ghidra-xml", "", "Path of the Ghidra XML export (input).")

	symPath := flag.String("sym", "", "Path of the .sym (ELF) file (output).")
	jsonPath := flag.String("json", "", "Path of the .json file (output, - for stdout).")
	txtPath := flag.String("txt", "", "Path of the .txt file (output, - for stdout).")

	noFunctions := flag.Bool("no-functions", false, "Do not include functions in the output.")
	autoFunctions := flag.Bool("auto-functions", false, "Include automatically named functions in the output.")
	noGlobals := flag.Bool("no-globals", false, "Do not include globals in the output.")
	wordSize := flag.Int("word-size", 0, "The word size of the binary: 32 or 64. Defaults to the input's hint, then 64.")
	endianness := flag.String("endianness", "", "The endianness of the binary: little or big. Defaults to the input's hint, then big.")
	verifyChecksum := flag.Bool("verify-checksum", false, "Verify IDB section checksums.")

	abi := flag.String("abi", "none", "ELF OS/ABI: none, linux, solaris, freebsd, openbsd, standalone.")
	abiVersion := flag.Int("abi-version", 0, "ELF ABI version.")
	elfType := flag.String("type", "none", "ELF object type: none, rel, exec, dyn, core.")
	machine := flag.String("machine", "none", "ELF machine: none, 386, arm, x86-64, aarch64.")
	entryPoint := flag.Uint64("entry-point", 0, "ELF entry point.")
	elfFlags := flag.Uint("flags", 0, "ELF e_flags.")

	flag.Parse()

	if *idbPath == "" && *ghidraXMLPath == "" {
		log.Fatalf("at least one input argument (-idb or -ghidra-xml) is required")
	}
	if *idbPath != "" && *ghidraXMLPath != "" {
		log.Fatalf("-idb and -ghidra-xml are mutually exclusive")
	}
	if *symPath == "" && *jsonPath == "" && *txtPath == "" {
		log.Fatalf("at least one output argument (-sym, -json, -txt) is required")
	}

	var wordSizeOverride *bool
	switch *wordSize {
	case 0:
	case 32:
		v := false
		wordSizeOverride = &v
	case 64:
		v := true
		wordSizeOverride = &v
	default:
		log.Fatalf("-word-size must be 32 or 64, got %d", *wordSize)
	}

	var endiannessOverride *bool
	switch *endianness {
	case "":
	case "little":
		v := false
		endiannessOverride = &v
	case "big":
		v := true
		endiannessOverride = &v
	default:
		log.Fatalf("-endianness must be little or big, got %q", *endianness)
	}

	bundle, err := buildBundle(*idbPath, *ghidraXMLPath, symconv.FromIDBOptions{
		NoFunctions:    *noFunctions,
		AutoFunctions:  *autoFunctions,
		NoGlobals:      *noGlobals,
		VerifyChecksum: *verifyChecksum,
	})
	if err != nil {
		log.Fatalf("failed to read input: %v", err)
	}

	if *symPath != "" {
		abiValue, err := parseABI(*abi)
		if err != nil {
			log.Fatalf("%v", err)
		}
		typeValue, err := parseType(*elfType)
		if err != nil {
			log.Fatalf("%v", err)
		}
		machineValue, err := parseMachine(*machine)
		if err != nil {
			log.Fatalf("%v", err)
		}

		data, err := symconv.ToELF(bundle, elfwriter.Options{
			Word64:     bundle.ResolveWord64(wordSizeOverride),
			BigEndian:  bundle.ResolveBigEndian(endiannessOverride),
			ABI:        abiValue,
			ABIVersion: uint8(*abiVersion),
			Type:       typeValue,
			Machine:    machineValue,
			EntryPoint: *entryPoint,
			Flags:      uint32(*elfFlags),
		})
		if err != nil {
			log.Fatalf("failed to emit ELF: %v", err)
		}
		if err := os.WriteFile(*symPath, data, 0o644); err != nil {
			log.Fatalf("failed to write %s: %v", *symPath, err)
		}
	}

	if *jsonPath != "" {
		if err := writeOutput(*jsonPath, func(w *bytes.Buffer) error {
			return writers.WriteJSON(w, bundle)
		}); err != nil {
			log.Fatalf("failed to write json output: %v", err)
		}
	}

	if *txtPath != "" {
		if err := writeOutput(*txtPath, func(w *bytes.Buffer) error {
			return writers.WriteText(w, bundle)
		}); err != nil {
			log.Fatalf("failed to write text output: %v", err)
		}
	}

	if bundle.SkippedSymbols > 0 {
		fmt.Fprintf(os.Stderr, "symconv: skipped %d symbols outside every section\n", bundle.SkippedSymbols)
	}
}

func buildBundle(idbPath, ghidraXMLPath string, opts symconv.FromIDBOptions) (*symconv.Bundle, error) {
	if idbPath != "" {
		f, err := os.Open(idbPath)
		if err != nil {
			return nil, err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil {
				log.Printf("failed to close %s: %v", idbPath, cerr)
			}
		}()
		return symconv.FromIDB(f, opts)
	}

	f, err := os.Open(ghidraXMLPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Printf("failed to close %s: %v", ghidraXMLPath, cerr)
		}
	}()
	return symconv.FromGhidraXML(f)
}

// writeOutput runs render into a buffer, then writes it to path, or to
// stdout when path is "-".
func writeOutput(path string, render func(*bytes.Buffer) error) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}
	if path == "-" {
		_, err := os.Stdout.Write(buf.Bytes())
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func parseABI(s string) (elfwriter.OSABI, error) {
	switch s {
	case "none", "":
		return elfwriter.OSABINone, nil
	case "linux":
		return elfwriter.OSABILinux, nil
	case "solaris":
		return elfwriter.OSABISolaris, nil
	case "freebsd":
		return elfwriter.OSABIFreeBSD, nil
	case "openbsd":
		return elfwriter.OSABIOpenBSD, nil
	case "standalone":
		return elfwriter.OSABIStandalone, nil
	default:
		return 0, fmt.Errorf("unknown -abi %q", s)
	}
}

func parseType(s string) (elfwriter.Type, error) {
	switch s {
	case "none", "":
		return elfwriter.TypeNone, nil
	case "rel":
		return elfwriter.TypeRel, nil
	case "exec":
		return elfwriter.TypeExec, nil
	case "dyn":
		return elfwriter.TypeDyn, nil
	case "core":
		return elfwriter.TypeCore, nil
	default:
		return 0, fmt.Errorf("unknown -type %q", s)
	}
}

func parseMachine(s string) (elfwriter.Machine, error) {
	switch s {
	case "none", "":
		return elfwriter.MachineNone, nil
	case "386":
		return elfwriter.Machine386, nil
	case "arm":
		return elfwriter.MachineARM, nil
	case "x86-64":
		return elfwriter.MachineX8664, nil
	case "aarch64":
		return elfwriter.MachineAArch64, nil
	default:
		return 0, fmt.Errorf("unknown -machine %q", s)
	}
}
