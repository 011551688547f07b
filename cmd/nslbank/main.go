package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/zboralski/ngen-nsl/nsl/bank"
	"github.com/zboralski/ngen-nsl/nsl/codec"
)

const usage = `usage: nslbank [flags] <command> <bank.nslb> [args]

Commands:
  pack <bank> <file.nsl>...        add scripts (named by file base name)
  list <bank>                      list entries
  extract <bank> <name> <out.nsl>  write one entry to a file
  remove <bank> <name>...          delete entries

Flags:
`

func main() {
	verbose := flag.Int("v", 0, "log verbosity")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	commonlog.Configure(*verbose, nil)

	if flag.NArg() < 2 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, path, args := flag.Arg(0), flag.Arg(1), flag.Args()[2:]

	var err error
	switch cmd {
	case "pack":
		err = pack(path, args)
	case "list":
		err = list(path)
	case "extract":
		if len(args) != 2 {
			flag.Usage()
			os.Exit(2)
		}
		err = extract(path, args[0], args[1])
	case "remove":
		err = remove(path, args)
	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", cmd)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// open loads the bank at path, or returns an empty one if it does not exist.
func open(path string) (*bank.Bank, error) {
	b, err := bank.LoadFile(path)
	if os.IsNotExist(err) {
		return bank.New(), nil
	}
	return b, err
}

func pack(path string, files []string) error {
	b, err := open(path)
	if err != nil {
		return err
	}
	for _, f := range files {
		data, err := codec.ReadFile(f)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(f), filepath.Ext(f))
		if err := b.PutRaw(name, data); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "added %s (%d bytes)\n", name, len(data))
	}
	return b.SaveFile(path)
}

func list(path string) error {
	b, err := bank.LoadFile(path)
	if err != nil {
		return err
	}
	for _, name := range b.Names() {
		raw, _ := b.Raw(name)
		s, err := b.Get(name)
		if err != nil {
			fmt.Printf("%-24s %6d bytes  <%v>\n", name, len(raw), err)
			continue
		}
		fmt.Printf("%-24s %6d bytes  %4d instrs\n", name, len(raw), s.Len())
	}
	return nil
}

func extract(path, name, out string) error {
	b, err := bank.LoadFile(path)
	if err != nil {
		return err
	}
	raw, ok := b.Raw(name)
	if !ok {
		return fmt.Errorf("no entry %q in %s", name, path)
	}
	if err := os.WriteFile(out, raw, 0644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", out)
	return nil
}

func remove(path string, names []string) error {
	b, err := bank.LoadFile(path)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := b.Raw(name); !ok {
			return fmt.Errorf("no entry %q in %s", name, path)
		}
		b.Remove(name)
	}
	return b.SaveFile(path)
}
