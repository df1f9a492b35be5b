// Package interactive provides the interactive keeko shell.
package interactive

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/keeko-protocol/keeko-go/pkg/inspect"
	"github.com/keeko-protocol/keeko-go/pkg/schema"
	"github.com/keeko-protocol/keeko-go/pkg/wire"
)

// Shell edits one message in memory.
type Shell struct {
	codec     *wire.Codec
	catalog   *schema.Catalog
	formatter *inspect.Formatter
	msg       *wire.Message
	out       io.Writer
	rl        *readline.Instance
}

// New creates a shell backed by readline. catalog may be nil.
func New(codec *wire.Codec, catalog *schema.Catalog) (*Shell, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "keeko> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s := newShell(codec, catalog, rl.Stdout())
	s.rl = rl
	return s, nil
}

func newShell(codec *wire.Codec, catalog *schema.Catalog, out io.Writer) *Shell {
	f := inspect.NewFormatter()
	if catalog != nil {
		f.Names = catalog
	}
	return &Shell{
		codec:     codec,
		catalog:   catalog,
		formatter: f,
		msg:       wire.New(),
		out:       out,
	}
}

// Stdout returns a writer that coordinates with the readline prompt.
func (s *Shell) Stdout() io.Writer {
	return s.out
}

// Run starts the command loop and returns on quit, EOF or ctx cancellation.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if !s.Exec(line) {
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
	}
}

// Exec runs one command line. It returns false when the shell should exit.
func (s *Shell) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		s.printHelp()

	case "set", "s":
		s.cmdSet(strings.TrimSpace(input[len(parts[0]):]))

	case "get", "g":
		s.cmdGet(args)

	case "del", "rm":
		s.cmdDel(args)

	case "show", "ls":
		s.cmdShow()

	case "clear":
		s.msg = wire.New()
		fmt.Fprintln(s.out, "Message cleared")

	case "encode", "enc":
		s.cmdEncode()

	case "decode", "dec":
		s.cmdDecode(args)

	case "dump":
		s.cmdDump()

	case "fields":
		s.cmdFields()

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) printHelp() {
	fmt.Fprintln(s.out, `
Keeko Shell Commands:
  Editing:
    set <key>=<kind>:<value>  - Set a field, e.g. set 0x10=u32:42
    set <name>=<value>        - Set a catalog field, e.g. set temperature=21.5
    get <key|name>            - Show one field
    del <key|name>            - Remove a field
    clear                     - Remove all fields
    show                      - List fields in key order
    fields                    - List catalog fields

  Wire:
    encode                    - Encode the message and print hex
    decode <hex>              - Replace the message with a decoded buffer
    dump                      - Annotated listing of the encoded message

  General:
    help                      - Show this help
    quit                      - Exit shell

  Keys:
    decimal (16), hex (0x10), @name (CRC32 of name) or a catalog field name`)
}

// resolveKey accepts a catalog field name or anything inspect.ParseKey does.
func (s *Shell) resolveKey(text string) (uint32, error) {
	if s.catalog != nil {
		if f, ok := s.catalog.Lookup(text); ok {
			return f.Key, nil
		}
	}
	return inspect.ParseKey(text)
}

// cmdSet takes the raw remainder of the line so string values keep their spaces.
func (s *Shell) cmdSet(spec string) {
	if spec == "" {
		fmt.Fprintln(s.out, "Usage: set <key>=<kind>:<value>")
		return
	}

	if s.catalog != nil {
		if name, text, ok := strings.Cut(spec, "="); ok {
			if _, known := s.catalog.Lookup(name); known {
				if err := s.catalog.Set(s.msg, name, text); err != nil {
					fmt.Fprintf(s.out, "Error: %v\n", err)
				}
				return
			}
		}
	}

	key, v, err := inspect.ParseFieldSpec(spec)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if err := s.msg.Set(key, v); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: get <key|name>")
		return
	}
	key, err := s.resolveKey(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	v, err := s.msg.Get(key)
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(s.out, "%s = %s (%s)\n", s.formatter.FormatKey(key), s.formatter.FormatValue(v), v.Kind())
}

func (s *Shell) cmdDel(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(s.out, "Usage: del <key|name>")
		return
	}
	key, err := s.resolveKey(args[0])
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
		return
	}
	if !s.msg.Has(key) {
		fmt.Fprintf(s.out, "Error: %v\n", fmt.Errorf("%w: 0x%08x", wire.ErrKeyNotFound, key))
		return
	}
	s.msg.Delete(key)
}

func (s *Shell) cmdShow() {
	if s.msg.Len() == 0 {
		fmt.Fprintln(s.out, "(empty message)")
		return
	}
	if err := s.formatter.FormatMessage(s.out, s.msg); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) cmdEncode() {
	if s.msg.Len() == 0 {
		fmt.Fprintln(s.out, "Error: message has no fields; set at least one before encoding")
		return
	}
	data := s.codec.Encode(s.msg)
	fmt.Fprintf(s.out, "%s\n(%d bytes)\n", hex.EncodeToString(data), len(data))
}

func (s *Shell) cmdDecode(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(s.out, "Usage: decode <hex>")
		return
	}
	data, err := hex.DecodeString(strings.TrimPrefix(strings.Join(args, ""), "0x"))
	if err != nil {
		fmt.Fprintf(s.out, "Error: invalid hex: %v\n", err)
		return
	}
	m, err := s.codec.Decode(data)
	if err != nil {
		fmt.Fprintf(s.out, "Error [%s]: %v\n", wire.ErrorKind(err), err)
		return
	}
	s.msg = m
	fmt.Fprintf(s.out, "Decoded %d fields\n", m.Len())
}

func (s *Shell) cmdDump() {
	if s.msg.Len() == 0 {
		fmt.Fprintln(s.out, "(empty message)")
		return
	}
	if err := s.formatter.Dump(s.out, s.codec.Encode(s.msg)); err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) cmdFields() {
	if s.catalog == nil {
		fmt.Fprintln(s.out, "No catalog loaded (start with -schema)")
		return
	}
	for _, f := range s.catalog.Fields() {
		marker := ""
		if f.Required {
			marker = " (required)"
		}
		fmt.Fprintf(s.out, "  0x%08x  %-20s %-6s%s\n", f.Key, f.Name, f.Kind, marker)
	}
	if err := s.catalog.Validate(s.msg); err != nil {
		var joined interface{ Unwrap() []error }
		if errors.As(err, &joined) {
			for _, e := range joined.Unwrap() {
				fmt.Fprintf(s.out, "  ! %v\n", e)
			}
		} else {
			fmt.Fprintf(s.out, "  ! %v\n", err)
		}
	}
}
