package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/example/stockroom/internal/core/form"
)

// ErrQuit is returned by Execute when the user asks to leave the shell.
var ErrQuit = errors.New("quit")

const shellHelp = `Commands:
  tour list [query]                 list tours, optionally searching countries
  tour show <id>                    show one tour
  tour create field=value ...       fields: origin_country destination_country nights price
  tour update <id> field=value ...  change the given fields
  tour delete <id>                  delete a tour
  product list [query]              list products, optionally searching name and SKU
  product show <id>
  product create field=value ...    fields: name sku price quantity supplier
  product update <id> field=value ...
  product delete <id>
  help                              show this help
  exit                              leave the shell

Quote values containing spaces: name="USB-C Hub"`

// Shell is an interactive session over the tour and product services.
type Shell struct {
	tours    *TourAdapter
	products *ProductAdapter
	out      io.Writer
}

func NewShell(tours *TourAdapter, products *ProductAdapter, out io.Writer) *Shell {
	return &Shell{tours: tours, products: products, out: out}
}

// entityCommands is what tour and product have in common.
type entityCommands interface {
	List(ctx context.Context, search string) error
	Create(ctx context.Context, data form.Data) error
	Update(ctx context.Context, id int64, changes form.Data) error
	Delete(ctx context.Context, id int64) error
}

// Execute runs one command line. It returns ErrQuit for exit and quit.
func (s *Shell) Execute(ctx context.Context, line string) error {
	args, err := splitArgs(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "exit", "quit", `\q`:
		return ErrQuit
	case "help", "?":
		fmt.Fprintln(s.out, shellHelp)
		return nil
	case "tour", "tours":
		return s.dispatch(ctx, s.tours, func(id int64) error {
			_, err := s.tours.Show(ctx, id)
			return err
		}, args[1:])
	case "product", "products":
		return s.dispatch(ctx, s.products, func(id int64) error {
			_, err := s.products.Show(ctx, id)
			return err
		}, args[1:])
	default:
		return fmt.Errorf("unknown command %q (try help)", args[0])
	}
}

func (s *Shell) dispatch(ctx context.Context, cmds entityCommands, show func(int64) error, args []string) error {
	if len(args) == 0 {
		return cmds.List(ctx, "")
	}

	verb, rest := strings.ToLower(args[0]), args[1:]
	switch verb {
	case "list", "ls":
		return cmds.List(ctx, strings.Join(rest, " "))
	case "show", "get":
		id, _, err := takeID(rest)
		if err != nil {
			return err
		}
		return show(id)
	case "create", "add":
		data, err := parseAssignments(rest)
		if err != nil {
			return err
		}
		return cmds.Create(ctx, data)
	case "update", "set":
		id, rest, err := takeID(rest)
		if err != nil {
			return err
		}
		data, err := parseAssignments(rest)
		if err != nil {
			return err
		}
		if len(data) == 0 {
			return fmt.Errorf("nothing to update: give at least one field=value")
		}
		return cmds.Update(ctx, id, data)
	case "delete", "rm":
		id, _, err := takeID(rest)
		if err != nil {
			return err
		}
		return cmds.Delete(ctx, id)
	default:
		return fmt.Errorf("unknown action %q (try help)", verb)
	}
}

// Run reads commands until EOF, interrupt or exit. Command errors are
// printed and the loop continues.
func (s *Shell) Run(ctx context.Context, rl *readline.Instance) error {
	fmt.Fprintln(s.out, "Stockroom shell. Type 'help' for commands, 'exit' to quit.")

	errMark := color.New(color.FgRed).Sprint("Error:")
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, readline.ErrInterrupt) {
				return nil
			}
			return err
		}

		if err := s.Execute(ctx, line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(rl.Stderr(), "%s %v\n", errMark, err)
		}
	}
}

// NewReadline creates the line editor used by Run. historyFile may be empty.
func NewReadline(historyFile string) (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:            "\033[1;36mstockroom>\033[0m ",
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("tour", verbItems()...),
			readline.PcItem("product", verbItems()...),
			readline.PcItem("help"),
			readline.PcItem("exit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize readline: %w", err)
	}
	return rl, nil
}

func verbItems() []readline.PrefixCompleterInterface {
	return []readline.PrefixCompleterInterface{
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("create"),
		readline.PcItem("update"),
		readline.PcItem("delete"),
	}
}

func takeID(args []string) (int64, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, nil, fmt.Errorf("invalid id %q", args[0])
	}
	return id, args[1:], nil
}

func parseAssignments(args []string) (form.Data, error) {
	data := form.Data{}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}
		data[key] = value
	}
	return data, nil
}

// splitArgs splits a line on whitespace, keeping double- or single-quoted
// runs together. Quotes may start mid-word, as in name="USB-C Hub".
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		quote   rune
		inToken bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case r == ' ' || r == '\t':
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
