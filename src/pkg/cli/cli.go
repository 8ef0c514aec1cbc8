// Package cli implements the interactive outline editor.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/google/uuid"

	"outliner/local-app/src/pkg/data"
	"outliner/local-app/src/pkg/event"
	"outliner/local-app/src/pkg/log"
	"outliner/local-app/src/pkg/model"
)

// ErrExit is returned by ExecuteCommand when the user asks to leave
var ErrExit = errors.New("exit requested")

// CLI represents the command-line interface
type CLI struct {
	RL     *readline.Instance
	Prompt string

	manager   *data.TreeManager
	writer    io.Writer
	logger    *log.Logger
	sessionID string

	mu          sync.Mutex
	root        *model.Node
	key         string
	savedDigest string
}

// NewCLI creates a new CLI editing the outline stored under key.
// rl may be nil when commands are fed through ExecuteCommand only.
func NewCLI(manager *data.TreeManager, key string, rl *readline.Instance, logger *log.Logger) *CLI {
	c := &CLI{
		RL:        rl,
		manager:   manager,
		writer:    os.Stdout,
		logger:    logger,
		sessionID: uuid.NewString(),
		key:       key,
	}
	if rl != nil {
		c.writer = rl.Stdout()
	}

	events := manager.Events()
	events.Subscribe(event.TreeSaved, c.markClean)
	events.Subscribe(event.TreeLoaded, c.markClean)
	events.Subscribe(event.TreeReplaced, c.markDirty)
	events.Subscribe(event.TreeRemoved, c.markDirty)

	return c
}

// SetOutput redirects command output
func (c *CLI) SetOutput(w io.Writer) {
	c.writer = w
}

// SessionID returns the id every command of this session is logged with
func (c *CLI) SessionID() string {
	return c.sessionID
}

// Root returns the outline being edited
func (c *CLI) Root() *model.Node {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.root
}

// Key returns the store key the outline is saved under
func (c *CLI) Key() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

// Bootstrap loads the outline under the current key.
// Any failure falls back to the default outline.
func (c *CLI) Bootstrap(ctx context.Context) {
	key := c.Key()
	root, err := c.manager.Load(ctx, key)
	if err != nil {
		c.logger.Warn(ctx, "Failed to load outline, using default", log.Fields{"key": key, "error": err})
		fmt.Fprintf(c.writer, "Could not load '%s' (%v), starting from the default outline\n", key, err)
		root = data.DefaultTree()
		c.setRoot(root, key)
		c.manager.Replace(ctx, root, key)
	} else {
		c.setRoot(root, key)
	}
	c.UpdatePrompt()
}

// Run reads one line from the terminal and executes it
func (c *CLI) Run(ctx context.Context) error {
	line, err := c.RL.Readline()
	if err != nil {
		return err
	}

	line = strings.TrimSpace(line)
	if len(line) == 0 {
		return nil
	}

	err = c.ExecuteCommand(ctx, c.ParseArgs(line))
	c.UpdatePrompt()
	c.RL.SetPrompt(c.Prompt)
	return err
}

// ParseArgs splits a command line on spaces, keeping double-quoted runs together
func (c *CLI) ParseArgs(input string) []string {
	var args []string
	var currentArg strings.Builder
	inQuotes := false

	for _, char := range input {
		switch char {
		case '"':
			inQuotes = !inQuotes
		case ' ', '\t':
			if !inQuotes {
				if currentArg.Len() > 0 {
					args = append(args, currentArg.String())
					currentArg.Reset()
				}
			} else {
				currentArg.WriteRune(char)
			}
		default:
			currentArg.WriteRune(char)
		}
	}

	if currentArg.Len() > 0 {
		args = append(args, currentArg.String())
	}

	return args
}

// ExecuteCommand runs a parsed command line
func (c *CLI) ExecuteCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}

	c.logger.LogCommand(ctx, strings.Join(args, " "), log.Fields{"session": c.sessionID, "key": c.Key()})

	switch strings.ToLower(args[0]) {
	case "show":
		return c.handleShow(args[1:])
	case "json":
		return c.handleJSON(args[1:])
	case "add":
		return c.handleAdd(args[1:])
	case "del":
		return c.handleDelete(args[1:])
	case "toggle":
		return c.handleToggle(args[1:])
	case "text":
		return c.handleText(args[1:])
	case "save":
		return c.handleSave(ctx, args[1:])
	case "load":
		return c.handleLoad(ctx, args[1:])
	case "remove":
		return c.handleRemove(ctx, args[1:])
	case "export":
		return c.handleExport(args[1:])
	case "import":
		return c.handleImport(ctx, args[1:])
	case "new":
		return c.handleNew(ctx, args[1:])
	case "list":
		return c.handleList(ctx, args[1:])
	case "help":
		return c.handleHelp(args[1:])
	case "exit", "quit":
		if c.IsDirty() {
			fmt.Fprintln(c.writer, "Discarding unsaved changes")
		}
		fmt.Fprintln(c.writer, "Exiting...")
		return ErrExit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// IsDirty reports whether the outline differs from what was last saved or loaded
func (c *CLI) IsDirty() bool {
	c.mu.Lock()
	root, saved := c.root, c.savedDigest
	c.mu.Unlock()

	if root == nil {
		return false
	}
	if saved == "" {
		return true
	}
	current, err := data.Digest(root)
	if err != nil {
		return true
	}
	return current != saved
}

// UpdatePrompt rebuilds the prompt from the key and the dirty state
func (c *CLI) UpdatePrompt() {
	marker := ""
	if c.IsDirty() {
		marker = "*"
	}
	c.Prompt = fmt.Sprintf("%s%s> ", c.Key(), marker)
}

func (c *CLI) setRoot(root *model.Node, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.root = root
	c.key = key
}

// markClean records the digest of a saved or loaded outline as the clean state
func (c *CLI) markClean(e event.Event) {
	if e.Data.Root == nil {
		return
	}
	digest, err := data.Digest(e.Data.Root)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.savedDigest = digest
	c.mu.Unlock()
}

func (c *CLI) markDirty(e event.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e.Type == event.TreeRemoved && e.Data.Key != c.key {
		return
	}
	c.savedDigest = ""
}
