package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"outliner/local-app/src/pkg/data"
	"outliner/local-app/src/pkg/model"
)

func (c *CLI) handleShow(args []string) error {
	showAll := false
	var target string
	for _, arg := range args {
		if arg == "--all" {
			showAll = true
			continue
		}
		if target != "" {
			return fmt.Errorf("usage: show [id] [--all]")
		}
		target = arg
	}

	node := c.Root()
	if target != "" {
		var err error
		if node, err = c.findNode(target); err != nil {
			return err
		}
	}

	RenderTree(c.writer, node, showAll)
	return nil
}

func (c *CLI) handleJSON(args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("usage: json [id]")
	}

	node := c.Root()
	if len(args) == 1 {
		var err error
		if node, err = c.findNode(args[0]); err != nil {
			return err
		}
	}

	out, err := data.EncodeIndent(node)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.writer, string(out))
	return nil
}

func (c *CLI) handleAdd(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: add <parent id> <text>")
	}

	parent, err := c.findNode(args[0])
	if err != nil {
		return err
	}

	child := model.NewNode(false, strings.Join(args[1:], " "))
	parent.PrependChild(child)
	fmt.Fprintf(c.writer, "Added node %d under %d\n", child.ID(), parent.ID())
	return nil
}

func (c *CLI) handleDelete(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: del <id>")
	}

	id, err := parseNodeID(args[0])
	if err != nil {
		return err
	}

	root := c.Root()
	if id == root.ID() {
		return fmt.Errorf("cannot delete the root node")
	}

	parent := root.FindParent(id)
	if parent == nil || !parent.RemoveChild(id) {
		return fmt.Errorf("node %d not found", id)
	}
	fmt.Fprintf(c.writer, "Deleted node %d\n", id)
	return nil
}

func (c *CLI) handleToggle(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: toggle <id>")
	}

	node, err := c.findNode(args[0])
	if err != nil {
		return err
	}
	node.Toggle()
	return nil
}

func (c *CLI) handleText(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: text <id> <text>")
	}

	node, err := c.findNode(args[0])
	if err != nil {
		return err
	}
	node.SetText(strings.Join(args[1:], " "))
	return nil
}

func (c *CLI) handleSave(ctx context.Context, args []string) error {
	key, err := c.keyArg("save", args)
	if err != nil {
		return err
	}

	root := c.Root()
	if err := c.manager.Save(ctx, root, key); err != nil {
		return err
	}
	c.setRoot(root, key)
	fmt.Fprintf(c.writer, "Outline saved under '%s'\n", key)
	return nil
}

func (c *CLI) handleLoad(ctx context.Context, args []string) error {
	key, err := c.keyArg("load", args)
	if err != nil {
		return err
	}

	root, err := c.manager.Load(ctx, key)
	if err != nil {
		return err
	}
	c.setRoot(root, key)
	fmt.Fprintf(c.writer, "Outline '%s' loaded (%d nodes)\n", key, root.Count())
	return nil
}

func (c *CLI) handleRemove(ctx context.Context, args []string) error {
	key, err := c.keyArg("remove", args)
	if err != nil {
		return err
	}

	if err := c.manager.Remove(ctx, key); err != nil {
		return err
	}
	fmt.Fprintf(c.writer, "Outline '%s' removed from the store\n", key)
	return nil
}

func (c *CLI) handleExport(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: export <json|xml> <file>")
	}

	format := strings.ToLower(args[0])
	if err := data.FileExport(c.Root(), args[1], format); err != nil {
		return err
	}
	fmt.Fprintf(c.writer, "Outline exported to %s\n", args[1])
	return nil
}

func (c *CLI) handleImport(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: import <json|xml> <file>")
	}

	root, err := data.FileImport(args[1], strings.ToLower(args[0]))
	if err != nil {
		return err
	}
	model.EnsureIDsAbove(root.MaxID())

	key := c.Key()
	c.setRoot(root, key)
	c.manager.Replace(ctx, root, key)
	fmt.Fprintf(c.writer, "Outline imported from %s (%d nodes)\n", args[1], root.Count())
	return nil
}

func (c *CLI) handleNew(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: new <text>")
	}

	root := model.NewNode(true, strings.Join(args, " "))
	key := c.Key()
	c.setRoot(root, key)
	c.manager.Replace(ctx, root, key)
	fmt.Fprintf(c.writer, "Started a new outline with root %d\n", root.ID())
	return nil
}

func (c *CLI) handleList(ctx context.Context, args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("usage: list")
	}

	keys, err := c.manager.Keys(ctx)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		fmt.Fprintln(c.writer, "No stored outlines")
		return nil
	}

	current := c.Key()
	for _, key := range keys {
		marker := " "
		if key == current {
			marker = "*"
		}
		fmt.Fprintf(c.writer, "%s %s\n", marker, key)
	}
	return nil
}

func (c *CLI) handleHelp(args []string) error {
	switch len(args) {
	case 0:
		c.printHelp("")
	case 1:
		c.printHelp(strings.ToLower(args[0]))
	default:
		return fmt.Errorf("usage: help [command]")
	}
	return nil
}

// keyArg returns the optional key argument, defaulting to the current key
func (c *CLI) keyArg(command string, args []string) (string, error) {
	switch len(args) {
	case 0:
		return c.Key(), nil
	case 1:
		return args[0], nil
	default:
		return "", fmt.Errorf("usage: %s [key]", command)
	}
}

func (c *CLI) findNode(arg string) (*model.Node, error) {
	id, err := parseNodeID(arg)
	if err != nil {
		return nil, err
	}
	node := c.Root().Find(id)
	if node == nil {
		return nil, fmt.Errorf("node %d not found", id)
	}
	return node, nil
}

func parseNodeID(arg string) (uint64, error) {
	id, err := strconv.ParseUint(arg, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid node id: %s", arg)
	}
	return id, nil
}
