package cli

import (
	"fmt"
	"sort"
)

func (c *CLI) printHelp(command string) {
	if command == "" {
		fmt.Fprintln(c.writer, "Available commands:")
		names := make([]string, 0, len(commandHelp))
		for name := range commandHelp {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(c.writer, "  %s\n", name)
		}
		fmt.Fprintln(c.writer, "\nUse 'help <command>' for more information about a specific command.")
	} else if help, ok := commandHelp[command]; ok {
		fmt.Fprintln(c.writer, help)
	} else {
		fmt.Fprintf(c.writer, "Unknown command: %s\n", command)
	}
}

// commandHelp contains help text for each command.
var commandHelp = map[string]string{
	"show": `Syntax: show [id] [--all]
Description: Displays the outline or the subtree under a node.
- [id]: Optional id of the node to start from. Defaults to the root.
- [--all]: Also show the children of collapsed nodes.
Markers: '-' open node, '+' collapsed node, '*' leaf.
Example: show 3 --all`,

	"json": `Syntax: json [id]
Description: Prints the outline, or the subtree under a node, as indented JSON.
Example: json`,

	"add": `Syntax: add <parent id> <text>
Description: Adds a new collapsed node as the first child of the parent node.
- <parent id>: The id of the parent node.
- <text>: The text of the new node. Use quotes for text with spaces.
Example: add 1 "New idea"`,

	"del": `Syntax: del <id>
Description: Detaches the node and its subtree from its parent. The root cannot be deleted.
Example: del 4`,

	"toggle": `Syntax: toggle <id>
Description: Expands a collapsed node or collapses an expanded one.
Example: toggle 1`,

	"text": `Syntax: text <id> <text>
Description: Replaces the text of a node.
Example: text 2 "Renamed"`,

	"save": `Syntax: save [key]
Description: Saves the outline to the store, overwriting what the key held.
- [key]: Optional key to save under. The key becomes the current key.
Example: save backup`,

	"load": `Syntax: load [key]
Description: Replaces the outline with the one stored under the key. Unsaved changes are lost.
- [key]: Optional key to load. Defaults to the current key.
Example: load backup`,

	"remove": `Syntax: remove [key]
Description: Deletes a stored outline. The outline being edited is kept.
Example: remove backup`,

	"export": `Syntax: export <json|xml> <file>
Description: Writes the outline to a file in JSON or XML format.
Example: export xml outline.xml`,

	"import": `Syntax: import <json|xml> <file>
Description: Replaces the outline with one read from a JSON or XML file.
Example: import json outline.json`,

	"new": `Syntax: new <text>
Description: Starts a new outline with a single root node.
Example: new "Project plan"`,

	"list": `Syntax: list
Description: Lists the keys of stored outlines. The current key is marked with '*'.`,

	"help": `Syntax: help [command]
Description: Lists the commands or shows help for one of them.`,

	"quit": `Syntax: quit
Description: Exits the program.`,

	"exit": `Syntax: exit
Description: Exits the program.`,
}
