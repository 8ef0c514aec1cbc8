package cli

import (
	"fmt"
	"io"
	"strings"

	"outliner/local-app/src/pkg/model"
)

// Node markers
const (
	markerLeaf      = "*"
	markerOpen      = "-"
	markerCollapsed = "+"
)

// RenderTree writes the outline one node per line, indented by depth.
// Children of collapsed nodes are hidden unless showAll is set.
func RenderTree(w io.Writer, root *model.Node, showAll bool) {
	renderNode(w, root, 0, showAll)
}

func renderNode(w io.Writer, n *model.Node, depth int, showAll bool) {
	children := n.Children()
	open := n.IsOpen().Get()

	marker := markerLeaf
	if len(children) > 0 {
		if open {
			marker = markerOpen
		} else {
			marker = markerCollapsed
		}
	}

	fmt.Fprintf(w, "%s%s %s [%d]\n", strings.Repeat("  ", depth), marker, n.Text().Get(), n.ID())

	if !open && !showAll {
		return
	}
	for _, child := range children {
		renderNode(w, child, depth+1, showAll)
	}
}
