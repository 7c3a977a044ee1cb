package display

import (
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"

	"github.com/jmylchreest/relaydesk/internal/config"
)

// anchorConnectionManager pins the CM window to the configured corner. On
// compositors without layer-shell it stays a regular window.
func (w *Window) anchorConnectionManager() {
	w.window.SetDecorated(false)
	w.window.SetResizable(false)
	w.window.SetDefaultSize(w.cm.Width, -1)

	if !layershell.IsSupported() {
		w.logger.Debug("layer-shell unsupported, cm window is not anchored")
		return
	}

	layershell.InitForWindow(w.window)
	layershell.SetLayer(w.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(w.window, 0)
	layershell.SetKeyboardMode(w.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(w.window, config.AppName+"-cm")

	edges := config.Position(w.cm.Position).Edges()
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeTop, edges.Top)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeBottom, edges.Bottom)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeLeft, edges.Left)
	layershell.SetAnchor(w.window, layershell.LayerShellEdgeRight, edges.Right)

	if edges.Top {
		layershell.SetMargin(w.window, layershell.LayerShellEdgeTop, w.cm.OffsetY)
	}
	if edges.Bottom {
		layershell.SetMargin(w.window, layershell.LayerShellEdgeBottom, w.cm.OffsetY)
	}
	if edges.Left {
		layershell.SetMargin(w.window, layershell.LayerShellEdgeLeft, w.cm.OffsetX)
	}
	if edges.Right {
		layershell.SetMargin(w.window, layershell.LayerShellEdgeRight, w.cm.OffsetX)
	}
}
