package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/relaydesk/internal/peer"
)

// Output formats for listing commands.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

// styleHeaders is false when stdout is not a terminal.
var styleHeaders = term.IsTerminal(int(os.Stdout.Fd()))

// peerRow is one peer as printed by "peers".
type peerRow struct {
	peer.Record `yaml:",inline"`
	Favorite    bool `json:"favorite" yaml:"favorite"`
}

func peerRows(records []peer.Record, favorites []string) []peerRow {
	rows := make([]peerRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, peerRow{Record: r, Favorite: slices.Contains(favorites, r.ID)})
	}
	return rows
}

// writePeers renders rows in the given format. now anchors relative times.
func writePeers(w io.Writer, rows []peerRow, format string, now time.Time) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(rows)
	case formatTable, "":
		return writePeerTable(w, rows, now)
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

func writePeerTable(w io.Writer, rows []peerRow, now time.Time) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No peers")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	header := []string{"ID", "ALIAS", "HOST", "PLATFORM", "LAST SEEN"}
	if styleHeaders {
		for i, h := range header {
			header[i] = headerStyle.Render(h)
		}
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		id := r.ID
		if r.Favorite {
			id += " *"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", id, r.Alias, r.Hostname, r.Platform, lastSeen(r.AccessedAt, now))
	}
	return tw.Flush()
}

func lastSeen(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
