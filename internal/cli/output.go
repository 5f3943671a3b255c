package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Kimen6931/BlockLocker/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		o.printJSON(map[string]string{"message": msg})
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Protection:
		o.printProtection(v)
	case response.ResolverStats:
		o.printResolverStats(v)
	case response.FlushResponse:
		o.printFlush(v)
	case response.Health:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
		fmt.Fprintf(o.w, "Main loop backlog: %d\n", v.MainPending)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

func (o *Output) printProtection(p response.Protection) {
	fmt.Fprintf(o.w, "Protection: %s\n", p.ID)
	if p.Owner != nil {
		fmt.Fprintf(o.w, "Owner: %s\n", *p.Owner)
	}
	if p.PendingLookup {
		fmt.Fprintln(o.w, "Pending lookup: yes")
	}
	for _, s := range p.Signs {
		fmt.Fprintf(o.w, "Sign %s:%d,%d,%d [%s]\n", s.Location.World, s.Location.X, s.Location.Y, s.Location.Z, s.Type)
		for _, profile := range s.Profiles {
			switch {
			case profile.ID != "":
				fmt.Fprintf(o.w, "  - %s (%s)\n", profile.DisplayName, profile.ID)
			case !profile.Resolved:
				fmt.Fprintf(o.w, "  - %s (unresolved)\n", profile.DisplayName)
			default:
				fmt.Fprintf(o.w, "  - %s\n", profile.DisplayName)
			}
		}
	}
}

func (o *Output) printResolverStats(s response.ResolverStats) {
	fmt.Fprintf(o.w, "Queued: %d\n", s.Queued)
	fmt.Fprintf(o.w, "Batches: %d (%d failed)\n", s.Batches, s.FailedBatches)
	if s.LastDrain != nil {
		fmt.Fprintf(o.w, "Last drain: %s\n", s.LastDrain.Format("2006-01-02 15:04:05Z07:00"))
	} else {
		fmt.Fprintln(o.w, "Last drain: never")
	}
}

func (o *Output) printFlush(f response.FlushResponse) {
	if f.Protections == 0 {
		fmt.Fprintln(o.w, "Queue was empty")
		return
	}
	fmt.Fprintf(o.w, "Flushed %d protections: %d of %d names resolved\n", f.Protections, f.Resolved, f.Names)
}
