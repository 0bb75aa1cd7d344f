package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/samber/lo"

	"booktrack/orderbook"
)

const TimeLayout = "2006-01-02 15:04:05.000000000 -07:00"

// Printer writes one line per decision: a local timestamp, optionally the
// symbol, then the top of book. Out must be set; a nil Now means time.Now.
type Printer struct {
	Out        io.Writer
	Now        func() time.Time
	ShowSymbol bool

	colors map[orderbook.Direction]*color.Color
}

func New(out io.Writer, showSymbol bool) *Printer {
	return &Printer{
		Out:        out,
		Now:        time.Now,
		ShowSymbol: showSymbol,
	}
}

func (p *Printer) palette() map[orderbook.Direction]*color.Color {
	if p.colors == nil {
		p.colors = map[orderbook.Direction]*color.Color{
			orderbook.Up:        color.New(color.FgGreen),
			orderbook.Down:      color.New(color.FgRed),
			orderbook.Unchanged: color.New(color.FgWhite),
		}
	}
	return p.colors
}

// SetColor forces coloring on or off regardless of the terminal.
func (p *Printer) SetColor(enabled bool) {
	for _, c := range p.palette() {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

func (p *Printer) paint(d orderbook.Direction, s string) string {
	return p.palette()[d].Sprint(s)
}

func (p *Printer) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Printer) Line(symbol string, d *orderbook.Decision) {
	fields := []string{p.now().Local().Format(TimeLayout)}
	if p.ShowSymbol {
		fields = append(fields, symbol)
	}
	fields = append(fields, p.Fields(d)...)
	fmt.Fprintln(p.Out, strings.Join(fields, " "))
}

// Fields renders the book part of a line. Volume mode orders them as bid
// size, bid, ask, ask size.
func (p *Printer) Fields(d *orderbook.Decision) []string {
	var bidSize, bidPrice, askPrice, askSize string
	if d.Bid != nil {
		bidPrice, bidSize = d.Bid.New.Price.String(), d.Bid.New.Size.String()
	}
	if d.Ask != nil {
		askPrice, askSize = d.Ask.New.Price.String(), d.Ask.New.Size.String()
	}
	switch d.Branch {
	case orderbook.BranchPrice:
		bidPrice = p.paint(d.Bid.Price, bidPrice)
		askPrice = p.paint(d.Ask.Price, askPrice)
	case orderbook.BranchVolume:
		bidSize = p.paint(d.Bid.Size, bidSize)
		askSize = p.paint(d.Ask.Size, askSize)
	}
	var fields []string
	if d.ByVolume {
		fields = []string{bidSize, bidPrice, askPrice, askSize}
	} else {
		fields = []string{bidPrice, askPrice}
	}
	return lo.Compact(fields)
}
