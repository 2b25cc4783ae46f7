package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rileyhilliard/serialscope/internal/config"
	"github.com/rileyhilliard/serialscope/internal/errors"
	"github.com/rileyhilliard/serialscope/internal/lineparse"
	"github.com/rileyhilliard/serialscope/internal/transport"
	"github.com/rileyhilliard/serialscope/internal/viewer"
)

// ParseOptions holds the parse flags.
type ParseOptions struct {
	JSON      bool
	Threshold float64
}

// input is one named stream of captured lines.
type input struct {
	name string
	rc   io.ReadCloser
}

// ParsedLine is the --json record for one input line.
type ParsedLine struct {
	Source  string    `json:"source"`
	Line    int       `json:"line"`
	Text    string    `json:"text"`
	Values  []float64 `json:"values"`
	Invalid []string  `json:"invalid,omitempty"`
}

// ParseEvent is a log entry in --json output.
type ParseEvent struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Message string `json:"message"`
}

// ParseReport is the --json payload of the parse command.
type ParseReport struct {
	Lines  []ParsedLine `json:"lines"`
	Events []ParseEvent `json:"events"`
	Stats  viewer.Stats `json:"stats"`
}

// openInputs opens each named file; "-" or no names means stdin.
func openInputs(names []string, stdin io.Reader) ([]input, error) {
	if len(names) == 0 {
		names = []string{"-"}
	}

	inputs := make([]input, 0, len(names))
	for _, name := range names {
		if name == "-" {
			inputs = append(inputs, input{name: "stdin", rc: io.NopCloser(stdin)})
			continue
		}
		f, err := os.Open(config.ExpandTilde(name))
		if err != nil {
			for _, in := range inputs {
				_ = in.rc.Close()
			}
			return nil, errors.WrapWithCode(err, errors.ErrTransport,
				fmt.Sprintf("Can't read %s", name),
				"Check the file exists and is readable")
		}
		inputs = append(inputs, input{name: name, rc: f})
	}
	return inputs, nil
}

// parseCommand feeds every input line through a controller, printing the
// values of each line to out and events to errOut.
func parseCommand(ctx context.Context, cfg *config.Config, inputs []input, out, errOut io.Writer, opts ParseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	vopts := cfg.ViewerOptions()
	vopts.Logger = sessionLogger()
	ctrl := viewer.NewController(vopts)
	tail := &entryTail{sink: ctrl.Log(), w: errOut}

	var records []ParsedLine
	events := []ParseEvent{}
	collect := func() {
		for _, e := range tail.take() {
			events = append(events, ParseEvent{Time: e.Timestamp, Level: e.Level.String(), Message: e.Message})
		}
	}
	for i, in := range inputs {
		src := transport.NewReaderSource(in.name, in.rc, false)
		n, err := parseSource(ctx, ctrl, src, func(line transport.Line, res lineparse.Result, n int) {
			if opts.JSON {
				records = append(records, ParsedLine{
					Source:  in.name,
					Line:    n,
					Text:    line.Text,
					Values:  nonNil(res.Values),
					Invalid: res.Invalid,
				})
				collect()
				return
			}
			if len(res.Values) > 0 {
				fmt.Fprintln(out, formatValues(res.Values))
			}
			tail.flush()
		})
		_ = src.Close()
		if err != nil {
			for _, rest := range inputs[i+1:] {
				_ = rest.rc.Close()
			}
			return err
		}
		ctrl.Log().Info("read %d lines from %s", n, in.name)
		if opts.JSON {
			collect()
		}
	}

	snap := ctrl.Snapshot()
	if opts.JSON {
		if records == nil {
			records = []ParsedLine{}
		}
		return WriteJSONSuccess(out, ParseReport{Lines: records, Events: events, Stats: snap.Stats})
	}

	tail.flush()
	st := snap.Stats
	fmt.Fprintf(errOut, "%d lines, %d values, %d invalid segments, %d alarms\n",
		st.Lines, st.Samples, st.InvalidSegments, st.Alarms)
	return nil
}

// parseSource handles lines from src until it ends, calling each for every
// line after the controller has processed it. Returns the line count.
func parseSource(ctx context.Context, ctrl *viewer.Controller, src transport.Source, each func(transport.Line, lineparse.Result, int)) (int, error) {
	n := 0
	lines, errs := src.Lines(), src.Errors()
	for {
		select {
		case <-ctx.Done():
			return n, ctx.Err()
		case line, ok := <-lines:
			if !ok {
				drainErrors(ctrl, src)
				return n, nil
			}
			n++
			ctrl.HandleLine(line)
			each(line, lineparse.Parse(line.Text), n)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			ctrl.HandleTransportError(err)
		}
	}
}

// drainErrors reports read errors queued before the line channel closed.
func drainErrors(ctrl *viewer.Controller, src transport.Source) {
	for {
		select {
		case err, ok := <-src.Errors():
			if !ok {
				return
			}
			ctrl.HandleTransportError(err)
		default:
			return
		}
	}
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, "\t")
}

func nonNil(values []float64) []float64 {
	if values == nil {
		return []float64{}
	}
	return values
}
