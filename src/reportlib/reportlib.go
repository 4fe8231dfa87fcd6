package reportlib

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	pretty_table "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"

	"github.com/dsa-sandbox/sandbox-judge/src/types"
)

var statusColors = map[types.Status]*color.Color{
	types.StatusAC:  color.New(color.FgHiGreen),
	types.StatusWA:  color.New(color.FgHiRed),
	types.StatusTLE: color.New(color.FgHiYellow),
	types.StatusRE:  color.New(color.FgHiMagenta),
	types.StatusCE:  color.New(color.FgHiBlue),
}

func Marshal(result *types.Result) ([]byte, error) {
	b, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode result")
	}
	return b, nil
}

// WriteJSON writes the result document followed by a newline.
func WriteJSON(w io.Writer, result *types.Result) error {
	b, err := Marshal(result)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", b); err != nil {
		return errors.Wrap(err, "failed to write result")
	}
	return nil
}

func WriteTable(w io.Writer, result *types.Result) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(pretty_table.Row{"Test", "Status", "Time (s)", "Memory (KB)"})
	for _, elem := range result.Detail {
		t.AppendRow(pretty_table.Row{
			elem.Name,
			string(elem.Status),
			strconv.FormatFloat(elem.Time, 'f', -1, 64),
			elem.Memory,
		})
	}
	t.AppendFooter(pretty_table.Row{
		"Result",
		string(result.Status),
		strconv.FormatFloat(result.MaxTime, 'f', -1, 64),
		result.MaxMemory,
	})

	statusColor := text.Transformer(func(s interface{}) string {
		str := fmt.Sprint(s)
		if c, ok := statusColors[types.Status(str)]; ok {
			return c.Sprint(str)
		}
		return str
	})
	t.SetColumnConfigs([]pretty_table.ColumnConfig{
		{
			Name:              "Status",
			Transformer:       statusColor,
			TransformerFooter: statusColor,
			Align:             text.AlignCenter,
		},
	})
	t.Render()

	if result.Status == types.StatusCE && result.CompileLog != "" {
		fmt.Fprintf(w, "\n%s\n", result.CompileLog)
	}
}

// Publish sends the finished result to subject and waits until the server has it.
func Publish(url, subject string, result *types.Result) error {
	b, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "failed to encode result")
	}

	nc, err := nats.Connect(url)
	if err != nil {
		return errors.Wrapf(err, "failed to connect to NATS at %s", url)
	}
	defer nc.Close()

	if err := nc.Publish(subject, b); err != nil {
		return errors.Wrapf(err, "failed to publish to %s", subject)
	}
	if err := nc.Flush(); err != nil {
		return errors.Wrap(err, "failed to flush NATS connection")
	}
	return nil
}
