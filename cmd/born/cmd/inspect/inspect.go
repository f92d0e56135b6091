// Package inspect implements the inspect sub-command.
package inspect

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	cmdCommon "github.com/born-ml/cloneable/cmd/born/cmd/common"
	"github.com/born-ml/cloneable/internal/logging"
	"github.com/born-ml/cloneable/internal/nn"
	"github.com/born-ml/cloneable/internal/tensor"
)

var (
	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "list the parameters and buffers of the configured model",
		Args:  cobra.NoArgs,
		RunE:  doInspect,
	}

	logger = logging.GetLogger("cmd/inspect")
)

// Entry is one parameter or buffer of a model.
type Entry struct {
	Name      string
	Kind      string
	Shape     tensor.Shape
	DType     tensor.DataType
	Trainable bool
}

// Entries lists every parameter and buffer of m by dotted path, in
// registration order, parents before children.
func Entries[B tensor.Backend](m nn.Module[B]) []Entry {
	var entries []Entry
	collect("", m, &entries)
	return entries
}

func collect[B tensor.Backend](prefix string, m nn.Module[B], entries *[]Entry) {
	path := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}

	for name, p := range m.NamedParameters().All() {
		raw := p.Tensor().Raw()
		*entries = append(*entries, Entry{
			Name:      path(name),
			Kind:      "parameter",
			Shape:     raw.Shape(),
			DType:     raw.DType(),
			Trainable: p.RequiresGrad(),
		})
	}
	for name, t := range m.NamedBuffers().All() {
		raw := t.Raw()
		*entries = append(*entries, Entry{
			Name:  path(name),
			Kind:  "buffer",
			Shape: raw.Shape(),
			DType: raw.DType(),
		})
	}
	for name, child := range m.NamedChildren().All() {
		collect(path(name), child, entries)
	}
}

// WriteTable renders entries as a table followed by a totals line.
func WriteTable(w io.Writer, entries []Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Name", "Kind", "Shape", "DType", "Elements", "Trainable"})
	table.SetAutoWrapText(false)

	var params, elements int
	for _, e := range entries {
		trainable := "-"
		if e.Kind == "parameter" {
			params++
			trainable = strconv.FormatBool(e.Trainable)
		}
		elements += e.Shape.NumElements()
		table.Append([]string{
			e.Name,
			e.Kind,
			fmt.Sprint([]int(e.Shape)),
			e.DType.String(),
			strconv.Itoa(e.Shape.NumElements()),
			trainable,
		})
	}
	table.Render()

	fmt.Fprintf(w, "%d parameters, %d buffers, %d elements\n", params, len(entries)-params, elements)
}

func doInspect(cmd *cobra.Command, args []string) error {
	cfg, model, err := cmdCommon.LoadModel()
	if err != nil {
		logger.Error("failed to build model",
			"err", err,
		)
		return err
	}

	logger.Debug("built model",
		"name", cfg.Model.Name,
		"layers", model.Len(),
	)

	out := cmd.OutOrStdout()
	if cfg.Model.Name != "" {
		fmt.Fprintf(out, "model %s\n", cfg.Model.Name)
	}
	WriteTable(out, Entries[cmdCommon.Backend](model))
	return nil
}

// Register registers the inspect sub-command.
func Register(parentCmd *cobra.Command) {
	parentCmd.AddCommand(inspectCmd)
}
