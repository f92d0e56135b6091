// Package clone implements the clone sub-command.
package clone

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	cmdCommon "github.com/born-ml/cloneable/cmd/born/cmd/common"
	"github.com/born-ml/cloneable/internal/logging"
	"github.com/born-ml/cloneable/internal/nn"
)

const (
	// CfgCheckpoint is the checkpoint loaded into the model before cloning.
	CfgCheckpoint = "checkpoint"
	// CfgOut is the checkpoint the clone's state is written to.
	CfgOut = "out"
	// CfgVerify enables the post-clone checks.
	CfgVerify = "verify"
)

var (
	cloneCmd = &cobra.Command{
		Use:   "clone",
		Short: "deep clone the configured model",
		Long: `Builds the model described by the config file, optionally loads a
checkpoint into it, and clones it. With --verify the clone is checked
to have the original's structure and values while sharing no storage.`,
		Args: cobra.NoArgs,
		RunE: doClone,
	}

	cloneFlags = flag.NewFlagSet("", flag.ContinueOnError)

	logger = logging.GetLogger("cmd/clone")
)

// Verify checks that cloned is a faithful deep copy of orig: equal
// structure, equal tensor contents and no shared storage.
func Verify(orig, cloned nn.Module[cmdCommon.Backend]) error {
	if err := nn.CompareStructure(orig, cloned); err != nil {
		return fmt.Errorf("clone structure differs: %w", err)
	}
	if shared := nn.SharedTensors(orig, cloned); len(shared) > 0 {
		return fmt.Errorf("clone shares storage with the original: %s", strings.Join(shared, ", "))
	}

	want, got := orig.StateDict(), cloned.StateDict()
	for name, t := range want {
		if !bytes.Equal(t.Data(), got[name].Data()) {
			return fmt.Errorf("clone tensor %q differs from the original", name)
		}
	}
	return nil
}

func doClone(cmd *cobra.Command, args []string) error {
	cfg, model, err := cmdCommon.LoadModel()
	if err != nil {
		logger.Error("failed to build model",
			"err", err,
		)
		return err
	}

	if ckpt := viper.GetString(CfgCheckpoint); ckpt != "" {
		header, err := nn.Load[cmdCommon.Backend](model, ckpt)
		if err != nil {
			logger.Error("failed to load checkpoint",
				"err", err,
				"checkpoint", ckpt,
			)
			return err
		}
		logger.Info("loaded checkpoint",
			"checkpoint", ckpt,
			"created_at", time.Unix(header.CreatedAt, 0).UTC(),
		)
	}

	start := time.Now()
	cloned, err := model.Clone()
	if err != nil {
		return fmt.Errorf("cloning %s: %w", model.TypeName(), err)
	}
	took := time.Since(start)

	var size int
	stateDict := cloned.StateDict()
	for _, t := range stateDict {
		size += t.ByteSize()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cloned %s: %d tensors, %d bytes in %s\n", cloned.TypeName(), len(stateDict), size, took)

	if viper.GetBool(CfgVerify) {
		if err = Verify(model, cloned); err != nil {
			logger.Error("clone verification failed",
				"err", err,
			)
			return err
		}
		fmt.Fprintln(out, "verified: structure and values match, no shared storage")
	}

	if dst := viper.GetString(CfgOut); dst != "" {
		metadata := map[string]string{
			"model": cfg.Model.Name,
		}
		if src := viper.GetString(CfgCheckpoint); src != "" {
			metadata["source"] = src
		}
		if err = nn.Save(cloned, dst, metadata); err != nil {
			logger.Error("failed to save clone",
				"err", err,
				"out", dst,
			)
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", dst)
	}

	return nil
}

// Register registers the clone sub-command.
func Register(parentCmd *cobra.Command) {
	cloneCmd.Flags().AddFlagSet(cloneFlags)
	parentCmd.AddCommand(cloneCmd)
}

func init() {
	cloneFlags.String(CfgCheckpoint, "", "checkpoint to load before cloning")
	cloneFlags.String(CfgOut, "", "write the clone's state to this checkpoint")
	cloneFlags.Bool(CfgVerify, false, "check the clone against the original")
	_ = viper.BindPFlags(cloneFlags)
}
