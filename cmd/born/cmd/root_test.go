package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

const modelYAML = `
log:
  level:
    default: error
    nn: debug
model:
  name: tiny
  layers:
    - type: linear
      in: 4
      out: 3
    - type: relu
    - type: batchnorm
      features: 3
    - type: linear
      in: 3
      out: 2
      bias: false
`

// resetFlags restores every flag to its default so that runs don't leak
// settings into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *flag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	c.PersistentFlags().VisitAll(reset)
	c.Flags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeModel(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(modelYAML), 0o600))
	return path
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "Born ML Framework v0.0.1-dev")
}

func TestInspect(t *testing.T) {
	require := require.New(t)

	out, err := run(t, "inspect", "--config", writeModel(t))
	require.NoError(err)

	require.Contains(out, "model tiny")
	for _, name := range []string{
		"0.weight", "0.bias",
		"2.gamma", "2.beta", "2.running_mean", "2.running_var",
		"3.weight",
	} {
		require.Contains(out, name)
	}
	require.NotContains(out, "3.bias")
	require.Contains(out, "5 parameters, 2 buffers, 33 elements")
}

func TestInspectWithoutModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: error\n"), 0o600))

	_, err := run(t, "inspect", "--config", path)
	require.ErrorContains(t, err, "no model section")
}

func TestClone(t *testing.T) {
	require := require.New(t)

	cfg := writeModel(t)
	ckpt := filepath.Join(t.TempDir(), "clone.cbor")

	out, err := run(t, "clone", "--config", cfg, "--verify", "--out", ckpt)
	require.NoError(err)
	require.Contains(out, "cloned Sequential: 7 tensors")
	require.Contains(out, "verified")
	require.Contains(out, "wrote "+ckpt)
	require.FileExists(ckpt)

	// Reload the written clone into a freshly built model and clone again.
	out, err = run(t, "clone", "--config", cfg, "--checkpoint", ckpt, "--verify")
	require.NoError(err)
	require.Contains(out, "verified")
	require.NotContains(out, "wrote")
}

func TestCloneBadCheckpoint(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.cbor")
	require.NoError(t, os.WriteFile(bad, []byte("not a checkpoint"), 0o600))

	_, err := run(t, "clone", "--config", writeModel(t), "--checkpoint", bad)
	require.Error(t, err)
}
