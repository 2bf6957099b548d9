package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nereid-bio/nereid/internal/plugin"
	"github.com/nereid-bio/nereid/internal/testutil"
)

func testRegistry(t *testing.T) *plugin.Registry {
	t.Helper()
	reg := plugin.NewRegistry()
	require.NoError(t, reg.RegisterType("IntSequence1", testutil.IntSequence1))
	require.NoError(t, reg.RegisterType("IntSequence2", testutil.IntSequence2))
	require.NoError(t, reg.RegisterAction(&plugin.Action{
		Ref:       "dummy:concatenate_ints",
		Signature: testutil.ConcatenateIntsSignature(),
	}))
	require.NoError(t, reg.RegisterAction(&plugin.Action{
		Ref:       "dummy:split_ints",
		Signature: testutil.SplitIntsSignature(),
	}))
	return reg
}

func runCommand(t *testing.T, reg *plugin.Registry, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCommand(reg)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validManifest = `
action: concatenate_ints: {
	kind: "method"
	inputs: {
		ints1: "IntSequence1 | IntSequence2"
	}
	parameters: {
		int1: "Int"
	}
	outputs: {
		concatenated_ints: "IntSequence1"
	}
}
`

func TestValidate_OK(t *testing.T) {
	path := writeTempFile(t, "manifest.cue", validManifest)
	out, _, err := runCommand(t, testRegistry(t), "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "manifest ok: 1 action(s)\n", out)
}

func TestValidate_JSON(t *testing.T) {
	path := writeTempFile(t, "manifest.cue", validManifest)
	out, _, err := runCommand(t, testRegistry(t), "--format", "json", "validate", path)
	require.NoError(t, err)

	var resp Response
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestValidate_InvalidManifest(t *testing.T) {
	path := writeTempFile(t, "manifest.cue", `action: a: {kind: "widget", outputs: out: "IntSequence1"}`)
	out, _, err := runCommand(t, testRegistry(t), "validate", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, `unknown kind "widget"`)
}

func TestValidate_MissingFile(t *testing.T) {
	_, _, err := runCommand(t, testRegistry(t), "validate", filepath.Join(t.TempDir(), "nope.cue"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInspect_List(t *testing.T) {
	out, _, err := runCommand(t, testRegistry(t), "inspect")
	require.NoError(t, err)
	assert.Equal(t, "dummy:concatenate_ints\ndummy:split_ints\n", out)
}

func TestInspect_Action(t *testing.T) {
	out, _, err := runCommand(t, testRegistry(t), "inspect", "dummy:concatenate_ints")
	require.NoError(t, err)
	assert.Contains(t, out, "dummy:concatenate_ints (method)")
	assert.Contains(t, out, "inputs:")
	assert.Contains(t, out, "concatenated_ints")
}

func TestInspect_Unknown(t *testing.T) {
	_, _, err := runCommand(t, testRegistry(t), "inspect", "dummy:nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestFingerprint(t *testing.T) {
	replay := `
action: dummy:concatenate_ints
arguments:
  - ints1: 7a6b1c2d-0000-0000-0000-000000000001
  - int1: 4
`
	path := writeTempFile(t, "replay.yaml", replay)
	out, _, err := runCommand(t, testRegistry(t), "fingerprint", path)
	require.NoError(t, err)

	// 64 hex digits, two spaces, the action ref.
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{64}  dummy:concatenate_ints\n$`), out)

	// Fingerprinting is deterministic across runs.
	again, _, err := runCommand(t, testRegistry(t), "fingerprint", path)
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestFingerprint_EncodingInsensitive(t *testing.T) {
	asList := writeTempFile(t, "list.yaml", `
action: dummy:act
arguments:
  - ints:
      - x: uuid-1
      - y: uuid-2
`)
	asMapping := writeTempFile(t, "mapping.yaml", `
action: dummy:act
arguments:
  - ints:
      y: uuid-2
      x: uuid-1
`)
	out1, _, err := runCommand(t, testRegistry(t), "fingerprint", asList)
	require.NoError(t, err)
	out2, _, err := runCommand(t, testRegistry(t), "fingerprint", asMapping)
	require.NoError(t, err)
	assert.Equal(t, out1, out2)
}

func TestFingerprint_BadReplay(t *testing.T) {
	path := writeTempFile(t, "replay.yaml", "arguments:\n  - n: 1\n")
	out, _, err := runCommand(t, testRegistry(t), "fingerprint", path)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "missing an action reference")
}

func TestRoot_RejectsUnknownFormat(t *testing.T) {
	_, _, err := runCommand(t, testRegistry(t), "--format", "xml", "inspect")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "xml"`)
}

func TestCacheList_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cache.db")
	out, _, err := runCommand(t, testRegistry(t), "cache", "list", "--db", db)
	require.NoError(t, err)
	assert.Empty(t, out)
}
