package diagfmt

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

func TestSarifShape(t *testing.T) {
	fs, id, bag := prettyFixture(t, "test.cap")
	bag.Add(diag.New(diag.SevWarning, diag.CgInefficientTagCopy, source.Span{File: id, Start: 11, End: 17}, "underaligned").
		WithNote(source.Span{File: id, Start: 0, End: 3}, "For more information"))
	bag.Add(diag.NewError(diag.SemaAlignNotPowerOfTwo, source.Span{File: id, Start: 24, End: 26}, "requested alignment is not a power of 2"))

	var buf bytes.Buffer
	err := Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "tagcopy", ToolVersion: "1.2.3", InvocationArgs: []string{"check", "test.cap"}})
	require.NoError(t, err)

	var log sarifLog
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)

	run := log.Runs[0]
	require.Equal(t, "tagcopy", run.Tool.Driver.Name)
	require.Equal(t, []string{"SEM3204", "CG9001"}, []string{run.Tool.Driver.Rules[0].ID, run.Tool.Driver.Rules[1].ID})
	require.Len(t, run.Invocations, 1)
	require.False(t, run.Invocations[0].ExecutionSuccessful)

	require.Len(t, run.Results, 2)
	warn := run.Results[0]
	require.Equal(t, "CG9001", warn.RuleID)
	require.Equal(t, "warning", warn.Level)
	require.Equal(t, sarifRegion{StartLine: 2, StartColumn: 1, EndLine: 2, EndColumn: 7}, warn.Locations[0].PhysicalLocation.Region)
	require.Len(t, warn.RelatedLocations, 1)
	require.Equal(t, "For more information", warn.RelatedLocations[0].Message.Text)
	require.Equal(t, "error", run.Results[1].Level)
}
