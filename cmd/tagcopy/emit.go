package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"tagcopy/internal/buildpipeline"
	"tagcopy/internal/ui"
)

func newEmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "emit [flags] [file.cap|directory]...",
		Short: "Emit LLVM IR with tag-preservation attributes",
		Long: `Emit lowers every memory transfer to an llvm.memcpy/llvm.memmove call carrying
its tag-preservation attribute. With -o each input is written to <out>/<name>.ll,
otherwise the modules are printed to stdout.`,
		RunE: runEmit,
	}
	addRenderFlags(cmd)
	cmd.Flags().StringP("out", "o", "", "output directory for .ll files")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	return cmd
}

func runEmit(cmd *cobra.Command, args []string) error {
	rf, err := readRenderFlags(cmd)
	if err != nil {
		return err
	}
	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return fmt.Errorf("failed to get out flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := parseSwitch("ui", uiFlag)
	if err != nil {
		return err
	}
	rc, err := loadRunConfig(cmd, args)
	if err != nil {
		return err
	}
	if outDir != "" && !filepath.IsAbs(outDir) {
		if outDir, err = filepath.Abs(outDir); err != nil {
			return err
		}
	}

	rc.opts.EmitIR = true
	req := &buildpipeline.Request{
		Paths:   rc.paths,
		OutDir:  outDir,
		BaseDir: rc.baseDir,
		Options: rc.opts,
	}

	var res buildpipeline.Result
	if progressView(mode, outDir, cmd.OutOrStdout()) {
		files, ferr := req.Files()
		if ferr != nil {
			return ferr
		}
		res, err = runWithUI(cmd.Context(), cmd.OutOrStdout(), "emitting IR", files, req)
	} else {
		res, err = buildpipeline.Run(cmd.Context(), req)
	}
	if err != nil && !errors.Is(err, buildpipeline.ErrDiagnostics) {
		return fmt.Errorf("emit failed: %w", err)
	}

	// stdout может быть занят IR, диагностику печатаем в stderr
	if rerr := renderDiagnostics(cmd.ErrOrStderr(), res.FileSet, res.Files, rc, rf, args); rerr != nil {
		return rerr
	}
	if outDir == "" {
		printModules(cmd.OutOrStdout(), res)
	} else {
		for _, out := range res.Outputs {
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
		}
	}
	if rc.timings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	return err
}

func printModules(w io.Writer, res buildpipeline.Result) {
	first := true
	for i := range res.Files {
		r := &res.Files[i]
		if r.Failed() || r.IR == "" {
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		fmt.Fprintf(w, "; ---- %s\n", r.Path)
		fmt.Fprint(w, r.IR)
		if !strings.HasSuffix(r.IR, "\n") {
			fmt.Fprintln(w)
		}
	}
}

func runWithUI(ctx context.Context, out io.Writer, title string, files []string, req *buildpipeline.Request) (buildpipeline.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	type outcome struct {
		result buildpipeline.Result
		err    error
	}
	outcomeCh := make(chan outcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Run(ctx, &reqCopy)
		outcomeCh <- outcome{result: res, err: err}
		close(events)
	}()

	uiErr := ui.Run(out, title, files, events)
	// UI мог выйти раньше, не даём пайплайну зависнуть на отправке
	go func() {
		for range events {
		}
	}()
	o := <-outcomeCh
	if uiErr != nil {
		return o.result, uiErr
	}
	return o.result, o.err
}
