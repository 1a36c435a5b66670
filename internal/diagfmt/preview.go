package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"tagcopy/internal/diag"
	"tagcopy/internal/source"
)

type fixEditPreview struct {
	before []string
	after  []string
}

// buildFixEditPreview returns the whole lines touched by edit, before and
// after applying it.
func buildFixEditPreview(fs *source.FileSet, edit diag.FixEdit) (fixEditPreview, error) {
	if fs == nil {
		return fixEditPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return fixEditPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fixEditPreview{}, fmt.Errorf("file content overflow: %w", err)
	}

	startPos, endPos := fs.Resolve(edit.Span)
	blockStart := lineStart(file, startPos.Line, size)
	blockEnd := min(max(lineEnd(file, max(endPos.Line, startPos.Line), size), blockStart), size)

	if edit.Span.Start < blockStart || edit.Span.End < edit.Span.Start || edit.Span.End > blockEnd {
		return fixEditPreview{}, fmt.Errorf("edit span %d..%d outside preview block %d..%d",
			edit.Span.Start, edit.Span.End, blockStart, blockEnd)
	}

	original := file.Content[blockStart:blockEnd]
	var after strings.Builder
	after.Write(original[:edit.Span.Start-blockStart])
	after.WriteString(edit.NewText)
	after.Write(original[edit.Span.End-blockStart:])

	return fixEditPreview{
		before: splitPreviewLines(string(original)),
		after:  splitPreviewLines(after.String()),
	}, nil
}

func splitPreviewLines(text string) []string {
	if text == "" {
		return nil
	}
	// завершающий \n не порождает пустую строку
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// lineStart is the offset of the first byte of 1-based line.
func lineStart(f *source.File, line, size uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if idx := int(line) - 2; idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return size
}

// lineEnd is the offset just past the newline ending 1-based line.
func lineEnd(f *source.File, line, size uint32) uint32 {
	if line == 0 {
		return 0
	}
	if idx := int(line) - 1; idx < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return size
}
