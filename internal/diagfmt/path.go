package diagfmt

import "tagcopy/internal/source"

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	if f == nil {
		return "<unknown>"
	}
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}

// FilePath renders the path of file id the same way diagnostics headers do.
func FilePath(fs *source.FileSet, id source.FileID, mode PathMode) string {
	return displayPath(fs.Get(id), fs, mode)
}
