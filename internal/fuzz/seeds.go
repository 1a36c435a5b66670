package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB - ограничение для тестового корпуса
)

// languageSeeds cover every construct the grammar knows about.
var languageSeeds = []string{
	"",
	"target purecap128;\n",
	"struct OneCap { b: cap; }\nfn f(c: *OneCap, n: ulong) { memcpy(c, c, n); }\n",
	"struct Over { @align(32) array: char[32]; }\nfn f(o: *Over) { memmove(o, o, sizeof(*o)); }\n",
	"struct MemPtr { data: int; fn func(); virtual fn vfunc(); }\nfn f() { is_aligned(&MemPtr::vfunc, 0x40); }\n",
	"struct fwd;\nfn f(p: *fwd, q: *fwd) { memcpy(p, q, 16); }\n",
	"fn f(buf: *void) { let abuf: @align(cap) char[16]; memcpy(&abuf, buf, 16); }\n",
	"fn templ<T, A: long>(v: T) { let array: T[16]; align_up(array, A); }\ninstantiate templ<int, 32>;\n",
	"fn f(x: *int) { copy(*x); align_down(x, -1); __builtin_align_up(x, 3); }\n",
	"fn f(c: *char) { memcpy(c, \"abc\", 4); }\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "driver", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все *.cap файлы
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".cap" {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
