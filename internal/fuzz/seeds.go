package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// seedExts lists fixture extensions worth feeding to every harness.
var seedExts = map[string]bool{
	".R": true, ".r": true, ".go": true, ".py": true,
	".toml": true, ".json": true, ".yaml": true, ".yml": true,
}

var builtinSeeds = []string{
	"",
	"library(jsonlite)\n\nparse_it <- function(x) x  \n",
	"#' Render\n#' @export\nrender <- function(x) paste(\"naïve\", x)",
	"import \"fmt\"\n\nfunc Run() {}\r\n",
	"\uFEFFdef main():\n    pass\n",
	"[package]\nname = \"demo\"\nversion = \"0.1.0\"\nlicense = \"MIT\"\ndescription = \"Demo.\"\n",
	"[package]\nname = \"demo\"\n[dependencies]\njsonlite = \"*\"\n",
	`{"findings":[{"signature":"text.trailing-whitespace","severity":"advisory","unit":"R/a.R","sub":"3"}]}`,
	"findings:\n  - signature: doc.missing\n    severity: blocking\n    unit: R/a.R\n    sub: f\n",
}

func addCorpusSeeds(f *testing.F) {
	addTestdataSeeds(f)
	for _, s := range builtinSeeds {
		f.Add([]byte(s))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	// проходим по дереву testdata, добавляем все файлы известных типов
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !seedExts[filepath.Ext(path)] {
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
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
