package inputs

import (
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves each argument to the video files it names.
// Existing files are taken as-is, directories are searched recursively for
// the given extensions and everything else is treated as a doublestar
// pattern. A plain path that matches nothing is kept so the splitter can
// report it.
func Expand(args []string, exts []string) ([]string, error) {
	home, _ := os.UserHomeDir()

	var files []string
	for _, arg := range args {
		input := expandHome(arg, home)

		info, err := os.Stat(input)
		if err == nil && !info.IsDir() {
			files = append(files, input)
			continue
		}
		isDir := err == nil

		abs, err := filepath.Abs(input)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", input, err)
		}
		rel := strings.TrimPrefix(filepath.ToSlash(abs), "/")
		if isDir {
			rel = escapeMeta(rel) + "/**/*." + extGroup(exts)
		}

		matches, err := Glob(os.DirFS("/"), rel)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}

		if len(matches) == 0 {
			if isDir {
				log.Printf("ℹ️ no videos found in %s", input)
			} else if !hasMeta(input) {
				files = append(files, input)
			}
			continue
		}

		for _, m := range matches {
			files = append(files, filepath.FromSlash("/"+m))
		}
	}

	return unique(files), nil
}

// Glob matches pattern against fsys, returning sorted file paths only.
func Glob(fsys fs.FS, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// Match reports whether name passes the keyword filters. Ignore keywords
// take precedence; an empty include list accepts everything.
func Match(name string, keywords, ignore []string) bool {
	lower := strings.ToLower(name)
	for _, k := range ignore {
		if strings.Contains(lower, strings.ToLower(k)) {
			return false
		}
	}
	if len(keywords) == 0 {
		return true
	}
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

// Filter keeps the files whose base name passes Match.
func Filter(files []string, keywords, ignore []string) []string {
	if len(keywords) == 0 && len(ignore) == 0 {
		return files
	}
	var out []string
	for _, f := range files {
		if Match(filepath.Base(f), keywords, ignore) {
			out = append(out, f)
		} else {
			log.Printf("⏭ skipped by keyword filter: %s", f)
		}
	}
	return out
}

// IsVideo reports whether name has one of the extensions (without dot, any case).
func IsVideo(name string, exts []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	for _, e := range exts {
		if ext == strings.ToLower(strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

// extGroup renders exts as a brace group matching both cases, e.g. {mp4,MP4}.
func extGroup(exts []string) string {
	if len(exts) == 0 {
		return "*"
	}
	var alts []string
	for _, e := range exts {
		e = strings.TrimPrefix(e, ".")
		alts = append(alts, strings.ToLower(e), strings.ToUpper(e))
	}
	return "{" + strings.Join(unique(alts), ",") + "}"
}

func expandHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

const metaChars = "*?[]{}\\"

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// escapeMeta quotes pattern syntax so a literal path matches only itself.
func escapeMeta(p string) string {
	var b strings.Builder
	for _, r := range p {
		if strings.ContainsRune(metaChars, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
