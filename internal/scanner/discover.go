package scanner

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/blackwell-systems/codegauge/internal/errs"
	"github.com/blackwell-systems/codegauge/internal/lang"
)

// Scanner discovers source files below a scan root.
type Scanner struct {
	uploadRoot   string
	extensions   map[string]struct{}
	skipDirs     map[string]struct{}
	skipFiles    map[string]struct{}
	useGitignore bool
	logger       *slog.Logger
}

// New creates a Scanner. A nil logger falls back to slog.Default().
func New(opts Options, logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Scanner{
		uploadRoot:   opts.UploadRoot,
		extensions:   make(map[string]struct{}, len(opts.SupportedExtensions)),
		skipDirs:     toSet(opts.IgnoredDirectories),
		skipFiles:    toSet(opts.IgnoredFiles),
		useGitignore: opts.RespectGitignore,
		logger:       logger.With("component", "scanner"),
	}
	for _, ext := range opts.SupportedExtensions {
		if ext = lang.NormalizeExtension(ext); ext != "" {
			s.extensions[ext] = struct{}{}
		}
	}
	return s
}

// Scan resolves root against the upload root and walks it. It fails with
// PATH_TRAVERSAL before reading any directory when root escapes the upload
// root, and with SCAN_FAILURE when the root itself cannot be walked.
// Unreadable subdirectories are logged and skipped.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	resolved, err := ResolveRoot(s.uploadRoot, root)
	if err != nil {
		s.logger.Warn("scan rejected", "path", root, "code", errs.CodeOf(err), "error", err)
		return nil, err
	}

	var gi *ignore.GitIgnore
	if s.useGitignore {
		gi = loadGitignore(resolved)
	}

	res := &ScanResult{Root: resolved}

	walkErr := filepath.WalkDir(resolved, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == resolved {
				return err
			}
			s.logger.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if path == resolved {
			return nil
		}

		rel, err := filepath.Rel(resolved, path)
		if err != nil {
			return nil
		}
		name := d.Name()

		if d.IsDir() {
			if _, skip := s.skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if gi != nil && gi.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			res.DirectoryCount++
			return nil
		}

		// Skip symlinks and other non-regular entries.
		if !d.Type().IsRegular() {
			return nil
		}
		if _, skip := s.skipFiles[name]; skip {
			return nil
		}
		if !s.accepts(name) {
			return nil
		}
		if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		res.Files = append(res.Files, path)
		if IsTestFile(rel) {
			res.TestFileCount++
		}
		return nil
	})
	if walkErr != nil {
		return nil, errs.Wrap(walkErr, errs.CodeScanFailure, root, "walking scan root")
	}

	sort.Strings(res.Files)

	s.logger.Debug("scan complete",
		"path", resolved,
		"files", len(res.Files),
		"directories", res.DirectoryCount,
		"tests", res.TestFileCount,
	)
	return res, nil
}

// accepts reports whether a file with this name passes the extension filter.
func (s *Scanner) accepts(name string) bool {
	if len(s.extensions) == 0 {
		return true
	}
	_, ok := s.extensions[strings.ToLower(filepath.Ext(name))]
	return ok
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
