package scanner

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/codegauge/internal/errs"
)

// ResolveRoot turns root into an absolute, symlink-resolved directory inside
// uploadRoot. Relative roots are joined to uploadRoot.
//
// The lexical check runs first, so a root like "../../etc" is rejected before
// anything on disk is consulted. The check repeats after symlink resolution to
// catch links that point out of the upload root.
func ResolveRoot(uploadRoot, root string) (string, error) {
	if strings.TrimSpace(root) == "" {
		return "", errs.InvalidInput(root, "scan root is empty")
	}

	base, err := filepath.Abs(uploadRoot)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeScanFailure, uploadRoot, "resolving upload root")
	}

	target := root
	if !filepath.IsAbs(target) {
		target = filepath.Join(base, target)
	}
	target = filepath.Clean(target)

	if !within(base, target) {
		return "", errs.PathTraversal(root)
	}

	realBase, err := filepath.EvalSymlinks(base)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeScanFailure, uploadRoot, "resolving upload root")
	}
	realTarget, err := filepath.EvalSymlinks(target)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeScanFailure, root, "resolving scan root")
	}

	if !within(realBase, realTarget) {
		return "", errs.PathTraversal(root)
	}

	info, err := os.Stat(realTarget)
	if err != nil {
		return "", errs.Wrap(err, errs.CodeScanFailure, root, "reading scan root")
	}
	if !info.IsDir() {
		return "", errs.New(errs.CodeScanFailure, root, "scan root is not a directory")
	}

	return realTarget, nil
}

// within reports whether target equals base or lies below it. Both paths
// must be absolute and clean.
func within(base, target string) bool {
	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	return !filepath.IsAbs(rel)
}
