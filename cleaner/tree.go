package cleaner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
	"golang.org/x/sync/errgroup"

	"github.com/ammmze/truenas-openapi/internal/fileutil"
	"github.com/ammmze/truenas-openapi/internal/pathutil"
	"github.com/ammmze/truenas-openapi/normalizer"
)

const (
	// DefaultOriginalDir is the tree cleaned when no source directory is given,
	// relative to the working directory.
	DefaultOriginalDir = "schemas/original"
	// DefaultCleanedDir is where cleaned documents go when no destination is given.
	DefaultCleanedDir = "schemas/clean"
	// IgnoreFileName is read from the root of the source tree when present.
	IgnoreFileName = ".cleanignore"
)

// DefaultInclude returns the patterns selecting documents in a tree.
func DefaultInclude() []string {
	return []string{"**/*.yml", "**/*.yaml"}
}

// DefaultDirs returns the default source and destination trees under cwd.
func DefaultDirs(cwd string) (originalDir, cleanedDir string) {
	return filepath.Join(cwd, DefaultOriginalDir), filepath.Join(cwd, DefaultCleanedDir)
}

// TreeConfig configures CleanTree.
type TreeConfig struct {
	// Jobs bounds the number of documents cleaned concurrently.
	// Zero or negative means runtime.GOMAXPROCS(0).
	Jobs int
	// Include holds gitignore-style patterns selecting documents.
	// Empty means DefaultInclude().
	Include []string
	// Ignore holds gitignore-style patterns excluding documents, in addition
	// to the patterns in the tree's .cleanignore file.
	Ignore []string
	// ContinueOnError records failing documents and keeps going instead of
	// cancelling the batch.
	ContinueOnError bool

	// EnabledRules, AbsentPolicy and Logger are passed to each Cleaner
	EnabledRules []normalizer.Rule
	AbsentPolicy AbsentPolicy
	Logger       normalizer.Logger
}

// FileResult is the outcome for one document in a tree.
type FileResult struct {
	// RelPath is the document path relative to the source tree, slash separated
	RelPath string
	// SourcePath is the document path
	SourcePath string
	// OutputPath is where the cleaned document was written ("" if not written)
	OutputPath string
	// ChangeCount is the number of rule firings
	ChangeCount int
	// Absent is true when the document normalized to nothing
	Absent bool
	// Removed is true when an absent document was omitted and a cleaned
	// file left by an earlier run was deleted from its output path
	Removed bool
	// Err is set when cleaning failed
	Err error
}

// TreeResult contains the outcome of CleanTree.
type TreeResult struct {
	// OriginalDir and CleanedDir are the trees that were processed
	OriginalDir string
	CleanedDir  string
	// Files holds one entry per discovered document, sorted by RelPath
	Files []FileResult
	// TotalChanges sums ChangeCount over Files
	TotalChanges int
	// Written counts the documents written to CleanedDir
	Written int
	// Failed counts the documents whose Err is set
	Failed int
}

// HasErrors reports whether any document failed.
func (r *TreeResult) HasErrors() bool {
	return r.Failed > 0
}

// Errors joins the errors of every failed document.
func (r *TreeResult) Errors() error {
	var errs []error
	for _, f := range r.Files {
		if f.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", f.RelPath, f.Err))
		}
	}
	return errors.Join(errs...)
}

// CleanTree cleans every document under originalDir into the same relative
// path under cleanedDir. Under AbsentOmit a document that normalizes to
// nothing also deletes its mirrored output from an earlier run.
//
// Documents are discovered in sorted order and cleaned concurrently with at
// most cfg.Jobs workers. Unless cfg.ContinueOnError is set, the first failure
// cancels the remaining work and is returned.
func CleanTree(ctx context.Context, originalDir, cleanedDir string, cfg TreeConfig) (*TreeResult, error) {
	log := cfg.Logger
	if log == nil {
		log = normalizer.NopLogger{}
	}

	files, err := discover(originalDir, cleanedDir, cfg)
	if err != nil {
		return nil, fmt.Errorf("cleaner: %w", err)
	}

	result := &TreeResult{
		OriginalDir: originalDir,
		CleanedDir:  cleanedDir,
		Files:       make([]FileResult, len(files)),
	}
	if len(files) == 0 {
		log.Warn("no documents found", "dir", originalDir)
		return result, nil
	}

	jobs := cfg.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	c := &Cleaner{
		EnabledRules: cfg.EnabledRules,
		AbsentPolicy: cfg.AbsentPolicy,
		Logger:       log,
	}

	// Each goroutine owns result.Files[i]; no locking needed.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, src := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			rel, _ := filepath.Rel(originalDir, src)
			fr := FileResult{RelPath: filepath.ToSlash(rel), SourcePath: src}
			defer func() { result.Files[i] = fr }()

			dst, err := pathutil.MirrorPath(originalDir, cleanedDir, src)
			if err != nil {
				fr.Err = err
				return err
			}
			log.Info("cleaning", "input", src, "output", dst)

			res, err := c.CleanFile(src, dst)
			if err != nil {
				fr.Err = err
				if cfg.ContinueOnError {
					log.Error("failed to clean document", "input", src, "error", err)
					return nil
				}
				return fmt.Errorf("%s: %w", fr.RelPath, err)
			}
			fr.OutputPath = res.OutputPath
			fr.ChangeCount = res.ChangeCount
			fr.Absent = res.Absent

			if res.Absent && !res.Written() && c.policy() == AbsentOmit {
				removed, err := fileutil.RemoveIfExists(dst)
				if err != nil {
					fr.Err = err
					if cfg.ContinueOnError {
						log.Error("failed to remove stale output", "output", dst, "error", err)
						return nil
					}
					return fmt.Errorf("%s: %w", fr.RelPath, err)
				}
				if removed {
					fr.Removed = true
					log.Info("removed stale output", "output", dst)
				}
			}
			return nil
		})
	}

	waitErr := g.Wait()

	for i := range result.Files {
		f := &result.Files[i]
		if f.SourcePath == "" {
			// Never started because the batch was cancelled.
			rel, _ := filepath.Rel(originalDir, files[i])
			f.RelPath, f.SourcePath = filepath.ToSlash(rel), files[i]
			continue
		}
		result.TotalChanges += f.ChangeCount
		if f.OutputPath != "" {
			result.Written++
		}
		if f.Err != nil {
			result.Failed++
		}
	}

	if waitErr != nil {
		return result, fmt.Errorf("cleaner: %w", waitErr)
	}
	return result, nil
}

// discover returns the sorted list of documents under root that match the
// include patterns and are not ignored. The output tree is skipped when it
// lives inside root.
func discover(root, outDir string, cfg TreeConfig) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot read source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source is not a directory: %s", root)
	}

	include := cfg.Include
	if len(include) == 0 {
		include = DefaultInclude()
	}
	includeMatcher := ignore.CompileIgnoreLines(include...)

	ignorePatterns, err := readIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, err
	}
	ignorePatterns = append(ignorePatterns, cfg.Ignore...)
	var ignoreMatcher *ignore.GitIgnore
	if len(ignorePatterns) > 0 {
		ignoreMatcher = ignore.CompileIgnoreLines(ignorePatterns...)
	}

	absOut, _ := filepath.Abs(outDir)

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if abs, _ := filepath.Abs(path); abs == absOut {
				return filepath.SkipDir
			}
			if ignoreMatcher != nil && ignoreMatcher.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if ignoreMatcher != nil && ignoreMatcher.MatchesPath(rel) {
			return nil
		}
		if includeMatcher.MatchesPath(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

// readIgnoreFile returns the patterns in a .cleanignore file. A missing file
// yields no patterns.
func readIgnoreFile(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304 - fixed name under the source tree
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", IgnoreFileName, err)
	}
	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}
