package internal

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/xiaobogaga/jackc/compiler/internal/vm"
)

const (
	jackFileExt = ".jack"
	vmFileExt   = ".vm"
)

// Options controls a batch compilation.
type Options struct {
	// OutDir receives the generated files. Empty means next to each source file.
	OutDir string
	// Jobs bounds how many units are compiled at once. Zero or less means GOMAXPROCS.
	Jobs int
	// Verify re-reads the generated code with the vm parser before it is written.
	Verify bool
	// Stdout, when not nil, receives the generated code instead of files.
	Stdout io.Writer
}

// CompilePaths compiles every jack file named by paths. A directory stands for the
// jack files directly inside it. Units are independent: a failing unit doesn't stop
// the others, and all failures are returned joined together.
func CompilePaths(paths []string, opts Options) error {
	sources, err := CollectSources(paths)
	if err != nil {
		log.Error(err)
		return err
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	if opts.OutDir != "" {
		if err = os.MkdirAll(opts.OutDir, 0777); err != nil {
			log.Error(err)
			return err
		}
	}
	failures := outputCollisions(sources, opts)
	outputs := make([][]byte, len(sources))
	g := &errgroup.Group{}
	g.SetLimit(jobs)
	for i, source := range sources {
		if failures[i] != nil {
			log.Errorf("compile %s failed: %v", source, failures[i])
			continue
		}
		i, source := i, source
		g.Go(func() error {
			outputs[i], failures[i] = compileFile(source, opts)
			if failures[i] != nil {
				log.Errorf("compile %s failed: %v", source, failures[i])
			}
			return nil
		})
	}
	_ = g.Wait()
	if opts.Stdout != nil {
		for _, output := range outputs {
			if _, err = opts.Stdout.Write(output); err != nil {
				return err
			}
		}
	}
	return errors.Join(failures...)
}

// outputCollisions fails every source whose output file would also be written by
// another source, as happens for equal base names under one out dir. Such units
// are not compiled at all.
func outputCollisions(sources []string, opts Options) []error {
	failures := make([]error, len(sources))
	if opts.Stdout != nil {
		return failures
	}
	owners := map[string][]int{}
	for i, source := range sources {
		dest := OutputPath(source, opts.OutDir)
		owners[dest] = append(owners[dest], i)
	}
	for dest, indexes := range owners {
		if len(indexes) < 2 {
			continue
		}
		names := make([]string, 0, len(indexes))
		for _, i := range indexes {
			names = append(names, sources[i])
		}
		for _, i := range indexes {
			failures[i] = fmt.Errorf("%s: output %s is shared by %s", sources[i], dest, strings.Join(names, ", "))
		}
	}
	return failures
}

// CollectSources expands directories and checks the extension of plain files.
// The result is sorted and free of duplicates.
func CollectSources(paths []string) ([]string, error) {
	seen := map[string]bool{}
	var sources []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if !isJackFile(path) {
				return nil, fmt.Errorf("%s is not a jack file", path)
			}
			if !seen[path] {
				seen[path] = true
				sources = append(sources, path)
			}
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			// Ignore sub path and non jack files.
			if entry.IsDir() || !isJackFile(entry.Name()) {
				continue
			}
			file := filepath.Join(path, entry.Name())
			if !seen[file] {
				seen[file] = true
				sources = append(sources, file)
			}
		}
	}
	sort.Strings(sources)
	return sources, nil
}

func isJackFile(fileName string) bool {
	return len(fileName) > len(jackFileExt) && strings.HasSuffix(fileName, jackFileExt)
}

// OutputPath is where the code of source is written: the same base name with a
// .vm extension, inside outDir or else beside source.
func OutputPath(source, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(source), jackFileExt) + vmFileExt
	if outDir == "" {
		return filepath.Join(filepath.Dir(source), base)
	}
	return filepath.Join(outDir, base)
}

// compileFile compiles one unit and writes it unless opts.Stdout is set, in which
// case the code is returned for the caller to print in source order.
func compileFile(source string, opts Options) ([]byte, error) {
	log.Debugf("compiling %s", source)
	f, err := os.Open(source)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	code, err := CompileUnit(NewSourceReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", source, err)
	}
	if opts.Verify {
		if _, err = vm.Parse(bytes.NewReader(code)); err != nil {
			return nil, fmt.Errorf("%s: generated invalid vm code: %w", source, err)
		}
	}
	if opts.Stdout != nil {
		return code, nil
	}
	dest := OutputPath(source, opts.OutDir)
	if err = os.WriteFile(dest, code, 0666); err != nil {
		return nil, err
	}
	log.Infof("wrote %s", dest)
	return nil, nil
}

// NewSourceReader decodes jack source. A leading byte order mark is dropped, and
// UTF-16 input with a mark is converted to UTF-8. Anything else passes through
// unchanged.
func NewSourceReader(rd io.Reader) io.Reader {
	return transform.NewReader(rd, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
