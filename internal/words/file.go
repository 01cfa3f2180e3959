package words

import (
	"bufio"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LoadWords reads one word per line from the provided file path.
func LoadWords(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort close for read-only word list.
			_ = cerr
		}
	}()

	var words []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		words = append(words, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("word list is empty")
	}
	return words, nil
}

// FileProvider serves word lists from local files in a directory,
// one list per <name>.txt file.
type FileProvider struct {
	dir string
	rnd *rand.Rand
}

// NewFileProvider builds a provider over the given word list directory.
func NewFileProvider(dir string) *FileProvider {
	return &FileProvider{
		dir: dir,
		rnd: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetWords loads a local list, optionally shuffles it, and trims to
// the requested limit. Enhancement options are ignored locally; the
// generator applies its own.
func (p *FileProvider) GetWords(_ context.Context, req Request) (Response, error) {
	if req.List == "" {
		return Response{}, fmt.Errorf("list name is required")
	}
	path := filepath.Join(p.dir, req.List+".txt")
	loaded, err := LoadWords(path)
	if err != nil {
		return Response{}, fmt.Errorf("failed to load word list %q: %w", req.List, err)
	}
	total := len(loaded)
	if req.Randomize {
		p.rnd.Shuffle(len(loaded), func(i, j int) {
			loaded[i], loaded[j] = loaded[j], loaded[i]
		})
	}
	if req.Limit > 0 && len(loaded) > req.Limit {
		loaded = loaded[:req.Limit]
	}
	return Response{
		Words: loaded,
		Metadata: Metadata{
			List:           req.List,
			Count:          len(loaded),
			TotalAvailable: total,
		},
	}, nil
}
