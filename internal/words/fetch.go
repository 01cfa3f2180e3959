package words

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Fetch downloads a named word list from the API and writes it to
// outDir as <list>.txt for offline practice. Overwrites only when
// force is set.
func Fetch(ctx context.Context, client *Client, list string, size int, outDir string, force bool) (string, error) {
	if size <= 0 {
		return "", fmt.Errorf("size must be greater than 0")
	}
	outPath := filepath.Join(outDir, list+".txt")
	if !force {
		if _, err := os.Stat(outPath); err == nil {
			return "", fmt.Errorf("word list already exists: %s (use --force to overwrite)", outPath)
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to stat word list: %w", err)
		}
	}

	resp, err := client.GetWords(ctx, Request{List: list, Limit: size, Randomize: false})
	if err != nil {
		return "", fmt.Errorf("failed to fetch %q: %w", list, err)
	}
	if err := writeWordList(outPath, resp.Words); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return outPath, nil
}

func writeWordList(path string, list []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create word list dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "wordlist-*.txt")
	if err != nil {
		return fmt.Errorf("failed to create temp word list: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	writer := bufio.NewWriter(tmpFile)
	for _, word := range list {
		if _, err := fmt.Fprintln(writer, word); err != nil {
			return fmt.Errorf("failed to write word list: %w", err)
		}
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush word list: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close word list: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write word list: %w", err)
	}
	return nil
}
