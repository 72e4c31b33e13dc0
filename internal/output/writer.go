// Package output materialises a generated file tree on disk.
package output

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"sitegen_server/internal/logger"
	"sitegen_server/internal/types"
)

// ErrUnsafePath is returned for a file path that would escape the project
// directory.
var ErrUnsafePath = errors.New("unsafe file path")

type Writer struct {
	root   string
	logger *zap.Logger
}

// NewWriter writes projects below root. An empty root means a fresh
// temporary directory per project.
func NewWriter(root string, log *zap.Logger) *Writer {
	return &Writer{root: root, logger: logger.OrNop(log)}
}

// Write stores files under <root>/<projectID> and returns that directory.
// Paths are validated before anything is written.
func (w *Writer) Write(ctx context.Context, projectID string, files types.GenerationResult) (string, error) {
	paths := make([]string, 0, len(files))
	for p := range files {
		if err := checkPath(p); err != nil {
			return "", err
		}
		paths = append(paths, p)
	}
	sort.Strings(paths)

	dir, err := w.projectDir(projectID)
	if err != nil {
		return "", err
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return "", fmt.Errorf("create directory for %s: %w", p, err)
		}
		if err := os.WriteFile(target, []byte(files[p]), 0o644); err != nil {
			return "", fmt.Errorf("write %s: %w", p, err)
		}
	}

	w.logger.Info("wrote project files",
		zap.String("project", projectID),
		zap.String("dir", dir),
		zap.Int("files", len(paths)))
	return dir, nil
}

func (w *Writer) projectDir(projectID string) (string, error) {
	if w.root == "" {
		dir, err := os.MkdirTemp("", "sitegen-"+projectID+"-*")
		if err != nil {
			return "", fmt.Errorf("create temp dir: %w", err)
		}
		return dir, nil
	}
	if err := checkPath(projectID); err != nil || strings.Contains(projectID, "/") {
		return "", fmt.Errorf("%w: project id %q", ErrUnsafePath, projectID)
	}
	dir := filepath.Join(w.root, projectID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create project dir: %w", err)
	}
	return dir, nil
}

func checkPath(p string) error {
	if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: %q", ErrUnsafePath, p)
		}
	}
	return nil
}
