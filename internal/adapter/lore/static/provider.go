package staticlore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vexal/internal/domain/lore"

	"golang.org/x/sync/errgroup"
)

const readConcurrency = 4

var ErrInvalidLorePath = errors.New("invalid lore filepath")

// Provider loads lore markdown from Root. When Files is empty every *.md file
// directly under Root is used. Files are ingested in name order so the
// resulting book does not depend on read timing.
type Provider struct {
	Root  string
	Files []string
}

func (p Provider) Load(ctx context.Context) (lore.Book, error) {
	files := p.Files
	if len(files) == 0 {
		var err error
		if files, err = listMarkdown(p.Root); err != nil {
			return lore.Book{}, err
		}
	}
	sort.Strings(files)

	texts := make([]string, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(readConcurrency)
	for i, name := range files {
		i, name := i, name
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, err := secureJoin(p.Root, name)
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read lore %s: %w", name, err)
			}
			texts[i] = string(b)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return lore.Book{}, err
	}

	book := lore.NewBook()
	for i, text := range texts {
		sections := lore.ParseMarkdown(text)
		book.Ingest(sections)
		slog.Debug("lore file ingested", "file", files[i], "sections", len(sections))
	}
	slog.Info("lore loaded",
		"files", len(files),
		"persons", len(book.Persons),
		"locations", len(book.Locations),
		"factions", len(book.Factions))
	return book, nil
}

func listMarkdown(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read lore dir: %w", err)
	}
	files := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".md") {
			continue
		}
		files = append(files, e.Name())
	}
	return files, nil
}

func secureJoin(root, rel string) (string, error) {
	rel = strings.TrimSpace(rel)
	if rel == "" {
		return "", ErrInvalidLorePath
	}
	if filepath.IsAbs(rel) {
		return "", ErrInvalidLorePath
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	target := filepath.Clean(filepath.Join(rootAbs, rel))
	prefix := rootAbs + string(filepath.Separator)
	if target != rootAbs && !strings.HasPrefix(target, prefix) {
		return "", ErrInvalidLorePath
	}
	return target, nil
}
