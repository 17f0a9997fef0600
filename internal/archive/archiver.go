package archive

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charapi/charapi/pkg/evaluate"
	"github.com/charapi/charapi/pkg/surface"
)

// Archiver writes finished evaluations to blob storage, one JSON document
// and one Markdown report per evaluation.
type Archiver struct {
	storage Storage
}

// NewArchiver creates an archiver over the given storage backend.
func NewArchiver(storage Storage) *Archiver {
	return &Archiver{storage: storage}
}

// Archive stores a result and returns the key prefix the reports were
// written under.
func (a *Archiver) Archive(ctx context.Context, result *evaluate.EvaluationResult) (string, error) {
	prefix := fmt.Sprintf("%s/%s", result.EIN, result.EvaluatedAt.UTC().Format("20060102T150405Z"))

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	jsonKey := prefix + ".json"
	if err := a.storage.Put(ctx, jsonKey, raw, contentTypeFor(jsonKey)); err != nil {
		return "", fmt.Errorf("archive json report: %w", err)
	}

	md := (&surface.MarkdownRenderer{}).Build(result)
	mdKey := prefix + ".md"
	if err := a.storage.Put(ctx, mdKey, []byte(md), contentTypeFor(mdKey)); err != nil {
		return "", fmt.Errorf("archive markdown report: %w", err)
	}

	return prefix, nil
}

// History lists the archived report keys for an EIN, oldest first.
func (a *Archiver) History(ctx context.Context, ein string) ([]string, error) {
	return a.storage.List(ctx, evaluate.NormalizeEIN(ein)+"/")
}

// Load reads back an archived JSON report.
func (a *Archiver) Load(ctx context.Context, key string) (*evaluate.EvaluationResult, error) {
	raw, err := a.storage.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read archived report: %w", err)
	}
	var result evaluate.EvaluationResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode archived report: %w", err)
	}
	return &result, nil
}
