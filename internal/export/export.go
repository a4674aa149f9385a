package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode/utf16"

	"hltv-ranking/internal/components/assert"
	"hltv-ranking/internal/scrapers/hltv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("export")

const (
	Version = "1.0"
	Source  = "hltv.org"
	Type    = "world"

	// DatePlaceholder is replaced by the ranking date in output paths.
	DatePlaceholder = "{{ranking_date}}"
)

// Ranking is the exported document.
type Ranking struct {
	Version string      `json:"version"`
	Date    string      `json:"date"`
	Source  string      `json:"source"`
	Type    string      `json:"type"`
	Teams   []hltv.Team `json:"teams"`
}

// Format wraps a snapshot into the export envelope.
func Format(snapshot hltv.Snapshot) Ranking {
	teams := snapshot.Teams
	if teams == nil {
		teams = []hltv.Team{}
	}
	return Ranking{
		Version: Version,
		Date:    snapshot.Date.Format(time.DateOnly),
		Source:  Source,
		Type:    Type,
		Teams:   teams,
	}
}

// OutputPath substitutes the ranking date into a path template.
// ex. "rankings/{{ranking_date}}.json" -> "rankings/2024-10-21.json"
func OutputPath(template string, ranking Ranking) string {
	return strings.ReplaceAll(template, DatePlaceholder, ranking.Date)
}

const DefaultIndent = "    "

type EncodeOptions struct {
	// Indent defaults to DefaultIndent.
	Indent string
	// EnsureASCII escapes every non-ASCII character as \uXXXX.
	EnsureASCII bool
}

// Encode serializes the ranking as indented json, non-ASCII text is written
// as is unless EnsureASCII is set.
func Encode(ranking Ranking, opts EncodeOptions) ([]byte, error) {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)
	err := encoder.Encode(ranking)
	if err != nil {
		return nil, err
	}

	if opts.EnsureASCII {
		return escapeNonASCII(buffer.Bytes()), nil
	}
	return buffer.Bytes(), nil
}

// escapeNonASCII relies on non-ASCII runes only ever appearing inside json
// strings.
func escapeNonASCII(data []byte) []byte {
	var out bytes.Buffer
	out.Grow(len(data))
	for _, r := range string(data) {
		if r < 0x80 {
			out.WriteRune(r)
			continue
		}
		if r > 0xffff {
			r1, r2 := utf16.EncodeRune(r)
			fmt.Fprintf(&out, `\u%04x\u%04x`, r1, r2)
			continue
		}
		fmt.Fprintf(&out, `\u%04x`, r)
	}
	return out.Bytes()
}

// WriteFile writes the encoded ranking to `path` in one go, replacing any
// existing file.
func WriteFile(path string, ranking Ranking, opts EncodeOptions) error {
	data, err := Encode(ranking, opts)
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	err = os.WriteFile(path, data, 0644)
	if err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	return nil
}

// SnapshotSource provides ranking snapshots, it is implemented by *hltv.Client.
type SnapshotSource interface {
	Snapshot(ctx context.Context, target hltv.Target) (hltv.Snapshot, error)
}

// Archive keeps a copy of every exported ranking.
type Archive interface {
	Push(ctx context.Context, ranking Ranking) error
}

type Exporter struct {
	Source  SnapshotSource
	Options EncodeOptions
	// Archive can be nil.
	Archive Archive
}

// Ranking fetches the snapshot for `target` and formats it.
func (e Exporter) Ranking(ctx context.Context, target hltv.Target) (Ranking, error) {
	assert.NotNil(e.Source, "exporter source")
	snapshot, err := e.Source.Snapshot(ctx, target)
	if err != nil {
		return Ranking{}, err
	}
	return Format(snapshot), nil
}

// ExportToFile fetches the ranking for `target` and writes it to the path
// made from `template`, which it returns.
func (e Exporter) ExportToFile(ctx context.Context, template string, target hltv.Target) (string, error) {
	ctx, span := tracer.Start(ctx, "exporter:ExportToFile")
	defer span.End()

	ranking, err := e.Ranking(ctx, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get ranking")
		return "", err
	}

	path := OutputPath(template, ranking)
	span.SetAttributes(
		attribute.String("path", path),
		attribute.String("date", ranking.Date),
	)

	err = WriteFile(path, ranking, e.Options)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to write ranking")
		return "", err
	}

	if e.Archive != nil {
		err = e.Archive.Push(ctx, ranking)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to archive ranking")
			return "", fmt.Errorf("archive ranking: %w", err)
		}
	}

	return path, nil
}
