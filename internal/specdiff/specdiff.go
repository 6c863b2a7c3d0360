// Package specdiff computes line diffs between two exported specifications,
// used to compare workspace revisions.
package specdiff

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// SegmentType indicates whether a diff segment is unchanged, added, or deleted.
type SegmentType int

const (
	SegmentUnchanged SegmentType = iota
	SegmentAdded
	SegmentDeleted
)

// Segment is one run of diff output.
type Segment struct {
	Type SegmentType
	Text string
}

// Diff computes a line-level diff between two spec JSON documents. Both
// inputs are normalized (re-indented) first so formatting differences don't
// show up as changes.
func Diff(a, b []byte) ([]Segment, error) {
	na, err := normalize(a)
	if err != nil {
		return nil, fmt.Errorf("normalizing left spec: %w", err)
	}
	nb, err := normalize(b)
	if err != nil {
		return nil, fmt.Errorf("normalizing right spec: %w", err)
	}

	dmp := diffmatchpatch.New()
	lineA, lineB, lines := dmp.DiffLinesToChars(na, nb)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(lineA, lineB, false), lines)

	out := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		seg := Segment{Text: d.Text}
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			seg.Type = SegmentAdded
		case diffmatchpatch.DiffDelete:
			seg.Type = SegmentDeleted
		default:
			seg.Type = SegmentUnchanged
		}
		out = append(out, seg)
	}
	return out, nil
}

// Changed reports whether two spec documents differ after normalization.
func Changed(a, b []byte) (bool, error) {
	segs, err := Diff(a, b)
	if err != nil {
		return false, err
	}
	for _, seg := range segs {
		if seg.Type != SegmentUnchanged {
			return true, nil
		}
	}
	return false, nil
}

// Format renders segments as unified-style text with +/- line prefixes.
func Format(segs []Segment) string {
	var sb strings.Builder
	for _, seg := range segs {
		prefix := "  "
		switch seg.Type {
		case SegmentAdded:
			prefix = "+ "
		case SegmentDeleted:
			prefix = "- "
		}
		for _, line := range strings.Split(strings.TrimSuffix(seg.Text, "\n"), "\n") {
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// normalize re-indents a JSON document so semantically equal specs compare
// byte-equal line by line.
func normalize(doc []byte) (string, error) {
	var decoded any
	if err := json.Unmarshal(doc, &decoded); err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(decoded, "", "  ")
	if err != nil {
		return "", err
	}
	return string(out) + "\n", nil
}
