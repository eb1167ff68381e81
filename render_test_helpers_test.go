package mdv

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// texts returns the plain text of every line.
func texts(lines []Line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.Text()
	}
	return out
}

// translateEvents builds a document from events and requires it to parse.
func translateEvents(t *testing.T, events ...Event) *Document {
	t.Helper()
	doc := NewFromEvents("", events)
	require.NoError(t, doc.Err())
	require.True(t, doc.Parsed())
	return doc
}

func paragraph(events ...Event) []Event {
	out := []Event{StartEvent(TagParagraph)}
	out = append(out, events...)
	return append(out, EndEvent(TagParagraph))
}

func wrapped(tag Tag, events ...Event) []Event {
	out := []Event{StartEvent(tag)}
	out = append(out, events...)
	return append(out, EndEvent(tag))
}

func concat(groups ...[]Event) []Event {
	var out []Event
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
