// Package mdv turns Markdown into styled lines for a character-grid terminal
// and keeps a registry of the document's links, selectable by digit keys.
//
// Parsing happens once, when a Document is built. A Tokenizer (goldmark by
// default) produces a balanced stream of start, end and leaf events, and the
// translator folds that stream into Lines of styled Spans:
//
//   - level 1 headings are bold, level 2 italic, deeper levels colored
//   - strong and emphasis accumulate bold and italic on nested text
//   - list items get "* " or "N. " markers, indented two spaces per level
//   - soft breaks become spaces, hard breaks end the line
//
// Block quotes, strikethrough, superscript and subscript are rendered as
// plain text and reported through Document.Diagnostics.
//
// Every link start registers a formatted destination in a deduplicated,
// lexicographically ordered set. Document.Select maps the keys '0' to '9' to
// the entries of that set.
//
// Example:
//
//	doc := mdv.New("# Hello\n\nSee [the docs](https://example.com).")
//	if err := mdv.RenderDocument(os.Stdout, doc, mdv.WithLinkIndex(true)); err != nil {
//		log.Fatal(err)
//	}
//	link, ok := doc.Select('0') // "(https://example.com)", true
//
// Lines are logical: they are never wrapped to a terminal width.
package mdv
