// Package preview renders a document to a standalone HTML page for a quick
// look without running the converter.
//
// The front matter is stripped, ==highlight== marks are turned into <mark>,
// code blocks are colored with chroma classes, and relative image and link
// paths are rewritten to file:// URLs so the page still finds them when
// written outside the document directory.
package preview
