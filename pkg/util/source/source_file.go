package source

import "os"

// File holds one source file's full contents in memory, addressed by byte
// offset so a diagnostic's Span can be resolved back to the line it came
// from (pkg/diag.Render). FIG reads two files per run — the model file and
// the properties file (spec §6) — so ReadFiles below always takes the
// filenames together rather than one at a time.
type File struct {
	filename string
	contents []byte
}

// NewSourceFile wraps an already-read file's contents.
func NewSourceFile(filename string, contents []byte) *File {
	return &File{filename: filename, contents: contents}
}

// ReadFiles reads every named file in order, stopping at the first error.
func ReadFiles(filenames ...string) ([]File, error) {
	files := make([]File, len(filenames))

	for i, name := range filenames {
		contents, err := os.ReadFile(name)
		if err != nil {
			return nil, err
		}

		files[i] = *NewSourceFile(name, contents)
	}

	return files, nil
}

// Filename returns the path this file was read from.
func (f *File) Filename() string { return f.filename }

// Contents returns the file's raw bytes.
func (f *File) Contents() []byte { return f.contents }

// Line is one physical line of a File, identified by its 1-based line
// number and the byte span it occupies.
type Line struct {
	text   []byte
	span   Span
	number int
}

// String returns the line's text.
func (l Line) String() string { return string(l.text[l.span.start:l.span.end]) }

// Number returns the 1-based line number.
func (l Line) Number() int { return l.number }

// FindFirstEnclosingLine returns the line containing the start of span. A
// span past the end of the file resolves to the last line, so a diagnostic
// for a position the analyzer derived rather than the parser (e.g. an
// enumeration-bound error with no literal token behind it) still renders
// something useful rather than panicking.
func (f *File) FindFirstEnclosingLine(span Span) Line {
	number := 1
	lineStart := 0

	for i, b := range f.contents {
		if i == span.start {
			return Line{text: f.contents, span: Span{lineStart, endOfLine(f.contents, i)}, number: number}
		}

		if b == '\n' {
			number++
			lineStart = i + 1
		}
	}

	return Line{text: f.contents, span: Span{lineStart, len(f.contents)}, number: number}
}

func endOfLine(text []byte, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}

	return len(text)
}
