package ast

import "fmt"

type Location struct {
	filePath    string
	fileContent []rune
	start       uint32
	end         uint32
}

func NewLocation(filePath string, content []rune, start uint32, end uint32) Location {
	return Location{
		filePath:    filePath,
		fileContent: content,
		start:       start,
		end:         end,
	}
}

func NewLocationCursor(filePath string, content []rune, start uint32) Location {
	return NewLocation(filePath, content, start, start)
}

func (loc Location) EqualsTo(other Location) bool {
	return loc.filePath == other.filePath && loc.start == other.start && loc.end == other.end
}

func (loc Location) IsEmpty() bool {
	return loc.filePath == ""
}

func (loc Location) CursorString() string {
	if loc.IsEmpty() {
		return ""
	}
	line, col, _, _ := loc.GetLineAndColumn()
	return fmt.Sprintf("%s:%d:%d", loc.filePath, line, col)
}

func (loc Location) GetLineAndColumn() (startLine, startColumn, endLine, endColumn int) {
	line := 1
	column := 1

	for i := uint32(0); i < uint32(len(loc.fileContent)); i++ {
		if i == loc.start {
			startLine = line
			startColumn = column
		}
		if i == loc.end {
			endLine = line
			endColumn = column
		}

		if '\n' == loc.fileContent[i] {
			line++
			column = 1
		} else {
			column++
		}
	}

	// A position at len(fileContent) sits just past the last rune and is
	// never reached by the loop; a span may legitimately end there.
	if loc.start == uint32(len(loc.fileContent)) {
		startLine, startColumn = line, column
	}
	if loc.end == uint32(len(loc.fileContent)) {
		endLine, endColumn = line, column
	}
	return
}

func (loc Location) FilePath() string {
	return loc.filePath
}

func (loc Location) Text() string {
	return string(loc.fileContent[loc.start:loc.end])
}

func (loc Location) Contains(cursor Location) bool {
	return loc.start <= cursor.start && cursor.end <= loc.end
}

func (loc Location) Start() uint32 {
	return loc.start
}

func (loc Location) End() uint32 {
	return loc.end
}
