package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксические
	SynUnmatchedOpen  Code = 2001
	SynUnmatchedClose Code = 2002
	SynEmptyProgram   Code = 2003

	// Runtime
	RunPointerOutOfBounds Code = 3001
	RunInputExhausted     Code = 3002
	RunInputFailed        Code = 3003
	RunOutputFailed       Code = 3004

	// I/O
	IOLoadFileError Code = 4001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		SynUnmatchedOpen:      "unmatched '['",
		SynUnmatchedClose:     "unmatched ']'",
		SynEmptyProgram:       "program contains no instructions",
		RunPointerOutOfBounds: "data pointer out of bounds",
		RunInputExhausted:     "input exhausted",
		RunInputFailed:        "input read failed",
		RunOutputFailed:       "output write failed",
		IOLoadFileError:       "I/O load file error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("RUN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
