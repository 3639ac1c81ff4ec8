package ast

import (
	"strings"
)

type Identifier string

type QualifiedIdentifier string

type FullIdentifier string

func (f FullIdentifier) String() string {
	return string(f)
}

func (f FullIdentifier) Module() QualifiedIdentifier {
	idx := strings.LastIndex(string(f), ".")
	if idx < 0 {
		return ""
	}
	return QualifiedIdentifier(f[:idx])
}

func (f FullIdentifier) Name() Identifier {
	idx := strings.LastIndex(string(f), ".")
	return Identifier(f[idx+1:])
}

func MakeFullIdentifier(moduleName QualifiedIdentifier, name Identifier) FullIdentifier {
	if moduleName == "" {
		return FullIdentifier(name)
	}
	return FullIdentifier(string(moduleName) + "." + string(name))
}
