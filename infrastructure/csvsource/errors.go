package csvsource

import (
	"errors"
	"fmt"
	"strings"
)

// Erros estruturais abortam a carga; ErrParse identifica linhas descartadas
var (
	ErrMissingFile = errors.New("required file not found")
	ErrSchema      = errors.New("invalid file header")
	ErrParse       = errors.New("invalid row")
)

// MissingFileError indica que um arquivo obrigatório não existe
type MissingFileError struct {
	File string
}

func (e *MissingFileError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMissingFile.Error(), e.File)
}

func (e *MissingFileError) Unwrap() error {
	return ErrMissingFile
}

// SchemaError lista as colunas obrigatórias ausentes, as desconhecidas e as repetidas no cabeçalho, ordenadas
type SchemaError struct {
	File       string
	Missing    []string
	Unknown    []string
	Duplicated []string
}

func (e *SchemaError) Error() string {
	details := make([]string, 0, 3)
	if len(e.Missing) > 0 {
		details = append(details, "missing columns: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Unknown) > 0 {
		details = append(details, "unknown columns: "+strings.Join(e.Unknown, ", "))
	}
	if len(e.Duplicated) > 0 {
		details = append(details, "duplicated columns: "+strings.Join(e.Duplicated, ", "))
	}
	return fmt.Sprintf("%s: %s (%s)", ErrSchema.Error(), e.File, strings.Join(details, "; "))
}

func (e *SchemaError) Unwrap() error {
	return ErrSchema
}

// ParseError descreve uma linha que não pôde ser convertida
type ParseError struct {
	File   string
	Line   int
	Column string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("%s: %s:%d coluna %s: %s", ErrParse.Error(), e.File, e.Line, e.Column, e.Reason)
	}
	return fmt.Sprintf("%s: %s:%d: %s", ErrParse.Error(), e.File, e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return ErrParse
}
