package gdialog

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/sqweek/dialog"
)

var ErrCancelled = dialog.ErrCancelled

type Result struct {
	Path string
	Name string
}

// OpenEngine asks for an engine executable.
func OpenEngine(title string) (Result, error) {
	path, err := dialog.File().Title(title).Load()
	if err != nil {
		return Result{}, err
	}
	return Result{Path: path, Name: filepath.Base(path)}, nil
}

// SavePGN asks where to save a game, ".pgn" is appended if missing.
func SavePGN(title, startName string) (Result, error) {
	path, err := dialog.File().Title(title).Filter("PGN files", "pgn").SetStartFile(startName).Save()
	if err != nil {
		return Result{}, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".pgn") {
		path += ".pgn"
	}
	return Result{Path: path, Name: filepath.Base(path)}, nil
}

func IsCancelled(err error) bool {
	return errors.Is(err, dialog.ErrCancelled)
}
