package gclipboard

import "github.com/atotto/clipboard"

func ReadAll() (string, error) {
	return clipboard.ReadAll()
}

func WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

func Unsupported() bool {
	return clipboard.Unsupported
}
