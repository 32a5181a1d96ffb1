package archiver

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ZipArchiver packs a single file into a zip archive next to it.
type ZipArchiver struct{}

// FileType implements basic.Archiver.
func (a *ZipArchiver) FileType() string { return "zip" }

// Compress implements basic.Archiver.
func (a *ZipArchiver) Compress(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dest, err := os.Create(replaceExt(path, ".zip"))
	if err != nil {
		return err
	}
	defer dest.Close()

	zw := zip.NewWriter(dest)
	w, err := zw.Create(filepath.Base(path))
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, src); err != nil {
		return err
	}
	return zw.Close()
}

// replaceExt swaps the file extension, e.g. notes.txt -> notes.zip.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
