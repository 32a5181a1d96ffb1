package archiver

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
)

// TgzArchiver packs a single file into a gzipped tarball next to it.
type TgzArchiver struct{}

// FileType implements basic.Archiver.
func (a *TgzArchiver) FileType() string { return "tar.gz" }

// Compress implements basic.Archiver.
func (a *TgzArchiver) Compress(path string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return err
	}

	dest, err := os.Create(replaceExt(path, ".tar.gz"))
	if err != nil {
		return err
	}
	defer dest.Close()

	gz := gzip.NewWriter(dest)
	tw := tar.NewWriter(gz)

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	header.Name = filepath.Base(path)
	if err := tw.WriteHeader(header); err != nil {
		return err
	}
	if _, err := io.Copy(tw, src); err != nil {
		return err
	}
	if err := tw.Close(); err != nil {
		return err
	}
	return gz.Close()
}
