// util/file.go
// Copyright(c) 2025 awyc contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package util

import (
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// zstReadCloser adapts a zstd Decoder to io.ReadCloser; unlike
// io.ReadCloser, the Decoder's Close() method doesn't return an error, so
// we need to paper over the difference ourselves (and close the underlying
// file as well).
type zstReadCloser struct {
	*zstd.Decoder
	f *os.File
}

func (z zstReadCloser) Close() error {
	z.Decoder.Close()
	return z.f.Close()
}

// OpenDataFile opens the file at the given path for reading; if it's zstd
// compressed (".zst" extension), the returned Reader handles decompression
// transparently.
func OpenDataFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if filepath.Ext(path) == ".zst" {
		zr, err := zstd.NewReader(f, zstd.WithDecoderConcurrency(0))
		if err != nil {
			f.Close()
			return nil, err
		}
		return zstReadCloser{Decoder: zr, f: f}, nil
	}

	return f, nil
}

// AtomicWriteFile writes b to the given path by way of a temporary file in
// the same directory that is renamed into place, so that an interrupted
// run never leaves a partially-written file behind.
func AtomicWriteFile(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // ignore errors
		return err
	}
	return nil
}
