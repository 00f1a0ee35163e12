// Package crx unpacks Chrome extension archives.
//
// A CRX file is a zip archive behind a small header. Version 2 headers carry
// the public key and signature inline, version 3 headers carry a length
// prefixed protobuf. Signatures are not verified.
package crx

import (
	"archive/zip"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Magic starts every CRX file.
const Magic = "Cr24"

const (
	dirMode  = 0755
	fileMode = 0644

	// maxHeaderSize guards against garbage lengths in a corrupt header.
	maxHeaderSize = 1 << 24
)

// ErrNotArchive is returned when the file is neither a CRX nor a zip.
var ErrNotArchive = errors.New("not a CRX or zip archive")

// Unpacker extracts CRX2, CRX3 and plain zip archives.
type Unpacker struct{}

// Unpack extracts the archive at archivePath into dir, creating dir as needed.
func (Unpacker) Unpack(ctx context.Context, archivePath, dir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat archive: %w", err)
	}

	offset, err := ZipOffset(f, st.Size())
	if err != nil {
		return err
	}

	size := st.Size() - offset
	zr, err := zip.NewReader(io.NewSectionReader(f, offset, size), size)
	// Insecure names are rejected entry by entry in extract.
	if err != nil && !errors.Is(err, zip.ErrInsecurePath) {
		return fmt.Errorf("failed to read zip archive: %w", err)
	}
	return extract(ctx, zr, dir)
}

// ZipOffset returns where the zip payload starts inside a CRX file.
// Plain zip files start at offset zero.
func ZipOffset(r io.ReaderAt, size int64) (int64, error) {
	var head [16]byte
	n, err := r.ReadAt(head[:], 0)
	if err != nil && !(errors.Is(err, io.EOF) && n >= 4) {
		return 0, fmt.Errorf("failed to read archive header: %w", err)
	}

	if string(head[:4]) != Magic {
		if string(head[:4]) == "PK\x03\x04" || string(head[:4]) == "PK\x05\x06" {
			return 0, nil
		}
		return 0, ErrNotArchive
	}
	if n < 12 {
		return 0, fmt.Errorf("truncated CRX header")
	}

	version := binary.LittleEndian.Uint32(head[4:8])
	var offset int64
	switch version {
	case 2:
		if n < 16 {
			return 0, fmt.Errorf("truncated CRX2 header")
		}
		keyLen := int64(binary.LittleEndian.Uint32(head[8:12]))
		sigLen := int64(binary.LittleEndian.Uint32(head[12:16]))
		if keyLen > maxHeaderSize || sigLen > maxHeaderSize {
			return 0, fmt.Errorf("invalid CRX2 header lengths")
		}
		offset = 16 + keyLen + sigLen
	case 3:
		headerLen := int64(binary.LittleEndian.Uint32(head[8:12]))
		if headerLen > maxHeaderSize {
			return 0, fmt.Errorf("invalid CRX3 header length")
		}
		offset = 12 + headerLen
	default:
		return 0, fmt.Errorf("unsupported CRX version %d", version)
	}

	if offset >= size {
		return 0, fmt.Errorf("truncated CRX%d file", version)
	}
	return offset, nil
}

func extract(ctx context.Context, zr *zip.Reader, destDir string) error {
	if err := os.MkdirAll(destDir, dirMode); err != nil {
		return err
	}

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		destPath, err := cleanJoin(destDir, file.Name)
		if err != nil {
			return err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, dirMode); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(destPath), dirMode); err != nil {
			return err
		}

		// Extension archives have no business shipping links.
		if file.Mode()&os.ModeSymlink != 0 {
			return fmt.Errorf("illegal file path: %s is a symlink", file.Name)
		}

		if err := writeFile(file, destPath); err != nil {
			return err
		}
	}

	return nil
}

func writeFile(file *zip.File, destPath string) error {
	mode := file.Mode().Perm()
	if mode == 0 {
		mode = fileMode
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	fileReader, err := file.Open()
	if err != nil {
		destFile.Close()
		return err
	}

	_, err = io.Copy(destFile, fileReader)
	fileReader.Close()
	if closeErr := destFile.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to extract %s: %w", file.Name, err)
	}
	return nil
}

// cleanJoin resolves name as a path below root. Entries that try to leave
// root are rejected outright rather than cleaned.
func cleanJoin(root, name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")

	if strings.Contains(name, ":") || path.IsAbs(name) {
		return "", fmt.Errorf("illegal file path: %s", name)
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return "", fmt.Errorf("illegal file path: %s", name)
		}
	}

	joined, err := securejoin.SecureJoin(root, name)
	if err != nil {
		return "", fmt.Errorf("illegal file path: %s: %w", name, err)
	}
	return joined, nil
}
