// Package crxtest builds CRX archives for tests.
package crxtest

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"sort"
)

// Manifest is a minimal manifest.json body.
const Manifest = `{"manifest_version": 3, "name": "Fake DevTools", "version": "1.0.0"}`

// Zip returns a zip archive holding files. Names ending in "/" become directories.
func Zip(files map[string]string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write([]byte(files[name])); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Build wraps the zip of files in a CRX header of the given version (2 or 3).
func Build(version int, files map[string]string) ([]byte, error) {
	payload, err := Zip(files)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("Cr24")

	switch version {
	case 2:
		key := []byte("fake-public-key")
		sig := []byte("fake-signature")
		_ = binary.Write(&buf, binary.LittleEndian, uint32(2))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(key)))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(sig)))
		buf.Write(key)
		buf.Write(sig)
	case 3:
		// Not a real CrxFileHeader; the unpacker only needs the length.
		header := []byte{0x12, 0x04, 'f', 'a', 'k', 'e'}
		_ = binary.Write(&buf, binary.LittleEndian, uint32(3))
		_ = binary.Write(&buf, binary.LittleEndian, uint32(len(header)))
		buf.Write(header)
	default:
		return nil, fmt.Errorf("unsupported CRX version %d", version)
	}

	buf.Write(payload)
	return buf.Bytes(), nil
}

// WriteFile builds a CRX3 archive of files at path.
func WriteFile(path string, files map[string]string) error {
	data, err := Build(3, files)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Extension returns the files of a small but loadable extension.
func Extension() map[string]string {
	return map[string]string{
		"manifest.json":  Manifest,
		"devtools.html":  `<script src="devtools.js"></script>`,
		"devtools.js":    `chrome.devtools.panels.create("Fake", "", "panel.html")`,
		"build/panel.js": "console.log('panel');",
		"icons/":         "",
		"icons/128.png":  "fake-png-data",
	}
}
