package ppsnap

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// ContainerKind classifies raw input bytes before any parsing happens.
type ContainerKind int

const (
	// ContainerUnknown is the zero kind, returned alongside errors.
	ContainerUnknown ContainerKind = iota
	// ContainerTabular is plain tabular text, CSV-like.
	ContainerTabular
	// ContainerXML is a plain XML application export, or one found inside a
	// zip container.
	ContainerXML
	// ContainerUnsupportedBinary is a zip container holding the proprietary
	// binary payload. It is detected and reported, never decoded.
	ContainerUnsupportedBinary
)

var (
	zipMagic    = []byte{'P', 'K', 0x03, 0x04}
	binaryMagic = []byte("PPPBV")
)

// Sniff classifies the byte stream of an export file and returns the payload
// to parse: the input itself for plain files, the extracted XML entry for
// zip containers. The check order matters: container magic numbers are
// tested before assuming tabular text, so a container with ambiguous leading
// bytes can never be misread as CSV.
func Sniff(data []byte) (ContainerKind, []byte, error) {
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf")), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<?xml")) || bytes.HasPrefix(trimmed, []byte("<")) {
		return ContainerXML, data, nil
	}
	if bytes.HasPrefix(data, zipMagic) {
		return sniffZip(data)
	}
	return ContainerTabular, data, nil
}

// sniffZip looks inside a zip-like container. The container is supported iff
// it holds an entry literally named "data.xml"; an entry "data.portfolio"
// starting with the PPPBV marker is the proprietary binary variant.
func sniffZip(data []byte) (ContainerKind, []byte, error) {
	z, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ContainerUnknown, nil, fmt.Errorf("cannot open zip container: %w", err)
	}
	for _, f := range z.File {
		if f.Name != "data.xml" {
			continue
		}
		payload, err := readZipEntry(f)
		if err != nil {
			return ContainerUnknown, nil, fmt.Errorf("cannot read container entry %q: %w", f.Name, err)
		}
		return ContainerXML, payload, nil
	}
	for _, f := range z.File {
		if f.Name != "data.portfolio" {
			continue
		}
		payload, err := readZipEntry(f)
		if err != nil {
			return ContainerUnknown, nil, fmt.Errorf("cannot read container entry %q: %w", f.Name, err)
		}
		if bytes.HasPrefix(payload, binaryMagic) {
			return ContainerUnsupportedBinary, nil, nil
		}
		return ContainerUnknown, nil, fmt.Errorf("unknown payload in container entry %q", f.Name)
	}
	return ContainerUnknown, nil, fmt.Errorf("container holds neither data.xml nor data.portfolio")
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
