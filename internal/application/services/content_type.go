package services

import (
	"bytes"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	genericContentType = "application/octet-stream"
	sniffLen           = 3072
)

// resolveContentType prefers the declared type, then the extension, then the
// leading bytes of body. The returned reader replays whatever was sniffed.
func resolveContentType(declared, fileName string, body io.Reader) (string, io.Reader, error) {
	if ct := strings.TrimSpace(declared); ct != "" && ct != genericContentType {
		if _, _, err := mime.ParseMediaType(ct); err == nil {
			return ct, body, nil
		}
	}

	if ct := mime.TypeByExtension(strings.ToLower(path.Ext(fileName))); ct != "" {
		return ct, body, nil
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]

	return mimetype.Detect(head).String(), io.MultiReader(bytes.NewReader(head), body), nil
}
