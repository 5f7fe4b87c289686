package service

import "bytes"

// textDocument presents a plain-text or HTML report as a single page.
type textDocument struct {
	text     string
	metadata map[string]string
}

func decodePlainText(data []byte) (pagedDocument, error) {
	return &textDocument{text: string(bytes.ToValidUTF8(data, []byte{}))}, nil
}

func (d *textDocument) NumPage() int { return 1 }

func (d *textDocument) Text(pageNumber int) (string, error) {
	return d.text, nil
}

func (d *textDocument) Metadata() map[string]string {
	if d.metadata == nil {
		return map[string]string{}
	}
	return d.metadata
}

func (d *textDocument) Close() error { return nil }
