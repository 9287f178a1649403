package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// AttachmentName is the conventional file name for the embedded
// structured twin inside the hybrid container.
const AttachmentName = "factur-x.xml"

// Embedder merges the rendered visual bytes and the serialized XML
// into one archivable container. The XML rides along as an extractable
// attachment; the visible pages are untouched. A failed embed is fatal
// for the finalization attempt: a PDF without its embedded data is not
// a valid output.
type Embedder struct{}

func NewEmbedder() *Embedder {
	return &Embedder{}
}

func (e *Embedder) Embed(visual []byte, xmlData []byte) ([]byte, error) {
	dir, err := os.MkdirTemp("", "hybrid-embed-*")
	if err != nil {
		return nil, fmt.Errorf("embed workspace: %w", err)
	}
	defer os.RemoveAll(dir)

	xmlPath := filepath.Join(dir, AttachmentName)
	if err := os.WriteFile(xmlPath, xmlData, 0o600); err != nil {
		return nil, fmt.Errorf("stage attachment: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var out bytes.Buffer
	if err := api.AddAttachments(bytes.NewReader(visual), &out, []string{xmlPath}, false, conf); err != nil {
		return nil, fmt.Errorf("attach %s: %w", AttachmentName, err)
	}
	return out.Bytes(), nil
}
