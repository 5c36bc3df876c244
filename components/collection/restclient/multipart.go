package restclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sort"
	"strings"

	"github.com/goliatone/go-collection/components/collection"
)

// encodeSubmission serializes a draft as multipart form data. Every non-file
// field is JSON-encoded into its own form field (including strings, which
// arrive quoted) so structured values can coexist with raw file parts in one
// request; the backend's multipart parser depends on this dual encoding.
func encodeSubmission(sub collection.Submission) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for _, key := range sortedFieldKeys(sub.Fields) {
		encoded, err := json.Marshal(sub.Fields[key])
		if err != nil {
			return nil, "", fmt.Errorf("restclient: encode field %s: %w", key, err)
		}
		if err := writer.WriteField(key, string(encoded)); err != nil {
			return nil, "", fmt.Errorf("restclient: write field %s: %w", key, err)
		}
	}

	for _, name := range sortedFileKeys(sub.Files) {
		file := sub.Files[name]
		part, err := createFilePart(writer, name, file)
		if err != nil {
			return nil, "", fmt.Errorf("restclient: write file %s: %w", name, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("restclient: write file %s: %w", name, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("restclient: finalize multipart body: %w", err)
	}
	return buf, writer.FormDataContentType(), nil
}

func createFilePart(writer *multipart.Writer, name string, file collection.FileUpload) (interface{ Write([]byte) (int, error) }, error) {
	if file.ContentType == "" {
		return writer.CreateFormFile(name, file.Filename)
	}
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`,
		escapeQuotes(name), escapeQuotes(file.Filename)))
	header.Set("Content-Type", file.ContentType)
	return writer.CreatePart(header)
}

func escapeQuotes(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

func sortedFieldKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFileKeys(files map[string]collection.FileUpload) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
