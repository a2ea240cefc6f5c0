package api

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/adrianliechti/payroll/pkg/analyzer"
)

const maxUploadMemory = 32 << 20

var (
	errMissingFiles = errors.New("missing files")
)

func valueModel(r *http.Request) string {
	return strings.TrimSpace(r.FormValue("model"))
}

func valueAnalyzer(r *http.Request) string {
	return strings.TrimSpace(r.FormValue("analyzer"))
}

func valueFormat(r *http.Request) string {
	return strings.TrimSpace(r.FormValue("format"))
}

// readFiles collects the uploaded documents in form order. Multipart
// requests may use the "files" or "file" field; any other body is read
// as a single document named by its Content-Disposition header.
func (h *Handler) readFiles(r *http.Request) ([]analyzer.File, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			return nil, err
		}

		var headers []*multipart.FileHeader

		headers = append(headers, r.MultipartForm.File["files"]...)
		headers = append(headers, r.MultipartForm.File["file"]...)

		if len(headers) == 0 {
			return nil, errMissingFiles
		}

		var files []analyzer.File

		for _, header := range headers {
			file, err := h.readPart(header)

			if err != nil {
				return nil, err
			}

			files = append(files, *file)
		}

		return files, nil
	}

	file, err := h.readBody(r)

	if err != nil {
		return nil, err
	}

	return []analyzer.File{*file}, nil
}

func (h *Handler) readPart(header *multipart.FileHeader) (*analyzer.File, error) {
	if !h.Supported(header.Filename) {
		return nil, errors.New("unsupported file type: " + header.Filename)
	}

	f, err := header.Open()

	if err != nil {
		return nil, err
	}

	defer f.Close()

	data, err := io.ReadAll(f)

	if err != nil {
		return nil, err
	}

	return &analyzer.File{
		Name: header.Filename,

		Content:     data,
		ContentType: header.Header.Get("Content-Type"),
	}, nil
}

func (h *Handler) readBody(r *http.Request) (*analyzer.File, error) {
	contentType := r.Header.Get("Content-Type")
	contentDisposition := r.Header.Get("Content-Disposition")

	_, params, _ := mime.ParseMediaType(contentDisposition)

	filename := params["filename*"]
	filename = strings.TrimPrefix(filename, "UTF-8''")
	filename = strings.TrimPrefix(filename, "utf-8''")

	if filename == "" {
		filename = params["filename"]
	}

	if filename == "" {
		return nil, errMissingFiles
	}

	if !h.Supported(filename) {
		return nil, errors.New("unsupported file type: " + filename)
	}

	data, err := io.ReadAll(r.Body)

	if err != nil {
		return nil, err
	}

	if len(data) == 0 {
		return nil, errMissingFiles
	}

	return &analyzer.File{
		Name: filename,

		Content:     data,
		ContentType: contentType,
	}, nil
}
