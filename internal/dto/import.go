package dto

import (
	"bytes"
	"encoding/json"

	"github.com/octobees/contacts-hub/internal/mapping"
)

// ImportRequest is the body of POST /contacts/import. Mappings[i] applies to
// Files[i].
type ImportRequest struct {
	Files    []FileRows        `json:"files" validate:"required"`
	Mappings []mapping.Mapping `json:"mappings" validate:"required"`
}

// FileRows holds the rows of one uploaded file. A file that is not a JSON
// array decodes to nil and is skipped by the importer; a row that is not an
// object decodes to an empty row.
type FileRows []mapping.Row

// UnmarshalJSON implements the lenient decoding described on FileRows.
func (f *FileRows) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		*f = nil
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return err
	}

	rows := make(FileRows, 0, len(items))
	for _, item := range items {
		row := mapping.Row{}
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			if err := json.Unmarshal(item, &row); err != nil {
				return err
			}
		}
		rows = append(rows, row)
	}
	*f = rows
	return nil
}

// ImportResponse is returned by the import endpoints.
type ImportResponse struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	TotalImported int      `json:"total_imported"`
	Errors        []string `json:"errors"`
}
