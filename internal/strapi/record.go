package strapi

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/maryline/catalogsync/pkg/catalog"
	"github.com/maryline/catalogsync/pkg/constants"
)

// entry is one document as returned by Strapi. v5 returns attributes
// flat next to id; v4 nests them under "attributes".
type entry struct {
	ID         *int64                     `json:"id"`
	DocumentID string                     `json:"documentId"`
	Attributes map[string]json.RawMessage `json:"attributes"`
	Fields     map[string]json.RawMessage `json:"-"`
}

func (e *entry) UnmarshalJSON(data []byte) error {
	type plain entry
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*e = entry(p)
	e.Fields = fields
	return nil
}

// field returns a scalar attribute as text from either layout.
func (e entry) field(name string) string {
	raw, ok := e.Fields[name]
	if !ok {
		raw, ok = e.Attributes[name]
	}
	if !ok {
		return ""
	}
	return scalar(raw)
}

func (e entry) toRecord(existed bool) catalog.Record {
	r := catalog.Record{
		DocumentID: e.DocumentID,
		ExternalID: e.field(constants.ExternalIDField),
		Existed:    existed,
	}
	if e.ID != nil {
		r.ID = *e.ID
	}
	return r
}

func scalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		return str
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := strconv.ParseInt(n.String(), 10, 64); err == nil {
			return strconv.FormatInt(i, 10)
		}
		return n.String()
	}
	return s
}

type listResponse struct {
	Data []entry `json:"data"`
}

type singleResponse struct {
	Data *entry `json:"data"`
}

type createRequest struct {
	Data map[string]any `json:"data"`
}
