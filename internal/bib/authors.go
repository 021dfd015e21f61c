// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bib

import (
	"encoding/json"
	"strings"
)

// dblpAuthors absorbs every shape the DBLP API uses for the authors field
// and normalizes it to an ordered list of display names. The server returns
// one of:
//
//	{"author": "Single Name"}
//	{"author": ["Name One", "Name Two"]}
//	{"author": [{"@pid": "...", "text": "Name One"}, ...]}
//	{"author": {"@pid": "...", "text": "Single Name"}}
//
// Downstream code only ever sees the []string form.
type dblpAuthors struct {
	Names []string
}

// dblpAuthorEntry is a single element of the author field: either a bare
// string or an object carrying the display name in "text".
type dblpAuthorEntry struct {
	Name string
}

func (e *dblpAuthorEntry) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		e.Name = s
		return nil
	}
	var obj struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	e.Name = obj.Text
	return nil
}

func (a *dblpAuthors) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Author json.RawMessage `json:"author"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}
	if len(wrapper.Author) == 0 {
		return nil
	}

	// List form: each element is a string or an object.
	if strings.HasPrefix(strings.TrimSpace(string(wrapper.Author)), "[") {
		var entries []dblpAuthorEntry
		if err := json.Unmarshal(wrapper.Author, &entries); err != nil {
			return err
		}
		for _, e := range entries {
			a.Names = append(a.Names, e.Name)
		}
		return nil
	}

	// Scalar form: one string or one object.
	var entry dblpAuthorEntry
	if err := json.Unmarshal(wrapper.Author, &entry); err != nil {
		return err
	}
	a.Names = []string{entry.Name}
	return nil
}
