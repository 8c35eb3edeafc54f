package model

// Document is a flexible map representing a JSON document.
// The documentID is the only required field for document identification.
// Other fields like "title", "body", etc., are accessed by their string keys
// and depend on index configuration.
type Document map[string]interface{}

// GetDocumentID returns the documentID if it's stored in the document map under "documentID" key.
func (d Document) GetDocumentID() (string, bool) {
	if id, ok := d["documentID"]; ok {
		if str, sok := id.(string); sok {
			if str != "" {
				return str, true
			}
		}
	}
	return "", false
}
