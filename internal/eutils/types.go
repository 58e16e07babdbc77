package eutils

// Abstract is one (PMID, text) pair returned by FetchAbstracts. Articles
// without abstract text are dropped during retrieval. The tagged fields
// are empty for fetched abstracts; entity-tagged corpora populate them.
type Abstract struct {
	PMID        string `json:"pmid"`
	Text        string `json:"text"`
	TaggedDrugs string `json:"tagged_drugs,omitempty"`
	Concepts    string `json:"concepts,omitempty"`
}

// SearchResult is the outcome of an ESearch query.
type SearchResult struct {
	Count            int      `json:"count"`
	IDs              []string `json:"ids"`
	QueryTranslation string   `json:"query_translation,omitempty"`
}

// SearchOptions configures an ESearch query.
type SearchOptions struct {
	// Limit caps the number of returned PMIDs. Defaults to DefaultRetMax.
	Limit int    `json:"limit,omitempty"`
	Sort  string `json:"sort,omitempty"`
}

// DefaultRetMax is the PMID cap applied when SearchOptions.Limit is zero.
const DefaultRetMax = 1000
