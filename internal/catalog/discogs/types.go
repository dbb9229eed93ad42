package discogs

// searchResponse is the wire shape of /database/search.
type searchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	ID      int    `json:"id"`
	Title   string `json:"title"`
	Year    string `json:"year"`
	Country string `json:"country"`
}

// releaseDetail is the wire shape of /releases/{id}.
type releaseDetail struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Artists  []artistCredit  `json:"artists"`
	Year     int             `json:"year"`
	Released string          `json:"released"`
	Genres   []string        `json:"genres"`
	Labels   []labelCredit   `json:"labels"`
	Formats  []releaseFormat `json:"formats"`
	Images   []releaseImage  `json:"images"`
	URI      string          `json:"uri"`
}

type artistCredit struct {
	Name string `json:"name"`
}

type labelCredit struct {
	Name  string `json:"name"`
	CatNo string `json:"catno"`
}

type releaseFormat struct {
	Name         string   `json:"name"`
	Descriptions []string `json:"descriptions"`
}

type releaseImage struct {
	Type        string `json:"type"`
	URI         string `json:"uri"`
	ResourceURL string `json:"resource_url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}
