package types

// Video is the metadata shown for the video being added. Duration keeps the
// API's ISO-8601 encoding (e.g. PT4M13S).
type Video struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
	Duration     string `json:"duration"`
}

type Playlist struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
