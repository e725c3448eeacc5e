package domain

// Image is a binary blob referenced weakly by Book.CoverImageID and LogEntry.PhotoID.
// A missing image resolves to "no image", never to an error.
type Image struct {
	ID       string `json:"id"`
	Blob     []byte `json:"blob"`
	Type     string `json:"type"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Size     int64  `json:"size"`
	BlurHash string `json:"blurHash,omitempty"`
}
