package googlebooks

import "github.com/shelfline/shelfline-server/internal/metadata"

// volumesResponse mirrors the subset of the volumes API response we
// request via the fields parameter.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers"`
	Categories          []string             `json:"categories"`
	Description         string               `json:"description"`
	ImageLinks          imageLinks           `json:"imageLinks"`
	PageCount           int                  `json:"pageCount"`
	MaturityRating      string               `json:"maturityRating"`
	Language            string               `json:"language"`
	PublishedDate       string               `json:"publishedDate"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail"`
	Thumbnail      string `json:"thumbnail"`
	Small          string `json:"small"`
	Medium         string `json:"medium"`
	Large          string `json:"large"`
}

// toCandidate converts a raw volume into the provider-neutral candidate.
func (v *volume) toCandidate() metadata.Candidate {
	info := &v.VolumeInfo

	ids := make([]metadata.Identifier, 0, len(info.IndustryIdentifiers))
	for _, id := range info.IndustryIdentifiers {
		ids = append(ids, metadata.Identifier{Type: id.Type, Value: id.Identifier})
	}

	thumbnail := info.ImageLinks.Thumbnail
	if thumbnail == "" {
		thumbnail = info.ImageLinks.SmallThumbnail
	}

	return metadata.Candidate{
		Title:          info.Title,
		Authors:        info.Authors,
		Identifiers:    ids,
		Categories:     info.Categories,
		Description:    info.Description,
		Images: metadata.ImageLinks{
			Thumbnail: thumbnail,
			Small:     info.ImageLinks.Small,
			Medium:    info.ImageLinks.Medium,
			Large:     info.ImageLinks.Large,
		},
		PageCount:      info.PageCount,
		MaturityRating: info.MaturityRating,
		Language:       info.Language,
		PublishedDate:  info.PublishedDate,
	}
}
