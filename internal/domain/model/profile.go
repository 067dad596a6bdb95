package model

// Profile is the public portfolio payload served to the frontend. The site
// is single-owner, so the content is static server-side.
type Profile struct {
	Name   string   `json:"name"`
	Title  string   `json:"title"`
	Skills []string `json:"skills"`
	About  string   `json:"about"`
}
