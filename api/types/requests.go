package types

// GenerateRequest is the optional body of POST /api/videos/generate
type GenerateRequest struct {
	Query        string `json:"query,omitempty" example:"finance trending topics"`
	Voice        string `json:"voice,omitempty" example:"baby"`               // baby, toddler or narrator
	Visual       string `json:"visual,omitempty" example:"cute_baby"`         // cute_baby, cartoon or nursery
	CaptionStyle string `json:"caption_style,omitempty" example:"viral_meme"` // viral_meme or high_contrast
}
