package model

type Badge struct {
	ID          string `json:"id,omitempty"`
	BadgeID     string `json:"badgeId_str"`
	Name        string `json:"name"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description,omitempty"`
	AcquiredAt  string `json:"acquiredAt,omitempty"`
}

type GetMyBadgesRequest struct{}

type GetMyBadgesResponse struct {
	Badges []Badge `json:"badges"`
	Total  int     `json:"total"`
}
