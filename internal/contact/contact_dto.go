package contact

type SuggestRequest struct {
	Type  string `form:"type" binding:"required,oneof=manager reliever"`
	Query string `form:"q" binding:"max=100"`
}

type ContactResponse struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name,omitempty"`
	UsageCount  int    `json:"usage_count"`
	LastUsed    string `json:"last_used"`
}
