package model

type LoginReq struct {
	// Alias is the requested display name. Sanitized server side.
	Alias string `json:"alias"`
	// Token resumes a previous session when present.
	Token string `json:"token"`
}

type LoginResp struct {
	PlayerId uint32 `json:"playerId"`
	Alias    string `json:"alias"`
	Token    string `json:"token"`
}
