package models

// DiscordStatus represents Discord front end status
type DiscordStatus struct {
	BaseResponse
	Enabled       bool         `json:"enabled"`
	State         string       `json:"state"`
	CommandPrefix string       `json:"command_prefix"`
	Uptime        string       `json:"uptime"`
	User          *DiscordUser `json:"user,omitempty"`
	Guilds        int          `json:"guilds,omitempty"`
	Sessions      int          `json:"sessions"`
}

// DiscordUser represents a Discord user
type DiscordUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Bot      bool   `json:"bot"`
}
