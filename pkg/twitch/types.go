package twitch

import "time"

// User represents a Helix user.
type User struct {
	ID              string    `json:"id"                yaml:"id"`
	Login           string    `json:"login"             yaml:"login"`
	DisplayName     string    `json:"display_name"      yaml:"display_name"`
	Type            string    `json:"type"              yaml:"type"`
	BroadcasterType string    `json:"broadcaster_type"  yaml:"broadcaster_type"`
	Description     string    `json:"description"       yaml:"description"`
	ProfileImageURL string    `json:"profile_image_url" yaml:"profile_image_url"`
	OfflineImageURL string    `json:"offline_image_url" yaml:"offline_image_url"`
	ViewCount       int       `json:"view_count"        yaml:"view_count"`
	Email           string    `json:"email,omitempty"   yaml:"email,omitempty"`
	CreatedAt       time.Time `json:"created_at"        yaml:"created_at"`
}

// UserQuery filters a Helix user lookup. IDs and Logins may each carry
// multiple values and serialize as repeated query parameters.
type UserQuery struct {
	IDs    []string
	Logins []string
}

// Stream represents a live Helix stream.
type Stream struct {
	ID           string    `json:"id"            yaml:"id"`
	UserID       string    `json:"user_id"       yaml:"user_id"`
	UserLogin    string    `json:"user_login"    yaml:"user_login"`
	UserName     string    `json:"user_name"     yaml:"user_name"`
	GameID       string    `json:"game_id"       yaml:"game_id"`
	GameName     string    `json:"game_name"     yaml:"game_name"`
	Type         string    `json:"type"          yaml:"type"`
	Title        string    `json:"title"         yaml:"title"`
	ViewerCount  int       `json:"viewer_count"  yaml:"viewer_count"`
	StartedAt    time.Time `json:"started_at"    yaml:"started_at"`
	Language     string    `json:"language"      yaml:"language"`
	ThumbnailURL string    `json:"thumbnail_url" yaml:"thumbnail_url"`
	IsMature     bool      `json:"is_mature"     yaml:"is_mature"`
}

// StreamQuery filters a Helix stream listing.
type StreamQuery struct {
	UserIDs    []string
	UserLogins []string
	GameIDs    []string
	Languages  []string
	// First limits the page size; zero uses the API default.
	First int
	// After is the pagination cursor from a previous page.
	After string
}

// Game represents a Helix game or category.
type Game struct {
	ID        string `json:"id"         yaml:"id"`
	Name      string `json:"name"       yaml:"name"`
	BoxArtURL string `json:"box_art_url" yaml:"box_art_url"`
	IGDBID    string `json:"igdb_id"    yaml:"igdb_id"`
}

// GameQuery filters a Helix game lookup.
type GameQuery struct {
	IDs   []string
	Names []string
}

// Channel represents a legacy Kraken channel.
type Channel struct {
	ID          string    `json:"_id"          yaml:"id"`
	Name        string    `json:"name"         yaml:"name"`
	DisplayName string    `json:"display_name" yaml:"display_name"`
	Status      string    `json:"status"       yaml:"status"`
	Game        string    `json:"game"         yaml:"game"`
	Language    string    `json:"language"     yaml:"language"`
	Partner     bool      `json:"partner"      yaml:"partner"`
	Views       int       `json:"views"        yaml:"views"`
	Followers   int       `json:"followers"    yaml:"followers"`
	CreatedAt   time.Time `json:"created_at"   yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   yaml:"updated_at"`
}

// ChannelUpdate updates mutable Kraken channel fields. Nil fields are
// left unchanged.
type ChannelUpdate struct {
	Status *string `json:"status,omitempty" yaml:"status,omitempty"`
	Game   *string `json:"game,omitempty"   yaml:"game,omitempty"`
	Delay  *int    `json:"delay,omitempty"  yaml:"delay,omitempty"`
}

// TokenInfo is the introspection response for a valid token.
type TokenInfo struct {
	ClientID  string   `json:"client_id" yaml:"client_id"`
	Login     string   `json:"login"     yaml:"login"`
	Scopes    []string `json:"scopes"    yaml:"scopes"`
	UserID    string   `json:"user_id"   yaml:"user_id"`
	ExpiresIn int      `json:"expires_in" yaml:"expires_in"`
}

// IssuedToken is the token issuance response.
type IssuedToken struct {
	AccessToken  string   `json:"access_token"            yaml:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty" yaml:"refresh_token,omitempty"`
	ExpiresIn    int      `json:"expires_in"              yaml:"expires_in"`
	Scope        []string `json:"scope,omitempty"         yaml:"scope,omitempty"`
	TokenType    string   `json:"token_type"              yaml:"token_type"`
}
