package models

// Attribute is a key/value pair owned by an account.
type Attribute struct {
	ID     string `json:"id"`
	UserID string `json:"user_id,omitempty"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}
