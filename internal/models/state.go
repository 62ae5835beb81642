// internal/models/state.go
package models

// ClientState is one persisted key of a visitor's state.
type ClientState struct {
	BaseModel
	VisitorID string `json:"visitor_id" gorm:"size:64;not null;uniqueIndex:idx_client_state_visitor_key"`
	Key       string `json:"key" gorm:"column:state_key;size:64;not null;uniqueIndex:idx_client_state_visitor_key"`
	Value     string `json:"value" gorm:"type:text;not null"`
}

func (ClientState) TableName() string {
	return "client_states"
}
