package dto

import "tonotes/model"

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// OAuthURLResponse keeps url at the top level as well, where older clients read it.
type OAuthURLResponse struct {
	OK   bool         `json:"ok"`
	Data OAuthURLData `json:"data"`
	URL  string       `json:"url"`
}

type OAuthURLData struct {
	URL string `json:"url"`
}

type DeletionStatusResponse struct {
	DataSummary model.DataSummary `json:"dataSummary"`
}
